package music

import (
	"fmt"
	"strings"

	"github.com/mager/melodiary/emotion"
)

// Catalog-search templates take (artist, title).
var searchReasonTemplates = map[emotion.Emotion][]string{
	emotion.Happy: {
		"今日の明るい気持ちに合わせて、%[1]sの「%[2]s」はいかがでしょうか。きっと心が弾むような音楽体験になると思います。",
		"あなたの嬉しそうな様子が伝わってきて、%[1]sの「%[2]s」を思い浮かべました。この楽曲があなたの幸せな気分をさらに盛り上げてくれるはずです。",
	},
	emotion.Sad: {
		"少し沈んだ気持ちの時は、%[1]sの「%[2]s」のような優しい音楽がそっと心に寄り添ってくれます。",
		"今の気持ちを大切にしながら、%[1]sの「%[2]s」と一緒に静かな時間を過ごしてみませんか。",
	},
	emotion.Excited: {
		"あなたの興奮した気持ちが伝わってきます！%[1]sの「%[2]s」で、その高揚感をさらに高めてみてください。",
		"エネルギッシュなあなたにぴったりの%[1]sの「%[2]s」をお勧めします。きっと気持ちが昂ります。",
	},
	emotion.Calm: {
		"穏やかな気持ちの今、%[1]sの「%[2]s」のような落ち着いた音楽で心を癒してください。",
		"リラックスしたいあなたに、%[1]sの「%[2]s」はまさにぴったりの楽曲だと思います。",
	},
	emotion.Nostalgic: {
		"懐かしい気持ちになっているあなたに、%[1]sの「%[2]s」をお届けします。きっと心に響くメロディーです。",
		"ノスタルジックな今の気分に、%[1]sの「%[2]s」が寄り添ってくれることでしょう。",
	},
	emotion.Energetic: {
		"元気いっぱいのあなたに、%[1]sの「%[2]s」でさらにパワーアップしてもらいましょう！",
		"活力に満ちたあなたにぴったりの%[1]sの「%[2]s」。この勢いで今日を駆け抜けてください。",
	},
	emotion.Melancholic: {
		"少し物思いにふけっているあなたに、%[1]sの「%[2]s」を聴いてもらいたいです。心に染みる音楽です。",
		"センチメンタルな気分の時こそ、%[1]sの「%[2]s」のような美しい音楽がそばにいてくれます。",
	},
}

// Local-catalog templates take (artist, title, genre).
var localReasonTemplates = map[emotion.Emotion][]string{
	emotion.Happy: {
		"今日の明るい気持ちに%[1]sの「%[2]s」がぴったりですね。%[3]sの軽やかなサウンドが、あなたの幸せな気分をさらに高めてくれるでしょう。",
		"嬉しそうな様子が伝わってきます！%[1]sの「%[2]s」で、その素晴らしい気持ちを音楽と一緒に味わってください。",
	},
	emotion.Sad: {
		"少し沈んだ気持ちの今、%[1]sの「%[2]s」が優しく寄り添ってくれます。%[3]sの温かい音色が心を癒してくれるはずです。",
		"今の気持ちを大切にしながら、%[1]sの「%[2]s」と一緒に静かな時間を過ごしませんか。",
	},
	emotion.Excited: {
		"高揚した気持ちが伝わってきます！%[1]sの「%[2]s」で、その興奮をさらに盛り上げましょう。エネルギッシュな%[3]sがぴったりです。",
		"ワクワクした気持ちに%[1]sの「%[2]s」がマッチしますね。この勢いで素晴らしい一日を！",
	},
	emotion.Calm: {
		"穏やかな気持ちの今、%[1]sの「%[2]s」で心地よい時間をお過ごしください。%[3]sの落ち着いたサウンドが完璧です。",
		"リラックスした気分に%[1]sの「%[2]s」が寄り添います。ゆっくりとした時の流れを音楽と共に。",
	},
	emotion.Nostalgic: {
		"懐かしい気持ちになっているあなたに、%[1]sの「%[2]s」をお届けします。心に響く%[3]sのメロディーをお楽しみください。",
		"ノスタルジックな今の気分に、%[1]sの「%[2]s」がそっと寄り添ってくれることでしょう。",
	},
	emotion.Energetic: {
		"元気いっぱいのあなたに%[1]sの「%[2]s」でさらにパワーアップ！%[3]sの力強いサウンドが背中を押してくれます。",
		"活力に満ちた気持ちに%[1]sの「%[2]s」がぴったりです。この調子で今日も頑張りましょう！",
	},
	emotion.Melancholic: {
		"少し物思いにふけっている今、%[1]sの「%[2]s」が心に染み入ります。%[3]sの美しいサウンドをゆっくりとお聴きください。",
		"センチメンタルな気持ちに%[1]sの「%[2]s」が寄り添います。深い余韻をお楽しみください。",
	},
}

const (
	strongFeelingSuffix = " 強い感情が伝わってくるので、きっと心に響くと思います。"
	quietFeelingSuffix  = " 静かな気持ちに合わせて選びました。"
)

func templatesFor(table map[emotion.Emotion][]string, mood emotion.Emotion) []string {
	if t, ok := table[mood]; ok {
		return t
	}
	return table[emotion.Calm]
}

func searchReason(p Picker, mood emotion.Emotion, artist, title string) string {
	return fmt.Sprintf(pickString(p, templatesFor(searchReasonTemplates, mood)), artist, title)
}

func localReason(p Picker, mood emotion.Emotion, keywords []string, intensity int, song CatalogSong) string {
	reason := templateReason(p, mood, song)

	if !emotion.IsGenericKeywords(keywords) {
		reason = strings.Join(keywords, "や") + "について書かれた日記から、" + reason
	}

	switch {
	case intensity >= 8:
		reason += strongFeelingSuffix
	case intensity <= 3:
		reason += quietFeelingSuffix
	}
	return reason
}

// Templates address their arguments by index, so unused ones are ignored.
func templateReason(p Picker, mood emotion.Emotion, song CatalogSong) string {
	return fmt.Sprintf(pickString(p, templatesFor(localReasonTemplates, mood)), song.Artist, song.Title, song.Genre)
}
