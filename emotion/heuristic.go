package emotion

import (
	"strings"
	"unicode/utf8"
)

var contextTemplates = map[Emotion]string{
	Happy:       "明るく楽しい気持ちが伝わってきます。",
	Sad:         "少し沈んだ気持ちに寄り添う音楽を。",
	Excited:     "高揚した気分をさらに盛り上げる音楽を。",
	Calm:        "落ち着いた気持ちでリラックスできる音楽を。",
	Nostalgic:   "懐かしい気持ちに響く音楽を。",
	Energetic:   "エネルギッシュな気分にぴったりの音楽を。",
	Melancholic: "物思いにふける時間に合う音楽を。",
}

// analyzeHeuristic scores content against the local vocabulary. The result
// depends only on content.
func analyzeHeuristic(content string) EmotionProfile {
	text := strings.ToLower(content)

	scores := scoreEmotions(text)

	primary := Calm
	best := 0
	for _, e := range emotionOrder {
		if scores[e] > best {
			best = scores[e]
			primary = e
		}
	}

	var secondary Emotion
	for _, e := range emotionOrder {
		if e != primary && scores[e] > 0 {
			secondary = e
			break
		}
	}

	keywords := extractKeywords(text)
	intensity := clampIntensity(utf8.RuneCountInString(content)/50 + best*2 + 3)

	return EmotionProfile{
		PrimaryEmotion:        primary,
		SecondaryEmotion:      secondary,
		Intensity:             intensity,
		Keywords:              keywords,
		Mood:                  primary,
		RecommendationContext: contextMessage(primary, keywords),
	}
}

// scoreEmotions counts distinct triggers present in text.
func scoreEmotions(text string) map[Emotion]int {
	scores := make(map[Emotion]int, len(emotionOrder))
	for _, e := range emotionOrder {
		for _, trigger := range emotionTriggers[e] {
			if strings.Contains(text, trigger) {
				scores[e]++
			}
		}
	}
	return scores
}

func extractKeywords(text string) []string {
	var keywords []string
	for _, t := range topicTags {
		for _, trigger := range t.Triggers {
			if strings.Contains(text, trigger) {
				keywords = append(keywords, t.Tag)
				break
			}
		}
	}
	if len(keywords) == 0 {
		return GenericKeywords()
	}
	return keywords
}

func contextMessage(e Emotion, keywords []string) string {
	tmpl, ok := contextTemplates[e]
	if !ok {
		tmpl = contextTemplates[Calm]
	}

	var prefix string
	if len(keywords) > 0 {
		prefix = strings.Join(keywords, "、") + "について書かれた"
	}
	return prefix + "今日の" + tmpl
}
