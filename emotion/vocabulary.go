package emotion

// VocabularyVersion identifies the trigger, tag and genre tables below.
// Bump it whenever a table changes so stored profiles can be traced back.
const VocabularyVersion = "2024.1"

// emotionOrder is the declaration order used for tie-breaking.
var emotionOrder = []Emotion{Happy, Sad, Excited, Calm, Nostalgic, Energetic, Melancholic}

var emotionTriggers = map[Emotion][]string{
	Happy:       {"嬉しい", "楽しい", "幸せ", "最高", "爽快", "笑顔", "ワクワク", "喜び"},
	Sad:         {"悲しい", "辛い", "落ち込", "泣い", "寂しい", "憂鬱", "沈ん"},
	Excited:     {"興奮", "ドキドキ", "わくわく", "楽しみ", "テンション"},
	Calm:        {"落ち着", "静か", "穏やか", "平和", "リラックス", "癒"},
	Nostalgic:   {"懐かし", "昔", "思い出", "昔ながら", "古い"},
	Energetic:   {"元気", "パワー", "活力", "頑張", "やる気", "運動"},
	Melancholic: {"物思い", "しみじみ", "センチ", "切ない"},
}

// TopicTag is a keyword emitted by the analyzer when any trigger appears.
type TopicTag struct {
	Tag      string
	Triggers []string
}

var topicTags = []TopicTag{
	// activities
	{Tag: "散歩", Triggers: []string{"散歩", "歩い", "ウォーキング"}},
	{Tag: "仕事", Triggers: []string{"仕事", "会社", "オフィス", "職場"}},
	{Tag: "友達", Triggers: []string{"友達", "友人", "仲間"}},
	{Tag: "家族", Triggers: []string{"家族", "母", "父", "兄", "姉", "弟", "妹"}},
	{Tag: "勉強", Triggers: []string{"勉強", "学習", "読書", "本"}},
	{Tag: "運動", Triggers: []string{"運動", "ジム", "スポーツ", "ランニング"}},
	{Tag: "料理", Triggers: []string{"料理", "作っ", "食べ", "レシピ"}},
	{Tag: "映画", Triggers: []string{"映画", "映像", "動画", "ドラマ"}},
	{Tag: "音楽", Triggers: []string{"音楽", "歌", "演奏", "コンサート"}},
	{Tag: "旅行", Triggers: []string{"旅行", "旅", "観光", "温泉"}},
	// environment
	{Tag: "晴れ", Triggers: []string{"晴れ", "太陽", "日光", "青空"}},
	{Tag: "雨", Triggers: []string{"雨", "雨降", "濡れ"}},
	{Tag: "桜", Triggers: []string{"桜", "花見"}},
	{Tag: "自然", Triggers: []string{"自然", "緑", "花", "木"}},
	{Tag: "海", Triggers: []string{"海", "ビーチ", "波"}},
	{Tag: "山", Triggers: []string{"山", "登山", "ハイキング"}},
}

var genericKeywords = []string{"日常", "気持ち"}

var moodGenres = map[Emotion][]string{
	Happy:       {"pop", "dance", "funk", "soul"},
	Sad:         {"acoustic", "indie", "folk", "blues"},
	Excited:     {"electronic", "rock", "pop", "dance"},
	Calm:        {"ambient", "jazz", "classical", "acoustic"},
	Nostalgic:   {"indie", "folk", "classic rock", "oldies"},
	Energetic:   {"rock", "electronic", "hip-hop", "dance"},
	Melancholic: {"indie", "alternative", "acoustic", "folk"},
}

var defaultGenres = []string{"pop"}

var coverColors = map[Emotion]string{
	Happy:       "FFD700",
	Sad:         "87CEEB",
	Excited:     "FF6347",
	Calm:        "98FB98",
	Nostalgic:   "DDA0DD",
	Energetic:   "FF4500",
	Melancholic: "9370DB",
}

// Emotions returns every emotion in declaration order.
func Emotions() []Emotion {
	return append([]Emotion(nil), emotionOrder...)
}

// Triggers returns the trigger substrings for e.
func Triggers(e Emotion) []string {
	return append([]string(nil), emotionTriggers[e]...)
}

// TopicTags returns the topic tag table in scan order.
func TopicTags() []TopicTag {
	out := make([]TopicTag, len(topicTags))
	for i, t := range topicTags {
		out[i] = TopicTag{Tag: t.Tag, Triggers: append([]string(nil), t.Triggers...)}
	}
	return out
}

// GenericKeywords returns the keywords used when no topic tag matches.
func GenericKeywords() []string {
	return append([]string(nil), genericKeywords...)
}

// IsGenericKeywords reports whether keywords is empty or exactly the
// generic fallback pair.
func IsGenericKeywords(keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	if len(keywords) != len(genericKeywords) {
		return false
	}
	for i, k := range keywords {
		if k != genericKeywords[i] {
			return false
		}
	}
	return true
}

// GenresFor returns the ranked candidate genres for a mood. Unknown moods
// map to pop.
func GenresFor(mood Emotion) []string {
	if g, ok := moodGenres[mood]; ok {
		return append([]string(nil), g...)
	}
	return append([]string(nil), defaultGenres...)
}

// CoverColor returns the placeholder artwork colour for a mood, falling back
// to the calm colour.
func CoverColor(mood Emotion) string {
	if c, ok := coverColors[mood]; ok {
		return c
	}
	return coverColors[Calm]
}
