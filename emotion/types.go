package emotion

import "strings"

// Emotion is one of the fixed moods a diary entry can be read as.
type Emotion string

const (
	Happy       Emotion = "happy"
	Sad         Emotion = "sad"
	Excited     Emotion = "excited"
	Calm        Emotion = "calm"
	Nostalgic   Emotion = "nostalgic"
	Energetic   Emotion = "energetic"
	Melancholic Emotion = "melancholic"
)

// Valid reports whether e belongs to the enumeration.
func (e Emotion) Valid() bool {
	_, ok := emotionTriggers[e]
	return ok
}

// ParseEmotion normalises s and reports whether it names a known emotion.
func ParseEmotion(s string) (Emotion, bool) {
	e := Emotion(strings.ToLower(strings.TrimSpace(s)))
	return e, e.Valid()
}

// EmotionProfile is the structured read of a diary entry.
type EmotionProfile struct {
	PrimaryEmotion        Emotion  `json:"primaryEmotion" firestore:"primaryEmotion"`
	SecondaryEmotion      Emotion  `json:"secondaryEmotion,omitempty" firestore:"secondaryEmotion,omitempty"`
	Intensity             int      `json:"intensity" firestore:"intensity"`
	Keywords              []string `json:"keywords" firestore:"keywords"`
	Mood                  Emotion  `json:"mood" firestore:"mood"`
	RecommendationContext string   `json:"recommendationContext" firestore:"recommendationContext"`
}

// AnalysisError is returned when the completion service could not be called.
// Malformed model output never produces one.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return "analysis failed: " + e.Err.Error()
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

const (
	minIntensity = 1
	maxIntensity = 10
)

func clampIntensity(v int) int {
	if v < minIntensity {
		return minIntensity
	}
	if v > maxIntensity {
		return maxIntensity
	}
	return v
}
