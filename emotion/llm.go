package emotion

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

const systemInstruction = "あなたは感情分析の専門家です。日記の内容から人の感情や気分を正確に分析し、音楽推薦に適した情報を抽出してください。必ず有効なJSONを返してください。"

const promptTemplate = `以下の日記の内容を分析して、その人の感情や気分を詳細に分析してください。
分析結果は以下のJSON形式で、JSONオブジェクトひとつだけを返してください：

{
  "emotions": {
    "primary": "主要な感情（happy, sad, excited, calm, nostalgic, energetic, melancholic のいずれか）",
    "secondary": "副次的な感情（あれば。同じ候補から、primaryとは異なるもの）",
    "intensity": 感情の強度（1-10の整数）
  },
  "keywords": ["キーワードを1〜5個"],
  "mood": "全体的な気分（primaryと同じ候補から）",
  "musicRecommendationContext": "この感情に基づいて音楽を提案するための一文"
}

日記の内容：
%s
`

const maxKeywords = 5

// defaultProfile is substituted when the model output cannot be used.
func defaultProfile() EmotionProfile {
	return EmotionProfile{
		PrimaryEmotion:        Calm,
		Intensity:             5,
		Keywords:              []string{"日記", "感情"},
		Mood:                  Calm,
		RecommendationContext: "リラックスできる音楽をお探しのようですね。",
	}
}

func buildPrompt(content string) string {
	return fmt.Sprintf(promptTemplate, content)
}

type completionOutput struct {
	Emotions struct {
		Primary   string  `json:"primary"`
		Secondary string  `json:"secondary"`
		Intensity float64 `json:"intensity"`
	} `json:"emotions"`
	Keywords []string `json:"keywords"`
	// Mood is requested for the model's benefit; the profile's mood always
	// mirrors the primary emotion.
	Mood    string `json:"mood"`
	Context string `json:"musicRecommendationContext"`
}

var errUnknownPrimary = errors.New("unknown primary emotion")

// parseCompletion extracts the JSON object from raw model output and
// normalises it into a profile.
func parseCompletion(raw string) (EmotionProfile, error) {
	clean := strings.TrimSpace(raw)
	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start >= 0 && end > start {
		clean = clean[start : end+1]
	}

	var out completionOutput
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return EmotionProfile{}, fmt.Errorf("failed to parse completion: %w", err)
	}

	primary, ok := ParseEmotion(out.Emotions.Primary)
	if !ok {
		return EmotionProfile{}, fmt.Errorf("%w: %q", errUnknownPrimary, out.Emotions.Primary)
	}

	profile := EmotionProfile{
		PrimaryEmotion:        primary,
		Intensity:             clampIntensity(int(math.Round(out.Emotions.Intensity))),
		Mood:                  primary,
		RecommendationContext: strings.TrimSpace(out.Context),
	}

	if secondary, ok := ParseEmotion(out.Emotions.Secondary); ok && secondary != primary {
		profile.SecondaryEmotion = secondary
	}

	for _, k := range out.Keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		profile.Keywords = append(profile.Keywords, k)
		if len(profile.Keywords) == maxKeywords {
			break
		}
	}
	if len(profile.Keywords) == 0 {
		profile.Keywords = GenericKeywords()
	}

	if profile.RecommendationContext == "" {
		profile.RecommendationContext = contextMessage(primary, profile.Keywords)
	}

	return profile, nil
}
