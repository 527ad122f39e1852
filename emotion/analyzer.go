package emotion

import (
	"context"
	"errors"
	"strings"

	"github.com/mager/melodiary/config"
	"github.com/mager/melodiary/openai"
	"go.uber.org/zap"
)

// ErrEmptyInput is returned when there is neither text nor a photo to read.
var ErrEmptyInput = errors.New("no content to analyze")

// Completer sends one instruction/prompt pair to a text-completion service.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Mode names the strategy an Analyzer was built with.
type Mode string

const (
	ModeLLM       Mode = "llm"
	ModeHeuristic Mode = "heuristic"
)

// Analyzer turns diary text into an EmotionProfile.
type Analyzer struct {
	log       *zap.SugaredLogger
	completer Completer
	mode      Mode
}

// NewAnalyzer builds an Analyzer. LLM mode is used only when completer is
// non-nil and status is usable.
func NewAnalyzer(log *zap.SugaredLogger, completer Completer, status config.CredentialStatus) *Analyzer {
	mode := ModeHeuristic
	if completer != nil && status.Usable() {
		mode = ModeLLM
	}
	return &Analyzer{log: log, completer: completer, mode: mode}
}

// ProvideAnalyzer wires the analyzer from the shared OpenAI client.
func ProvideAnalyzer(log *zap.SugaredLogger, client *openai.OpenAIClient, svc config.Services) *Analyzer {
	a := NewAnalyzer(log, client, svc.OpenAI)
	log.Infow("emotion analyzer ready", "mode", a.mode, "openai", svc.OpenAI.String(), "vocabulary", VocabularyVersion)
	return a
}

// Mode reports which strategy Analyze uses.
func (a *Analyzer) Mode() Mode {
	return a.mode
}

// Analyze reads content (and optionally photos) and returns its profile.
// Malformed model output yields the default profile; only a failed call to
// the completion service is returned as an *AnalysisError.
func (a *Analyzer) Analyze(ctx context.Context, content string, photos []string) (EmotionProfile, error) {
	if strings.TrimSpace(content) == "" && len(photos) == 0 {
		return EmotionProfile{}, ErrEmptyInput
	}

	if a.mode == ModeHeuristic {
		profile := analyzeHeuristic(content)
		a.log.Debugw("heuristic analysis", "primary", profile.PrimaryEmotion, "intensity", profile.Intensity, "photos", len(photos))
		return profile, nil
	}

	raw, err := a.completer.Complete(ctx, systemInstruction, buildPrompt(content))
	if err != nil {
		a.log.Errorw("completion call failed", "error", err)
		return EmotionProfile{}, &AnalysisError{Err: err}
	}

	profile, err := parseCompletion(raw)
	if err != nil {
		a.log.Warnw("unusable completion output, using default profile", "error", err)
		return defaultProfile(), nil
	}

	a.log.Debugw("llm analysis", "primary", profile.PrimaryEmotion, "intensity", profile.Intensity, "photos", len(photos))
	return profile, nil
}

var Options = ProvideAnalyzer
