package emotion

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/mager/melodiary/config"
	"github.com/mager/melodiary/logger"
	"go.uber.org/zap/zapcore"
)

type fakeCompleter struct {
	output string
	err    error
	calls  int
	system string
	prompt string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	f.system = system
	f.prompt = prompt
	return f.output, f.err
}

func TestNewAnalyzerMode(t *testing.T) {
	log, _ := logger.NewTestLogger()

	tests := []struct {
		name      string
		completer Completer
		status    config.CredentialStatus
		want      Mode
	}{
		{name: "configured", completer: &fakeCompleter{}, status: config.Configured, want: ModeLLM},
		{name: "placeholder", completer: &fakeCompleter{}, status: config.PlaceholderDetected, want: ModeHeuristic},
		{name: "unconfigured", completer: &fakeCompleter{}, status: config.Unconfigured, want: ModeHeuristic},
		{name: "no completer", completer: nil, status: config.Configured, want: ModeHeuristic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewAnalyzer(log, tt.completer, tt.status).Mode(); got != tt.want {
				t.Errorf("mode: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	log, _ := logger.NewTestLogger()
	a := NewAnalyzer(log, nil, config.Unconfigured)

	_, err := a.Analyze(context.Background(), "   ", nil)
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}

	profile, err := a.Analyze(context.Background(), "", []string{"https://example.com/p.jpg"})
	if err != nil {
		t.Fatalf("photos only should be accepted, got %v", err)
	}
	if profile.PrimaryEmotion != Calm {
		t.Errorf("expected calm for photo-only entry, got %v", profile.PrimaryEmotion)
	}
}

func TestAnalyzeLLM(t *testing.T) {
	completer := &fakeCompleter{
		output: `{"emotions":{"primary":"Happy","secondary":"excited","intensity":8},"keywords":["散歩"," 晴れ ",""],"mood":"happy","musicRecommendationContext":"晴れやかな一日"}`,
	}
	log, _ := logger.NewTestLogger()
	a := NewAnalyzer(log, completer, config.Configured)

	got, err := a.Analyze(context.Background(), "今日は散歩して嬉しかった", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completer.calls != 1 {
		t.Fatalf("expected one completion call, got %d", completer.calls)
	}
	if completer.system != systemInstruction {
		t.Errorf("system instruction mismatch")
	}
	if !strings.Contains(completer.prompt, "今日は散歩して嬉しかった") {
		t.Errorf("prompt does not embed the diary text: %q", completer.prompt)
	}

	want := EmotionProfile{
		PrimaryEmotion:        Happy,
		SecondaryEmotion:      Excited,
		Intensity:             8,
		Keywords:              []string{"散歩", "晴れ"},
		Mood:                  Happy,
		RecommendationContext: "晴れやかな一日",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("profile:\n got %+v\nwant %+v", got, want)
	}
}

func TestAnalyzeLLMMalformedOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{name: "not json", output: "I think the writer is happy."},
		{name: "truncated json", output: `{"emotions":{"primary":"happy"`},
		{name: "unknown emotion", output: `{"emotions":{"primary":"angry","intensity":6},"keywords":["仕事"],"mood":"angry"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, recorded := logger.NewTestLogger()
			a := NewAnalyzer(log, &fakeCompleter{output: tt.output}, config.Configured)

			got, err := a.Analyze(context.Background(), "日記", nil)
			if err != nil {
				t.Fatalf("malformed output must not surface as an error, got %v", err)
			}
			if !reflect.DeepEqual(got, defaultProfile()) {
				t.Errorf("expected default profile, got %+v", got)
			}
			if recorded.FilterLevelExact(zapcore.WarnLevel).Len() != 1 {
				t.Errorf("expected one warn log, got %d", recorded.FilterLevelExact(zapcore.WarnLevel).Len())
			}
		})
	}
}

func TestAnalyzeLLMCallFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	log, _ := logger.NewTestLogger()
	a := NewAnalyzer(log, &fakeCompleter{err: cause}, config.Configured)

	_, err := a.Analyze(context.Background(), "日記", nil)
	var analysisErr *AnalysisError
	if !errors.As(err, &analysisErr) {
		t.Fatalf("expected *AnalysisError, got %T (%v)", err, err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

func TestParseCompletion(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want EmotionProfile
	}{
		{
			name: "fenced output",
			raw:  "```json\n{\"emotions\":{\"primary\":\"sad\",\"intensity\":4},\"keywords\":[\"雨\"],\"mood\":\"sad\",\"musicRecommendationContext\":\"雨の日\"}\n```",
			want: EmotionProfile{PrimaryEmotion: Sad, Intensity: 4, Keywords: []string{"雨"}, Mood: Sad, RecommendationContext: "雨の日"},
		},
		{
			name: "secondary equal to primary is dropped",
			raw:  `{"emotions":{"primary":"calm","secondary":"calm","intensity":3},"keywords":["読書"],"mood":"calm","musicRecommendationContext":"静かな夜"}`,
			want: EmotionProfile{PrimaryEmotion: Calm, Intensity: 3, Keywords: []string{"読書"}, Mood: Calm, RecommendationContext: "静かな夜"},
		},
		{
			name: "intensity clamped and keywords capped",
			raw:  `{"emotions":{"primary":"energetic","intensity":14},"keywords":["a","b","c","d","e","f"],"mood":"excited","musicRecommendationContext":"x"}`,
			want: EmotionProfile{PrimaryEmotion: Energetic, Intensity: 10, Keywords: []string{"a", "b", "c", "d", "e"}, Mood: Energetic, RecommendationContext: "x"},
		},
		{
			name: "missing keywords and context",
			raw:  `{"emotions":{"primary":"nostalgic","intensity":0}}`,
			want: EmotionProfile{PrimaryEmotion: Nostalgic, Intensity: 1, Keywords: []string{"日常", "気持ち"}, Mood: Nostalgic, RecommendationContext: "日常、気持ちについて書かれた今日の懐かしい気持ちに響く音楽を。"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCompletion(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("\n got %+v\nwant %+v", got, tt.want)
			}
		})
	}
}
