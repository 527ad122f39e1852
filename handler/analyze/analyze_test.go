package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mager/melodiary/config"
	"github.com/mager/melodiary/emotion"
	"github.com/mager/melodiary/logger"
	"github.com/mager/melodiary/util"
)

type failingAnalyzer struct{ err error }

func (f failingAnalyzer) Analyze(ctx context.Context, content string, photos []string) (emotion.EmotionProfile, error) {
	return emotion.EmotionProfile{}, f.err
}

func TestAnalyzeHandler(t *testing.T) {
	log, _ := logger.NewTestLogger()
	heuristic := emotion.NewAnalyzer(log, nil, config.Unconfigured)

	tests := []struct {
		name        string
		analyzer    Analyzer
		body        string
		wantStatus  int
		wantPrimary emotion.Emotion
		wantError   string
	}{
		{
			name:        "heuristic happy",
			analyzer:    heuristic,
			body:        `{"content":"今日は嬉しいことがあって散歩した"}`,
			wantStatus:  http.StatusOK,
			wantPrimary: emotion.Happy,
		},
		{
			name:       "empty content",
			analyzer:   heuristic,
			body:       `{"content":"","photos":[]}`,
			wantStatus: http.StatusBadRequest,
			wantError:  msgNoContent,
		},
		{
			name:       "bad json",
			analyzer:   heuristic,
			body:       `{"content":`,
			wantStatus: http.StatusBadRequest,
			wantError:  msgNoContent,
		},
		{
			name:       "completion failure",
			analyzer:   failingAnalyzer{err: &emotion.AnalysisError{Err: errors.New("timeout")}},
			body:       `{"content":"hello"}`,
			wantStatus: http.StatusInternalServerError,
			wantError:  msgAnalysisError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &AnalyzeHandler{log: log, analyzer: tt.analyzer}
			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()

			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d want %d (%s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantError != "" {
				var resp util.ErrorResponse
				if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
					t.Fatal(err)
				}
				if resp.Error != tt.wantError {
					t.Errorf("error: got %q want %q", resp.Error, tt.wantError)
				}
				return
			}

			var profile emotion.EmotionProfile
			if err := json.Unmarshal(rr.Body.Bytes(), &profile); err != nil {
				t.Fatal(err)
			}
			if profile.PrimaryEmotion != tt.wantPrimary {
				t.Errorf("primary: got %q want %q", profile.PrimaryEmotion, tt.wantPrimary)
			}
			if profile.Mood != profile.PrimaryEmotion {
				t.Errorf("mood %q should mirror primary %q", profile.Mood, profile.PrimaryEmotion)
			}
		})
	}
}
