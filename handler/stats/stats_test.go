package stats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mager/melodiary/firestore"
	"github.com/mager/melodiary/logger"
	"github.com/mager/melodiary/melodiary"
	"github.com/mager/melodiary/session"
)

type fakeStore struct {
	entries []melodiary.DiaryEntry
	recs    []melodiary.Recommendation
	listErr error
	saveErr error
	saved   *melodiary.UserStats
}

func (f *fakeStore) GetDiaryEntries(ctx context.Context, userID string, limit int) ([]melodiary.DiaryEntry, error) {
	return f.entries, f.listErr
}

func (f *fakeStore) GetRecommendations(ctx context.Context, userID string, limit int) ([]melodiary.Recommendation, error) {
	return f.recs, nil
}

func (f *fakeStore) SaveUserStats(ctx context.Context, st melodiary.UserStats) error {
	f.saved = &st
	return f.saveErr
}

func TestStatsHandler(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		store      *fakeStore
		userID     string
		wantStatus int
		wantSaved  bool
	}{
		{
			name: "computed and cached",
			store: &fakeStore{
				entries: []melodiary.DiaryEntry{{ID: "e1", Date: "2024-03-09"}, {ID: "e2", Date: "2024-03-08"}},
				recs:    []melodiary.Recommendation{{ID: "r1", Feedback: &melodiary.Feedback{Liked: true}}},
			},
			userID:     "u1",
			wantStatus: http.StatusOK,
			wantSaved:  true,
		},
		{
			name:       "cache failure still answers",
			store:      &fakeStore{saveErr: errors.New("quota")},
			userID:     "u1",
			wantStatus: http.StatusOK,
			wantSaved:  true,
		},
		{
			name:       "store unavailable",
			store:      &fakeStore{listErr: firestore.ErrUnavailable},
			userID:     "u1",
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "no session",
			store:      &fakeStore{},
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, _ := logger.NewTestLogger()
			h := &StatsHandler{log: log, store: tt.store, now: func() time.Time { return now }}

			req := httptest.NewRequest(http.MethodGet, "/stats", nil)
			if tt.userID != "" {
				req = req.WithContext(session.WithUserID(req.Context(), tt.userID))
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d want %d (%s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if (tt.store.saved != nil) != tt.wantSaved {
				t.Errorf("saved: got %v want %v", tt.store.saved != nil, tt.wantSaved)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var st melodiary.UserStats
			if err := json.Unmarshal(rr.Body.Bytes(), &st); err != nil {
				t.Fatal(err)
			}
			if st.UserID != "u1" || st.TotalDiaryEntries != len(tt.store.entries) {
				t.Errorf("stats: got %+v", st)
			}
		})
	}
}

func TestStatsHandlerStreak(t *testing.T) {
	log, _ := logger.NewTestLogger()
	at := func(d int) time.Time { return time.Date(2024, 3, d, 9, 0, 0, 0, time.UTC) }
	store := &fakeStore{
		entries: []melodiary.DiaryEntry{{CreatedAt: at(9)}, {CreatedAt: at(8)}, {CreatedAt: at(7)}},
		recs:    []melodiary.Recommendation{{Feedback: &melodiary.Feedback{Liked: true}}, {}},
	}
	h := &StatsHandler{log: log, store: store, now: func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }}

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req = req.WithContext(session.WithUserID(req.Context(), "u1"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	if store.saved == nil {
		t.Fatal("stats were not cached")
	}
	if store.saved.CurrentStreak != 3 || store.saved.TotalSongsLiked != 1 {
		t.Errorf("stats: got streak %d liked %d", store.saved.CurrentStreak, store.saved.TotalSongsLiked)
	}
}
