package diary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/mager/melodiary/emotion"
	"github.com/mager/melodiary/firestore"
	"github.com/mager/melodiary/handler/recommend"
	"github.com/mager/melodiary/logger"
	"github.com/mager/melodiary/melodiary"
	"github.com/mager/melodiary/music"
	"github.com/mager/melodiary/session"
)

type fakeStore struct {
	entries   map[string]melodiary.DiaryEntry
	recs      []melodiary.Recommendation
	deleted   []string
	listLimit int
	createErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]melodiary.DiaryEntry{}}
}

func (f *fakeStore) CreateDiaryEntry(ctx context.Context, e melodiary.DiaryEntry) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	e.ID = "entry_1"
	f.entries[e.ID] = e
	return e.ID, nil
}

func (f *fakeStore) GetDiaryEntries(ctx context.Context, userID string, limit int) ([]melodiary.DiaryEntry, error) {
	f.listLimit = limit
	var out []melodiary.DiaryEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) GetDiaryEntry(ctx context.Context, id string) (melodiary.DiaryEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return melodiary.DiaryEntry{}, firestore.ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) DeleteDiaryEntry(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.entries, id)
	return nil
}

func (f *fakeStore) CreateRecommendation(ctx context.Context, r melodiary.Recommendation) (string, error) {
	f.recs = append(f.recs, r)
	return r.ID, nil
}

func (f *fakeStore) RecommendationForEntry(ctx context.Context, userID, entryID string) (melodiary.Recommendation, error) {
	for _, r := range f.recs {
		if r.UserID == userID && r.DiaryEntryID == entryID {
			return r, nil
		}
	}
	return melodiary.Recommendation{}, firestore.ErrNotFound
}

type stubAnalyzer struct {
	profile emotion.EmotionProfile
	err     error
}

func (s stubAnalyzer) Analyze(ctx context.Context, content string, photos []string) (emotion.EmotionProfile, error) {
	return s.profile, s.err
}

type stubMatcher struct {
	rec    music.SongRecommendation
	err    error
	genres []string
}

func (s *stubMatcher) Recommend(ctx context.Context, profile emotion.EmotionProfile, preferredGenres []string) (music.SongRecommendation, error) {
	s.genres = preferredGenres
	return s.rec, s.err
}

type stubPrefs struct {
	genres []string
	err    error
}

func (s stubPrefs) FavoriteGenres(ctx context.Context, userID string) ([]string, error) {
	return s.genres, s.err
}

type stubEnricher struct {
	genre  string
	artist string
}

func (s *stubEnricher) Genre(artist, title string) string {
	s.artist = artist
	return s.genre
}

var sadProfile = emotion.EmotionProfile{
	PrimaryEmotion: emotion.Sad,
	Intensity:      6,
	Keywords:       []string{"雨"},
	Mood:           emotion.Sad,
}

func withUser(r *http.Request, userID string) *http.Request {
	if userID == "" {
		return r
	}
	return r.WithContext(session.WithUserID(r.Context(), userID))
}

func newCreateHandler(t *testing.T, store *fakeStore, analyzer stubAnalyzer, matcher *stubMatcher, enricher *stubEnricher) *CreateHandler {
	t.Helper()
	log, _ := logger.NewTestLogger()
	return &CreateHandler{
		log:      log,
		store:    store,
		analyzer: analyzer,
		matcher:  matcher,
		prefs:    stubPrefs{genres: []string{"jazz"}},
		enricher: enricher,
		now:      func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) },
	}
}

func TestCreateHandler(t *testing.T) {
	store := newFakeStore()
	matcher := &stubMatcher{rec: music.SongRecommendation{
		ID:             "rec_1",
		Song:           music.Song{ID: "trk", Title: "Rainy Days", Artist: "Alpha, Beta"},
		Reason:         "reason",
		RelevanceScore: 7,
		Source:         music.SourceCatalogSearch,
	}}
	enricher := &stubEnricher{genre: "jazz"}
	h := newCreateHandler(t, store, stubAnalyzer{profile: sadProfile}, matcher, enricher)

	body := `{"title":" 雨の日 ","content":"今日は雨で悲しい"}`
	req := withUser(httptest.NewRequest(http.MethodPost, "/diary", strings.NewReader(body)), "u1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d (%s)", rr.Code, rr.Body.String())
	}
	var resp CreateResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp.Entry.ID != "entry_1" || resp.Entry.Title != "雨の日" || resp.Entry.Date != "2024-03-09" {
		t.Errorf("entry: got %+v", resp.Entry)
	}
	if resp.Entry.Analysis == nil || resp.Entry.Analysis.Mood != emotion.Sad {
		t.Errorf("analysis: got %+v", resp.Entry.Analysis)
	}
	if resp.Recommendation == nil {
		t.Fatal("expected a recommendation")
	}
	if resp.Recommendation.DiaryEntryID != "entry_1" || resp.Recommendation.UserID != "u1" {
		t.Errorf("recommendation: got %+v", resp.Recommendation)
	}
	if resp.Recommendation.Song.Genre != "jazz" || enricher.artist != "Alpha" {
		t.Errorf("enrichment: genre %q artist %q", resp.Recommendation.Song.Genre, enricher.artist)
	}
	if len(matcher.genres) != 1 || matcher.genres[0] != "jazz" {
		t.Errorf("preferred genres: got %v", matcher.genres)
	}
	if len(store.recs) != 1 || store.recs[0].ID != "rec_1" {
		t.Errorf("stored recommendations: got %+v", store.recs)
	}
}

func TestCreateHandlerKeepsLocalGenre(t *testing.T) {
	store := newFakeStore()
	matcher := &stubMatcher{rec: music.SongRecommendation{
		ID:     "demo_rec_1",
		Song:   music.Song{Title: "Gentle Rain", Artist: "Soft Piano Collective", Genre: "piano"},
		Source: music.SourceLocalCatalog,
	}}
	enricher := &stubEnricher{genre: "rock"}
	h := newCreateHandler(t, store, stubAnalyzer{profile: sadProfile}, matcher, enricher)

	req := withUser(httptest.NewRequest(http.MethodPost, "/diary", strings.NewReader(`{"content":"雨"}`)), "u1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d (%s)", rr.Code, rr.Body.String())
	}
	if enricher.artist != "" {
		t.Errorf("enricher called for a local pick")
	}
	if store.recs[0].Song.Genre != "piano" {
		t.Errorf("genre: got %q", store.recs[0].Song.Genre)
	}
}

func TestCreateHandlerFailures(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		body       string
		analyzer   stubAnalyzer
		matcher    *stubMatcher
		createErr  error
		wantStatus int
		wantNull   bool
	}{
		{name: "no session", body: `{"content":"x"}`, wantStatus: http.StatusUnauthorized},
		{name: "bad date", userID: "u1", body: `{"content":"x","date":"09/03/2024"}`, wantStatus: http.StatusBadRequest},
		{name: "empty content", userID: "u1", body: `{"content":""}`, analyzer: stubAnalyzer{err: emotion.ErrEmptyInput}, wantStatus: http.StatusBadRequest},
		{name: "analysis failure", userID: "u1", body: `{"content":"x"}`, analyzer: stubAnalyzer{err: &emotion.AnalysisError{Err: errors.New("timeout")}}, wantStatus: http.StatusInternalServerError},
		{name: "store unavailable", userID: "u1", body: `{"content":"x"}`, analyzer: stubAnalyzer{profile: sadProfile}, createErr: firestore.ErrUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "no song", userID: "u1", body: `{"content":"x"}`, analyzer: stubAnalyzer{profile: sadProfile}, matcher: &stubMatcher{err: music.ErrNotFound}, wantStatus: http.StatusCreated, wantNull: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.createErr = tt.createErr
			matcher := tt.matcher
			if matcher == nil {
				matcher = &stubMatcher{}
			}
			h := newCreateHandler(t, store, tt.analyzer, matcher, &stubEnricher{})

			req := withUser(httptest.NewRequest(http.MethodPost, "/diary", strings.NewReader(tt.body)), tt.userID)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d want %d (%s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if !tt.wantNull {
				return
			}
			var raw map[string]json.RawMessage
			if err := json.Unmarshal(rr.Body.Bytes(), &raw); err != nil {
				t.Fatal(err)
			}
			if string(raw["recommendation"]) != "null" {
				t.Errorf("recommendation: got %s", raw["recommendation"])
			}
			var msg string
			json.Unmarshal(raw["message"], &msg)
			if msg != recommend.MsgNoRecommendation {
				t.Errorf("message: got %q", msg)
			}
			if len(store.recs) != 0 {
				t.Errorf("stored %d recommendations", len(store.recs))
			}
		})
	}
}

func TestListHandlerLimit(t *testing.T) {
	tests := []struct {
		query      string
		wantStatus int
		wantLimit  int
	}{
		{query: "", wantStatus: http.StatusOK, wantLimit: 50},
		{query: "?limit=10", wantStatus: http.StatusOK, wantLimit: 10},
		{query: "?limit=9999", wantStatus: http.StatusOK, wantLimit: 500},
		{query: "?limit=0", wantStatus: http.StatusBadRequest},
		{query: "?limit=abc", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			log, _ := logger.NewTestLogger()
			store := newFakeStore()
			store.entries["e1"] = melodiary.DiaryEntry{ID: "e1", UserID: "u1"}
			store.entries["e2"] = melodiary.DiaryEntry{ID: "e2", UserID: "u2"}
			h := &ListHandler{log: log, store: store}

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, withUser(httptest.NewRequest(http.MethodGet, "/diary"+tt.query, nil), "u1"))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if store.listLimit != tt.wantLimit {
				t.Errorf("limit: got %d want %d", store.listLimit, tt.wantLimit)
			}
			var resp ListResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if len(resp.Entries) != 1 || resp.Entries[0].ID != "e1" {
				t.Errorf("entries: got %+v", resp.Entries)
			}
		})
	}
}

func TestGetHandler(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		id         string
		wantStatus int
		wantRec    bool
	}{
		{name: "with recommendation", userID: "u1", id: "e1", wantStatus: http.StatusOK, wantRec: true},
		{name: "without recommendation", userID: "u1", id: "e2", wantStatus: http.StatusOK},
		{name: "other user", userID: "u2", id: "e1", wantStatus: http.StatusNotFound},
		{name: "missing", userID: "u1", id: "nope", wantStatus: http.StatusNotFound},
		{name: "no session", id: "e1", wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, _ := logger.NewTestLogger()
			store := newFakeStore()
			store.entries["e1"] = melodiary.DiaryEntry{ID: "e1", UserID: "u1"}
			store.entries["e2"] = melodiary.DiaryEntry{ID: "e2", UserID: "u1"}
			store.recs = []melodiary.Recommendation{{ID: "rec_1", UserID: "u1", DiaryEntryID: "e1"}}
			h := &GetHandler{log: log, store: store}

			req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/diary/"+tt.id, nil), map[string]string{"id": tt.id})
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, withUser(req, tt.userID))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d want %d", rr.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			var resp GetResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if (resp.Recommendation != nil) != tt.wantRec {
				t.Errorf("recommendation: got %+v", resp.Recommendation)
			}
		})
	}
}

func TestDeleteHandler(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		wantStatus int
		wantGone   bool
	}{
		{name: "owner", userID: "u1", wantStatus: http.StatusNoContent, wantGone: true},
		{name: "other user", userID: "u2", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, _ := logger.NewTestLogger()
			store := newFakeStore()
			store.entries["e1"] = melodiary.DiaryEntry{ID: "e1", UserID: "u1"}
			h := &DeleteHandler{log: log, store: store}

			req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/diary/e1", nil), map[string]string{"id": "e1"})
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, withUser(req, tt.userID))

			if rr.Code != tt.wantStatus {
				t.Fatalf("status: got %d want %d", rr.Code, tt.wantStatus)
			}
			if (len(store.deleted) == 1) != tt.wantGone {
				t.Errorf("deleted: got %v", store.deleted)
			}
		})
	}
}
