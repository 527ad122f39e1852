package diary

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/mager/melodiary/database"
	"github.com/mager/melodiary/emotion"
	"github.com/mager/melodiary/firestore"
	"github.com/mager/melodiary/handler/analyze"
	"github.com/mager/melodiary/handler/recommend"
	"github.com/mager/melodiary/melodiary"
	"github.com/mager/melodiary/music"
	"github.com/mager/melodiary/musicbrainz"
	"github.com/mager/melodiary/session"
	"github.com/mager/melodiary/util"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500

	msgLoginRequired = "ログインが必要です"
	msgInvalidInput  = "入力内容が正しくありません"
)

type Store interface {
	CreateDiaryEntry(ctx context.Context, e melodiary.DiaryEntry) (string, error)
	GetDiaryEntries(ctx context.Context, userID string, limit int) ([]melodiary.DiaryEntry, error)
	GetDiaryEntry(ctx context.Context, id string) (melodiary.DiaryEntry, error)
	DeleteDiaryEntry(ctx context.Context, id string) error
	CreateRecommendation(ctx context.Context, r melodiary.Recommendation) (string, error)
	RecommendationForEntry(ctx context.Context, userID, entryID string) (melodiary.Recommendation, error)
}

type GenrePreferences interface {
	FavoriteGenres(ctx context.Context, userID string) ([]string, error)
}

type GenreEnricher interface {
	Genre(artist, title string) string
}

// ownedEntry loads entry id and checks it belongs to userID. Entries of
// other users are reported as missing.
func ownedEntry(ctx context.Context, store Store, userID, id string) (melodiary.DiaryEntry, error) {
	e, err := store.GetDiaryEntry(ctx, id)
	if err != nil {
		return melodiary.DiaryEntry{}, err
	}
	if e.UserID != userID {
		return melodiary.DiaryEntry{}, firestore.ErrNotFound
	}
	return e, nil
}

// --- Create ---

// CreateHandler writes a diary entry, analyses it and stores a song
// recommendation for it.
type CreateHandler struct {
	log      *zap.SugaredLogger
	store    Store
	analyzer analyze.Analyzer
	matcher  recommend.Matcher
	prefs    GenrePreferences
	enricher GenreEnricher
	now      func() time.Time
}

func (*CreateHandler) Pattern() string {
	return "/diary"
}

func (*CreateHandler) Methods() []string {
	return []string{http.MethodPost}
}

// NewCreateHandler builds a new CreateHandler.
func NewCreateHandler(
	log *zap.SugaredLogger,
	store *firestore.Store,
	analyzer *emotion.Analyzer,
	matcher *music.Matcher,
	profiles *database.ProfileStore,
	enricher *musicbrainz.GenreEnricher,
) *CreateHandler {
	return &CreateHandler{
		log:      log,
		store:    store,
		analyzer: analyzer,
		matcher:  matcher,
		prefs:    profiles,
		enricher: enricher,
		now:      time.Now,
	}
}

type CreateRequest struct {
	Date    string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Title   string   `json:"title" validate:"max=200"`
	Content string   `json:"content" validate:"max=20000"`
	Photos  []string `json:"photos" validate:"max=10,dive,url"`
}

type CreateResponse struct {
	Entry          melodiary.DiaryEntry      `json:"entry"`
	Recommendation *melodiary.Recommendation `json:"recommendation"`
	Message        string                    `json:"message,omitempty"`
}

// Create a diary entry
// @Summary Create a diary entry
// @Description Analyses the entry, stores it and recommends a song
// @Accept json
// @Produce json
// @Param request body CreateRequest true "Diary entry"
// @Success 201 {object} CreateResponse
// @Router /diary [post]
func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := session.UserID(ctx)
	if err != nil {
		util.WriteError(w, http.StatusUnauthorized, msgLoginRequired, "")
		return
	}

	var req CreateRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, msgInvalidInput, err.Error())
		return
	}
	if err := util.Validate(&req); err != nil {
		util.WriteError(w, http.StatusBadRequest, msgInvalidInput, err.Error())
		return
	}

	profile, err := h.analyzer.Analyze(ctx, req.Content, req.Photos)
	if err != nil {
		analyze.WriteAnalysisError(w, err)
		return
	}

	entry := melodiary.DiaryEntry{
		UserID:   userID,
		Date:     req.Date,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Photos:   req.Photos,
		Analysis: &profile,
	}
	if entry.Date == "" {
		entry.Date = h.now().Format(melodiary.DateLayout)
	}

	entry.ID, err = h.store.CreateDiaryEntry(ctx, entry)
	if err != nil {
		util.WriteStoreError(w, h.log, "Failed to create diary entry", err)
		return
	}

	resp := CreateResponse{Entry: entry}

	genres, err := h.prefs.FavoriteGenres(ctx, userID)
	if err != nil {
		h.log.Warnw("Failed to load genre preferences", "user_id", userID, "error", err)
	}

	rec, err := h.matcher.Recommend(ctx, profile, genres)
	if errors.Is(err, music.ErrNotFound) {
		resp.Message = recommend.MsgNoRecommendation
		util.WriteJSON(w, http.StatusCreated, resp)
		return
	}
	if err != nil {
		h.log.Errorw("recommendation failed", "entry_id", entry.ID, "error", err)
		resp.Message = recommend.MsgNoRecommendation
		util.WriteJSON(w, http.StatusCreated, resp)
		return
	}

	if rec.Source == music.SourceCatalogSearch && rec.Song.Genre == "" {
		artist, _, _ := strings.Cut(rec.Song.Artist, ", ")
		rec.Song.Genre = h.enricher.Genre(artist, rec.Song.Title)
	}

	stored := melodiary.NewRecommendation(userID, entry, rec)
	stored.ID, err = h.store.CreateRecommendation(ctx, stored)
	if err != nil {
		util.WriteStoreError(w, h.log, "Failed to store recommendation", err)
		return
	}

	h.log.Infow("diary entry created",
		"user_id", userID,
		"entry_id", entry.ID,
		"mood", profile.Mood,
		"source", rec.Source,
	)
	resp.Recommendation = &stored
	util.WriteJSON(w, http.StatusCreated, resp)
}

// --- List ---

type ListHandler struct {
	log   *zap.SugaredLogger
	store Store
}

func (*ListHandler) Pattern() string {
	return "/diary"
}

func (*ListHandler) Methods() []string {
	return []string{http.MethodGet}
}

func NewListHandler(log *zap.SugaredLogger, store *firestore.Store) *ListHandler {
	return &ListHandler{log: log, store: store}
}

type ListResponse struct {
	Entries []melodiary.DiaryEntry `json:"entries"`
}

// List diary entries
// @Summary List diary entries
// @Produce json
// @Param limit query int false "Maximum entries (default 50, max 500)"
// @Success 200 {object} ListResponse
// @Router /diary [get]
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := session.UserID(r.Context())
	if err != nil {
		util.WriteError(w, http.StatusUnauthorized, msgLoginRequired, "")
		return
	}

	limit := defaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			util.WriteError(w, http.StatusBadRequest, msgInvalidInput, "limit must be a positive integer")
			return
		}
		limit = min(n, maxListLimit)
	}

	entries, err := h.store.GetDiaryEntries(r.Context(), userID, limit)
	if err != nil {
		util.WriteStoreError(w, h.log, "Failed to list diary entries", err)
		return
	}
	util.WriteJSON(w, http.StatusOK, ListResponse{Entries: entries})
}

// --- Get ---

type GetHandler struct {
	log   *zap.SugaredLogger
	store Store
}

func (*GetHandler) Pattern() string {
	return "/diary/{id}"
}

func (*GetHandler) Methods() []string {
	return []string{http.MethodGet}
}

func NewGetHandler(log *zap.SugaredLogger, store *firestore.Store) *GetHandler {
	return &GetHandler{log: log, store: store}
}

type GetResponse struct {
	Entry          melodiary.DiaryEntry      `json:"entry"`
	Recommendation *melodiary.Recommendation `json:"recommendation"`
}

// Get a diary entry
// @Summary Get a diary entry and its recommendation
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} GetResponse
// @Router /diary/{id} [get]
func (h *GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := session.UserID(ctx)
	if err != nil {
		util.WriteError(w, http.StatusUnauthorized, msgLoginRequired, "")
		return
	}

	entry, err := ownedEntry(ctx, h.store, userID, mux.Vars(r)["id"])
	if err != nil {
		util.WriteStoreError(w, h.log, "Failed to load diary entry", err)
		return
	}

	resp := GetResponse{Entry: entry}
	rec, err := h.store.RecommendationForEntry(ctx, userID, entry.ID)
	switch {
	case err == nil:
		resp.Recommendation = &rec
	case errors.Is(err, firestore.ErrNotFound):
	default:
		h.log.Warnw("Failed to load recommendation for entry", "entry_id", entry.ID, "error", err)
	}

	util.WriteJSON(w, http.StatusOK, resp)
}

// --- Delete ---

type DeleteHandler struct {
	log   *zap.SugaredLogger
	store Store
}

func (*DeleteHandler) Pattern() string {
	return "/diary/{id}"
}

func (*DeleteHandler) Methods() []string {
	return []string{http.MethodDelete}
}

func NewDeleteHandler(log *zap.SugaredLogger, store *firestore.Store) *DeleteHandler {
	return &DeleteHandler{log: log, store: store}
}

// Delete a diary entry
// @Summary Delete a diary entry
// @Param id path string true "Entry ID"
// @Success 204
// @Router /diary/{id} [delete]
func (h *DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := session.UserID(ctx)
	if err != nil {
		util.WriteError(w, http.StatusUnauthorized, msgLoginRequired, "")
		return
	}

	entry, err := ownedEntry(ctx, h.store, userID, mux.Vars(r)["id"])
	if err != nil {
		util.WriteStoreError(w, h.log, "Failed to load diary entry", err)
		return
	}
	if err := h.store.DeleteDiaryEntry(ctx, entry.ID); err != nil {
		util.WriteStoreError(w, h.log, "Failed to delete diary entry", err)
		return
	}

	h.log.Infow("diary entry deleted", "user_id", userID, "entry_id", entry.ID)
	w.WriteHeader(http.StatusNoContent)
}
