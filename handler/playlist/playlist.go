package playlist

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/mager/melodiary/firestore"
	"github.com/mager/melodiary/melodiary"
	"github.com/mager/melodiary/session"
	"github.com/mager/melodiary/util"
	"go.uber.org/zap"
)

const (
	msgLoginRequired = "ログインが必要です"
	msgInvalidInput  = "入力内容が正しくありません"
)

type Store interface {
	GetPlaylists(ctx context.Context, userID string) ([]melodiary.Playlist, error)
	GetPlaylist(ctx context.Context, id string) (melodiary.Playlist, error)
	CreatePlaylist(ctx context.Context, p melodiary.Playlist) (string, error)
	AddSongToPlaylist(ctx context.Context, id string, song melodiary.PlaylistSong) error
	DeletePlaylist(ctx context.Context, id string) error
}

func ownedPlaylist(ctx context.Context, store Store, userID, id string) (melodiary.Playlist, error) {
	p, err := store.GetPlaylist(ctx, id)
	if err != nil {
		return melodiary.Playlist{}, err
	}
	if p.UserID != userID {
		return melodiary.Playlist{}, firestore.ErrNotFound
	}
	return p, nil
}

// --- List ---

type ListHandler struct {
	log   *zap.SugaredLogger
	store Store
}

func (*ListHandler) Pattern() string {
	return "/playlists"
}

func (*ListHandler) Methods() []string {
	return []string{http.MethodGet}
}

func NewListHandler(log *zap.SugaredLogger, store *firestore.Store) *ListHandler {
	return &ListHandler{log: log, store: store}
}

type ListResponse struct {
	Playlists []melodiary.Playlist `json:"playlists"`
}

// List playlists
// @Summary List the user's playlists
// @Produce json
// @Success 200 {object} ListResponse
// @Router /playlists [get]
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := session.UserID(r.Context())
	if err != nil {
		util.WriteError(w, http.StatusUnauthorized, msgLoginRequired, "")
		return
	}

	playlists, err := h.store.GetPlaylists(r.Context(), userID)
	if err != nil {
		util.WriteStoreError(w, h.log, "Failed to list playlists", err)
		return
	}
	util.WriteJSON(w, http.StatusOK, ListResponse{Playlists: playlists})
}

// --- Create ---

type CreateHandler struct {
	log   *zap.SugaredLogger
	store Store
}

func (*CreateHandler) Pattern() string {
	return "/playlists"
}

func (*CreateHandler) Methods() []string {
	return []string{http.MethodPost}
}

func NewCreateHandler(log *zap.SugaredLogger, store *firestore.Store) *CreateHandler {
	return &CreateHandler{log: log, store: store}
}

type CreateRequest struct {
	Name        string                 `json:"name" validate:"required,max=100"`
	Description string                 `json:"description" validate:"max=500"`
	Type        melodiary.PlaylistType `json:"type" validate:"omitempty,oneof=daily_picks emotion_based custom"`
	Emotion     string                 `json:"emotion" validate:"omitempty,oneof=happy sad excited calm nostalgic energetic melancholic"`
	IsPublic    bool                   `json:"isPublic"`
}

// Create a playlist
// @Summary Create a playlist
// @Accept json
// @Produce json
// @Param request body CreateRequest true "Playlist"
// @Success 201 {object} melodiary.Playlist
// @Router /playlists [post]
func (h *CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := session.UserID(r.Context())
	if err != nil {
		util.WriteError(w, http.StatusUnauthorized, msgLoginRequired, "")
		return
	}

	var req CreateRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, msgInvalidInput, err.Error())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := util.Validate(&req); err != nil {
		util.WriteError(w, http.StatusBadRequest, msgInvalidInput, err.Error())
		return
	}

	p := melodiary.Playlist{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Emotion:     req.Emotion,
		Songs:       []melodiary.PlaylistSong{},
		IsPublic:    req.IsPublic,
	}
	if p.Type == "" {
		p.Type = melodiary.PlaylistCustom
	}

	p.ID, err = h.store.CreatePlaylist(r.Context(), p)
	if err != nil {
		util.WriteStoreError(w, h.log, "Failed to create playlist", err)
		return
	}
	util.WriteJSON(w, http.StatusCreated, p)
}

// --- Add song ---

type AddSongHandler struct {
	log   *zap.SugaredLogger
	store Store
	now   func() time.Time
}

func (*AddSongHandler) Pattern() string {
	return "/playlists/{id}/songs"
}

func (*AddSongHandler) Methods() []string {
	return []string{http.MethodPost}
}

func NewAddSongHandler(log *zap.SugaredLogger, store *firestore.Store) *AddSongHandler {
	return &AddSongHandler{log: log, store: store, now: time.Now}
}

type AddSongRequest struct {
	SpotifyID string `json:"spotifyId" validate:"required,max=128"`
	FromDiary string `json:"fromDiary" validate:"max=128"`
}

// Add a song to a playlist
// @Summary Add a song to a playlist
// @Accept json
// @Produce json
// @Param id path string true "Playlist ID"
// @Param request body AddSongRequest true "Song"
// @Success 200 {object} melodiary.PlaylistSong
// @Router /playlists/{id}/songs [post]
func (h *AddSongHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := session.UserID(ctx)
	if err != nil {
		util.WriteError(w, http.StatusUnauthorized, msgLoginRequired, "")
		return
	}

	var req AddSongRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, msgInvalidInput, err.Error())
		return
	}
	if err := util.Validate(&req); err != nil {
		util.WriteError(w, http.StatusBadRequest, msgInvalidInput, err.Error())
		return
	}

	p, err := ownedPlaylist(ctx, h.store, userID, mux.Vars(r)["id"])
	if err != nil {
		util.WriteStoreError(w, h.log, "Failed to load playlist", err)
		return
	}

	song := melodiary.PlaylistSong{
		SpotifyID: req.SpotifyID,
		AddedAt:   h.now().UTC().Truncate(time.Millisecond),
		FromDiary: req.FromDiary,
	}
	if err := h.store.AddSongToPlaylist(ctx, p.ID, song); err != nil {
		util.WriteStoreError(w, h.log, "Failed to add song", err)
		return
	}

	h.log.Infow("song added to playlist", "playlist_id", p.ID, "spotify_id", song.SpotifyID)
	util.WriteJSON(w, http.StatusOK, song)
}

// --- Delete ---

type DeleteHandler struct {
	log   *zap.SugaredLogger
	store Store
}

func (*DeleteHandler) Pattern() string {
	return "/playlists/{id}"
}

func (*DeleteHandler) Methods() []string {
	return []string{http.MethodDelete}
}

func NewDeleteHandler(log *zap.SugaredLogger, store *firestore.Store) *DeleteHandler {
	return &DeleteHandler{log: log, store: store}
}

// Delete a playlist
// @Summary Delete a playlist
// @Param id path string true "Playlist ID"
// @Success 204
// @Router /playlists/{id} [delete]
func (h *DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := session.UserID(ctx)
	if err != nil {
		util.WriteError(w, http.StatusUnauthorized, msgLoginRequired, "")
		return
	}

	p, err := ownedPlaylist(ctx, h.store, userID, mux.Vars(r)["id"])
	if err != nil {
		util.WriteStoreError(w, h.log, "Failed to load playlist", err)
		return
	}
	if err := h.store.DeletePlaylist(ctx, p.ID); err != nil {
		util.WriteStoreError(w, h.log, "Failed to delete playlist", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
