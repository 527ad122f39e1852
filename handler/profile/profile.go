package profile

import (
	"context"
	"net/http"

	"github.com/mager/melodiary/database"
	"github.com/mager/melodiary/melodiary"
	"github.com/mager/melodiary/session"
	"github.com/mager/melodiary/util"
	"go.uber.org/zap"
)

type Store interface {
	Get(ctx context.Context, userID string) (melodiary.UserProfile, error)
	Upsert(ctx context.Context, p melodiary.UserProfile) (melodiary.UserProfile, error)
}

// ProfileHandler returns the caller's profile.
type ProfileHandler struct {
	log   *zap.SugaredLogger
	store Store
}

func (*ProfileHandler) Pattern() string {
	return "/profile"
}

func (*ProfileHandler) Methods() []string {
	return []string{http.MethodGet}
}

// NewProfileHandler builds a new ProfileHandler.
func NewProfileHandler(log *zap.SugaredLogger, store *database.ProfileStore) *ProfileHandler {
	return &ProfileHandler{
		log:   log,
		store: store,
	}
}

// GetProfile godoc
// @Summary Get profile
// @Description Get the profile and music preferences of the current user
// @Accept json
// @Produce json
// @Success 200 {object} melodiary.UserProfile
// @Router /profile [get]
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := session.UserID(r.Context())
	if err != nil {
		util.WriteError(w, http.StatusUnauthorized, "ログインが必要です", "")
		return
	}

	p, err := h.store.Get(r.Context(), userID)
	if err != nil {
		util.WriteStoreError(w, h.log, "Failed to fetch profile", err)
		return
	}
	util.WriteJSON(w, http.StatusOK, p)
}

// UpdateProfileHandler creates or replaces the caller's profile.
type UpdateProfileHandler struct {
	log   *zap.SugaredLogger
	store Store
}

func (*UpdateProfileHandler) Pattern() string {
	return "/profile"
}

func (*UpdateProfileHandler) Methods() []string {
	return []string{http.MethodPut}
}

// NewUpdateProfileHandler builds a new UpdateProfileHandler.
func NewUpdateProfileHandler(log *zap.SugaredLogger, store *database.ProfileStore) *UpdateProfileHandler {
	return &UpdateProfileHandler{
		log:   log,
		store: store,
	}
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Create or replace the profile of the current user
// @Accept json
// @Produce json
// @Param request body melodiary.UserProfile true "Profile"
// @Success 200 {object} melodiary.UserProfile
// @Router /profile [put]
func (h *UpdateProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := session.UserID(r.Context())
	if err != nil {
		util.WriteError(w, http.StatusUnauthorized, "ログインが必要です", "")
		return
	}

	var p melodiary.UserProfile
	if err := util.DecodeJSON(r, &p); err != nil {
		util.WriteError(w, http.StatusBadRequest, "入力内容が正しくありません", err.Error())
		return
	}
	if err := util.Validate(&p); err != nil {
		util.WriteError(w, http.StatusBadRequest, "入力内容が正しくありません", err.Error())
		return
	}
	p.ID = userID

	saved, err := h.store.Upsert(r.Context(), p)
	if err != nil {
		util.WriteStoreError(w, h.log, "Failed to save profile", err)
		return
	}
	util.WriteJSON(w, http.StatusOK, saved)
}
