package recommend

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mager/melodiary/firestore"
	"github.com/mager/melodiary/melodiary"
	"github.com/mager/melodiary/session"
	"github.com/mager/melodiary/util"
	"go.uber.org/zap"
)

type FeedbackStore interface {
	GetRecommendation(ctx context.Context, id string) (melodiary.Recommendation, error)
	UpdateRecommendationFeedback(ctx context.Context, id string, fb melodiary.Feedback) error
}

// FeedbackHandler records what the user thought of a recommendation.
type FeedbackHandler struct {
	log   *zap.SugaredLogger
	store FeedbackStore
}

func (*FeedbackHandler) Pattern() string {
	return "/recommendations/{id}/feedback"
}

func (*FeedbackHandler) Methods() []string {
	return []string{http.MethodPost}
}

// NewFeedbackHandler builds a new FeedbackHandler.
func NewFeedbackHandler(log *zap.SugaredLogger, store *firestore.Store) *FeedbackHandler {
	return &FeedbackHandler{log: log, store: store}
}

// Rate a recommendation
// @Summary Rate a recommendation
// @Accept json
// @Produce json
// @Param id path string true "Recommendation ID"
// @Param request body melodiary.Feedback true "Feedback"
// @Success 200 {object} melodiary.Recommendation
// @Router /recommendations/{id}/feedback [post]
func (h *FeedbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID, err := session.UserID(r.Context())
	if err != nil {
		util.WriteError(w, http.StatusUnauthorized, "ログインが必要です", "")
		return
	}

	var fb melodiary.Feedback
	if err := util.DecodeJSON(r, &fb); err != nil {
		util.WriteError(w, http.StatusBadRequest, "入力内容が正しくありません", err.Error())
		return
	}
	if err := util.Validate(&fb); err != nil {
		util.WriteError(w, http.StatusBadRequest, "入力内容が正しくありません", err.Error())
		return
	}

	id := mux.Vars(r)["id"]
	rec, err := h.store.GetRecommendation(r.Context(), id)
	if err != nil {
		util.WriteStoreError(w, h.log, "Failed to load recommendation", err)
		return
	}
	if rec.UserID != userID {
		util.WriteStoreError(w, h.log, "recommendation owned by another user", firestore.ErrNotFound)
		return
	}

	if err := h.store.UpdateRecommendationFeedback(r.Context(), id, fb); err != nil {
		util.WriteStoreError(w, h.log, "Failed to save feedback", err)
		return
	}

	h.log.Infow("feedback saved", "user_id", userID, "recommendation_id", id, "liked", fb.Liked)
	rec.Feedback = &fb
	util.WriteJSON(w, http.StatusOK, rec)
}
