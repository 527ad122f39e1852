package stats

import (
	"context"
	"net/http"
	"time"

	"github.com/mager/melodiary/firestore"
	"github.com/mager/melodiary/melodiary"
	"github.com/mager/melodiary/session"
	"github.com/mager/melodiary/stats"
	"github.com/mager/melodiary/util"
	"go.uber.org/zap"
)

type Store interface {
	GetDiaryEntries(ctx context.Context, userID string, limit int) ([]melodiary.DiaryEntry, error)
	GetRecommendations(ctx context.Context, userID string, limit int) ([]melodiary.Recommendation, error)
	SaveUserStats(ctx context.Context, st melodiary.UserStats) error
}

// StatsHandler recomputes and returns the caller's listening stats.
type StatsHandler struct {
	log   *zap.SugaredLogger
	store Store
	now   func() time.Time
}

func (*StatsHandler) Pattern() string {
	return "/stats"
}

func (*StatsHandler) Methods() []string {
	return []string{http.MethodGet}
}

// NewStatsHandler builds a new StatsHandler.
func NewStatsHandler(log *zap.SugaredLogger, store *firestore.Store) *StatsHandler {
	return &StatsHandler{log: log, store: store, now: time.Now}
}

// Get stats
// @Summary Get stats
// @Description Streaks, favourite genres and emotion breakdown of the current user
// @Produce json
// @Success 200 {object} melodiary.UserStats
// @Router /stats [get]
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := session.UserID(ctx)
	if err != nil {
		util.WriteError(w, http.StatusUnauthorized, "ログインが必要です", "")
		return
	}

	entries, err := h.store.GetDiaryEntries(ctx, userID, 0)
	if err != nil {
		util.WriteStoreError(w, h.log, "Failed to load diary entries", err)
		return
	}
	recs, err := h.store.GetRecommendations(ctx, userID, 0)
	if err != nil {
		util.WriteStoreError(w, h.log, "Failed to load recommendations", err)
		return
	}

	st := stats.Compute(userID, entries, recs, h.now())
	if err := h.store.SaveUserStats(ctx, st); err != nil {
		h.log.Warnw("Failed to cache stats", "user_id", userID, "error", err)
	}

	util.WriteJSON(w, http.StatusOK, st)
}
