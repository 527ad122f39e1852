package recommend

import (
	"context"
	"errors"
	"net/http"

	"github.com/mager/melodiary/emotion"
	"github.com/mager/melodiary/music"
	"github.com/mager/melodiary/util"
	"go.uber.org/zap"
)

const (
	// MsgNoRecommendation accompanies a null recommendation.
	MsgNoRecommendation = "申し訳ございません。現在適切な楽曲が見つかりませんでした。"

	msgAnalysisRequired = "分析結果が必要です"
	msgRecommendError   = "音楽提案中にエラーが発生しました"
)

type Matcher interface {
	Recommend(ctx context.Context, profile emotion.EmotionProfile, preferredGenres []string) (music.SongRecommendation, error)
}

// RecommendHandler picks a song for an emotion profile.
type RecommendHandler struct {
	log     *zap.SugaredLogger
	matcher Matcher
}

func (*RecommendHandler) Pattern() string {
	return "/recommend"
}

func (*RecommendHandler) Methods() []string {
	return []string{http.MethodPost}
}

// NewRecommendHandler builds a new RecommendHandler.
func NewRecommendHandler(log *zap.SugaredLogger, matcher *music.Matcher) *RecommendHandler {
	return &RecommendHandler{
		log:     log,
		matcher: matcher,
	}
}

type UserPreferences struct {
	FavoriteGenres []string `json:"favoriteGenres" validate:"max=20"`
}

type Request struct {
	Analysis        *emotion.EmotionProfile `json:"analysis" validate:"required"`
	UserPreferences *UserPreferences        `json:"userPreferences"`
}

type Response struct {
	Recommendation *music.SongRecommendation `json:"recommendation"`
	Message        string                    `json:"message,omitempty"`
}

// Recommend a song
// @Summary Recommend a song
// @Description Picks a song for an emotion profile
// @Accept json
// @Produce json
// @Param request body Request true "Analysis and preferences"
// @Success 200 {object} Response
// @Router /recommend [post]
func (h *RecommendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, msgAnalysisRequired, err.Error())
		return
	}
	if err := util.Validate(&req); err != nil {
		util.WriteError(w, http.StatusBadRequest, msgAnalysisRequired, err.Error())
		return
	}

	var genres []string
	if req.UserPreferences != nil {
		genres = req.UserPreferences.FavoriteGenres
	}

	rec, err := h.matcher.Recommend(r.Context(), *req.Analysis, genres)
	if errors.Is(err, music.ErrNotFound) {
		util.WriteJSON(w, http.StatusOK, Response{Message: MsgNoRecommendation})
		return
	}
	if err != nil {
		h.log.Errorw("recommendation failed", "error", err)
		util.WriteError(w, http.StatusInternalServerError, msgRecommendError, err.Error())
		return
	}

	util.WriteJSON(w, http.StatusOK, Response{Recommendation: &rec})
}
