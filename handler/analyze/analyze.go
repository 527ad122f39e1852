package analyze

import (
	"context"
	"errors"
	"net/http"

	"github.com/mager/melodiary/emotion"
	"github.com/mager/melodiary/util"
	"go.uber.org/zap"
)

const (
	msgNoContent     = "分析するコンテンツがありません"
	msgAnalysisError = "分析中にエラーが発生しました"
)

type Analyzer interface {
	Analyze(ctx context.Context, content string, photos []string) (emotion.EmotionProfile, error)
}

// AnalyzeHandler returns the emotion profile of a piece of diary text.
type AnalyzeHandler struct {
	log      *zap.SugaredLogger
	analyzer Analyzer
}

func (*AnalyzeHandler) Pattern() string {
	return "/analyze"
}

func (*AnalyzeHandler) Methods() []string {
	return []string{http.MethodPost}
}

// NewAnalyzeHandler builds a new AnalyzeHandler.
func NewAnalyzeHandler(log *zap.SugaredLogger, analyzer *emotion.Analyzer) *AnalyzeHandler {
	return &AnalyzeHandler{
		log:      log,
		analyzer: analyzer,
	}
}

type Request struct {
	Content string   `json:"content" validate:"max=20000"`
	Photos  []string `json:"photos" validate:"max=10,dive,url"`
}

// Analyze diary text
// @Summary Analyze diary text
// @Description Returns the emotion profile of the submitted content
// @Accept json
// @Produce json
// @Param request body Request true "Diary content"
// @Success 200 {object} emotion.EmotionProfile
// @Router /analyze [post]
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := util.DecodeJSON(r, &req); err != nil {
		util.WriteError(w, http.StatusBadRequest, msgNoContent, err.Error())
		return
	}
	if err := util.Validate(&req); err != nil {
		util.WriteError(w, http.StatusBadRequest, "入力内容が正しくありません", err.Error())
		return
	}

	profile, err := h.analyzer.Analyze(r.Context(), req.Content, req.Photos)
	if err != nil {
		WriteAnalysisError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, profile)
}

// WriteAnalysisError responds to a failed Analyze call.
func WriteAnalysisError(w http.ResponseWriter, err error) {
	if errors.Is(err, emotion.ErrEmptyInput) {
		util.WriteError(w, http.StatusBadRequest, msgNoContent, "")
		return
	}
	util.WriteError(w, http.StatusInternalServerError, msgAnalysisError, err.Error())
}
