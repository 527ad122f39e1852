package auth

import (
	"net/http"

	"github.com/mager/melodiary/session"
	"github.com/mager/melodiary/util"
	"go.uber.org/zap"
)

type Issuer interface {
	Issue() (session.Session, error)
}

// SessionHandler starts an anonymous session.
type SessionHandler struct {
	log    *zap.SugaredLogger
	issuer Issuer
}

func (*SessionHandler) Pattern() string {
	return "/session"
}

func (*SessionHandler) Methods() []string {
	return []string{http.MethodPost}
}

// NewSessionHandler builds a new SessionHandler.
func NewSessionHandler(log *zap.SugaredLogger, issuer *session.Issuer) *SessionHandler {
	return &SessionHandler{log: log, issuer: issuer}
}

// Start a session
// @Summary Start an anonymous session
// @Produce json
// @Success 201 {object} session.Session
// @Router /session [post]
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s, err := h.issuer.Issue()
	if err != nil {
		h.log.Errorw("Failed to issue session", "error", err)
		util.WriteError(w, http.StatusInternalServerError, "サーバーエラーが発生しました", err.Error())
		return
	}
	h.log.Infow("session started", "user_id", s.UserID)
	util.WriteJSON(w, http.StatusCreated, s)
}
