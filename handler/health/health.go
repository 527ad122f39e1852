package health

import (
	"net/http"
	"time"

	"github.com/mager/melodiary/config"
	"github.com/mager/melodiary/util"
	"go.uber.org/zap"
)

const (
	FullyConfigured     = "fully_configured"
	PartiallyConfigured = "partially_configured"
	TestMode            = "test_mode"
)

// HealthHandler reports which external services are configured.
type HealthHandler struct {
	log      *zap.SugaredLogger
	services config.Services
	now      func() time.Time
}

func (*HealthHandler) Pattern() string {
	return "/health"
}

func (*HealthHandler) Methods() []string {
	return []string{http.MethodGet}
}

// NewHealthHandler builds a new HealthHandler.
func NewHealthHandler(log *zap.SugaredLogger, services config.Services) *HealthHandler {
	return &HealthHandler{
		log:      log,
		services: services,
		now:      time.Now,
	}
}

type ServiceStatus struct {
	Configured bool   `json:"configured"`
	Status     string `json:"status"`
}

type Response struct {
	Status        string                   `json:"status"`
	Timestamp     time.Time                `json:"timestamp"`
	Services      map[string]ServiceStatus `json:"services"`
	TestMode      bool                     `json:"testMode"`
	OverallStatus string                   `json:"overall_status"`
}

// Health check
// @Summary Service health
// @Description Server status and per-service credential status
// @Produce json
// @Success 200 {object} Response
// @Router /health [get]
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.log.Debugw("health check")

	statuses := map[string]config.CredentialStatus{
		"openai":    h.services.OpenAI,
		"spotify":   h.services.Spotify,
		"firestore": h.services.Firestore,
		"storage":   h.services.Storage,
		"database":  h.services.Database,
	}

	resp := Response{
		Status:    "ok",
		Timestamp: h.now().UTC(),
		Services:  make(map[string]ServiceStatus, len(statuses)),
		TestMode:  !h.services.OpenAI.Usable(),
	}

	all := true
	for name, s := range statuses {
		resp.Services[name] = ServiceStatus{Configured: s.Usable(), Status: s.String()}
		all = all && s.Usable()
	}

	switch {
	case all:
		resp.OverallStatus = FullyConfigured
	case resp.TestMode:
		resp.OverallStatus = TestMode
	default:
		resp.OverallStatus = PartiallyConfigured
	}

	util.WriteJSON(w, http.StatusOK, resp)
}
