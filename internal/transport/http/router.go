package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohamedwael201193/air-gate-os/internal/platform/health"
	"github.com/mohamedwael201193/air-gate-os/internal/platform/middleware"
)

// RouterConfig carries everything NewRouter mounts.
type RouterConfig struct {
	Handler *Handler
	Health  *health.Handler
	// DevToken is mounted at POST /partner-token when non-nil. It must be
	// nil in production builds.
	DevToken *DevTokenHandler
	Logger   *slog.Logger
	Timeout  time.Duration
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.ContentTypeJSON)

	h := cfg.Handler

	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/logout", h.handleLogout)
	r.Get("/auth/me", h.handleMe)

	r.Get("/credentials", h.handleListCredentials)
	r.Post("/credentials/issue", h.handleIssueCredential)

	r.Get("/verifications", h.handleListVerifications)
	r.Post("/verifications/run", h.handleRunVerification)

	r.Get("/stats", h.handleStatistics)

	r.Get("/scenarios", h.handleListScenarios)
	r.Post("/scenarios/{key}/run", h.handleRunScenario)

	if cfg.Health != nil {
		cfg.Health.Register(r)
	}
	r.Handle("/metrics", promhttp.Handler())

	if cfg.DevToken != nil {
		r.Post("/partner-token", cfg.DevToken.handleIssueToken)
	}

	return r
}
