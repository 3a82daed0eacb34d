// Package httpapi assembles the public HTTP surface: the middleware chain,
// operational endpoints and the feature handlers.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/AmineOzil/user-registration/internal/platform/metrics"
	"github.com/AmineOzil/user-registration/internal/platform/middleware"
	"github.com/AmineOzil/user-registration/pkg/platform/httputil"
	"github.com/AmineOzil/user-registration/pkg/platform/middleware/metadata"
	"github.com/AmineOzil/user-registration/pkg/platform/middleware/requesttime"
)

const healthTimeout = 2 * time.Second

// RouteRegistrar mounts a feature's routes.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Deps are the collaborators the router wires together. Metrics and Clock
// are optional.
type Deps struct {
	Logger       *slog.Logger
	Errors       *httputil.ErrorWriter
	Metrics      *metrics.Metrics
	Clock        func() time.Time
	HealthChecks map[string]HealthCheck
	Handlers     []RouteRegistrar
}

// NewRouter wires all public endpoints behind the shared middleware chain.
func NewRouter(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Errors == nil {
		deps.Errors = httputil.NewErrorWriter(deps.Logger)
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.CorrelationID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.MiddlewareWithClock(clock))
	r.Use(middleware.APILogging(deps.Logger))
	r.Use(middleware.Recovery(deps.Errors))
	if deps.Metrics != nil {
		r.Use(middleware.Latency(deps.Metrics))
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Get("/health", healthHandler(deps.HealthChecks))

	for _, h := range deps.Handlers {
		h.Register(r)
	}
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				resp.Checks[name] = "down"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "up"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
