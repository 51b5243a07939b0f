package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// ReadinessCheck reports whether a dependency is usable, e.g. pgxpool.Pool.Ping.
type ReadinessCheck func(ctx context.Context) error

// RouterDeps bundles what NewRouter wires together.
type RouterDeps struct {
	Notifications *NotificationHandler
	Inbox         *InboxHandler
	JWTSecret     []byte
	Logger        *slog.Logger
	Checks        map[string]ReadinessCheck
}

// NewRouter builds the service's HTTP API.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(PrometheusMetricsMiddleware)

	r.Get("/health", healthHandler(d.Checks, d.Logger))

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(JWTAuthMiddleware(d.JWTSecret, d.Logger))
		v1.Post("/notifications", d.Notifications.HandleNotification)
		v1.Get("/inbox", d.Inbox.ListMessages)
		v1.Get("/inbox/count", d.Inbox.CountMessages)
	})
	return r
}

func healthHandler(checks map[string]ReadinessCheck, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		code := http.StatusOK
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				logger.WarnContext(r.Context(), "Readiness check failed", "check", name, "error", err)
				status[name] = "unavailable"
				status["status"] = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			status[name] = "ok"
		}
		writeJSON(w, code, status)
	}
}
