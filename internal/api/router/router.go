package router

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/evect-health/fulfillment/internal/fulfillment"
	httpmiddleware "github.com/evect-health/fulfillment/internal/http/middleware"
	"github.com/evect-health/fulfillment/internal/knowledge"
	"github.com/evect-health/fulfillment/pkg/logging"
)

// ReadinessCheck reports whether a backing dependency is reachable.
type ReadinessCheck func(ctx context.Context) error

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	Webhook         *fulfillment.WebhookHandler
	WebhookUsername string
	WebhookPassword string
	CacheHandler    *knowledge.CacheHandler
	AdminAuthSecret string
	MetricsHandler  http.Handler

	// Readiness checks keyed by dependency name, run by GET /ready.
	Readiness map[string]ReadinessCheck
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	r.Group(func(public chi.Router) {
		public.Get("/health", healthHandler)
		public.Get("/ready", readyHandler(cfg.Readiness))
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	if cfg.Webhook != nil {
		webhook := r.With()
		if cfg.WebhookUsername != "" {
			webhook = r.With(middleware.BasicAuth("fulfillment", map[string]string{
				cfg.WebhookUsername: cfg.WebhookPassword,
			}))
		}
		webhook.Post("/webhook", cfg.Webhook.HandleWebhook)
	}

	if cfg.AdminAuthSecret != "" && cfg.CacheHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Delete("/knowledge/cache", cfg.CacheHandler.Invalidate)
		})
	}

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func readyHandler(checks map[string]ReadinessCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		result := map[string]string{}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				result[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			result[name] = "ok"
		}
		writeJSON(w, status, map[string]any{"status": http.StatusText(status), "checks": result})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
