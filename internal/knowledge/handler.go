package knowledge

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/evect-health/fulfillment/internal/http/middleware"
	"github.com/evect-health/fulfillment/pkg/logging"
)

// Invalidator drops cached knowledge entries.
type Invalidator interface {
	Invalidate(ctx context.Context) (int, error)
}

// CacheHandler serves the knowledge cache admin endpoint.
type CacheHandler struct {
	cache  Invalidator
	logger *logging.Logger
}

// NewCacheHandler creates the admin handler. cache may be nil when no cache
// is configured.
func NewCacheHandler(cache Invalidator, logger *logging.Logger) *CacheHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &CacheHandler{cache: cache, logger: logger}
}

// InvalidateResponse reports how many entries were flushed.
type InvalidateResponse struct {
	Removed int `json:"removed"`
}

// Invalidate handles DELETE /admin/knowledge/cache.
func (h *CacheHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		http.Error(w, "knowledge cache not configured", http.StatusNotFound)
		return
	}

	var subject string
	if claims, ok := middleware.AdminClaimsFromContext(r.Context()); ok {
		subject = claims.Subject
	}
	logger := h.logger.With(
		"subject", subject,
		"request_id", middleware.RequestIDFromContext(r.Context()),
	)

	removed, err := h.cache.Invalidate(r.Context())
	if err != nil {
		logger.Error("failed to invalidate knowledge cache", "error", err)
		http.Error(w, "failed to invalidate cache", http.StatusInternalServerError)
		return
	}

	logger.Info("knowledge cache invalidated", "removed", removed)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(InvalidateResponse{Removed: removed})
}
