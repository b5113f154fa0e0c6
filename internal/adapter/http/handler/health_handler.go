package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	redisClient *redis.Client
}

// NewHealthHandler creates a new HealthHandler. redisClient may be nil when
// idempotency is disabled.
func NewHealthHandler(redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		redisClient: redisClient,
	}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"status": "ready",
		"ledger": "ok",
		"redis":  "disabled",
	}

	if h.redisClient != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		// Idempotency fails open, so an unreachable redis degrades but does not block.
		status["redis"] = "ok"
		if err := h.redisClient.Ping(ctx).Err(); err != nil {
			status["redis"] = "degraded"
			status["redis_error"] = err.Error()
		}
	}

	writeJSON(w, http.StatusOK, status)
}
