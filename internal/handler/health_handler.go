package handler

import (
	"net/http"
	"time"

	"vv-api/pkg/database"
	"vv-api/pkg/logger"
	"vv-api/pkg/redis"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db    *database.PostgresDB
	cache *redis.Client
	log   *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.PostgresDB, cache *redis.Client, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
		log:   log.Named("health"),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Checks    map[string]string `json:"checks"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   "vv-api",
		Checks:    map[string]string{"postgres": "ok", "redis": "ok"},
	}
	status := http.StatusOK

	if err := h.db.Health(ctx); err != nil {
		h.log.WithError(err).Error("Postgres health check failed")
		response.Status = "degraded"
		response.Checks["postgres"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	if err := h.cache.Health(ctx); err != nil {
		h.log.WithError(err).Error("Redis health check failed")
		response.Status = "degraded"
		response.Checks["redis"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, response)
}
