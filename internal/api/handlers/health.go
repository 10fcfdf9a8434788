package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// DatabasePinger defines the interface for database health checking.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

const healthCheckTimeout = 5 * time.Second

// Status constants.
const (
	StatusHealthy       = "healthy"
	StatusUnhealthy     = "unhealthy"
	StatusNotConfigured = "not configured"
	StatusAlive         = "alive"
	checkOK             = "ok"
)

// HealthHandler handles liveness and health endpoints.
type HealthHandler struct {
	database  DatabasePinger
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler. database may be nil when
// the service runs without a capture store.
func NewHealthHandler(database DatabasePinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		database:  database,
		logger:    logger.With("handler", "health"),
		startTime: time.Now(),
	}
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks"`
}

// LivenessResponse represents a simple liveness check response.
type LivenessResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
}

// Liveness reports that the process is serving requests.
//
// @Summary Liveness
// @Tags System
// @Produce json
// @Success 200 {object} LivenessResponse
// @Router /liveness [get]
// @ID getLiveness
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, LivenessResponse{
		Status:    StatusAlive,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).String(),
	})
}

// Health checks the capture store connection.
//
// @Summary Health
// @Description Reports the capture store connection
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
// @ID getHealth
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	response := HealthResponse{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).String(),
		Checks:    make(map[string]string),
	}

	switch {
	case h.database == nil:
		response.Checks["database"] = StatusNotConfigured
	default:
		if err := h.database.Ping(ctx); err != nil {
			h.logger.Warn("Database health check failed", "error", err)
			response.Status = StatusUnhealthy
			response.Checks["database"] = StatusUnhealthy
		} else {
			response.Checks["database"] = checkOK
		}
	}

	statusCode := http.StatusOK
	if response.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, r, statusCode, response)
}
