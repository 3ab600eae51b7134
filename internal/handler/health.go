package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const Version = "1.0.0"

// Pinger reports whether the store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	store  Pinger
	logger *slog.Logger
}

func NewHealthHandler(store Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Error     string    `json:"error,omitempty"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   Version,
	}
	status := http.StatusOK

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Error("health check failed", "error", err)
		resp.Status = "unhealthy"
		resp.Error = "database unreachable"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp, h.logger)
}
