package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/launchbase/api-template/internal/request"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// HealthChecker handles health check requests
type HealthChecker struct {
	log *zap.Logger
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(log *zap.Logger) *HealthChecker {
	return &HealthChecker{log: log}
}

// HealthCheck handles GET /api/v1/health. It is exempt from rate limiting
// so load balancer probes are never throttled.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.log.Info("health_check",
		zap.String("client_host", request.ClientIP(r)),
	)

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error("failed_to_encode_health_response", zap.Error(err))
	}
}
