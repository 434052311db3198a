package handler

import (
	"context"
	"net/http"

	"github.com/msafer/waitlist/internal/logger"
)

// Pinger reports backing-store health
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse reports service health
type HealthResponse struct {
	Status string `json:"status"`
}

// VersionResponse reports the running build
type VersionResponse struct {
	Version string `json:"version"`
}

// HandleHealthz reports process liveness
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// HandleReadyz reports readiness, including database connectivity
// @Summary Readiness probe
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			logger.FromContext(r.Context()).Error("Readiness check failed", "error", err)
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// HandleVersion reports the build version
// @Summary Build version
// @Tags system
// @Produce json
// @Success 200 {object} VersionResponse
// @Router /version [get]
func HandleVersion(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, VersionResponse{Version: version})
	}
}
