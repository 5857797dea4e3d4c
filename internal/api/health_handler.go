package api

import (
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/Authcult/tradingagents-api/internal/api/shared"
	"github.com/Authcult/tradingagents-api/internal/platform/engine"
)

// HealthHandler handles health and service metadata requests.
type HealthHandler struct {
	serviceName  string
	version      string
	availability func() engine.Availability
	logger       *slog.Logger
}

// NewHealthHandler creates a HealthHandler. availability reports whether
// the real analysis engine is usable.
func NewHealthHandler(
	serviceName, version string,
	availability func() engine.Availability,
	logger *slog.Logger,
) *HealthHandler {
	return &HealthHandler{
		serviceName:  serviceName,
		version:      version,
		availability: availability,
		logger:       logger.With(slog.String("component", "health_handler")),
	}
}

// Check handles GET /api/health requests.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":   true,
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   h.serviceName,
	})
}

// DetailedStatus handles GET /api/health/status requests with system and
// engine information.
func (h *HealthHandler) DetailedStatus(w http.ResponseWriter, r *http.Request) {
	avail := h.availability()
	engineState := "available"
	if !avail.Available {
		engineState = "simulated"
	}

	shared.RespondWithData(w, r, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"system": map[string]string{
			"platform":     runtime.GOOS,
			"architecture": runtime.GOARCH,
			"go_version":   runtime.Version(),
		},
		"services": map[string]string{
			"api":             "running",
			"analysis_engine": engineState,
		},
	})
}

// Ping handles GET /api/health/ping requests.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]interface{}{
		"pong":      true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
