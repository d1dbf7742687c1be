package handlers

import (
	"net/http"

	"github.com/bukra-xhamxhiu/master-arbeit-bxh/evaluation"
	"github.com/bukra-xhamxhiu/master-arbeit-bxh/logger"
)

// HealthResponse reports the service version and whether the history
// database answers.
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	store   evaluation.Store
	version string
	logger  logger.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store evaluation.Store, version string, log logger.Logger) *HealthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &HealthHandler{store: store, version: version, logger: log}
}

// Check answers 200 when the history store is reachable and 503 otherwise.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "healthy", Service: "wcx", Version: h.version, Database: "ok"}
	if h.store == nil {
		resp.Database = "disabled"
		respondJSON(w, http.StatusOK, resp)
		return
	}

	if _, err := h.store.Count(r.Context()); err != nil {
		h.logger.Warn(r.Context(), "Health check failed", map[string]interface{}{
			"error": err.Error(),
		})
		resp.Status = "unhealthy"
		resp.Database = "unavailable"
		respondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
