package handler

import (
	"net/http"

	"github.com/bea-tech/site-assistant/internal/llm"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	client llm.Client
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(client llm.Client) *HealthHandler {
	return &HealthHandler{
		client: client,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	// The chat core is useless without a configured completion client.
	if h.client == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "completion service not configured",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
