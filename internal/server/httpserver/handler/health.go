package handler

import (
	"net/http"
	"time"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleTabs handles GET /v1/tabs.
func (h *Handler) handleTabs(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.tabs)
}
