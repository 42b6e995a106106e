package handler

import (
	"net/http"

	"github.com/sweetnothings-bakery/super-receptionist/internal/store"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store *store.Client
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(storeClient *store.Client) *HealthHandler {
	return &HealthHandler{
		store: storeClient,
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
	if h.store == nil || h.store.Ping(r.Context()) != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "document store unreachable",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
