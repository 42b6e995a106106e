package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sweetnothings-bakery/super-receptionist/internal/service"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeServiceError maps service sentinels onto HTTP statuses. Upstream
// responder failures map to 502 so clients can tell a retryable failure from
// a rejected request or a store fault.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUpstream):
		writeError(w, http.StatusBadGateway, "ai responder unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
