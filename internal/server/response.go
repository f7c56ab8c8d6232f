// Package server exposes the REST API over chi.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nmehra/tripsplit/internal/apperr"
)

// envelope is the uniform response shape: {success, message, data} on
// success, {success, error:{message}} on failure.
type envelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Data    any           `json:"data,omitempty"`
	Error   *errorPayload `json:"error,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// writeJSON sends a success envelope.
func writeJSON(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Message: message, Data: data}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy to HTTP statuses: NotFound to 404,
// ValidationError to 400, everything else to 500 with a generic message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case apperr.IsValidation(err):
		status = http.StatusBadRequest
		message = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(envelope{Success: false, Error: &errorPayload{Message: message}}); encErr != nil {
		slog.Error("Failed to encode error response", "error", encErr)
	}
}

// decodeJSON parses a request body, rejecting unknown garbage with a
// ValidationError so the caller gets a 400 rather than a 500.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validationf("invalid request body: %v", err)
	}
	return nil
}
