// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/linkly/linkly/internal/handler/dto"
	"github.com/linkly/linkly/internal/service"
)

// Error codes returned in dto.ErrorResponse.
const (
	CodeInvalidJSON        = "INVALID_JSON"
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInternal           = "INTERNAL_ERROR"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
)

// serverErrorMessage is the only message clients see for internal failures.
const serverErrorMessage = "Server Error"

// Handler serves the fallback routes.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, CodeNotFound, "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// decodeJSON reads the request body into dst and answers 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, CodeInvalidJSON, "Invalid request body")
		return false
	}
	return true
}

// handleServiceError maps a service error kind to a status code.
// Internal errors are logged and never shown to the client.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	message := err.Error()

	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, CodeValidation, message)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, CodeNotFound, message)
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, CodeConflict, message)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, CodeInvalidCredentials, message)
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, CodeInternal, serverErrorMessage)
	}
}
