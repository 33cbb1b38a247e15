package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/promptvault-io/promptvault-engine/pkg/apperrors"
)

// ApiResponse wraps data in the format expected by the frontend.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// DomainErrorResponse maps a domain error to its HTTP status and writes the
// error body. Unknown errors become an opaque 500 so internals don't leak.
func DomainErrorResponse(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return ErrorResponse(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.Is(err, apperrors.ErrForbidden):
		return ErrorResponse(w, http.StatusForbidden, "forbidden", "You do not have permission to perform this action")
	case errors.Is(err, apperrors.ErrAlreadyInState):
		return ErrorResponse(w, http.StatusBadRequest, "already_in_state", err.Error())
	case errors.Is(err, apperrors.ErrVersionMismatch):
		return ErrorResponse(w, http.StatusBadRequest, "version_mismatch", "Version does not belong to this prompt")
	case errors.Is(err, apperrors.ErrValidation):
		return ErrorResponse(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		return ErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}
