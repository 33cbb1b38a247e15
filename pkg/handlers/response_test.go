package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptvault-io/promptvault-engine/pkg/apperrors"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	err := WriteJSON(rec, http.StatusOK, ApiResponse{Success: true, Data: "payload"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var response ApiResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.True(t, response.Success)
	assert.Equal(t, "payload", response.Data)
}

func TestErrorResponse(t *testing.T) {
	rec := httptest.NewRecorder()

	err := ErrorResponse(rec, http.StatusBadRequest, "invalid_request", "Bad input")
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "invalid_request", body["error"])
	assert.Equal(t, "Bad input", body["message"])
}

func TestDomainErrorResponse_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"already in state", apperrors.ErrAlreadyInState, http.StatusBadRequest, "already_in_state"},
		{"version mismatch", apperrors.ErrVersionMismatch, http.StatusBadRequest, "version_mismatch"},
		{"validation", apperrors.ErrValidation, http.StatusBadRequest, "validation_failed"},
		{"unknown", fmt.Errorf("connection reset"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.NoError(t, DomainErrorResponse(rec, tt.err))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body["error"])
		})
	}
}

func TestDomainErrorResponse_WrappedErrorsMap(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := fmt.Errorf("prompt is already approved: %w", apperrors.ErrAlreadyInState)

	require.NoError(t, DomainErrorResponse(rec, wrapped))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "already_in_state", body["error"])
	// The wrapped message survives for the client.
	assert.Contains(t, body["message"], "already approved")
}

func TestDomainErrorResponse_UnknownErrorIsOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, DomainErrorResponse(rec, fmt.Errorf("pq: relation prompts does not exist")))

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotContains(t, body["message"], "relation")
}
