package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/promptvault-io/promptvault-engine/pkg/auth"
	"github.com/promptvault-io/promptvault-engine/pkg/models"
	"github.com/promptvault-io/promptvault-engine/pkg/services"
)

// ParsePromptID extracts and validates the prompt ID from the request path.
// Returns the parsed UUID and true on success, or uuid.Nil and false after
// writing an error response.
// Expects path parameter: id
func ParsePromptID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "id", "invalid_prompt_id", "Invalid prompt ID format", logger)
}

// ParseVersionID extracts and validates the version ID from the request path.
// Expects path parameter: versionId
func ParseVersionID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "versionId", "invalid_version_id", "Invalid version ID format", logger)
}

// parseUUID is the internal helper that does the actual parsing work.
func parseUUID(w http.ResponseWriter, r *http.Request, pathParam, errorCode, errorMessage string, logger *zap.Logger) (uuid.UUID, bool) {
	idStr := r.PathValue(pathParam)
	id, err := uuid.Parse(idStr)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, errorCode, errorMessage); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}

// ResolveActor turns the authenticated claims in the request context into
// the acting user, upserting the users row so the staff flag is the
// database's. Writes an error response and returns false on failure.
func ResolveActor(w http.ResponseWriter, r *http.Request, users services.UserService, logger *zap.Logger) (*models.User, bool) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return nil, false
	}

	actor, err := users.Resolve(r.Context(), claims)
	if err != nil {
		logger.Error("Failed to resolve acting user",
			zap.String("subject", claims.Subject),
			zap.Error(err))
		if err := DomainErrorResponse(w, err); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return nil, false
	}

	return actor, true
}
