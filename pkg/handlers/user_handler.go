package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/promptvault-io/promptvault-engine/pkg/auth"
	"github.com/promptvault-io/promptvault-engine/pkg/services"
)

// PromoteRequest for POST /api/admin/promote
type PromoteRequest struct {
	Username string `json:"username"`
}

// UserHandler handles account and admin HTTP requests.
type UserHandler struct {
	userService services.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// RegisterRoutes registers the user handler's routes on the given mux.
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/me", authMiddleware.RequireAuth(h.Me))
	mux.HandleFunc("POST /api/admin/promote", authMiddleware.RequireAuth(h.Promote))
}

// Me handles GET /api/me. Returns the caller's resolved account record.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := ResolveActor(w, r, h.userService, h.logger)
	if !ok {
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: actor}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Promote handles POST /api/admin/promote. Grants staff capability to the
// named user. Staff only.
func (h *UserHandler) Promote(w http.ResponseWriter, r *http.Request) {
	actor, ok := ResolveActor(w, r, h.userService, h.logger)
	if !ok {
		return
	}

	var req PromoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if werr := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	promoted, err := h.userService.Promote(r.Context(), actor, req.Username)
	if err != nil {
		h.logger.Warn("Failed to promote user",
			zap.String("actor_id", actor.ID.String()),
			zap.String("username", req.Username),
			zap.Error(err))
		if werr := DomainErrorResponse(w, err); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: promoted}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
