package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/promptvault-io/promptvault-engine/pkg/auth"
	"github.com/promptvault-io/promptvault-engine/pkg/services"
)

// CategoryListResponse for GET /api/categories
type CategoryListResponse struct {
	Categories []string `json:"categories"`
}

// CategoryHandler serves the merged category catalog.
type CategoryHandler struct {
	promptService services.PromptService
	userService   services.UserService
	logger        *zap.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(promptService services.PromptService, userService services.UserService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		promptService: promptService,
		userService:   userService,
		logger:        logger,
	}
}

// RegisterRoutes registers the category handler's routes on the given mux.
func (h *CategoryHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/categories", authMiddleware.RequireAuth(h.List))
}

// List handles GET /api/categories. Returns the sorted union of the
// predefined catalog and the categories used by the caller's own prompts.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := ResolveActor(w, r, h.userService, h.logger)
	if !ok {
		return
	}

	categories, err := h.promptService.Categories(r.Context(), actor)
	if err != nil {
		h.logger.Error("Failed to list categories", zap.String("user_id", actor.ID.String()), zap.Error(err))
		if werr := DomainErrorResponse(w, err); werr != nil {
			h.logger.Error("Failed to write error response", zap.Error(werr))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: CategoryListResponse{Categories: categories}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
