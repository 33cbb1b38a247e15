package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/promptvault-io/promptvault-engine/pkg/auth"
	"github.com/promptvault-io/promptvault-engine/pkg/models"
	"github.com/promptvault-io/promptvault-engine/pkg/services"
)

// ============================================================================
// Request/Response Types
// ============================================================================

// PromptListResponse for GET /api/prompts
type PromptListResponse struct {
	Prompts []*models.Prompt `json:"prompts"`
	Total   int              `json:"total"`
}

// HistoryResponse for GET /api/prompts/{id}/history
type HistoryResponse struct {
	Versions []*models.PromptVersion `json:"versions"`
	Total    int                     `json:"total"`
}

// ============================================================================
// Handler
// ============================================================================

// PromptHandler handles prompt HTTP requests.
type PromptHandler struct {
	promptService   services.PromptService
	voteService     services.VoteService
	bookmarkService services.BookmarkService
	userService     services.UserService
	logger          *zap.Logger
}

// NewPromptHandler creates a new prompt handler.
func NewPromptHandler(
	promptService services.PromptService,
	voteService services.VoteService,
	bookmarkService services.BookmarkService,
	userService services.UserService,
	logger *zap.Logger,
) *PromptHandler {
	return &PromptHandler{
		promptService:   promptService,
		voteService:     voteService,
		bookmarkService: bookmarkService,
		userService:     userService,
		logger:          logger,
	}
}

// RegisterRoutes registers the prompt handler's routes on the given mux.
func (h *PromptHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	base := "/api/prompts"

	mux.HandleFunc("POST "+base, authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET "+base, authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET "+base+"/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PUT "+base+"/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("PATCH "+base+"/{id}", authMiddleware.RequireAuth(h.Update))
	mux.HandleFunc("POST "+base+"/{id}/approve", authMiddleware.RequireAuth(h.Approve))
	mux.HandleFunc("POST "+base+"/{id}/reject", authMiddleware.RequireAuth(h.Reject))
	mux.HandleFunc("POST "+base+"/{id}/upvote", authMiddleware.RequireAuth(h.Upvote))
	mux.HandleFunc("POST "+base+"/{id}/downvote", authMiddleware.RequireAuth(h.Downvote))
	mux.HandleFunc("GET "+base+"/{id}/history", authMiddleware.RequireAuth(h.History))
	mux.HandleFunc("POST "+base+"/{id}/revert/{versionId}", authMiddleware.RequireAuth(h.Revert))
	mux.HandleFunc("POST "+base+"/{id}/bookmark", authMiddleware.RequireAuth(h.Bookmark))
}

// Create handles POST /api/prompts. A body carrying the id of an existing
// prompt is processed as an upsert-style update and answered with 200; a
// fresh submission is answered with 201.
func (h *PromptHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := ResolveActor(w, r, h.userService, h.logger)
	if !ok {
		return
	}

	var input services.PromptInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	prompt, updated, err := h.promptService.Create(r.Context(), actor, &input)
	if err != nil {
		h.domainError(w, err, "create_prompt_failed", zap.String("user_id", actor.ID.String()))
		return
	}

	status := http.StatusCreated
	if updated {
		status = http.StatusOK
	}
	h.writeJSON(w, status, prompt)
}

// List handles GET /api/prompts subject to the visibility policy.
func (h *PromptHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := ResolveActor(w, r, h.userService, h.logger)
	if !ok {
		return
	}

	q := r.URL.Query()
	opts := services.ListOptions{
		Mine:         q.Get("mine") == "1",
		Status:       q.Get("status"),
		Category:     q.Get("category"),
		TaskType:     q.Get("task_type"),
		OutputFormat: q.Get("output_format"),
		Search:       q.Get("search"),
	}

	prompts, err := h.promptService.List(r.Context(), actor, opts)
	if err != nil {
		h.domainError(w, err, "list_prompts_failed", zap.String("user_id", actor.ID.String()))
		return
	}

	h.writeJSON(w, http.StatusOK, PromptListResponse{Prompts: prompts, Total: len(prompts)})
}

// Get handles GET /api/prompts/{id}.
func (h *PromptHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := ResolveActor(w, r, h.userService, h.logger)
	if !ok {
		return
	}
	promptID, ok := ParsePromptID(w, r, h.logger)
	if !ok {
		return
	}

	prompt, err := h.promptService.Get(r.Context(), actor, promptID)
	if err != nil {
		h.domainError(w, err, "get_prompt_failed", zap.String("prompt_id", promptID.String()))
		return
	}

	h.writeJSON(w, http.StatusOK, prompt)
}

// Update handles PUT/PATCH /api/prompts/{id}.
func (h *PromptHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := ResolveActor(w, r, h.userService, h.logger)
	if !ok {
		return
	}
	promptID, ok := ParsePromptID(w, r, h.logger)
	if !ok {
		return
	}

	var input services.PromptInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	prompt, err := h.promptService.Update(r.Context(), actor, promptID, &input)
	if err != nil {
		h.domainError(w, err, "update_prompt_failed", zap.String("prompt_id", promptID.String()))
		return
	}

	h.writeJSON(w, http.StatusOK, prompt)
}

// Approve handles POST /api/prompts/{id}/approve.
func (h *PromptHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.promptService.Approve, "approve_prompt_failed")
}

// Reject handles POST /api/prompts/{id}/reject.
func (h *PromptHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.promptService.Reject, "reject_prompt_failed")
}

// Upvote handles POST /api/prompts/{id}/upvote.
func (h *PromptHandler) Upvote(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, models.VoteUp)
}

// Downvote handles POST /api/prompts/{id}/downvote.
func (h *PromptHandler) Downvote(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, models.VoteDown)
}

// History handles GET /api/prompts/{id}/history.
func (h *PromptHandler) History(w http.ResponseWriter, r *http.Request) {
	actor, ok := ResolveActor(w, r, h.userService, h.logger)
	if !ok {
		return
	}
	promptID, ok := ParsePromptID(w, r, h.logger)
	if !ok {
		return
	}

	versions, err := h.promptService.History(r.Context(), actor, promptID)
	if err != nil {
		h.domainError(w, err, "prompt_history_failed", zap.String("prompt_id", promptID.String()))
		return
	}

	h.writeJSON(w, http.StatusOK, HistoryResponse{Versions: versions, Total: len(versions)})
}

// Revert handles POST /api/prompts/{id}/revert/{versionId}.
func (h *PromptHandler) Revert(w http.ResponseWriter, r *http.Request) {
	actor, ok := ResolveActor(w, r, h.userService, h.logger)
	if !ok {
		return
	}
	promptID, ok := ParsePromptID(w, r, h.logger)
	if !ok {
		return
	}
	versionID, ok := ParseVersionID(w, r, h.logger)
	if !ok {
		return
	}

	prompt, err := h.promptService.Revert(r.Context(), actor, promptID, versionID)
	if err != nil {
		h.domainError(w, err, "revert_prompt_failed",
			zap.String("prompt_id", promptID.String()),
			zap.String("version_id", versionID.String()))
		return
	}

	h.writeJSON(w, http.StatusOK, prompt)
}

// Bookmark handles POST /api/prompts/{id}/bookmark.
func (h *PromptHandler) Bookmark(w http.ResponseWriter, r *http.Request) {
	actor, ok := ResolveActor(w, r, h.userService, h.logger)
	if !ok {
		return
	}
	promptID, ok := ParsePromptID(w, r, h.logger)
	if !ok {
		return
	}

	prompt, err := h.bookmarkService.Toggle(r.Context(), actor, promptID)
	if err != nil {
		h.domainError(w, err, "toggle_bookmark_failed", zap.String("prompt_id", promptID.String()))
		return
	}

	h.writeJSON(w, http.StatusOK, prompt)
}

// moderate is the shared approve/reject plumbing.
func (h *PromptHandler) moderate(
	w http.ResponseWriter,
	r *http.Request,
	transition func(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Prompt, error),
	errorCode string,
) {
	actor, ok := ResolveActor(w, r, h.userService, h.logger)
	if !ok {
		return
	}
	promptID, ok := ParsePromptID(w, r, h.logger)
	if !ok {
		return
	}

	prompt, err := transition(r.Context(), actor, promptID)
	if err != nil {
		h.domainError(w, err, errorCode,
			zap.String("prompt_id", promptID.String()),
			zap.String("moderator_id", actor.ID.String()))
		return
	}

	h.writeJSON(w, http.StatusOK, prompt)
}

// vote is the shared upvote/downvote plumbing.
func (h *PromptHandler) vote(w http.ResponseWriter, r *http.Request, value int) {
	actor, ok := ResolveActor(w, r, h.userService, h.logger)
	if !ok {
		return
	}
	promptID, ok := ParsePromptID(w, r, h.logger)
	if !ok {
		return
	}

	prompt, err := h.voteService.Cast(r.Context(), actor, promptID, value)
	if err != nil {
		h.domainError(w, err, "cast_vote_failed",
			zap.String("prompt_id", promptID.String()),
			zap.String("user_id", actor.ID.String()))
		return
	}

	h.writeJSON(w, http.StatusOK, prompt)
}

func (h *PromptHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	if err := WriteJSON(w, status, ApiResponse{Success: true, Data: data}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *PromptHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

// domainError logs the failure and writes the mapped domain error response.
func (h *PromptHandler) domainError(w http.ResponseWriter, err error, code string, fields ...zap.Field) {
	h.logger.Warn("Prompt operation failed", append(fields, zap.String("code", code), zap.Error(err))...)
	if werr := DomainErrorResponse(w, err); werr != nil {
		h.logger.Error("Failed to write error response", zap.Error(werr))
	}
}
