package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/promptvault-io/promptvault-engine/pkg/apperrors"
	"github.com/promptvault-io/promptvault-engine/pkg/catalog"
	"github.com/promptvault-io/promptvault-engine/pkg/models"
	"github.com/promptvault-io/promptvault-engine/pkg/repositories"
	"github.com/promptvault-io/promptvault-engine/pkg/screening"
)

// PromptInput carries the client-editable content fields of a prompt.
// ID, when set, redirects creation into the upsert-by-id path.
type PromptInput struct {
	ID           *uuid.UUID `json:"id,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	PromptText   string     `json:"prompt_text"`
	Guidance     string     `json:"guidance"`
	TaskType     string     `json:"task_type"`
	OutputFormat string     `json:"output_format"`
	Category     string     `json:"category"`
}

// ListOptions narrows a prompt listing. Visibility is decided by the
// service from the actor, not by these options.
type ListOptions struct {
	Mine         bool
	Status       string
	Category     string
	TaskType     string
	OutputFormat string
	Search       string
}

// PromptService implements the moderation state machine, the version
// archiver and the revert engine on top of the prompt repositories.
type PromptService interface {
	// Create submits a new prompt, or - when input.ID resolves to an
	// existing prompt - processes the call as a full update with the same
	// authorization and archival rules. The returned bool is true when an
	// existing prompt was updated rather than created.
	Create(ctx context.Context, actor *models.User, input *PromptInput) (*models.Prompt, bool, error)

	Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Prompt, error)
	List(ctx context.Context, actor *models.User, opts ListOptions) ([]*models.Prompt, error)
	Update(ctx context.Context, actor *models.User, id uuid.UUID, input *PromptInput) (*models.Prompt, error)

	Approve(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Prompt, error)
	Reject(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Prompt, error)

	History(ctx context.Context, actor *models.User, id uuid.UUID) ([]*models.PromptVersion, error)
	Revert(ctx context.Context, actor *models.User, id, versionID uuid.UUID) (*models.Prompt, error)

	// Categories returns the sorted union of the predefined catalog and
	// the actor's own prompt categories.
	Categories(ctx context.Context, actor *models.User) ([]string, error)
}

type promptService struct {
	promptRepo  repositories.PromptRepository
	versionRepo repositories.VersionRepository
	categories  []string
	screener    screening.Screener // Optional; nil disables screening
	logger      *zap.Logger
}

// PromptServiceDeps contains dependencies for PromptService.
type PromptServiceDeps struct {
	PromptRepo  repositories.PromptRepository
	VersionRepo repositories.VersionRepository
	Categories  []string
	Screener    screening.Screener // Optional
	Logger      *zap.Logger
}

// NewPromptService creates a new PromptService.
func NewPromptService(deps *PromptServiceDeps) PromptService {
	return &promptService{
		promptRepo:  deps.PromptRepo,
		versionRepo: deps.VersionRepo,
		categories:  deps.Categories,
		screener:    deps.Screener,
		logger:      deps.Logger,
	}
}

func (s *promptService) Create(ctx context.Context, actor *models.User, input *PromptInput) (*models.Prompt, bool, error) {
	if err := validateInput(input); err != nil {
		return nil, false, err
	}

	// Upsert-by-id: a client-supplied id that resolves to an existing
	// prompt redirects the call into the update path, full authorization
	// included. A non-resolving id falls through to plain creation.
	if input.ID != nil {
		existing, err := s.promptRepo.GetByID(ctx, *input.ID)
		switch {
		case err == nil:
			prompt, err := s.applyEdit(ctx, actor, existing, input)
			if err != nil {
				return nil, false, err
			}
			return prompt, true, nil
		case errors.Is(err, apperrors.ErrNotFound):
			// Fall through to creation.
		default:
			return nil, false, err
		}
	}

	prompt := &models.Prompt{
		UserID:       actor.ID,
		Title:        input.Title,
		Description:  input.Description,
		PromptText:   input.PromptText,
		Guidance:     input.Guidance,
		TaskType:     input.TaskType,
		OutputFormat: input.OutputFormat,
		Category:     input.Category,
		Status:       models.StatusPending,
	}
	if actor.IsStaff {
		prompt.Status = models.StatusApproved
	}

	// A prompt born approved gets a creation-time snapshot so every state
	// an approved prompt ever had has a version.
	var archive *models.PromptVersion
	if prompt.Status == models.StatusApproved {
		archive = prompt.Snapshot(&actor.ID)
	}

	if err := s.promptRepo.Create(ctx, prompt, archive); err != nil {
		return nil, false, err
	}

	s.screen(ctx, prompt)

	s.logger.Info("Prompt submitted",
		zap.String("prompt_id", prompt.ID.String()),
		zap.String("user_id", actor.ID.String()),
		zap.String("status", prompt.Status))

	return prompt, false, nil
}

func (s *promptService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Prompt, error) {
	prompt, err := s.promptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d := Authorize(actor, prompt, ActionRead); d != DecisionAllowed {
		return nil, decisionErr(d)
	}

	return prompt, nil
}

func (s *promptService) List(ctx context.Context, actor *models.User, opts ListOptions) ([]*models.Prompt, error) {
	filter := repositories.PromptFilter{
		Status:       opts.Status,
		Category:     opts.Category,
		TaskType:     opts.TaskType,
		OutputFormat: opts.OutputFormat,
		Search:       opts.Search,
	}

	switch {
	case actor.IsStaff:
		// Staff browse everything; client filters apply as-is.
	case opts.Mine:
		filter.OwnerID = &actor.ID
	default:
		filter.OnlyApproved = true
	}

	return s.promptRepo.List(ctx, filter)
}

func (s *promptService) Update(ctx context.Context, actor *models.User, id uuid.UUID, input *PromptInput) (*models.Prompt, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	existing, err := s.promptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.applyEdit(ctx, actor, existing, input)
}

// applyEdit performs the shared edit protocol: archive the pre-edit state
// if the prompt is approved, copy the new content, apply the re-review
// rule, and persist snapshot and mutation in one transaction.
func (s *promptService) applyEdit(ctx context.Context, actor *models.User, existing *models.Prompt, input *PromptInput) (*models.Prompt, error) {
	if d := Authorize(actor, existing, ActionModify); d != DecisionAllowed {
		return nil, decisionErr(d)
	}

	var archive *models.PromptVersion
	if existing.Status == models.StatusApproved {
		archive = existing.Snapshot(&actor.ID)
	}

	updated := *existing
	updated.Title = input.Title
	updated.Description = input.Description
	updated.PromptText = input.PromptText
	updated.Guidance = input.Guidance
	updated.TaskType = input.TaskType
	updated.OutputFormat = input.OutputFormat
	updated.Category = input.Category
	if !actor.IsStaff {
		// Any non-staff edit requires a fresh review.
		updated.Status = models.StatusPending
	}

	if err := s.promptRepo.Update(ctx, &updated, archive); err != nil {
		return nil, err
	}

	s.screen(ctx, &updated)

	s.logger.Info("Prompt updated",
		zap.String("prompt_id", updated.ID.String()),
		zap.String("user_id", actor.ID.String()),
		zap.Bool("archived", archive != nil),
		zap.String("status", updated.Status))

	return &updated, nil
}

func (s *promptService) Approve(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Prompt, error) {
	return s.moderate(ctx, actor, id, models.StatusApproved)
}

func (s *promptService) Reject(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Prompt, error) {
	return s.moderate(ctx, actor, id, models.StatusRejected)
}

func (s *promptService) moderate(ctx context.Context, actor *models.User, id uuid.UUID, target string) (*models.Prompt, error) {
	prompt, err := s.promptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The capability check gates the transition before it fires.
	if d := Authorize(actor, prompt, ActionModerate); d != DecisionAllowed {
		return nil, decisionErr(d)
	}

	if prompt.Status == target {
		return nil, fmt.Errorf("prompt is already %s: %w", target, apperrors.ErrAlreadyInState)
	}

	updated, err := s.promptRepo.UpdateStatus(ctx, id, target)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Prompt moderated",
		zap.String("prompt_id", id.String()),
		zap.String("moderator_id", actor.ID.String()),
		zap.String("status", target))

	return updated, nil
}

func (s *promptService) History(ctx context.Context, actor *models.User, id uuid.UUID) ([]*models.PromptVersion, error) {
	prompt, err := s.promptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d := Authorize(actor, prompt, ActionReadHistory); d != DecisionAllowed {
		return nil, decisionErr(d)
	}

	return s.versionRepo.ListByPrompt(ctx, id)
}

func (s *promptService) Revert(ctx context.Context, actor *models.User, id, versionID uuid.UUID) (*models.Prompt, error) {
	prompt, err := s.promptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d := Authorize(actor, prompt, ActionModify); d != DecisionAllowed {
		return nil, decisionErr(d)
	}

	version, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if version.PromptID != prompt.ID {
		return nil, apperrors.ErrVersionMismatch
	}

	// Archive the pre-revert state first, exactly like a pre-update
	// archival, so the reverted-away content stays in history.
	var archive *models.PromptVersion
	if prompt.Status == models.StatusApproved {
		archive = prompt.Snapshot(&actor.ID)
	}

	restored := *prompt
	restored.RestoreFrom(version)
	if !actor.IsStaff {
		restored.Status = models.StatusPending
	}

	if err := s.promptRepo.Update(ctx, &restored, archive); err != nil {
		return nil, err
	}

	s.logger.Info("Prompt reverted",
		zap.String("prompt_id", id.String()),
		zap.String("version_id", versionID.String()),
		zap.String("user_id", actor.ID.String()),
		zap.Bool("archived", archive != nil))

	return &restored, nil
}

func (s *promptService) Categories(ctx context.Context, actor *models.User) ([]string, error) {
	own, err := s.promptRepo.UserCategories(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return catalog.Merge(s.categories, own), nil
}

// screen runs the optional AI safety screen. Best-effort: failures are
// logged and never surface to the caller, and the submission proceeds to
// review regardless of the outcome.
func (s *promptService) screen(ctx context.Context, prompt *models.Prompt) {
	if s.screener == nil {
		return
	}

	result, err := s.screener.Screen(ctx, prompt.PromptText)
	if err != nil {
		s.logger.Warn("Prompt screening failed",
			zap.String("prompt_id", prompt.ID.String()),
			zap.Error(err))
		return
	}

	if err := s.promptRepo.SetScreeningResult(ctx, prompt.ID, result.Flagged, result.Categories); err != nil {
		s.logger.Warn("Failed to store screening result",
			zap.String("prompt_id", prompt.ID.String()),
			zap.Error(err))
		return
	}

	prompt.ScreenFlagged = result.Flagged
	prompt.ScreenFlags = result.Categories
}

// validateInput enforces the required content fields.
func validateInput(input *PromptInput) error {
	if input.Title == "" {
		return fmt.Errorf("title is required: %w", apperrors.ErrValidation)
	}
	if input.PromptText == "" {
		return fmt.Errorf("prompt_text is required: %w", apperrors.ErrValidation)
	}
	return nil
}

var _ PromptService = (*promptService)(nil)
