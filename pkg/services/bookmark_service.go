package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/promptvault-io/promptvault-engine/pkg/models"
	"github.com/promptvault-io/promptvault-engine/pkg/repositories"
)

// BookmarkService toggles a user's saved-reference relation to a prompt.
type BookmarkService interface {
	// Toggle adds the bookmark if absent and removes it if present,
	// returning the prompt with its relation state for the actor.
	Toggle(ctx context.Context, actor *models.User, promptID uuid.UUID) (*models.Prompt, error)
}

type bookmarkService struct {
	promptRepo repositories.PromptRepository
	logger     *zap.Logger
}

// NewBookmarkService creates a new BookmarkService.
func NewBookmarkService(promptRepo repositories.PromptRepository, logger *zap.Logger) BookmarkService {
	return &bookmarkService{promptRepo: promptRepo, logger: logger}
}

func (s *bookmarkService) Toggle(ctx context.Context, actor *models.User, promptID uuid.UUID) (*models.Prompt, error) {
	// Bookmarking intentionally skips the visibility filter: any prompt a
	// client holds an id for can be saved, matching the public contract.
	prompt, err := s.promptRepo.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}

	bookmarked, err := s.promptRepo.ToggleBookmark(ctx, promptID, actor.ID)
	if err != nil {
		return nil, err
	}
	prompt.Bookmarked = bookmarked

	s.logger.Debug("Bookmark toggled",
		zap.String("prompt_id", promptID.String()),
		zap.String("user_id", actor.ID.String()),
		zap.Bool("bookmarked", bookmarked))

	return prompt, nil
}

var _ BookmarkService = (*bookmarkService)(nil)
