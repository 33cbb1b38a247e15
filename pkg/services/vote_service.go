package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/promptvault-io/promptvault-engine/pkg/apperrors"
	"github.com/promptvault-io/promptvault-engine/pkg/models"
	"github.com/promptvault-io/promptvault-engine/pkg/repositories"
)

// VoteService casts toggle-semantics votes and returns the prompt with
// freshly recomputed aggregates.
type VoteService interface {
	// Cast applies value (+1 or -1) as the actor's vote on the prompt.
	Cast(ctx context.Context, actor *models.User, promptID uuid.UUID, value int) (*models.Prompt, error)
}

type voteService struct {
	promptRepo repositories.PromptRepository
	logger     *zap.Logger
}

// NewVoteService creates a new VoteService.
func NewVoteService(promptRepo repositories.PromptRepository, logger *zap.Logger) VoteService {
	return &voteService{promptRepo: promptRepo, logger: logger}
}

func (s *voteService) Cast(ctx context.Context, actor *models.User, promptID uuid.UUID, value int) (*models.Prompt, error) {
	if value != models.VoteUp && value != models.VoteDown {
		return nil, fmt.Errorf("vote value must be +1 or -1: %w", apperrors.ErrValidation)
	}

	prompt, err := s.promptRepo.GetByID(ctx, promptID)
	if err != nil {
		return nil, err
	}

	// Voting is a read-level operation: hidden prompts stay hidden.
	if d := Authorize(actor, prompt, ActionRead); d != DecisionAllowed {
		return nil, decisionErr(d)
	}

	updated, err := s.promptRepo.CastVote(ctx, promptID, actor.ID, value)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Vote cast",
		zap.String("prompt_id", promptID.String()),
		zap.String("user_id", actor.ID.String()),
		zap.Int("value", value),
		zap.Int("tally", updated.Vote))

	return updated, nil
}

var _ VoteService = (*voteService)(nil)
