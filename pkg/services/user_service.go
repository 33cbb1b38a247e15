package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/promptvault-io/promptvault-engine/pkg/apperrors"
	"github.com/promptvault-io/promptvault-engine/pkg/auth"
	"github.com/promptvault-io/promptvault-engine/pkg/models"
	"github.com/promptvault-io/promptvault-engine/pkg/repositories"
)

// UserService resolves the acting user from token claims and handles staff
// promotion.
type UserService interface {
	// Resolve upserts the users row for the authenticated claims and
	// returns it. The returned user carries the authoritative staff flag
	// from the database, not from the token.
	Resolve(ctx context.Context, claims *auth.Claims) (*models.User, error)

	// Promote grants staff capability to the named user. Staff only.
	Promote(ctx context.Context, actor *models.User, username string) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, logger *zap.Logger) UserService {
	return &userService{userRepo: userRepo, logger: logger}
}

func (s *userService) Resolve(ctx context.Context, claims *auth.Claims) (*models.User, error) {
	id, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, apperrors.ErrValidation)
	}

	username := claims.Username
	if username == "" {
		username = claims.Subject
	}

	user := &models.User{
		ID:       id,
		Username: username,
		Email:    claims.Email,
		IsStaff:  claims.Staff, // Initial value only; ignored for existing rows
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) Promote(ctx context.Context, actor *models.User, username string) (*models.User, error) {
	if !actor.IsStaff {
		return nil, apperrors.ErrForbidden
	}
	if username == "" {
		return nil, fmt.Errorf("username is required: %w", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.IsStaff {
		return nil, fmt.Errorf("user %q is already staff: %w", username, apperrors.ErrAlreadyInState)
	}

	if err := s.userRepo.SetStaff(ctx, user.ID, true); err != nil {
		return nil, err
	}
	user.IsStaff = true

	s.logger.Info("User promoted to staff",
		zap.String("user_id", user.ID.String()),
		zap.String("username", username),
		zap.String("promoted_by", actor.ID.String()))

	return user, nil
}

var _ UserService = (*userService)(nil)
