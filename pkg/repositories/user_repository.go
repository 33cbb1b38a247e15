package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/promptvault-io/promptvault-engine/pkg/apperrors"
	"github.com/promptvault-io/promptvault-engine/pkg/database"
	"github.com/promptvault-io/promptvault-engine/pkg/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Upsert creates or refreshes a user row from identity-provider claims.
	// The is_staff column is never touched on conflict: the database is the
	// authority for moderation capability. The stored row is scanned back
	// onto user.
	Upsert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// SetStaff flips the staff flag for a user.
	SetStaff(ctx context.Context, id uuid.UUID, staff bool) error
}

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	now := time.Now()

	query := `
		INSERT INTO users (id, username, email, is_staff, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username,
		    email = EXCLUDED.email,
		    updated_at = EXCLUDED.updated_at
		RETURNING is_staff, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.IsStaff,
		now,
	).Scan(&user.IsStaff, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.get(ctx, `WHERE username = $1`, username)
}

func (r *userRepository) get(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, username, email, is_staff, created_at, updated_at
		FROM users ` + where

	var user models.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.IsStaff,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) SetStaff(ctx context.Context, id uuid.UUID, staff bool) error {
	query := `UPDATE users SET is_staff = $2, updated_at = now() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, staff)
	if err != nil {
		return fmt.Errorf("failed to update staff flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

var _ UserRepository = (*userRepository)(nil)
