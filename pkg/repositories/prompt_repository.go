package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/promptvault-io/promptvault-engine/pkg/apperrors"
	"github.com/promptvault-io/promptvault-engine/pkg/database"
	"github.com/promptvault-io/promptvault-engine/pkg/models"
)

// PromptFilter narrows prompt listings. Zero values mean "no constraint";
// visibility decisions (OnlyApproved, OwnerID) are made by the service layer
// before the filter reaches the repository.
type PromptFilter struct {
	Status       string
	Category     string
	TaskType     string
	OutputFormat string
	// Search matches title, description and prompt_text case-insensitively.
	Search string

	OwnerID      *uuid.UUID
	OnlyApproved bool
}

// PromptRepository provides data access for prompts and their owned vote
// and bookmark relations. Multi-statement sequences that must be atomic
// (archive-then-mutate, vote recount) run inside a single transaction here.
type PromptRepository interface {
	// Create inserts a new prompt. If archive is non-nil it is inserted in
	// the same transaction as the creation-time snapshot of a pre-approved
	// prompt.
	Create(ctx context.Context, prompt *models.Prompt, archive *models.PromptVersion) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Prompt, error)
	List(ctx context.Context, filter PromptFilter) ([]*models.Prompt, error)

	// Update persists the prompt's content and status fields. If archive is
	// non-nil it is inserted first, in the same transaction, so a failed
	// mutation can never leave an orphaned or missing snapshot.
	Update(ctx context.Context, prompt *models.Prompt, archive *models.PromptVersion) error

	// UpdateStatus performs a bare moderation transition.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Prompt, error)

	// SetScreeningResult records an advisory AI screening outcome.
	SetScreeningResult(ctx context.Context, id uuid.UUID, flagged bool, flags []string) error

	// CastVote applies toggle-vote semantics for (userID, promptID) and
	// recomputes the prompt's aggregates from the votes table, all inside
	// one transaction that locks the prompt row. Returns the updated prompt.
	CastVote(ctx context.Context, promptID, userID uuid.UUID, value int) (*models.Prompt, error)

	// ToggleBookmark inserts the (userID, promptID) bookmark if absent and
	// deletes it if present. Reports whether the bookmark now exists.
	ToggleBookmark(ctx context.Context, promptID, userID uuid.UUID) (bool, error)

	// UserCategories returns the distinct categories used by a user's own
	// prompts.
	UserCategories(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// promptRepository implements PromptRepository using PostgreSQL.
type promptRepository struct {
	db *database.DB
}

// NewPromptRepository creates a new prompt repository.
func NewPromptRepository(db *database.DB) PromptRepository {
	return &promptRepository{db: db}
}

const promptColumns = `
	id, user_id, title, description, prompt_text, guidance, task_type,
	output_format, category, status, like_count, dislike_count, vote,
	screen_flagged, screen_flags, created_at, updated_at`

// scanPrompt scans a prompt row in promptColumns order.
func scanPrompt(row pgx.Row) (*models.Prompt, error) {
	var p models.Prompt
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Description,
		&p.PromptText,
		&p.Guidance,
		&p.TaskType,
		&p.OutputFormat,
		&p.Category,
		&p.Status,
		&p.LikeCount,
		&p.DislikeCount,
		&p.Vote,
		&p.ScreenFlagged,
		&p.ScreenFlags,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *promptRepository) Create(ctx context.Context, prompt *models.Prompt, archive *models.PromptVersion) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	query := `
		INSERT INTO prompts (
			user_id, title, description, prompt_text, guidance, task_type,
			output_format, category, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, like_count, dislike_count, vote, created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		prompt.UserID,
		prompt.Title,
		prompt.Description,
		prompt.PromptText,
		prompt.Guidance,
		prompt.TaskType,
		prompt.OutputFormat,
		prompt.Category,
		prompt.Status,
	).Scan(&prompt.ID, &prompt.LikeCount, &prompt.DislikeCount, &prompt.Vote,
		&prompt.CreatedAt, &prompt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create prompt: %w", err)
	}

	if archive != nil {
		archive.PromptID = prompt.ID
		if err := insertVersion(ctx, tx, archive); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit prompt creation: %w", err)
	}
	committed = true

	return nil
}

func (r *promptRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	query := `SELECT ` + promptColumns + ` FROM prompts WHERE id = $1`

	prompt, err := scanPrompt(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get prompt: %w", err)
	}

	return prompt, nil
}

func (r *promptRepository) List(ctx context.Context, filter PromptFilter) ([]*models.Prompt, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.OnlyApproved {
		conds = append(conds, "status = "+arg(models.StatusApproved))
	} else if filter.Status != "" {
		conds = append(conds, "status = "+arg(filter.Status))
	}
	if filter.OwnerID != nil {
		conds = append(conds, "user_id = "+arg(*filter.OwnerID))
	}
	if filter.Category != "" {
		conds = append(conds, "category = "+arg(filter.Category))
	}
	if filter.TaskType != "" {
		conds = append(conds, "task_type = "+arg(filter.TaskType))
	}
	if filter.OutputFormat != "" {
		conds = append(conds, "output_format = "+arg(filter.OutputFormat))
	}
	if filter.Search != "" {
		pattern := arg("%" + filter.Search + "%")
		conds = append(conds, fmt.Sprintf(
			"(title ILIKE %[1]s OR description ILIKE %[1]s OR prompt_text ILIKE %[1]s)", pattern))
	}

	query := `SELECT ` + promptColumns + ` FROM prompts`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	defer rows.Close()

	var prompts []*models.Prompt
	for rows.Next() {
		prompt, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		prompts = append(prompts, prompt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prompts: %w", err)
	}

	return prompts, nil
}

func (r *promptRepository) Update(ctx context.Context, prompt *models.Prompt, archive *models.PromptVersion) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	// Archive before mutating so the snapshot and the change commit or
	// abort together.
	if archive != nil {
		if err := insertVersion(ctx, tx, archive); err != nil {
			return err
		}
	}

	query := `
		UPDATE prompts
		SET title = $2, description = $3, prompt_text = $4, guidance = $5,
		    task_type = $6, output_format = $7, category = $8, status = $9,
		    updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err = tx.QueryRow(ctx, query,
		prompt.ID,
		prompt.Title,
		prompt.Description,
		prompt.PromptText,
		prompt.Guidance,
		prompt.TaskType,
		prompt.OutputFormat,
		prompt.Category,
		prompt.Status,
	).Scan(&prompt.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update prompt: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit prompt update: %w", err)
	}
	committed = true

	return nil
}

func (r *promptRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Prompt, error) {
	query := `
		UPDATE prompts SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + promptColumns

	prompt, err := scanPrompt(r.db.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update prompt status: %w", err)
	}

	return prompt, nil
}

func (r *promptRepository) SetScreeningResult(ctx context.Context, id uuid.UUID, flagged bool, flags []string) error {
	if flags == nil {
		flags = []string{}
	}

	query := `
		UPDATE prompts SET screen_flagged = $2, screen_flags = $3
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, flagged, flags)
	if err != nil {
		return fmt.Errorf("failed to store screening result: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *promptRepository) CastVote(ctx context.Context, promptID, userID uuid.UUID, value int) (*models.Prompt, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	// Lock the prompt row so concurrent votes on the same prompt serialize
	// and each recount observes a settled votes table.
	var lockedID uuid.UUID
	err = tx.QueryRow(ctx, `SELECT id FROM prompts WHERE id = $1 FOR UPDATE`, promptID).Scan(&lockedID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock prompt: %w", err)
	}

	var (
		existingID    uuid.UUID
		existingValue int
	)
	err = tx.QueryRow(ctx,
		`SELECT id, value FROM votes WHERE user_id = $1 AND prompt_id = $2`,
		userID, promptID,
	).Scan(&existingID, &existingValue)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = tx.Exec(ctx,
			`INSERT INTO votes (user_id, prompt_id, value) VALUES ($1, $2, $3)`,
			userID, promptID, value)
		if err != nil {
			return nil, fmt.Errorf("failed to insert vote: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to look up vote: %w", err)
	case existingValue == value:
		// Same value again: toggle off.
		if _, err = tx.Exec(ctx, `DELETE FROM votes WHERE id = $1`, existingID); err != nil {
			return nil, fmt.Errorf("failed to delete vote: %w", err)
		}
	default:
		if _, err = tx.Exec(ctx, `UPDATE votes SET value = $2 WHERE id = $1`, existingID, value); err != nil {
			return nil, fmt.Errorf("failed to update vote: %w", err)
		}
	}

	// Pure recount: the aggregates are never trusted incrementally.
	var likes, dislikes int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FILTER (WHERE value = 1),
		       COUNT(*) FILTER (WHERE value = -1)
		FROM votes WHERE prompt_id = $1`, promptID,
	).Scan(&likes, &dislikes)
	if err != nil {
		return nil, fmt.Errorf("failed to recount votes: %w", err)
	}

	query := `
		UPDATE prompts
		SET like_count = $2, dislike_count = $3, vote = $4
		WHERE id = $1
		RETURNING ` + promptColumns

	prompt, err := scanPrompt(tx.QueryRow(ctx, query, promptID, likes, dislikes, likes-dislikes))
	if err != nil {
		return nil, fmt.Errorf("failed to store vote tally: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit vote: %w", err)
	}
	committed = true

	return prompt, nil
}

func (r *promptRepository) ToggleBookmark(ctx context.Context, promptID, userID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx,
		`DELETE FROM bookmarks WHERE user_id = $1 AND prompt_id = $2`,
		userID, promptID)
	if err != nil {
		return false, fmt.Errorf("failed to remove bookmark: %w", err)
	}
	if result.RowsAffected() > 0 {
		return false, nil
	}

	// ON CONFLICT guards the race where two toggles insert concurrently.
	_, err = r.db.Exec(ctx, `
		INSERT INTO bookmarks (user_id, prompt_id) VALUES ($1, $2)
		ON CONFLICT (user_id, prompt_id) DO NOTHING`,
		userID, promptID)
	if err != nil {
		return false, fmt.Errorf("failed to add bookmark: %w", err)
	}

	return true, nil
}

func (r *promptRepository) UserCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT category FROM prompts WHERE user_id = $1 AND category <> ''`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// insertVersion inserts a snapshot inside the caller's transaction.
func insertVersion(ctx context.Context, tx pgx.Tx, v *models.PromptVersion) error {
	query := `
		INSERT INTO prompt_versions (
			prompt_id, edited_by, title, description, prompt_text, guidance,
			task_type, output_format, category
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := tx.QueryRow(ctx, query,
		v.PromptID,
		v.EditedBy,
		v.Title,
		v.Description,
		v.PromptText,
		v.Guidance,
		v.TaskType,
		v.OutputFormat,
		v.Category,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to archive prompt version: %w", err)
	}

	return nil
}

var _ PromptRepository = (*promptRepository)(nil)
