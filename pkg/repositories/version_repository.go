package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/promptvault-io/promptvault-engine/pkg/apperrors"
	"github.com/promptvault-io/promptvault-engine/pkg/database"
	"github.com/promptvault-io/promptvault-engine/pkg/models"
)

// VersionRepository provides read access to archived prompt versions.
// Versions are only ever written through PromptRepository's transactional
// archive paths.
type VersionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.PromptVersion, error)
	// ListByPrompt returns a prompt's versions, newest first.
	ListByPrompt(ctx context.Context, promptID uuid.UUID) ([]*models.PromptVersion, error)
}

type versionRepository struct {
	db *database.DB
}

// NewVersionRepository creates a new version repository.
func NewVersionRepository(db *database.DB) VersionRepository {
	return &versionRepository{db: db}
}

const versionColumns = `
	id, prompt_id, edited_by, title, description, prompt_text, guidance,
	task_type, output_format, category, created_at`

func scanVersion(row pgx.Row) (*models.PromptVersion, error) {
	var v models.PromptVersion
	err := row.Scan(
		&v.ID,
		&v.PromptID,
		&v.EditedBy,
		&v.Title,
		&v.Description,
		&v.PromptText,
		&v.Guidance,
		&v.TaskType,
		&v.OutputFormat,
		&v.Category,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *versionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PromptVersion, error) {
	query := `SELECT ` + versionColumns + ` FROM prompt_versions WHERE id = $1`

	version, err := scanVersion(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get prompt version: %w", err)
	}

	return version, nil
}

func (r *versionRepository) ListByPrompt(ctx context.Context, promptID uuid.UUID) ([]*models.PromptVersion, error) {
	query := `SELECT ` + versionColumns + `
		FROM prompt_versions
		WHERE prompt_id = $1
		ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, query, promptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt versions: %w", err)
	}
	defer rows.Close()

	var versions []*models.PromptVersion
	for rows.Next() {
		version, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prompt version: %w", err)
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prompt versions: %w", err)
	}

	return versions, nil
}

var _ VersionRepository = (*versionRepository)(nil)
