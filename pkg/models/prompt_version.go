package models

import (
	"time"

	"github.com/google/uuid"
)

// PromptVersion is an immutable historical snapshot of a prompt's content,
// taken just before a change to an approved prompt. Versions are never
// updated or deleted individually; they are removed only by the owning
// prompt's cascade.
type PromptVersion struct {
	ID       uuid.UUID  `json:"id"`
	PromptID uuid.UUID  `json:"prompt_id"`
	EditedBy *uuid.UUID `json:"edited_by,omitempty"` // nil for system-initiated archival

	Title        string `json:"title"`
	Description  string `json:"description"`
	PromptText   string `json:"prompt_text"`
	Guidance     string `json:"guidance,omitempty"`
	TaskType     string `json:"task_type,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
	Category     string `json:"category,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
