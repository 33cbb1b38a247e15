package models

import (
	"time"

	"github.com/google/uuid"
)

// Prompt moderation statuses.
const (
	StatusPending  = "pending"  // Awaiting staff review
	StatusApproved = "approved" // Published, visible to everyone
	StatusRejected = "rejected" // Declined by a moderator
)

// ValidStatus reports whether s is a known moderation status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Prompt is a submitted piece of reusable instructional text under
// moderation. Stored in the prompts table.
//
// The like/dislike/vote aggregates are cached recomputations from the votes
// table; they are only ever written inside the vote-casting transaction and
// must never be adjusted incrementally.
type Prompt struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"` // Owner, immutable after creation

	Title        string `json:"title"`
	Description  string `json:"description"`
	PromptText   string `json:"prompt_text"`
	Guidance     string `json:"guidance,omitempty"`
	TaskType     string `json:"task_type,omitempty"`
	OutputFormat string `json:"output_format,omitempty"`
	Category     string `json:"category,omitempty"`

	Status string `json:"status"`

	LikeCount    int `json:"like_count"`
	DislikeCount int `json:"dislike_count"`
	Vote         int `json:"vote"` // Always like_count - dislike_count

	// Advisory AI screening result. Never gates a moderation transition;
	// surfaced to moderators only.
	ScreenFlagged bool     `json:"screen_flagged,omitempty"`
	ScreenFlags   []string `json:"screen_flags,omitempty"`

	Bookmarked bool `json:"bookmarked,omitempty"` // Relation state for the requesting user

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snapshot captures the prompt's content fields into an immutable version
// record attributed to editedBy (nil for system-initiated archival at
// creation time). Status and vote aggregates are deliberately not part of
// the snapshot.
func (p *Prompt) Snapshot(editedBy *uuid.UUID) *PromptVersion {
	return &PromptVersion{
		PromptID:     p.ID,
		EditedBy:     editedBy,
		Title:        p.Title,
		Description:  p.Description,
		PromptText:   p.PromptText,
		Guidance:     p.Guidance,
		TaskType:     p.TaskType,
		OutputFormat: p.OutputFormat,
		Category:     p.Category,
	}
}

// RestoreFrom copies the content fields of v onto the prompt. Status and
// vote aggregates are untouched; the caller decides whether the restore
// forces a re-review.
func (p *Prompt) RestoreFrom(v *PromptVersion) {
	p.Title = v.Title
	p.Description = v.Description
	p.PromptText = v.PromptText
	p.Guidance = v.Guidance
	p.TaskType = v.TaskType
	p.OutputFormat = v.OutputFormat
	p.Category = v.Category
}
