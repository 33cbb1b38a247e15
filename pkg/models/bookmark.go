package models

import (
	"time"

	"github.com/google/uuid"
)

// Bookmark is a user-to-prompt saved reference. At most one row exists per
// (user, prompt) pair; toggling an existing bookmark removes it.
type Bookmark struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	PromptID  uuid.UUID `json:"prompt_id"`
	CreatedAt time.Time `json:"created_at"`
}
