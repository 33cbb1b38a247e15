package models

import "github.com/google/uuid"

// Vote values. A vote is a single user's opinion on a prompt; at most one
// row exists per (user, prompt) pair.
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote is stored in the votes table with a unique (user_id, prompt_id)
// constraint. Re-voting the same value deletes the row (toggle-off);
// re-voting the opposite value flips it in place.
type Vote struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	PromptID uuid.UUID `json:"prompt_id"`
	Value    int       `json:"value"`
}
