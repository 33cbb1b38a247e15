package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a library member. Identity originates from the external identity
// provider (JWT claims); the users table is the authority for the staff
// flag so that promotions take effect without re-issuing tokens.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
