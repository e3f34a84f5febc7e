package models

import (
	"time"
)

// User represents a registered account. Users are created on first login
// with an external identity provider id.
type User struct {
	ID        string    `json:"id" db:"id"`
	PrivyID   string    `json:"privyId" db:"privy_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
