package models

import "time"

// User represents an authenticated user of the system. PasswordHash is a
// sensitive field: the repository strips it unless explicitly requested and
// it is never serialized outward.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username,omitempty"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	Onboarded    bool      `json:"onboarded"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
