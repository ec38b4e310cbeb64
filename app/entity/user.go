package entity

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID            uint64
	Email         string
	NeonID        string
	PasswordHash  string
	EmailVerified bool
	Role          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AuthenticatedUser is the sanitized view of a User handed to request
// handlers after bearer authentication. It never carries the password hash;
// the repository query that produces it does not select the column.
type AuthenticatedUser struct {
	ID            uint64 `json:"id"`
	Email         string `json:"email"`
	NeonID        string `json:"neon_id"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}
