package entity

import (
	"database/sql"
	"time"
)

// RefreshToken is one issued refresh credential. Revocation is one-way:
// RevokedAt and RevokedByIP are set at most once, and ReplacedByToken is
// immutable once written during rotation.
type RefreshToken struct {
	ID              uint64
	UserID          uint64
	Token           string
	ExpiresAt       time.Time
	CreatedAt       time.Time
	CreatedByIP     string
	UserAgent       sql.NullString
	RevokedAt       sql.NullTime
	RevokedByIP     sql.NullString
	ReplacedByToken sql.NullString
}

// IsExpired reports whether the token is past its expiry at the given
// instant. The caller supplies the clock so expiry logic is testable.
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt.Valid
}

// IsActive reports whether the token can still be exchanged: not revoked
// and not expired.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.IsRevoked() && !t.IsExpired(now)
}
