package entity

import (
	"database/sql"
	"testing"
	"time"
)

func TestRefreshTokenDerivedState(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	token := &RefreshToken{ExpiresAt: now.Add(time.Hour)}
	if token.IsExpired(now) {
		t.Fatalf("token expiring in an hour should not be expired")
	}
	if !token.IsActive(now) {
		t.Fatalf("unrevoked unexpired token should be active")
	}

	// Expiry boundary: a token is expired at exactly its expiry instant.
	if !token.IsExpired(token.ExpiresAt) {
		t.Fatalf("token should be expired at its expiry instant")
	}
	if token.IsActive(token.ExpiresAt) {
		t.Fatalf("token should be inactive at its expiry instant")
	}

	token.RevokedAt = sql.NullTime{Time: now, Valid: true}
	if !token.IsRevoked() {
		t.Fatalf("token with revocation timestamp should be revoked")
	}
	if token.IsActive(now) {
		t.Fatalf("revoked token should not be active")
	}
}
