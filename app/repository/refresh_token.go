package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/neonnumbers/ms-go-auth/app/entity"
)

type RefreshTokenRepository struct {
	db executor
}

func NewRefreshTokenRepository(db executor) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (user_id, token, expires_at, created_at, created_by_ip, user_agent)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		token.UserID,
		token.Token,
		token.ExpiresAt,
		token.CreatedAt,
		token.CreatedByIP,
		token.UserAgent,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	token.ID = uint64(id)
	return nil
}

// FindByToken looks a record up by its unique token string. The record may
// be revoked or expired; callers must check IsActive before trusting it.
func (r *RefreshTokenRepository) FindByToken(ctx context.Context, token string) (*entity.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, created_at, created_by_ip, user_agent,
		       revoked_at, revoked_by_ip, replaced_by_token
		FROM refresh_tokens WHERE token = ?
	`
	rt := &entity.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&rt.ID,
		&rt.UserID,
		&rt.Token,
		&rt.ExpiresAt,
		&rt.CreatedAt,
		&rt.CreatedByIP,
		&rt.UserAgent,
		&rt.RevokedAt,
		&rt.RevokedByIP,
		&rt.ReplacedByToken,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

// Revoke marks a token revoked, recording the revoking IP and, on rotation,
// the successor token. The update is conditional on the row not being
// revoked yet, so two concurrent exchanges of the same token can succeed at
// most once: the loser sees zero rows affected. Already-recorded revocation
// metadata is never overwritten.
func (r *RefreshTokenRepository) Revoke(ctx context.Context, token string, byIP string, replacedByToken string) (int64, error) {
	query := `
		UPDATE refresh_tokens
		SET revoked_at = ?, revoked_by_ip = ?, replaced_by_token = ?
		WHERE token = ? AND revoked_at IS NULL
	`
	successor := sql.NullString{String: replacedByToken, Valid: replacedByToken != ""}
	result, err := r.db.ExecContext(ctx, query, time.Now(), byIP, successor, token)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteExpired physically removes records past their expiry. Revocation
// state is irrelevant here; expiry alone makes a row eligible.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE expires_at < ?`
	result, err := r.db.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
