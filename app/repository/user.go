package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/neonnumbers/ms-go-auth/app/entity"
)

type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type UserRepository struct {
	db executor
}

func NewUserRepository(db executor) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (email, neon_id, password_hash, email_verified, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		user.Email,
		user.NeonID,
		user.PasswordHash,
		user.EmailVerified,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = uint64(id)
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `
		SELECT id, email, neon_id, password_hash, email_verified, role, created_at, updated_at
		FROM users WHERE email = ?
	`
	user := &entity.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.NeonID,
		&user.PasswordHash,
		&user.EmailVerified,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*entity.User, error) {
	query := `
		SELECT id, email, neon_id, password_hash, email_verified, role, created_at, updated_at
		FROM users WHERE id = ?
	`
	user := &entity.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.NeonID,
		&user.PasswordHash,
		&user.EmailVerified,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindAuthenticatedByID resolves a user for an authenticated request. The
// password hash is excluded in the SELECT itself, not stripped afterwards,
// so it can never leak past this query.
func (r *UserRepository) FindAuthenticatedByID(ctx context.Context, id uint64) (*entity.AuthenticatedUser, error) {
	query := `
		SELECT id, email, neon_id, role, email_verified
		FROM users WHERE id = ?
	`
	user := &entity.AuthenticatedUser{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.NeonID,
		&user.Role,
		&user.EmailVerified,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePasswordHash replaces the stored hash as the sole mutation of the
// credential-change flow.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID uint64, passwordHash string) error {
	query := `
		UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query, passwordHash, time.Now(), userID)
	return err
}
