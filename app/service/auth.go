package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/neonnumbers/ms-go-auth/app/dto"
	"github.com/neonnumbers/ms-go-auth/app/entity"
	"github.com/neonnumbers/ms-go-auth/config"

	"github.com/sirupsen/logrus"
)

var (
	ErrUserExists           = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPasswordMismatch     = errors.New("current password is incorrect")
	ErrSamePassword         = errors.New("new password must differ from the current password")
	ErrWeakPassword         = errors.New("password does not meet policy requirements")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenInactive = errors.New("refresh token is revoked or expired")
)

const bearerPrefix = "Bearer "

// AuthFailure is the failure arm of the authenticator's discriminated
// outcome. Expected authentication failures and unexpected internal faults
// both land here; internal detail stays in the logs, never in Message.
type AuthFailure struct {
	Status  int
	Message string
}

type userRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uint64) (*entity.User, error)
	FindAuthenticatedByID(ctx context.Context, id uint64) (*entity.AuthenticatedUser, error)
	UpdatePasswordHash(ctx context.Context, userID uint64, passwordHash string) error
}

type refreshTokenRepository interface {
	Create(ctx context.Context, token *entity.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*entity.RefreshToken, error)
	Revoke(ctx context.Context, token string, byIP string, replacedByToken string) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type AuthServiceOption func(*AuthService)

type AuthService struct {
	userRepo         userRepository
	refreshTokenRepo refreshTokenRepository
	codec            *TokenCodec
	cfg              *config.Config
	now              func() time.Time
}

func NewAuthService(
	userRepo userRepository,
	refreshTokenRepo refreshTokenRepository,
	codec *TokenCodec,
	cfg *config.Config,
	opts ...AuthServiceOption,
) *AuthService {
	svc := &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		codec:            codec,
		cfg:              cfg,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// WithClock overrides the service clock; used by tests to pin expiry logic.
func WithClock(now func() time.Time) AuthServiceOption {
	return func(s *AuthService) {
		if now != nil {
			s.now = now
		}
	}
}

// NormalizeEmail lowercases and trims an address before storage or lookup.
// Emails are unique under this normalization.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*entity.AuthenticatedUser, error) {
	email = NormalizeEmail(email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	if err = s.cfg.PasswordPolicy.Validate(password); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	neonID, err := entity.NewNeonID(now)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Email:         email,
		NeonID:        neonID,
		PasswordHash:  passwordHash,
		EmailVerified: false,
		Role:          entity.RoleUser,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err = s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return &entity.AuthenticatedUser{
		ID:            user.ID,
		Email:         user.Email,
		NeonID:        user.NeonID,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password, clientIP, userAgent string) (*dto.LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.codec.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.issueRefreshToken(ctx, user.ID, user.Email, clientIP, userAgent)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.cfg.JWTAccessTokenTTL.Seconds()),
		User: &entity.AuthenticatedUser{
			ID:            user.ID,
			Email:         user.Email,
			NeonID:        user.NeonID,
			Role:          user.Role,
			EmailVerified: user.EmailVerified,
		},
	}, nil
}

// Authenticate runs the bearer-token state machine over an Authorization
// header value and returns either a resolved identity or a structured
// failure, never an error. The scheme prefix match is exact: "Bearer " with
// a single space, case-sensitive.
func (s *AuthService) Authenticate(ctx context.Context, authorizationHeader string) (*entity.AuthenticatedUser, *AuthFailure) {
	if !strings.HasPrefix(authorizationHeader, bearerPrefix) {
		return nil, &AuthFailure{Status: http.StatusUnauthorized, Message: "No token provided"}
	}

	tokenString := authorizationHeader[len(bearerPrefix):]
	claims, err := s.codec.VerifyAccess(tokenString)
	if err != nil {
		return nil, &AuthFailure{Status: http.StatusUnauthorized, Message: "invalid or expired token"}
	}

	user, err := s.userRepo.FindAuthenticatedByID(ctx, claims.UserID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", claims.UserID).Error("Authenticator user lookup failed")
		return nil, &AuthFailure{Status: http.StatusUnauthorized, Message: "authentication failed"}
	}
	if user == nil {
		return nil, &AuthFailure{Status: http.StatusNotFound, Message: "user not found"}
	}

	return user, nil
}

// ChangePassword re-authenticates with the current password before
// committing a new hash. Preconditions short-circuit in a fixed order:
// same-password check, policy check, then current-password verification.
// Outstanding refresh tokens deliberately stay valid.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint64, currentPassword, newPassword string) error {
	if newPassword == currentPassword {
		return ErrSamePassword
	}

	if err := s.cfg.PasswordPolicy.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrWeakPassword, err.Error())
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !VerifyPassword(currentPassword, user.PasswordHash) {
		return ErrPasswordMismatch
	}

	passwordHash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePasswordHash(ctx, userID, passwordHash)
}

// Logout revokes the presented refresh token without a successor. Revoking
// a token that is already revoked or belongs to someone else is a no-op.
func (s *AuthService) Logout(ctx context.Context, userID uint64, refreshToken, clientIP string) error {
	record, err := s.refreshTokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if record == nil || record.UserID != userID {
		return nil
	}

	_, err = s.refreshTokenRepo.Revoke(ctx, refreshToken, clientIP, "")
	return err
}

// RefreshExchange rotates a refresh token: the old token is atomically
// revoked with the new token recorded as its successor, then the new pair
// is issued. Of two concurrent exchanges of the same token at most one
// wins; the loser finds the row already revoked.
func (s *AuthService) RefreshExchange(ctx context.Context, oldToken, clientIP, userAgent string) (*dto.LoginResult, error) {
	claims, err := s.codec.VerifyRefresh(oldToken)
	if err != nil {
		return nil, ErrRefreshTokenNotFound
	}

	record, err := s.refreshTokenRepo.FindByToken(ctx, oldToken)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRefreshTokenNotFound
	}
	if !record.IsActive(s.now()) {
		return nil, ErrRefreshTokenInactive
	}

	newToken, err := s.codec.IssueRefreshToken(record.UserID, claims.Email)
	if err != nil {
		return nil, err
	}

	// Conditional update is the double-spend guard: zero rows means another
	// exchange already consumed this token.
	revoked, err := s.refreshTokenRepo.Revoke(ctx, oldToken, clientIP, newToken)
	if err != nil {
		return nil, err
	}
	if revoked == 0 {
		return nil, ErrRefreshTokenInactive
	}

	if err = s.persistRefreshToken(ctx, record.UserID, newToken, clientIP, userAgent); err != nil {
		return nil, err
	}

	accessToken, err := s.codec.IssueAccessToken(record.UserID, claims.Email)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResult{
		AccessToken:  accessToken,
		RefreshToken: newToken,
		ExpiresIn:    int64(s.cfg.JWTAccessTokenTTL.Seconds()),
	}, nil
}

// ReapExpired removes refresh-token rows past expiry. Runs periodically
// from serve and on demand from the reap command.
func (s *AuthService) ReapExpired(ctx context.Context) (int64, error) {
	return s.refreshTokenRepo.DeleteExpired(ctx)
}

func (s *AuthService) issueRefreshToken(ctx context.Context, userID uint64, email, clientIP, userAgent string) (string, error) {
	tokenString, err := s.codec.IssueRefreshToken(userID, email)
	if err != nil {
		return "", err
	}
	if err = s.persistRefreshToken(ctx, userID, tokenString, clientIP, userAgent); err != nil {
		return "", err
	}
	return tokenString, nil
}

func (s *AuthService) persistRefreshToken(ctx context.Context, userID uint64, tokenString, clientIP, userAgent string) error {
	now := s.now()
	record := &entity.RefreshToken{
		UserID:      userID,
		Token:       tokenString,
		ExpiresAt:   now.Add(s.cfg.JWTRefreshTokenTTL),
		CreatedAt:   now,
		CreatedByIP: clientIP,
	}
	if userAgent != "" {
		record.UserAgent.String = userAgent
		record.UserAgent.Valid = true
	}
	return s.refreshTokenRepo.Create(ctx, record)
}
