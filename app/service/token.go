package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/neonnumbers/ms-go-auth/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the payload embedded in both token classes. TokenType
// discriminates access from refresh so one can never stand in for the other.
type Claims struct {
	UserID    uint64 `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies the two bearer token classes. Access tokens
// are signed with the access secret; refresh tokens with the refresh secret,
// which falls back to the access secret when not configured.
type TokenCodec struct {
	cfg *config.Config
	now func() time.Time
}

func NewTokenCodec(cfg *config.Config) *TokenCodec {
	return &TokenCodec{cfg: cfg, now: time.Now}
}

func (c *TokenCodec) IssueAccessToken(userID uint64, email string) (string, error) {
	return c.issue(userID, email, TokenTypeAccess, c.cfg.JWTAccessTokenTTL, c.cfg.JWTAccessSecret)
}

// IssueRefreshToken signs a refresh-class token carrying a random jti, so
// every issued token string is unique even for the same user and instant.
func (c *TokenCodec) IssueRefreshToken(userID uint64, email string) (string, error) {
	return c.issue(userID, email, TokenTypeRefresh, c.cfg.JWTRefreshTokenTTL, c.cfg.RefreshSecret())
}

func (c *TokenCodec) issue(userID uint64, email, tokenType string, ttl time.Duration, secret string) (string, error) {
	now := c.now()
	claims := &Claims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAccess checks signature, expiry and token class of an access token.
// Every failure mode collapses to ErrInvalidToken.
func (c *TokenCodec) VerifyAccess(tokenString string) (*Claims, error) {
	return c.verify(tokenString, c.cfg.JWTAccessSecret, TokenTypeAccess)
}

// VerifyRefresh is VerifyAccess for the refresh class, using the resolved
// refresh secret.
func (c *TokenCodec) VerifyRefresh(tokenString string) (*Claims, error) {
	return c.verify(tokenString, c.cfg.RefreshSecret(), TokenTypeRefresh)
}

func (c *TokenCodec) verify(tokenString, secret, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Decode recovers the claims without verifying the signature. It exists for
// non-trust-boundary inspection only and must never gate authorization;
// VerifyAccess/VerifyRefresh are the authorization path.
func (c *TokenCodec) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
