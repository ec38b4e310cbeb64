package middleware

import (
	"context"

	httpdto "github.com/neonnumbers/ms-go-auth/app/dto/http"
	"github.com/neonnumbers/ms-go-auth/app/entity"
	"github.com/neonnumbers/ms-go-auth/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ContextUserKey is where RequireAuth stores the resolved identity.
const ContextUserKey = "auth_user"

type bearerAuthenticator interface {
	Authenticate(ctx context.Context, authorizationHeader string) (*entity.AuthenticatedUser, *service.AuthFailure)
}

type AuthMiddleware struct {
	authService bearerAuthenticator
}

func NewAuthMiddleware(authService bearerAuthenticator) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// RequireAuth resolves the bearer token on the request to a live user and
// stores the identity in the echo context. Failures short-circuit with the
// status carried by the authenticator's outcome.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")

		user, failure := m.authService.Authenticate(c.Request().Context(), authHeader)
		if failure != nil {
			logrus.WithField("status", failure.Status).Debug("Bearer authentication failed")
			return c.JSON(failure.Status, httpdto.ErrorResponse{Error: failure.Message})
		}

		c.Set(ContextUserKey, user)

		return next(c)
	}
}

// UserFromContext retrieves the identity stored by RequireAuth.
func UserFromContext(c echo.Context) (*entity.AuthenticatedUser, bool) {
	user, ok := c.Get(ContextUserKey).(*entity.AuthenticatedUser)
	return user, ok
}
