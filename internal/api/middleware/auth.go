package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/habitat-society/habitat-api/internal/core/domain"
)

// TokenVerifier checks a bearer token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}

// IdentityResolver loads the current state of the user a token was issued to.
type IdentityResolver interface {
	Resolve(ctx context.Context, userID string) (*domain.User, error)
}

// Auth validates the bearer token, re-resolves the user it names and injects
// the identity into the context. Deleted or deactivated users are rejected
// even while their token is still valid.
func Auth(verifier TokenVerifier, resolver IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return fmt.Errorf("%w: missing authorization header", domain.ErrUnauthorized)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return fmt.Errorf("%w: invalid authorization header", domain.ErrUnauthorized)
			}

			claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return err
			}

			user, err := resolver.Resolve(c.Request().Context(), claims.UserID)
			if err != nil {
				return err
			}

			c.Set("user", user)
			c.Set("user_id", user.ID)
			c.Set("role", user.Role)

			return next(c)
		}
	}
}
