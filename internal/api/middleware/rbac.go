package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/habitat-society/habitat-api/internal/core/domain"
)

// RequirePermission lets the request through only when the caller's role
// holds perm in the permission table.
func RequirePermission(perm domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(domain.Role)
			if !domain.Authorize(role, perm) {
				return fmt.Errorf("%w: missing permission %s", domain.ErrForbidden, perm)
			}
			return next(c)
		}
	}
}

// RequireRole enforces an explicit role allow-list on top of the permission table.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(domain.Role)
			if _, ok := allowed[role]; !ok {
				return fmt.Errorf("%w: role %q not allowed", domain.ErrForbidden, role)
			}
			return next(c)
		}
	}
}
