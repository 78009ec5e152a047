package handler

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/habitat-society/habitat-api/internal/core/domain"
)

// currentUser returns the identity resolved by the Auth middleware. Its
// absence means the route was mounted without authentication.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get("user").(*domain.User)
	if user == nil || user.ID == "" {
		return nil, fmt.Errorf("%w: missing authenticated identity", domain.ErrUnauthorized)
	}
	return user, nil
}

// ownerScope returns the id that reads and writes must be restricted to, or
// "" when the caller manages every resident's records.
func ownerScope(user *domain.User) string {
	if domain.Privileged(user.Role) {
		return ""
	}
	return user.ID
}
