package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/habitat-society/habitat-api/internal/api/handler"
	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

type stubUserService struct {
	ports.UserService
	created []ports.RegisterInput
}

func (s *stubUserService) Create(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
	s.created = append(s.created, input)
	return &domain.User{ID: "u9", Name: input.Name, Email: input.Email, Role: input.Role, IsActive: true}, nil
}

// fakeAuth resolves the bearer token to a user whose role is the token text.
func fakeAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		role, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		if !ok || role == "" {
			return domain.ErrUnauthorized
		}
		user := &domain.User{ID: "caller", Role: domain.Role(role), IsActive: true}
		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("role", user.Role)
		return next(c)
	}
}

func newUserRoutesEcho(users ports.UserService) *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	g := e.Group("/api")
	registerUserRoutes(securedRoutes{group: g, auth: fakeAuth}, handler.NewUserHandler(users), handler.NewAuthHandler(nil))
	return e
}

func serve(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_UnknownAPIPathIsNotFound(t *testing.T) {
	e := newUserRoutesEcho(&stubUserService{})

	if rec := serve(e, http.MethodGet, "/api/does-not-exist", "", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown path, got %d", rec.Code)
	}
	if rec := serve(e, http.MethodGet, "/api/users", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for known path without token, got %d", rec.Code)
	}
}

func TestRouter_CreateUserIsAdminOnly(t *testing.T) {
	body := `{"name":"Eve","email":"eve@example.com","password":"secret1","role":"admin"}`

	users := &stubUserService{}
	e := newUserRoutesEcho(users)

	if rec := serve(e, http.MethodPost, "/api/users", string(domain.RoleCommittee), body); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for committee, got %d", rec.Code)
	}
	if len(users.created) != 0 {
		t.Fatalf("service must not be called for committee")
	}

	if rec := serve(e, http.MethodPost, "/api/users", string(domain.RoleAdmin), body); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(users.created) != 1 || users.created[0].Role != domain.RoleAdmin {
		t.Fatalf("expected one admin created, got %+v", users.created)
	}
}
