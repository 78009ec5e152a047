package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Resolve(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUnauthorized
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

// decodeData unmarshals the envelope and returns its data member.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !env.Success {
		t.Fatalf("expected success=true, body %s", rec.Body.String())
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			t.Fatalf("invalid data: %v", err)
		}
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (string, *domain.User, error) {
			if input.Name != "Alice" || input.Email != "alice@example.com" || input.FlatNumber != "A-101" {
				t.Fatalf("unexpected input: %+v", input)
			}
			if input.Role != "" {
				t.Fatalf("expected empty role to be passed through, got %q", input.Role)
			}
			return "signed", &domain.User{
				ID: "u1", Name: input.Name, Email: input.Email,
				PasswordHash: "$2a$hash", Role: domain.RoleResident, IsActive: true,
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := jsonRequest(http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret1","flatNumber":"A-101"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var data map[string]any
	decodeData(t, rec, &data)
	if data["token"] != "signed" {
		t.Fatalf("expected token in response, got %v", data["token"])
	}
	user, ok := data["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["role"] != "resident" || user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if strings.Contains(rec.Body.String(), "$2a$hash") || strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (string, *domain.User, error) {
			t.Fatalf("service must not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	for _, body := range []string{
		`{"name":"Bob","password":"secret1"}`,
		`{"name":"Bob","email":"not-an-email","password":"secret1"}`,
		`{"email":"bob@example.com","password":"secret1"}`,
		`{"name":"Bob","email":"bob@example.com","password":"123"}`,
		`not json`,
	} {
		c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register", body), httptest.NewRecorder())
		if err := handler.Register(c); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("body %s: expected ErrValidation, got %v", body, err)
		}
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (string, *domain.User, error) {
			return "", nil, domain.ErrDuplicateEmail
		},
	}
	handler := NewAuthHandler(stub)

	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/register",
		`{"name":"Bob","email":"bob@example.com","password":"secret1"}`), httptest.NewRecorder())
	if err := handler.Register(c); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if password != "secret1" {
				return "", nil, domain.ErrInvalidCredentials
			}
			return "signed", &domain.User{ID: "u1", Email: email, Role: domain.RoleTenant}, nil
		},
	}
	handler := NewAuthHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/auth/login",
		`{"email":"t@example.com","password":"secret1"}`), rec)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var data authResponse
	decodeData(t, rec, &data)
	if data.Token != "signed" || data.User.Role != domain.RoleTenant {
		t.Fatalf("unexpected response: %+v", data)
	}

	c = e.NewContext(jsonRequest(http.MethodPost, "/auth/login",
		`{"email":"t@example.com","password":"wrong"}`), httptest.NewRecorder())
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Permissions(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/permissions", nil), rec)
	c.Set("user", &domain.User{ID: "s1", Role: domain.RoleSecurity})

	if err := handler.Permissions(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var data permissionsResponse
	decodeData(t, rec, &data)
	if data.Role != domain.RoleSecurity {
		t.Fatalf("unexpected role %q", data.Role)
	}
	want := []domain.Permission{domain.PermNoticesRead, domain.PermVisitorsRead, domain.PermVisitorsWrite}
	if len(data.Permissions) != len(want) {
		t.Fatalf("expected %v, got %v", want, data.Permissions)
	}
	for i := range want {
		if data.Permissions[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, data.Permissions)
		}
	}
}

func TestAuthHandler_Me_RequiresIdentity(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/auth/me", nil), httptest.NewRecorder())
	if err := handler.Me(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

type stubUserService struct {
	ports.UserService
	updateFn func(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error)
}

func (s *stubUserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, id, input)
}

func TestUserHandler_Update_PassesCaller(t *testing.T) {
	committee := &domain.User{ID: "c1", Role: domain.RoleCommittee, IsActive: true}
	var got ports.UpdateUserInput
	h := NewUserHandler(&stubUserService{updateFn: func(_ context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
		got = input
		return nil, domain.ErrForbidden
	}})

	e := newTestEcho()
	c := e.NewContext(jsonRequest(http.MethodPut, "/", `{"role":"admin"}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("c1")
	c.Set("user", committee)

	if err := h.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if got.Actor != committee {
		t.Fatalf("expected caller to be passed as actor, got %+v", got.Actor)
	}
	if got.Role == nil || *got.Role != domain.RoleAdmin {
		t.Fatalf("expected role to be forwarded, got %v", got.Role)
	}
}

func TestUserHandler_Update_RequiresIdentity(t *testing.T) {
	h := NewUserHandler(&stubUserService{updateFn: func(context.Context, string, ports.UpdateUserInput) (*domain.User, error) {
		t.Fatalf("service must not be called")
		return nil, nil
	}})

	e := newTestEcho()
	c := e.NewContext(jsonRequest(http.MethodPut, "/", `{"name":"x"}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("u1")

	if err := h.Update(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
