package ports

import (
	"context"

	"github.com/habitat-society/habitat-api/internal/core/domain"
)

// RegisterInput carries the fields accepted when creating an identity.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	FlatNumber string
	Role       domain.Role // empty means domain.DefaultRole
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Resolve re-reads the identity behind a verified token; inactive or
	// deleted users yield domain.ErrUnauthorized.
	Resolve(ctx context.Context, id string) (*domain.User, error)
}

// UpdateUserInput carries a partial profile update. Password is plaintext and
// re-hashed before storage.
//
// Actor is the caller. When set and not an admin, Role and IsActive must be
// nil and the target must not be an admin account other than the caller.
type UpdateUserInput struct {
	Actor      *domain.User
	Name       *string
	Phone      *string
	FlatNumber *string
	Password   *string
	Role       *domain.Role
	IsActive   *bool
}

// UserService is the administrative identity surface.
type UserService interface {
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, input RegisterInput) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
