package ports

import (
	"context"

	"github.com/habitat-society/habitat-api/internal/core/domain"
)

// AuthRepository defines the identity lookups needed for authentication.
type AuthRepository interface {
	// FindByEmail expects an already normalised address.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create returns domain.ErrDuplicateEmail when the unique email index rejects the insert.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// UserFilter narrows user listings.
type UserFilter struct {
	Role   domain.Role
	Active *bool
	Search string // partial, case-insensitive match on name or email
}

// UserPatch lists the mutable user fields; nil means unchanged.
type UserPatch struct {
	Name         *string
	Phone        *string
	FlatNumber   *string
	Role         *domain.Role
	IsActive     *bool
	PasswordHash *string
}

// UserRepository is the full identity store.
type UserRepository interface {
	AuthRepository
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
