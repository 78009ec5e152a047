package ports

import (
	"context"
	"time"

	"github.com/habitat-society/habitat-api/internal/core/domain"
)

// VisitorFilter narrows the visitor log. When set, InFrom and InTo bound
// inTime as the half-open range [InFrom, InTo).
type VisitorFilter struct {
	InFrom     *time.Time
	InTo       *time.Time
	ActiveOnly bool
	FlatNumber string
}

// VisitorPatch lists the editable visitor fields; nil means unchanged.
type VisitorPatch struct {
	Name       *string
	FlatNumber *string
	Purpose    *string
	Vehicle    *string
	InTime     *time.Time
}

type VisitorRepository interface {
	Create(ctx context.Context, v *domain.Visitor) (*domain.Visitor, error)
	FindByID(ctx context.Context, id string) (*domain.Visitor, error)
	List(ctx context.Context, filter VisitorFilter) ([]*domain.Visitor, error)
	// Update applies patch. A patch carrying InTime only matches a visitor
	// without an outTime or whose outTime is not before it, and yields
	// ErrConditionNotMet otherwise.
	Update(ctx context.Context, id string, patch VisitorPatch) (*domain.Visitor, error)
	Delete(ctx context.Context, id string) error
	// Checkout sets outTime on a visitor that has none yet. Returns
	// ErrConditionNotMet when the visitor is missing or already checked out.
	Checkout(ctx context.Context, id string, at time.Time) (*domain.Visitor, error)
}

type CreateVisitorInput struct {
	Name       string
	FlatNumber string
	Purpose    string
	Vehicle    string
	InTime     *time.Time // nil means now
}

type VisitorService interface {
	List(ctx context.Context, filter VisitorFilter) ([]*domain.Visitor, error)
	Get(ctx context.Context, id string) (*domain.Visitor, error)
	Create(ctx context.Context, input CreateVisitorInput) (*domain.Visitor, error)
	Update(ctx context.Context, id string, patch VisitorPatch) (*domain.Visitor, error)
	Delete(ctx context.Context, id string) error
	Checkout(ctx context.Context, id string) (*domain.Visitor, error)
}
