package ports

import (
	"context"
	"time"

	"github.com/habitat-society/habitat-api/internal/core/domain"
)

// BookingFilter narrows booking listings. Empty fields are ignored.
type BookingFilter struct {
	UserID    string
	AmenityID string
	Status    domain.BookingStatus
}

// BookingPatch lists the editable booking fields; nil means unchanged.
type BookingPatch struct {
	AmenityID *string
	StartTime *time.Time
	EndTime   *time.Time
}

// BookingRepository defines persistence operations for bookings. Reads return
// the user and amenity references populated.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]*domain.Booking, error)
	// Update reschedules a booking that is still pending. Returns
	// ErrConditionNotMet when no pending booking matched.
	Update(ctx context.Context, id string, patch BookingPatch) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
	// Transition atomically moves a booking whose status is one of from to
	// status to. When ownerID is set the booking must also belong to it.
	// Returns ErrConditionNotMet when nothing matched.
	Transition(ctx context.Context, id string, from []domain.BookingStatus, to domain.BookingStatus, ownerID string) (*domain.Booking, error)
}

// CreateBookingInput carries a new reservation. UserID is always the caller.
type CreateBookingInput struct {
	UserID    string
	AmenityID string
	StartTime time.Time
	EndTime   time.Time
}

type BookingService interface {
	List(ctx context.Context, filter BookingFilter) ([]*domain.Booking, error)
	// Get returns domain.ErrNotFound when ownerID is set and does not own the booking.
	Get(ctx context.Context, id, ownerID string) (*domain.Booking, error)
	Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	Update(ctx context.Context, id, ownerID string, patch BookingPatch) (*domain.Booking, error)
	Delete(ctx context.Context, id string) error
	// Approve decides a pending booking; status must be approved or rejected.
	Approve(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
	Cancel(ctx context.Context, id, callerID string) (*domain.Booking, error)
}
