package ports

import (
	"context"
	"time"

	"github.com/habitat-society/habitat-api/internal/core/domain"
)

// CreateBillInput carries a single administrator-created bill.
type CreateBillInput struct {
	UserID      string
	Description string
	Amount      float64
	DueDate     time.Time
	Status      domain.BillStatus // empty means pending; only pending or failed
}

// GenerateBillsInput is a batch of bills plus an optional idempotency key.
type GenerateBillsInput struct {
	IdempotencyKey string
	Items          []CreateBillInput
}

// UpdateBillInput is an administrative edit. The gateway reference is
// written by payments only.
type UpdateBillInput struct {
	Description *string
	Amount      *float64
	DueDate     *time.Time
	Status      *domain.BillStatus
}

// PayBillInput is one payment attempt against a bill.
type PayBillInput struct {
	BillID     string
	Amount     float64
	GatewayRef string
	PayerID    string // set when the caller may only pay their own bills
}

// PaymentEvent is published after a bill transitions to completed.
type PaymentEvent struct {
	BillID     string
	UserID     string
	Amount     float64
	GatewayRef string
	PaidAt     time.Time
}

// BillService is the bill lifecycle guard.
type BillService interface {
	List(ctx context.Context, filter BillFilter) ([]*domain.Bill, error)
	// Get returns domain.ErrNotFound when ownerID is set and does not own the bill.
	Get(ctx context.Context, id, ownerID string) (*domain.Bill, error)
	Create(ctx context.Context, input CreateBillInput) (*domain.Bill, error)
	Generate(ctx context.Context, input GenerateBillsInput) ([]*domain.Bill, error)
	Update(ctx context.Context, id string, input UpdateBillInput) (*domain.Bill, error)
	Delete(ctx context.Context, id string) error
	Pay(ctx context.Context, input PayBillInput) (*domain.Bill, error)
}

// PaymentService records and lists ledger entries.
type PaymentService interface {
	Record(ctx context.Context, event PaymentEvent) error
	List(ctx context.Context, filter PaymentFilter) ([]*domain.Payment, error)
}
