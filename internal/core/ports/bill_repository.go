package ports

import (
	"context"
	"time"

	"github.com/habitat-society/habitat-api/internal/core/domain"
)

// BillFilter narrows bill listings. Empty fields are ignored.
type BillFilter struct {
	UserID string
	Status domain.BillStatus
}

// BillPatch lists the fields an administrator may edit; nil means unchanged.
// When FromStatus is set the stored status must be one of its entries.
type BillPatch struct {
	Description *string
	Amount      *float64
	DueDate     *time.Time
	Status      *domain.BillStatus
	FromStatus  []domain.BillStatus
}

// BillPayment describes a single payment attempt.
type BillPayment struct {
	BillID     string
	PayerID    string // empty: any payer
	Amount     float64
	GatewayRef string
	PaidAt     time.Time
}

// BillRepository defines persistence operations for bills. Reads return the
// owning user populated.
type BillRepository interface {
	Create(ctx context.Context, bill *domain.Bill) (*domain.Bill, error)
	// InsertMany writes the whole batch in one ordered insert.
	InsertMany(ctx context.Context, bills []*domain.Bill) ([]*domain.Bill, error)
	FindByID(ctx context.Context, id string) (*domain.Bill, error)
	List(ctx context.Context, filter BillFilter) ([]*domain.Bill, error)
	// Update applies patch. A patch that would lower the amount, or whose
	// FromStatus excludes the stored status, matches nothing and yields
	// ErrConditionNotMet.
	Update(ctx context.Context, id string, patch BillPatch) (*domain.Bill, error)
	Delete(ctx context.Context, id string) error
	// MarkPaid atomically sets status=completed on a pending bill whose amount
	// is covered by the payment (and, when PayerID is set, owned by the payer).
	// It returns ErrConditionNotMet when no bill satisfied every condition.
	MarkPaid(ctx context.Context, payment BillPayment) (*domain.Bill, error)
}

// PaymentFilter narrows ledger listings.
type PaymentFilter struct {
	UserID string
	BillID string
}

// PaymentRepository persists the payment ledger.
type PaymentRepository interface {
	Insert(ctx context.Context, payment *domain.Payment) error
	List(ctx context.Context, filter PaymentFilter) ([]*domain.Payment, error)
}
