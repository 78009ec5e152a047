package domain

import "time"

// BillStatus represents the payment state of a bill.
type BillStatus string

const (
	BillPending   BillStatus = "pending"
	BillCompleted BillStatus = "completed"
	BillFailed    BillStatus = "failed"
	BillRefunded  BillStatus = "refunded"
)

// Valid reports whether s is a known bill status.
func (s BillStatus) Valid() bool {
	switch s {
	case BillPending, BillCompleted, BillFailed, BillRefunded:
		return true
	}
	return false
}

// Payable reports whether a bill in status s may go through the payment path.
// Only pending bills can; failed and refunded are reachable by direct edit only.
func (s BillStatus) Payable() bool {
	return s == BillPending
}

// billEditSources lists, per target status, the statuses an administrative
// edit may move a bill from. Completed has no entry: only a payment sets it.
var billEditSources = map[BillStatus][]BillStatus{
	BillPending:  {BillPending, BillFailed},
	BillFailed:   {BillPending, BillFailed},
	BillRefunded: {BillCompleted, BillRefunded},
}

// EditSources returns the statuses from which a direct edit may set s.
// It is empty for completed and for unknown statuses.
func (s BillStatus) EditSources() []BillStatus {
	return append([]BillStatus(nil), billEditSources[s]...)
}

// CanEditTo reports whether a direct edit may move a bill from s to next.
func (s BillStatus) CanEditTo(next BillStatus) bool {
	for _, src := range billEditSources[next] {
		if src == s {
			return true
		}
	}
	return false
}

// Bill is a maintenance charge owed by exactly one user.
type Bill struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	User        *UserRef   `json:"user"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount"`
	DueDate     time.Time  `json:"dueDate"`
	Status      BillStatus `json:"status"`
	GatewayRef  string     `json:"gatewayRef,omitempty"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Payment is a ledger entry recorded for every completed bill payment.
type Payment struct {
	ID         string    `json:"id"`
	BillID     string    `json:"billId"`
	UserID     string    `json:"userId"`
	Amount     float64   `json:"amount"`
	GatewayRef string    `json:"gatewayRef"`
	PaidAt     time.Time `json:"paidAt"`
	CreatedAt  time.Time `json:"createdAt"`
}
