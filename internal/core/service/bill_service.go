package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

const idempotencyTTL = 24 * time.Hour

// BillService guards the bill lifecycle: creation, batch generation and the
// pending -> completed payment transition.
type BillService struct {
	repo      ports.BillRepository
	users     ports.AuthRepository
	keys      ports.IdempotencyStore
	publisher ports.PaymentPublisher
	log       zerolog.Logger
	now       func() time.Time
}

// NewBillService wires the bill guard. keys and publisher may be nil.
func NewBillService(
	repo ports.BillRepository,
	users ports.AuthRepository,
	keys ports.IdempotencyStore,
	publisher ports.PaymentPublisher,
	log zerolog.Logger,
) *BillService {
	return &BillService{
		repo:      repo,
		users:     users,
		keys:      keys,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

func (s *BillService) List(ctx context.Context, filter ports.BillFilter) ([]*domain.Bill, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown bill status %q", domain.ErrValidation, filter.Status)
	}
	return s.repo.List(ctx, filter)
}

func (s *BillService) Get(ctx context.Context, id, ownerID string) (*domain.Bill, error) {
	bill, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerID != "" && bill.UserID != ownerID {
		return nil, fmt.Errorf("bill: %w", domain.ErrNotFound)
	}
	return bill, nil
}

func (s *BillService) Create(ctx context.Context, input ports.CreateBillInput) (*domain.Bill, error) {
	bill, err := s.newBill(input, true)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwners(ctx, []*domain.Bill{bill}); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, bill)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("bill_id", created.ID).Str("user_id", created.UserID).Msg("bill created")
	return created, nil
}

// Generate validates every row before writing any, then stores the batch in a
// single insert. All generated bills start pending.
func (s *BillService) Generate(ctx context.Context, input ports.GenerateBillsInput) ([]*domain.Bill, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one bill is required", domain.ErrValidation)
	}

	bills := make([]*domain.Bill, 0, len(input.Items))
	for i, item := range input.Items {
		item.Status = domain.BillPending
		bill, err := s.newBill(item, false)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		bills = append(bills, bill)
	}
	if err := s.checkOwners(ctx, bills); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	claimed := false
	if key != "" && s.keys != nil {
		ok, err := s.keys.Claim(ctx, key, idempotencyTTL)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency claim failed, generating anyway")
		case !ok:
			return nil, fmt.Errorf("generate bills: %w", domain.ErrDuplicateRequest)
		default:
			claimed = true
		}
	}

	created, err := s.repo.InsertMany(ctx, bills)
	if err != nil {
		if claimed {
			if relErr := s.keys.Release(ctx, key); relErr != nil {
				s.log.Warn().Err(relErr).Str("idempotency_key", key).Msg("failed to release idempotency key")
			}
		}
		return nil, err
	}

	s.log.Info().Int("count", len(created)).Msg("bills generated")
	return created, nil
}

func (s *BillService) Update(ctx context.Context, id string, input ports.UpdateBillInput) (*domain.Bill, error) {
	patch := ports.BillPatch{
		DueDate: input.DueDate,
		Status:  input.Status,
		Amount:  input.Amount,
	}
	if input.Description != nil {
		d := strings.TrimSpace(*input.Description)
		if d == "" {
			return nil, fmt.Errorf("%w: description cannot be empty", domain.ErrValidation)
		}
		patch.Description = &d
	}
	if input.Amount != nil && *input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown bill status %q", domain.ErrValidation, *input.Status)
		}
		patch.FromStatus = input.Status.EditSources()
		if len(patch.FromStatus) == 0 {
			return nil, fmt.Errorf("%w: status %s is set by payment only", domain.ErrValidation, *input.Status)
		}
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if errors.Is(err, ports.ErrConditionNotMet) {
		current, findErr := s.repo.FindByID(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		if input.Status != nil && !current.Status.CanEditTo(*input.Status) {
			return nil, fmt.Errorf("bill is %s, cannot become %s: %w", current.Status, *input.Status, domain.ErrInvalidState)
		}
		return nil, fmt.Errorf("%w: amount cannot decrease", domain.ErrValidation)
	}
	if err == nil && input.Status != nil {
		s.log.Info().Str("bill_id", id).Str("status", string(*input.Status)).Msg("bill status edited")
	}
	return updated, err
}

func (s *BillService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Pay marks a pending bill as completed when the tendered amount covers it.
// The transition is a single conditional write, so of two concurrent payments
// for the same bill exactly one succeeds.
func (s *BillService) Pay(ctx context.Context, input ports.PayBillInput) (*domain.Bill, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	ref := strings.TrimSpace(input.GatewayRef)
	if ref == "" {
		ref = "pay_" + uuid.NewString()
	}

	paid, err := s.repo.MarkPaid(ctx, ports.BillPayment{
		BillID:     input.BillID,
		PayerID:    input.PayerID,
		Amount:     input.Amount,
		GatewayRef: ref,
		PaidAt:     s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, ports.ErrConditionNotMet) {
			return nil, s.classifyPayFailure(ctx, input)
		}
		return nil, err
	}

	s.log.Info().
		Str("bill_id", paid.ID).
		Str("user_id", paid.UserID).
		Float64("amount", input.Amount).
		Msg("bill paid")

	if s.publisher != nil {
		event := ports.PaymentEvent{
			BillID:     paid.ID,
			UserID:     paid.UserID,
			Amount:     input.Amount,
			GatewayRef: ref,
			PaidAt:     s.now().UTC(),
		}
		if paid.PaidAt != nil {
			event.PaidAt = *paid.PaidAt
		}
		if !s.publisher.Publish(event) {
			s.log.Warn().Str("bill_id", paid.ID).Msg("payment ledger queue full, entry dropped")
		}
	}
	return paid, nil
}

// classifyPayFailure re-reads a bill after a conditional payment matched
// nothing and reports which precondition failed.
func (s *BillService) classifyPayFailure(ctx context.Context, input ports.PayBillInput) error {
	bill, err := s.repo.FindByID(ctx, input.BillID)
	if err != nil {
		return err
	}
	switch {
	case input.PayerID != "" && bill.UserID != input.PayerID:
		return fmt.Errorf("pay bill: %w: bill belongs to another user", domain.ErrForbidden)
	case !bill.Status.Payable():
		return fmt.Errorf("pay bill: %w: bill is %s", domain.ErrInvalidState, bill.Status)
	case input.Amount < bill.Amount:
		return fmt.Errorf("pay bill: %w: tendered %.2f, due %.2f", domain.ErrInsufficientAmount, input.Amount, bill.Amount)
	default:
		// Another request completed the bill between the write and the re-read.
		return fmt.Errorf("pay bill: %w: bill is no longer pending", domain.ErrInvalidState)
	}
}

func (s *BillService) newBill(input ports.CreateBillInput, allowStatus bool) (*domain.Bill, error) {
	desc := strings.TrimSpace(input.Description)
	switch {
	case strings.TrimSpace(input.UserID) == "":
		return nil, fmt.Errorf("%w: user is required", domain.ErrValidation)
	case desc == "":
		return nil, fmt.Errorf("%w: description is required", domain.ErrValidation)
	case input.Amount <= 0:
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	case input.DueDate.IsZero():
		return nil, fmt.Errorf("%w: due date is required", domain.ErrValidation)
	}

	status := domain.BillPending
	if allowStatus && input.Status != "" {
		if !domain.BillPending.CanEditTo(input.Status) {
			return nil, fmt.Errorf("%w: a new bill must be pending or failed", domain.ErrValidation)
		}
		status = input.Status
	}

	now := s.now().UTC()
	return &domain.Bill{
		UserID:      strings.TrimSpace(input.UserID),
		Description: desc,
		Amount:      input.Amount,
		DueDate:     input.DueDate.UTC(),
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// checkOwners verifies every referenced user exists, looking each id up once.
func (s *BillService) checkOwners(ctx context.Context, bills []*domain.Bill) error {
	seen := make(map[string]struct{}, len(bills))
	for _, b := range bills {
		if _, ok := seen[b.UserID]; ok {
			continue
		}
		seen[b.UserID] = struct{}{}
		if _, err := s.users.FindByID(ctx, b.UserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: unknown user %q", domain.ErrValidation, b.UserID)
			}
			return err
		}
	}
	return nil
}

// PaymentService records ledger entries published after successful payments.
type PaymentService struct {
	repo ports.PaymentRepository
	log  zerolog.Logger
}

func NewPaymentService(repo ports.PaymentRepository, log zerolog.Logger) *PaymentService {
	return &PaymentService{repo: repo, log: log}
}

func (s *PaymentService) Record(ctx context.Context, event ports.PaymentEvent) error {
	err := s.repo.Insert(ctx, &domain.Payment{
		BillID:     event.BillID,
		UserID:     event.UserID,
		Amount:     event.Amount,
		GatewayRef: event.GatewayRef,
		PaidAt:     event.PaidAt,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("record payment: %w", err)
	}
	s.log.Debug().Str("bill_id", event.BillID).Msg("payment recorded")
	return nil
}

func (s *PaymentService) List(ctx context.Context, filter ports.PaymentFilter) ([]*domain.Payment, error) {
	return s.repo.List(ctx, filter)
}
