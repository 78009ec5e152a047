package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

type stubUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (r *stubUserRepo) add(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		r.seq++
		u.ID = "u" + strconv.Itoa(r.seq)
	}
	r.users[u.ID] = cloneUser(u)
	return cloneUser(u)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	for _, u := range r.users {
		if u.Email == user.Email {
			r.mu.Unlock()
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.mu.Unlock()
	return r.add(cloneUser(user)), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
}

func (r *stubUserRepo) List(_ context.Context, filter ports.UserFilter) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Phone != nil {
		u.Phone = *patch.Phone
	}
	if patch.FlatNumber != nil {
		u.FlatNumber = *patch.FlatNumber
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	if patch.PasswordHash != nil {
		u.PasswordHash = *patch.PasswordHash
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	delete(r.users, id)
	return nil
}

// stubBillRepo serialises MarkPaid behind a mutex, mirroring the single
// conditional write the Mongo repository performs.
type stubBillRepo struct {
	mu        sync.Mutex
	seq       int
	bills     map[string]*domain.Bill
	insertErr error
	inserts   int
}

func newStubBillRepo() *stubBillRepo {
	return &stubBillRepo{bills: make(map[string]*domain.Bill)}
}

func cloneBill(b *domain.Bill) *domain.Bill {
	c := *b
	return &c
}

func (r *stubBillRepo) put(b *domain.Bill) *domain.Bill {
	if b.ID == "" {
		r.seq++
		b.ID = "b" + strconv.Itoa(r.seq)
	}
	r.bills[b.ID] = cloneBill(b)
	return cloneBill(b)
}

func (r *stubBillRepo) Create(_ context.Context, bill *domain.Bill) (*domain.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.put(cloneBill(bill)), nil
}

func (r *stubBillRepo) InsertMany(_ context.Context, bills []*domain.Bill) ([]*domain.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inserts++
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	out := make([]*domain.Bill, 0, len(bills))
	for _, b := range bills {
		out = append(out, r.put(cloneBill(b)))
	}
	return out, nil
}

func (r *stubBillRepo) FindByID(_ context.Context, id string) (*domain.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bills[id]; ok {
		return cloneBill(b), nil
	}
	return nil, fmt.Errorf("bill: %w", domain.ErrNotFound)
}

func (r *stubBillRepo) List(_ context.Context, filter ports.BillFilter) ([]*domain.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Bill
	for _, b := range r.bills {
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		out = append(out, cloneBill(b))
	}
	return out, nil
}

func (r *stubBillRepo) Update(_ context.Context, id string, patch ports.BillPatch) (*domain.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bills[id]
	if !ok {
		return nil, ports.ErrConditionNotMet
	}
	if patch.Amount != nil && *patch.Amount < b.Amount {
		return nil, ports.ErrConditionNotMet
	}
	if len(patch.FromStatus) > 0 && !slices.Contains(patch.FromStatus, b.Status) {
		return nil, ports.ErrConditionNotMet
	}
	if patch.Amount != nil {
		b.Amount = *patch.Amount
	}
	if patch.Status != nil {
		b.Status = *patch.Status
	}
	if patch.Description != nil {
		b.Description = *patch.Description
	}
	return cloneBill(b), nil
}

func (r *stubBillRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bills[id]; !ok {
		return fmt.Errorf("bill: %w", domain.ErrNotFound)
	}
	delete(r.bills, id)
	return nil
}

func (r *stubBillRepo) MarkPaid(_ context.Context, p ports.BillPayment) (*domain.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bills[p.BillID]
	if !ok || b.Status != domain.BillPending || b.Amount > p.Amount || (p.PayerID != "" && b.UserID != p.PayerID) {
		return nil, ports.ErrConditionNotMet
	}
	paidAt := p.PaidAt
	b.Status = domain.BillCompleted
	b.GatewayRef = p.GatewayRef
	b.PaidAt = &paidAt
	return cloneBill(b), nil
}

type stubKeys struct {
	mu       sync.Mutex
	claimed  map[string]bool
	err      error
	released []string
}

func newStubKeys() *stubKeys { return &stubKeys{claimed: make(map[string]bool)} }

func (k *stubKeys) Claim(_ context.Context, key string, _ time.Duration) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.err != nil {
		return false, k.err
	}
	if k.claimed[key] {
		return false, nil
	}
	k.claimed[key] = true
	return true, nil
}

func (k *stubKeys) Release(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.claimed, key)
	k.released = append(k.released, key)
	return nil
}

type stubPublisher struct {
	mu     sync.Mutex
	events []ports.PaymentEvent
}

func (p *stubPublisher) Publish(e ports.PaymentEvent) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return true
}

type stubPaymentRepo struct {
	mu       sync.Mutex
	payments []*domain.Payment
}

func (r *stubPaymentRepo) Insert(_ context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments = append(r.payments, p)
	return nil
}

func (r *stubPaymentRepo) List(_ context.Context, filter ports.PaymentFilter) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Payment
	for _, p := range r.payments {
		if filter.UserID != "" && p.UserID != filter.UserID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type stubAmenityRepo struct {
	amenities map[string]*domain.Amenity
}

func (r *stubAmenityRepo) Create(_ context.Context, a *domain.Amenity) (*domain.Amenity, error) {
	a.ID = "a" + strconv.Itoa(len(r.amenities)+1)
	r.amenities[a.ID] = a
	return a, nil
}

func (r *stubAmenityRepo) FindByID(_ context.Context, id string) (*domain.Amenity, error) {
	if a, ok := r.amenities[id]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("amenity: %w", domain.ErrNotFound)
}

func (r *stubAmenityRepo) List(context.Context) ([]*domain.Amenity, error) {
	var out []*domain.Amenity
	for _, a := range r.amenities {
		out = append(out, a)
	}
	return out, nil
}

func (r *stubAmenityRepo) Update(ctx context.Context, id string, patch ports.AmenityPatch) (*domain.Amenity, error) {
	a, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	return a, nil
}

func (r *stubAmenityRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.amenities[id]; !ok {
		return fmt.Errorf("amenity: %w", domain.ErrNotFound)
	}
	delete(r.amenities, id)
	return nil
}

type stubBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*domain.Booking
	// beforeUpdate runs under the lock ahead of the pending check, letting a
	// test change the stored booking between the service's read and write.
	beforeUpdate func(b *domain.Booking)
}

func newStubBookingRepo() *stubBookingRepo {
	return &stubBookingRepo{bookings: make(map[string]*domain.Booking)}
}

func (r *stubBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *b
	c.ID = "bk" + strconv.Itoa(len(r.bookings)+1)
	r.bookings[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubBookingRepo) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok {
		c := *b
		return &c, nil
	}
	return nil, fmt.Errorf("booking: %w", domain.ErrNotFound)
}

func (r *stubBookingRepo) List(context.Context, ports.BookingFilter) ([]*domain.Booking, error) {
	return nil, nil
}

func (r *stubBookingRepo) Update(_ context.Context, id string, patch ports.BookingPatch) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if ok && r.beforeUpdate != nil {
		r.beforeUpdate(b)
	}
	if !ok || b.Status != domain.BookingPending {
		return nil, ports.ErrConditionNotMet
	}
	if patch.AmenityID != nil {
		b.AmenityID = *patch.AmenityID
	}
	if patch.StartTime != nil {
		b.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		b.EndTime = *patch.EndTime
	}
	c := *b
	return &c, nil
}

func (r *stubBookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return fmt.Errorf("booking: %w", domain.ErrNotFound)
	}
	delete(r.bookings, id)
	return nil
}

func (r *stubBookingRepo) Transition(_ context.Context, id string, from []domain.BookingStatus, to domain.BookingStatus, ownerID string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || (ownerID != "" && b.UserID != ownerID) {
		return nil, ports.ErrConditionNotMet
	}
	for _, s := range from {
		if b.Status == s {
			b.Status = to
			c := *b
			return &c, nil
		}
	}
	return nil, ports.ErrConditionNotMet
}

type stubVisitorRepo struct {
	mu       sync.Mutex
	visitors map[string]*domain.Visitor
}

func newStubVisitorRepo() *stubVisitorRepo {
	return &stubVisitorRepo{visitors: make(map[string]*domain.Visitor)}
}

func (r *stubVisitorRepo) Create(_ context.Context, v *domain.Visitor) (*domain.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *v
	c.ID = "v" + strconv.Itoa(len(r.visitors)+1)
	r.visitors[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubVisitorRepo) FindByID(_ context.Context, id string) (*domain.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.visitors[id]; ok {
		c := *v
		return &c, nil
	}
	return nil, fmt.Errorf("visitor: %w", domain.ErrNotFound)
}

func (r *stubVisitorRepo) List(context.Context, ports.VisitorFilter) ([]*domain.Visitor, error) {
	return nil, nil
}

func (r *stubVisitorRepo) Update(_ context.Context, id string, patch ports.VisitorPatch) (*domain.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.visitors[id]
	if !ok {
		return nil, fmt.Errorf("visitor: %w", domain.ErrNotFound)
	}
	if patch.InTime != nil {
		if v.OutTime != nil && patch.InTime.After(*v.OutTime) {
			return nil, ports.ErrConditionNotMet
		}
		v.InTime = *patch.InTime
	}
	if patch.Purpose != nil {
		v.Purpose = *patch.Purpose
	}
	c := *v
	return &c, nil
}

func (r *stubVisitorRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.visitors[id]; !ok {
		return fmt.Errorf("visitor: %w", domain.ErrNotFound)
	}
	delete(r.visitors, id)
	return nil
}

func (r *stubVisitorRepo) Checkout(_ context.Context, id string, at time.Time) (*domain.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.visitors[id]
	if !ok || v.OutTime != nil {
		return nil, ports.ErrConditionNotMet
	}
	v.OutTime = &at
	c := *v
	return &c, nil
}

type stubTechnicianRepo struct {
	technicians map[string]*domain.Technician
}

func (r *stubTechnicianRepo) Create(_ context.Context, t *domain.Technician) (*domain.Technician, error) {
	t.ID = "t" + strconv.Itoa(len(r.technicians)+1)
	r.technicians[t.ID] = t
	return t, nil
}

func (r *stubTechnicianRepo) FindByID(_ context.Context, id string) (*domain.Technician, error) {
	if t, ok := r.technicians[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("technician: %w", domain.ErrNotFound)
}

func (r *stubTechnicianRepo) List(context.Context, ports.TechnicianFilter) ([]*domain.Technician, error) {
	return nil, nil
}

func (r *stubTechnicianRepo) Update(ctx context.Context, id string, _ ports.TechnicianPatch) (*domain.Technician, error) {
	return r.FindByID(ctx, id)
}

func (r *stubTechnicianRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.technicians[id]; !ok {
		return fmt.Errorf("technician: %w", domain.ErrNotFound)
	}
	delete(r.technicians, id)
	return nil
}

type stubIssueRepo struct {
	issues map[string]*domain.Issue
}

func (r *stubIssueRepo) Create(_ context.Context, i *domain.Issue) (*domain.Issue, error) {
	i.ID = "i" + strconv.Itoa(len(r.issues)+1)
	r.issues[i.ID] = i
	return i, nil
}

func (r *stubIssueRepo) FindByID(_ context.Context, id string) (*domain.Issue, error) {
	if i, ok := r.issues[id]; ok {
		return i, nil
	}
	return nil, fmt.Errorf("issue: %w", domain.ErrNotFound)
}

func (r *stubIssueRepo) List(context.Context, ports.IssueFilter) ([]*domain.Issue, error) {
	return nil, nil
}

func (r *stubIssueRepo) Update(ctx context.Context, id string, patch ports.IssuePatch) (*domain.Issue, error) {
	i, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil {
		i.Status = *patch.Status
	}
	if patch.TechnicianID != nil {
		i.TechnicianID = *patch.TechnicianID
	}
	return i, nil
}

func (r *stubIssueRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.issues[id]; !ok {
		return fmt.Errorf("issue: %w", domain.ErrNotFound)
	}
	delete(r.issues, id)
	return nil
}
