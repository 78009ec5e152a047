package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

type stubBillService struct {
	ports.BillService
	payFn      func(ctx context.Context, input ports.PayBillInput) (*domain.Bill, error)
	generateFn func(ctx context.Context, input ports.GenerateBillsInput) ([]*domain.Bill, error)
	listFn     func(ctx context.Context, filter ports.BillFilter) ([]*domain.Bill, error)
	updateFn   func(ctx context.Context, id string, input ports.UpdateBillInput) (*domain.Bill, error)
}

func (s *stubBillService) Update(ctx context.Context, id string, input ports.UpdateBillInput) (*domain.Bill, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubBillService) Pay(ctx context.Context, input ports.PayBillInput) (*domain.Bill, error) {
	return s.payFn(ctx, input)
}

func (s *stubBillService) Generate(ctx context.Context, input ports.GenerateBillsInput) ([]*domain.Bill, error) {
	return s.generateFn(ctx, input)
}

func (s *stubBillService) List(ctx context.Context, filter ports.BillFilter) ([]*domain.Bill, error) {
	return s.listFn(ctx, filter)
}

var (
	admin    = &domain.User{ID: "admin1", Role: domain.RoleAdmin, IsActive: true}
	resident = &domain.User{ID: "res1", Role: domain.RoleResident, IsActive: true}
)

func TestBillHandler_Pay_ScopesResidentToOwnBills(t *testing.T) {
	tests := []struct {
		name      string
		caller    *domain.User
		wantPayer string
	}{
		{"resident pays own bill", resident, "res1"},
		{"admin records payment for anyone", admin, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got ports.PayBillInput
			stub := &stubBillService{payFn: func(_ context.Context, input ports.PayBillInput) (*domain.Bill, error) {
				got = input
				return &domain.Bill{ID: input.BillID, Status: domain.BillCompleted, GatewayRef: input.GatewayRef}, nil
			}}
			h := NewBillHandler(stub, nil)

			e := newTestEcho()
			rec := httptest.NewRecorder()
			c := e.NewContext(jsonRequest(http.MethodPatch, "/", `{"amount":1500,"gatewayRef":"rzp_1"}`), rec)
			c.SetParamNames("id")
			c.SetParamValues("b1")
			c.Set("user", tc.caller)

			if err := h.Pay(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if got.BillID != "b1" || got.Amount != 1500 || got.GatewayRef != "rzp_1" {
				t.Fatalf("unexpected input: %+v", got)
			}
			if got.PayerID != tc.wantPayer {
				t.Fatalf("expected payer %q, got %q", tc.wantPayer, got.PayerID)
			}
		})
	}
}

func TestBillHandler_Pay_RejectsNonPositiveAmount(t *testing.T) {
	stub := &stubBillService{payFn: func(context.Context, ports.PayBillInput) (*domain.Bill, error) {
		t.Fatalf("service must not be called")
		return nil, nil
	}}
	h := NewBillHandler(stub, nil)

	e := newTestEcho()
	c := e.NewContext(jsonRequest(http.MethodPatch, "/", `{"amount":0}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("b1")
	c.Set("user", resident)

	if err := h.Pay(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestBillHandler_Pay_PropagatesGuardErrors(t *testing.T) {
	for _, want := range []error{domain.ErrInvalidState, domain.ErrInsufficientAmount, domain.ErrNotFound} {
		stub := &stubBillService{payFn: func(context.Context, ports.PayBillInput) (*domain.Bill, error) {
			return nil, want
		}}
		h := NewBillHandler(stub, nil)

		e := newTestEcho()
		c := e.NewContext(jsonRequest(http.MethodPatch, "/", `{"amount":10}`), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues("b1")
		c.Set("user", resident)

		if err := h.Pay(c); !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestBillHandler_Update_RejectsCompletedStatus(t *testing.T) {
	stub := &stubBillService{updateFn: func(context.Context, string, ports.UpdateBillInput) (*domain.Bill, error) {
		t.Fatalf("service must not be called")
		return nil, nil
	}}
	h := NewBillHandler(stub, nil)

	e := newTestEcho()
	c := e.NewContext(jsonRequest(http.MethodPut, "/", `{"status":"completed"}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("b1")
	c.Set("user", admin)

	if err := h.Update(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestBillHandler_Update_PassesRefund(t *testing.T) {
	var got ports.UpdateBillInput
	stub := &stubBillService{updateFn: func(_ context.Context, id string, input ports.UpdateBillInput) (*domain.Bill, error) {
		got = input
		return &domain.Bill{ID: id, Status: *input.Status}, nil
	}}
	h := NewBillHandler(stub, nil)

	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/", `{"status":"refunded"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("b1")
	c.Set("user", admin)

	if err := h.Update(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Status == nil || *got.Status != domain.BillRefunded {
		t.Fatalf("expected refunded status, got %+v", got.Status)
	}
}

func TestBillHandler_Generate(t *testing.T) {
	var got ports.GenerateBillsInput
	stub := &stubBillService{generateFn: func(_ context.Context, input ports.GenerateBillsInput) ([]*domain.Bill, error) {
		got = input
		out := make([]*domain.Bill, len(input.Items))
		for i, it := range input.Items {
			out[i] = &domain.Bill{ID: "b", UserID: it.UserID, Amount: it.Amount, Status: domain.BillPending}
		}
		return out, nil
	}}
	h := NewBillHandler(stub, nil)

	e := newTestEcho()
	req := jsonRequest(http.MethodPost, "/bills/generate", `[
		{"user":"u1","description":"Maintenance Oct","amount":1500,"dueDate":"2025-10-10"},
		{"userId":"u2","description":"Maintenance Oct","amount":1500,"dueDate":"2025-10-10T00:00:00Z"}
	]`)
	req.Header.Set("Idempotency-Key", "oct-2025")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user", admin)

	if err := h.Generate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.IdempotencyKey != "oct-2025" {
		t.Fatalf("expected idempotency key to be forwarded, got %q", got.IdempotencyKey)
	}
	if len(got.Items) != 2 || got.Items[0].UserID != "u1" || got.Items[1].UserID != "u2" {
		t.Fatalf("unexpected items: %+v", got.Items)
	}
	if got.Items[0].DueDate.IsZero() || !got.Items[0].DueDate.Equal(got.Items[1].DueDate) {
		t.Fatalf("expected both date formats to parse to the same instant: %v vs %v",
			got.Items[0].DueDate, got.Items[1].DueDate)
	}
}

func TestBillHandler_Generate_RejectsBadRowBeforeService(t *testing.T) {
	stub := &stubBillService{generateFn: func(context.Context, ports.GenerateBillsInput) ([]*domain.Bill, error) {
		t.Fatalf("service must not be called")
		return nil, nil
	}}
	h := NewBillHandler(stub, nil)

	e := newTestEcho()
	c := e.NewContext(jsonRequest(http.MethodPost, "/bills/generate", `[
		{"user":"u1","description":"ok","amount":100,"dueDate":"2025-10-10"},
		{"user":"u2","description":"bad","amount":-5,"dueDate":"2025-10-10"}
	]`), httptest.NewRecorder())
	c.Set("user", admin)

	if err := h.Generate(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestBillHandler_List_ForcesOwnerForResidents(t *testing.T) {
	var got ports.BillFilter
	stub := &stubBillService{listFn: func(_ context.Context, f ports.BillFilter) ([]*domain.Bill, error) {
		got = f
		return []*domain.Bill{}, nil
	}}
	h := NewBillHandler(stub, nil)

	e := newTestEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/bills?user=someone-else&status=pending", nil), httptest.NewRecorder())
	c.Set("user", resident)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.UserID != "res1" || got.Status != domain.BillPending {
		t.Fatalf("unexpected filter: %+v", got)
	}
}
