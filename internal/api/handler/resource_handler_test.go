package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

type stubBookingService struct {
	ports.BookingService
	createFn func(ctx context.Context, input ports.CreateBookingInput) (*domain.Booking, error)
}

func (s *stubBookingService) Create(ctx context.Context, input ports.CreateBookingInput) (*domain.Booking, error) {
	return s.createFn(ctx, input)
}

type stubNoticeService struct {
	ports.NoticeService
	got ports.NoticeFilter
}

func (s *stubNoticeService) List(_ context.Context, f ports.NoticeFilter) ([]*domain.Notice, error) {
	s.got = f
	return []*domain.Notice{}, nil
}

type stubVisitorService struct {
	ports.VisitorService
	got ports.VisitorFilter
}

func (s *stubVisitorService) List(_ context.Context, f ports.VisitorFilter) ([]*domain.Visitor, error) {
	s.got = f
	return []*domain.Visitor{}, nil
}

type stubIssueService struct {
	ports.IssueService
	got ports.CreateIssueInput
}

func (s *stubIssueService) Create(_ context.Context, in ports.CreateIssueInput) (*domain.Issue, error) {
	s.got = in
	return &domain.Issue{ID: "i1", Title: in.Title, ReporterID: in.ReporterID}, nil
}

func TestBookingHandler_Create_OwnerIsCaller(t *testing.T) {
	var got ports.CreateBookingInput
	h := NewBookingHandler(&stubBookingService{createFn: func(_ context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
		got = in
		return &domain.Booking{ID: "bk1", UserID: in.UserID, Status: domain.BookingPending}, nil
	}})

	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/bookings",
		`{"amenity":"am1","user":"someone-else","startTime":"2025-10-01T18:00:00Z","endTime":"2025-10-01T20:00:00Z"}`), rec)
	c.Set("user", resident)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.UserID != "res1" || got.AmenityID != "am1" {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.EndTime.Sub(got.StartTime) != 2*time.Hour {
		t.Fatalf("unexpected window: %v - %v", got.StartTime, got.EndTime)
	}
}

func TestBookingHandler_Approve_RejectsUnknownDecision(t *testing.T) {
	h := NewBookingHandler(&stubBookingService{})

	e := newTestEcho()
	c := e.NewContext(jsonRequest(http.MethodPatch, "/", `{"status":"cancelled"}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("bk1")
	c.Set("user", admin)

	if err := h.Approve(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestIssueHandler_Create_ReporterIsCaller(t *testing.T) {
	stub := &stubIssueService{}
	h := NewIssueHandler(stub)

	e := newTestEcho()
	c := e.NewContext(jsonRequest(http.MethodPost, "/issues",
		`{"title":"Leak","description":"Kitchen tap","reporter":"someone-else","dueDate":"2025-10-05"}`), httptest.NewRecorder())
	c.Set("user", resident)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.got.ReporterID != "res1" {
		t.Fatalf("expected reporter res1, got %q", stub.got.ReporterID)
	}
	if stub.got.DueDate == nil || stub.got.DueDate.Day() != 5 {
		t.Fatalf("expected due date to parse, got %v", stub.got.DueDate)
	}
}

func TestNoticeHandler_List_ScopesNonManagers(t *testing.T) {
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

	stub := &stubNoticeService{}
	h := NewNoticeHandler(stub)
	h.now = func() time.Time { return now }

	e := newTestEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/notices?audience=admin", nil), httptest.NewRecorder())
	c.Set("user", &domain.User{ID: "t1", Role: domain.RoleTenant})

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.got.Audience != domain.RoleTenant {
		t.Fatalf("expected audience forced to tenant, got %q", stub.got.Audience)
	}
	if stub.got.VisibleAt == nil || !stub.got.VisibleAt.Equal(now) {
		t.Fatalf("expected visibility filter at now, got %v", stub.got.VisibleAt)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/notices?audience=resident", nil), httptest.NewRecorder())
	c.Set("user", admin)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.got.Audience != domain.RoleResident || stub.got.VisibleAt != nil {
		t.Fatalf("unexpected manager filter: %+v", stub.got)
	}
}

func TestVisitorHandler_List_DateFilter(t *testing.T) {
	stub := &stubVisitorService{}
	h := NewVisitorHandler(stub)
	e := newTestEcho()

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/visitors?date=2025-10-01&active=true&flat=B-204", nil), httptest.NewRecorder())
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !stub.got.ActiveOnly || stub.got.FlatNumber != "B-204" {
		t.Fatalf("unexpected filter: %+v", stub.got)
	}
	wantFrom := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	if stub.got.InFrom == nil || !stub.got.InFrom.Equal(wantFrom) || !stub.got.InTo.Equal(wantFrom.Add(24*time.Hour)) {
		t.Fatalf("unexpected range: %v - %v", stub.got.InFrom, stub.got.InTo)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/visitors?date=01-10-2025", nil), httptest.NewRecorder())
	if err := h.List(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
