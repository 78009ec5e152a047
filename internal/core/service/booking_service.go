package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

type BookingService struct {
	repo      ports.BookingRepository
	amenities ports.AmenityRepository
	log       zerolog.Logger
}

func NewBookingService(repo ports.BookingRepository, amenities ports.AmenityRepository, log zerolog.Logger) *BookingService {
	return &BookingService{repo: repo, amenities: amenities, log: log}
}

func (s *BookingService) List(ctx context.Context, filter ports.BookingFilter) ([]*domain.Booking, error) {
	return s.repo.List(ctx, filter)
}

func (s *BookingService) Get(ctx context.Context, id, ownerID string) (*domain.Booking, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerID != "" && b.UserID != ownerID {
		return nil, fmt.Errorf("booking: %w", domain.ErrNotFound)
	}
	return b, nil
}

func (s *BookingService) Create(ctx context.Context, input ports.CreateBookingInput) (*domain.Booking, error) {
	if input.UserID == "" || input.AmenityID == "" {
		return nil, fmt.Errorf("%w: user and amenity are required", domain.ErrValidation)
	}
	if err := validateWindow(input.StartTime, input.EndTime); err != nil {
		return nil, err
	}
	if err := s.checkAmenity(ctx, input.AmenityID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Booking{
		UserID:    input.UserID,
		AmenityID: input.AmenityID,
		StartTime: input.StartTime.UTC(),
		EndTime:   input.EndTime.UTC(),
		Status:    domain.BookingPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("booking_id", created.ID).Str("amenity_id", created.AmenityID).Msg("booking created")
	return created, nil
}

// Update reschedules a booking. When ownerID is set the booking must belong to it.
// Update reschedules a pending booking. Approved, rejected and cancelled
// bookings are final; the owner cancels and books again instead.
func (s *BookingService) Update(ctx context.Context, id, ownerID string, patch ports.BookingPatch) (*domain.Booking, error) {
	current, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.BookingPending {
		return nil, notPending(current.Status)
	}

	start, end := current.StartTime, current.EndTime
	if patch.StartTime != nil {
		start = *patch.StartTime
	}
	if patch.EndTime != nil {
		end = *patch.EndTime
	}
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}
	if patch.AmenityID != nil {
		if err := s.checkAmenity(ctx, *patch.AmenityID); err != nil {
			return nil, err
		}
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if errors.Is(err, ports.ErrConditionNotMet) {
		current, findErr := s.Get(ctx, id, ownerID)
		if findErr != nil {
			return nil, findErr
		}
		return nil, notPending(current.Status)
	}
	return updated, err
}

func notPending(status domain.BookingStatus) error {
	return fmt.Errorf("%w: booking is %s, only pending bookings can be changed", domain.ErrInvalidState, status)
}

func (s *BookingService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *BookingService) Approve(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	if status != domain.BookingApproved && status != domain.BookingRejected {
		return nil, fmt.Errorf("%w: status must be approved or rejected", domain.ErrValidation)
	}
	return s.transition(ctx, id, status, "")
}

// Cancel lets the owner withdraw a pending or approved booking.
func (s *BookingService) Cancel(ctx context.Context, id, callerID string) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.BookingCancelled, callerID)
}

func (s *BookingService) transition(ctx context.Context, id string, to domain.BookingStatus, ownerID string) (*domain.Booking, error) {
	updated, err := s.repo.Transition(ctx, id, to.Sources(), to, ownerID)
	if err == nil {
		s.log.Info().Str("booking_id", id).Str("status", string(to)).Msg("booking status changed")
		return updated, nil
	}
	if !errors.Is(err, ports.ErrConditionNotMet) {
		return nil, err
	}

	current, findErr := s.Get(ctx, id, ownerID)
	if findErr != nil {
		return nil, findErr
	}
	return nil, fmt.Errorf("%w: cannot move booking from %s to %s", domain.ErrInvalidState, current.Status, to)
}

func (s *BookingService) checkAmenity(ctx context.Context, id string) error {
	if _, err := s.amenities.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: unknown amenity %q", domain.ErrValidation, id)
		}
		return err
	}
	return nil
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end time are required", domain.ErrValidation)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: end time must be after start time", domain.ErrValidation)
	}
	return nil
}
