package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

type VisitorService struct {
	repo ports.VisitorRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewVisitorService(repo ports.VisitorRepository, log zerolog.Logger) *VisitorService {
	return &VisitorService{repo: repo, log: log, now: time.Now}
}

func (s *VisitorService) List(ctx context.Context, filter ports.VisitorFilter) ([]*domain.Visitor, error) {
	return s.repo.List(ctx, filter)
}

func (s *VisitorService) Get(ctx context.Context, id string) (*domain.Visitor, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *VisitorService) Create(ctx context.Context, input ports.CreateVisitorInput) (*domain.Visitor, error) {
	name := strings.TrimSpace(input.Name)
	flat := strings.TrimSpace(input.FlatNumber)
	purpose := strings.TrimSpace(input.Purpose)
	if name == "" || flat == "" || purpose == "" {
		return nil, fmt.Errorf("%w: name, flat number and purpose are required", domain.ErrValidation)
	}

	now := s.now().UTC()
	in := now
	if input.InTime != nil && !input.InTime.IsZero() {
		in = input.InTime.UTC()
	}

	created, err := s.repo.Create(ctx, &domain.Visitor{
		Name:       name,
		FlatNumber: flat,
		Purpose:    purpose,
		Vehicle:    strings.TrimSpace(input.Vehicle),
		InTime:     in,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("visitor_id", created.ID).Str("flat", flat).Msg("visitor checked in")
	return created, nil
}

func (s *VisitorService) Update(ctx context.Context, id string, patch ports.VisitorPatch) (*domain.Visitor, error) {
	for _, f := range []*string{patch.Name, patch.FlatNumber, patch.Purpose} {
		if f != nil && strings.TrimSpace(*f) == "" {
			return nil, fmt.Errorf("%w: name, flat number and purpose cannot be empty", domain.ErrValidation)
		}
	}
	updated, err := s.repo.Update(ctx, id, patch)
	if errors.Is(err, ports.ErrConditionNotMet) {
		if _, findErr := s.repo.FindByID(ctx, id); findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("%w: in time cannot be after out time", domain.ErrValidation)
	}
	return updated, err
}

func (s *VisitorService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Checkout stamps the exit time once. A second checkout is rejected.
func (s *VisitorService) Checkout(ctx context.Context, id string) (*domain.Visitor, error) {
	v, err := s.repo.Checkout(ctx, id, s.now().UTC())
	if err == nil {
		s.log.Info().Str("visitor_id", id).Msg("visitor checked out")
		return v, nil
	}
	if !errors.Is(err, ports.ErrConditionNotMet) {
		return nil, err
	}
	if _, findErr := s.repo.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, fmt.Errorf("checkout: %w", domain.ErrAlreadyCheckedOut)
}

// DayRange returns the UTC bounds of the calendar day named by date (YYYY-MM-DD).
func DayRange(date string) (time.Time, time.Time, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}
	return day, day.Add(24 * time.Hour), nil
}
