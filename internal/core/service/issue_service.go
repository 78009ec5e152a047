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

type IssueService struct {
	repo        ports.IssueRepository
	technicians ports.TechnicianRepository
	log         zerolog.Logger
}

func NewIssueService(repo ports.IssueRepository, technicians ports.TechnicianRepository, log zerolog.Logger) *IssueService {
	return &IssueService{repo: repo, technicians: technicians, log: log}
}

func (s *IssueService) List(ctx context.Context, filter ports.IssueFilter) ([]*domain.Issue, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown issue status %q", domain.ErrValidation, filter.Status)
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, filter.Priority)
	}
	return s.repo.List(ctx, filter)
}

func (s *IssueService) Get(ctx context.Context, id string) (*domain.Issue, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *IssueService) Create(ctx context.Context, input ports.CreateIssueInput) (*domain.Issue, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Description) == "" {
		return nil, fmt.Errorf("%w: title and description are required", domain.ErrValidation)
	}
	if input.ReporterID == "" {
		return nil, fmt.Errorf("%w: reporter is required", domain.ErrValidation)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, priority)
	}
	if input.TechnicianID != "" {
		if err := s.checkTechnician(ctx, input.TechnicianID); err != nil {
			return nil, err
		}
	}
	images := input.Images
	if images == nil {
		images = []string{}
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Issue{
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		Images:       images,
		Status:       domain.IssueOpen,
		Priority:     priority,
		ReporterID:   input.ReporterID,
		TechnicianID: input.TechnicianID,
		DueDate:      input.DueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("issue_id", created.ID).Str("priority", string(priority)).Msg("issue reported")
	return created, nil
}

func (s *IssueService) Update(ctx context.Context, id string, patch ports.IssuePatch) (*domain.Issue, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown issue status %q", domain.ErrValidation, *patch.Status)
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, *patch.Priority)
	}
	if patch.TechnicianID != nil && *patch.TechnicianID != "" {
		if err := s.checkTechnician(ctx, *patch.TechnicianID); err != nil {
			return nil, err
		}
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *IssueService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *IssueService) checkTechnician(ctx context.Context, id string) error {
	if _, err := s.technicians.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: unknown technician %q", domain.ErrValidation, id)
		}
		return err
	}
	return nil
}
