package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/habitat-society/habitat-api/internal/core/domain"
	"github.com/habitat-society/habitat-api/internal/core/ports"
)

// AmenityService manages the bookable facilities catalogue.
type AmenityService struct {
	repo ports.AmenityRepository
	log  zerolog.Logger
}

func NewAmenityService(repo ports.AmenityRepository, log zerolog.Logger) *AmenityService {
	return &AmenityService{repo: repo, log: log}
}

func (s *AmenityService) List(ctx context.Context) ([]*domain.Amenity, error) {
	return s.repo.List(ctx)
}

func (s *AmenityService) Get(ctx context.Context, id string) (*domain.Amenity, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AmenityService) Create(ctx context.Context, a domain.Amenity) (*domain.Amenity, error) {
	a.Name = strings.TrimSpace(a.Name)
	if a.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if a.Capacity < 0 {
		return nil, fmt.Errorf("%w: capacity cannot be negative", domain.ErrValidation)
	}
	now := time.Now().UTC()
	a.ID, a.CreatedAt, a.UpdatedAt = "", now, now
	return s.repo.Create(ctx, &a)
}

func (s *AmenityService) Update(ctx context.Context, id string, patch ports.AmenityPatch) (*domain.Amenity, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
	}
	if patch.Capacity != nil && *patch.Capacity < 0 {
		return nil, fmt.Errorf("%w: capacity cannot be negative", domain.ErrValidation)
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *AmenityService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// TechnicianService manages the maintenance staff directory.
type TechnicianService struct {
	repo ports.TechnicianRepository
	log  zerolog.Logger
}

func NewTechnicianService(repo ports.TechnicianRepository, log zerolog.Logger) *TechnicianService {
	return &TechnicianService{repo: repo, log: log}
}

func (s *TechnicianService) List(ctx context.Context, filter ports.TechnicianFilter) ([]*domain.Technician, error) {
	return s.repo.List(ctx, filter)
}

func (s *TechnicianService) Get(ctx context.Context, id string) (*domain.Technician, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a technician. New technicians are active.
func (s *TechnicianService) Create(ctx context.Context, t domain.Technician) (*domain.Technician, error) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	t.Specializations = cleanList(t.Specializations)
	now := time.Now().UTC()
	t.ID, t.IsActive, t.CreatedAt, t.UpdatedAt = "", true, now, now
	return s.repo.Create(ctx, &t)
}

func (s *TechnicianService) Update(ctx context.Context, id string, patch ports.TechnicianPatch) (*domain.Technician, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
	}
	if patch.Specializations != nil {
		cleaned := cleanList(*patch.Specializations)
		patch.Specializations = &cleaned
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *TechnicianService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// NoticeService manages the society notice board.
type NoticeService struct {
	repo ports.NoticeRepository
	log  zerolog.Logger
}

func NewNoticeService(repo ports.NoticeRepository, log zerolog.Logger) *NoticeService {
	return &NoticeService{repo: repo, log: log}
}

func (s *NoticeService) List(ctx context.Context, filter ports.NoticeFilter) ([]*domain.Notice, error) {
	if filter.Audience != "" && !filter.Audience.Valid() {
		return nil, fmt.Errorf("%w: unknown audience %q", domain.ErrValidation, filter.Audience)
	}
	return s.repo.List(ctx, filter)
}

func (s *NoticeService) Get(ctx context.Context, id string) (*domain.Notice, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a notice. An empty audience means every role.
func (s *NoticeService) Create(ctx context.Context, n domain.Notice) (*domain.Notice, error) {
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" || strings.TrimSpace(n.Description) == "" {
		return nil, fmt.Errorf("%w: title and description are required", domain.ErrValidation)
	}
	if n.VisibleFrom.IsZero() || n.VisibleUntil.IsZero() {
		return nil, fmt.Errorf("%w: visibility window is required", domain.ErrValidation)
	}
	if n.VisibleUntil.Before(n.VisibleFrom) {
		return nil, fmt.Errorf("%w: visibleUntil must not precede visibleFrom", domain.ErrValidation)
	}
	audience, err := normalizeAudience(n.Audience)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	n.ID, n.Audience, n.CreatedAt, n.UpdatedAt = "", audience, now, now
	n.VisibleFrom, n.VisibleUntil = n.VisibleFrom.UTC(), n.VisibleUntil.UTC()

	created, err := s.repo.Create(ctx, &n)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("notice_id", created.ID).Bool("pinned", created.Pinned).Msg("notice published")
	return created, nil
}

func (s *NoticeService) Update(ctx context.Context, id string, patch ports.NoticePatch) (*domain.Notice, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
	}
	if patch.Audience != nil {
		audience, err := normalizeAudience(*patch.Audience)
		if err != nil {
			return nil, err
		}
		patch.Audience = &audience
	}
	if patch.VisibleFrom != nil || patch.VisibleUntil != nil {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		from, until := current.VisibleFrom, current.VisibleUntil
		if patch.VisibleFrom != nil {
			from = *patch.VisibleFrom
		}
		if patch.VisibleUntil != nil {
			until = *patch.VisibleUntil
		}
		if until.Before(from) {
			return nil, fmt.Errorf("%w: visibleUntil must not precede visibleFrom", domain.ErrValidation)
		}
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *NoticeService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func normalizeAudience(in []domain.Role) ([]domain.Role, error) {
	seen := make(map[domain.Role]struct{}, len(in))
	out := make([]domain.Role, 0, len(in))
	for _, r := range in {
		if !r.Valid() {
			return nil, fmt.Errorf("%w: unknown audience %q", domain.ErrValidation, r)
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToLower(s))
		}
	}
	return out
}
