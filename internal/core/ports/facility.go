package ports

import (
	"context"
	"time"

	"github.com/habitat-society/habitat-api/internal/core/domain"
)

// AmenityPatch lists the editable amenity fields; nil means unchanged.
type AmenityPatch struct {
	Name        *string
	Description *string
	Capacity    *int
	Rules       *string
}

type AmenityRepository interface {
	Create(ctx context.Context, a *domain.Amenity) (*domain.Amenity, error)
	FindByID(ctx context.Context, id string) (*domain.Amenity, error)
	List(ctx context.Context) ([]*domain.Amenity, error)
	Update(ctx context.Context, id string, patch AmenityPatch) (*domain.Amenity, error)
	Delete(ctx context.Context, id string) error
}

type AmenityService interface {
	List(ctx context.Context) ([]*domain.Amenity, error)
	Get(ctx context.Context, id string) (*domain.Amenity, error)
	Create(ctx context.Context, a domain.Amenity) (*domain.Amenity, error)
	Update(ctx context.Context, id string, patch AmenityPatch) (*domain.Amenity, error)
	Delete(ctx context.Context, id string) error
}

// TechnicianFilter narrows technician listings.
type TechnicianFilter struct {
	Active         *bool
	Specialization string
}

type TechnicianPatch struct {
	Name            *string
	Contact         *string
	Specializations *[]string
	Availability    *string
	IsActive        *bool
}

type TechnicianRepository interface {
	Create(ctx context.Context, t *domain.Technician) (*domain.Technician, error)
	FindByID(ctx context.Context, id string) (*domain.Technician, error)
	List(ctx context.Context, filter TechnicianFilter) ([]*domain.Technician, error)
	Update(ctx context.Context, id string, patch TechnicianPatch) (*domain.Technician, error)
	Delete(ctx context.Context, id string) error
}

type TechnicianService interface {
	List(ctx context.Context, filter TechnicianFilter) ([]*domain.Technician, error)
	Get(ctx context.Context, id string) (*domain.Technician, error)
	Create(ctx context.Context, t domain.Technician) (*domain.Technician, error)
	Update(ctx context.Context, id string, patch TechnicianPatch) (*domain.Technician, error)
	Delete(ctx context.Context, id string) error
}

// NoticeFilter narrows notice listings. VisibleAt keeps notices whose window
// contains that instant.
type NoticeFilter struct {
	Audience  domain.Role
	VisibleAt *time.Time
}

type NoticePatch struct {
	Title        *string
	Description  *string
	VisibleFrom  *time.Time
	VisibleUntil *time.Time
	Pinned       *bool
	Audience     *[]domain.Role
}

// NoticeRepository lists pinned notices first, then newest first.
type NoticeRepository interface {
	Create(ctx context.Context, n *domain.Notice) (*domain.Notice, error)
	FindByID(ctx context.Context, id string) (*domain.Notice, error)
	List(ctx context.Context, filter NoticeFilter) ([]*domain.Notice, error)
	Update(ctx context.Context, id string, patch NoticePatch) (*domain.Notice, error)
	Delete(ctx context.Context, id string) error
}

type NoticeService interface {
	List(ctx context.Context, filter NoticeFilter) ([]*domain.Notice, error)
	Get(ctx context.Context, id string) (*domain.Notice, error)
	Create(ctx context.Context, n domain.Notice) (*domain.Notice, error)
	Update(ctx context.Context, id string, patch NoticePatch) (*domain.Notice, error)
	Delete(ctx context.Context, id string) error
}
