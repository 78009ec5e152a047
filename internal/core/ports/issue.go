package ports

import (
	"context"
	"time"

	"github.com/habitat-society/habitat-api/internal/core/domain"
)

// IssueFilter narrows issue listings. Empty fields are ignored.
type IssueFilter struct {
	Status       domain.IssueStatus
	Priority     domain.IssuePriority
	ReporterID   string
	TechnicianID string
}

// IssuePatch lists the editable issue fields; nil means unchanged. An empty
// TechnicianID unassigns the technician.
type IssuePatch struct {
	Title        *string
	Description  *string
	Images       *[]string
	Status       *domain.IssueStatus
	Priority     *domain.IssuePriority
	TechnicianID *string
	DueDate      *time.Time
}

// IssueRepository defines persistence operations for maintenance issues.
// Reads return reporter and technician references populated.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) (*domain.Issue, error)
	FindByID(ctx context.Context, id string) (*domain.Issue, error)
	List(ctx context.Context, filter IssueFilter) ([]*domain.Issue, error)
	Update(ctx context.Context, id string, patch IssuePatch) (*domain.Issue, error)
	Delete(ctx context.Context, id string) error
}

// CreateIssueInput carries a new report. ReporterID is always the caller.
type CreateIssueInput struct {
	Title        string
	Description  string
	Images       []string
	Priority     domain.IssuePriority
	TechnicianID string
	DueDate      *time.Time
	ReporterID   string
}

type IssueService interface {
	List(ctx context.Context, filter IssueFilter) ([]*domain.Issue, error)
	Get(ctx context.Context, id string) (*domain.Issue, error)
	Create(ctx context.Context, input CreateIssueInput) (*domain.Issue, error)
	Update(ctx context.Context, id string, patch IssuePatch) (*domain.Issue, error)
	Delete(ctx context.Context, id string) error
}
