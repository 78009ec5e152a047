package domain

import "time"

// IssueStatus is the lifecycle state of a maintenance issue.
type IssueStatus string

const (
	IssueOpen       IssueStatus = "open"
	IssueInProgress IssueStatus = "in_progress"
	IssueResolved   IssueStatus = "resolved"
	IssueClosed     IssueStatus = "closed"
)

// Valid reports whether s is a known issue status.
func (s IssueStatus) Valid() bool {
	switch s {
	case IssueOpen, IssueInProgress, IssueResolved, IssueClosed:
		return true
	}
	return false
}

// IssuePriority ranks issues for technicians.
type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
)

// Valid reports whether p is a known priority.
func (p IssuePriority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Issue is a maintenance ticket raised by a resident.
type Issue struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Images       []string       `json:"images"`
	Status       IssueStatus    `json:"status"`
	Priority     IssuePriority  `json:"priority"`
	ReporterID   string         `json:"reporterId,omitempty"`
	Reporter     *UserRef       `json:"reporter"`
	TechnicianID string         `json:"technicianId,omitempty"`
	Technician   *TechnicianRef `json:"technician"`
	DueDate      *time.Time     `json:"dueDate,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
