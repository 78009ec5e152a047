package domain

import "time"

// Amenity is a bookable shared facility.
type Amenity struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Capacity    int       `json:"capacity,omitempty"`
	Rules       string    `json:"rules,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// AmenityRef is the populated form of a reference to an amenity.
type AmenityRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Technician is a maintenance roster entry. It is not a login identity.
type Technician struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Contact         string    `json:"contact,omitempty"`
	Specializations []string  `json:"specializations"`
	Availability    string    `json:"availability,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TechnicianRef is the populated form of a reference to a technician.
type TechnicianRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

// Notice is a society announcement shown to the listed audience roles.
type Notice struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VisibleFrom  time.Time `json:"visibleFrom"`
	VisibleUntil time.Time `json:"visibleUntil"`
	Pinned       bool      `json:"pinned"`
	Audience     []Role    `json:"audience"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// VisibleAt reports whether the notice window contains t.
func (n *Notice) VisibleAt(t time.Time) bool {
	return !t.Before(n.VisibleFrom) && !t.After(n.VisibleUntil)
}
