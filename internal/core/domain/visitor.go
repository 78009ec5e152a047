package domain

import "time"

// Visitor is a gate log entry. OutTime stays nil until checkout and is never
// cleared afterwards.
type Visitor struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	FlatNumber string     `json:"flatNumber"`
	Purpose    string     `json:"purpose"`
	Vehicle    string     `json:"vehicle,omitempty"`
	InTime     time.Time  `json:"inTime"`
	OutTime    *time.Time `json:"outTime"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// CheckedOut reports whether the visitor has left.
func (v *Visitor) CheckedOut() bool {
	return v.OutTime != nil
}
