package domain

import "time"

// BookingStatus represents the approval state of an amenity booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:  {BookingApproved, BookingRejected, BookingCancelled},
	BookingApproved: {BookingCancelled},
}

// CanTransitionTo reports whether a booking may move from s to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Sources returns every status from which s is reachable.
func (s BookingStatus) Sources() []BookingStatus {
	var from []BookingStatus
	for src, targets := range bookingTransitions {
		for _, t := range targets {
			if t == s {
				from = append(from, src)
			}
		}
	}
	return from
}

// Booking reserves an amenity for a time window.
type Booking struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	User      *UserRef      `json:"user"`
	AmenityID string        `json:"amenityId"`
	Amenity   *AmenityRef   `json:"amenity"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
