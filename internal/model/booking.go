package model

import "time"

// BookingStatus is the lifecycle status of a booking.
type BookingStatus string

// Booking statuses. WAITING is the only non-terminal one.
const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
)

// BookingState selects bookings when listing.
type BookingState string

// Booking list filters.
const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState parses a state name. Names are case-sensitive and an
// empty string selects ALL.
func ParseBookingState(s string) (BookingState, bool) {
	switch st := BookingState(s); st {
	case "":
		return StateAll, true
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return st, true
	}
	return "", false
}

// Booking is a reservation of an item for the interval [Start, End).
type Booking struct {
	ID       int64         `json:"id"`
	Start    time.Time     `json:"start"`
	End      time.Time     `json:"end"`
	ItemID   int64         `json:"itemId"`
	BookerID int64         `json:"bookerId"`
	Status   BookingStatus `json:"status"`

	// Joined fields, filled in on reads.
	ItemName   string `json:"-"`
	OwnerID    int64  `json:"-"`
	BookerName string `json:"-"`
}

// MatchesState reports whether b falls into state at the instant now.
func (b Booking) MatchesState(state BookingState, now time.Time) bool {
	switch state {
	case StateCurrent:
		return !b.Start.After(now) && b.End.After(now)
	case StatePast:
		return b.End.Before(now)
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	}
	return true
}

// Blocking reports whether b still holds its interval. Rejected bookings
// free the item.
func (b Booking) Blocking() bool {
	return b.Status == StatusWaiting || b.Status == StatusApproved
}

// Overlaps reports whether b intersects the interval [start, end).
func (b Booking) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}

// IsCompletedBy reports whether b is an approved booking of itemID by
// bookerID that ended before now.
func (b Booking) IsCompletedBy(bookerID, itemID int64, now time.Time) bool {
	return b.BookerID == bookerID && b.ItemID == itemID &&
		b.Status == StatusApproved && b.End.Before(now)
}
