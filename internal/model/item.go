package model

import "time"

// Item is a thing a user offers for sharing.
type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"-"`
	RequestID   *int64 `json:"requestId"`
}

// OwnedBy reports whether userID owns the item.
func (i Item) OwnedBy(userID int64) bool {
	return i.OwnerID == userID
}

// BookingRef is the short form of a booking attached to an item view.
type BookingRef struct {
	ID       int64     `json:"id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	BookerID int64     `json:"bookerId"`
}

// RefOf returns the short form of b, or nil when b is nil.
func RefOf(b *Booking) *BookingRef {
	if b == nil {
		return nil
	}
	return &BookingRef{ID: b.ID, Start: b.Start, End: b.End, BookerID: b.BookerID}
}

// ItemDetail is an item with its comments and, for the owner, the
// surrounding approved bookings.
type ItemDetail struct {
	Item
	LastBooking *BookingRef `json:"lastBooking"`
	NextBooking *BookingRef `json:"nextBooking"`
	Comments    []Comment   `json:"comments"`
}
