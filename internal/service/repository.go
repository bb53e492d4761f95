package service

import (
	"context"
	"errors"
	"time"

	"github.com/erazemk/shareit/internal/model"
)

// Storage errors that carry domain meaning. Stores return them wrapped or bare.
var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrBookingOverlap = errors.New("booking overlaps an existing booking")
	ErrBookingDecided = errors.New("booking already decided")
)

// Lookups return (nil, nil) when the row does not exist.

// UserRepository persists users.
type UserRepository interface {
	CreateUser(ctx context.Context, u model.User) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, u model.User) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// ItemRepository persists items.
type ItemRepository interface {
	CreateItem(ctx context.Context, item model.Item) (*model.Item, error)
	GetItem(ctx context.Context, id int64) (*model.Item, error)
	UpdateItem(ctx context.Context, item model.Item) (*model.Item, error)
	// ListItemsByOwner orders by id ascending.
	ListItemsByOwner(ctx context.Context, ownerID int64, page model.Page) ([]model.Item, error)
	// SearchItems matches available items whose name or description contains
	// text, ignoring case.
	SearchItems(ctx context.Context, text string, page model.Page) ([]model.Item, error)
	ListItemsByRequests(ctx context.Context, requestIDs ...int64) ([]model.Item, error)
}

// BookingFilter selects bookings for ListBookings. Exactly one of BookerID and
// OwnerID is set.
type BookingFilter struct {
	BookerID int64
	OwnerID  int64
	State    model.BookingState
	Now      time.Time
	// Page is nil for an unpaginated listing.
	Page *model.Page
	// Ascending orders by start ascending instead of descending.
	Ascending bool
}

// BookingRepository persists bookings. Reads fill the joined fields.
type BookingRepository interface {
	// CreateBooking stores b. When rejectOverlap is set it fails with
	// ErrBookingOverlap if a waiting or approved booking of the same item
	// intersects b, atomically with the insert.
	CreateBooking(ctx context.Context, b model.Booking, rejectOverlap bool) (*model.Booking, error)
	GetBooking(ctx context.Context, id int64) (*model.Booking, error)
	// UpdateBookingStatus moves a waiting booking to status. It fails with
	// ErrBookingDecided if the booking is no longer waiting, atomically with
	// the write.
	UpdateBookingStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error)
	ListBookings(ctx context.Context, f BookingFilter) ([]model.Booking, error)
	// LastApprovedBooking returns the approved booking of itemID with the
	// latest start before now.
	LastApprovedBooking(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error)
	// NextApprovedBooking returns the approved booking of itemID with the
	// earliest start at or after now.
	NextApprovedBooking(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error)
	// FindCompletedBooking returns an approved booking of itemID by bookerID
	// that ended before now.
	FindCompletedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (*model.Booking, error)
}

// CommentRepository persists comments. Reads fill AuthorName.
type CommentRepository interface {
	CreateComment(ctx context.Context, c model.Comment) (*model.Comment, error)
	ListCommentsByItems(ctx context.Context, itemIDs ...int64) ([]model.Comment, error)
}

// RequestRepository persists item requests. Items are not filled.
type RequestRepository interface {
	CreateRequest(ctx context.Context, r model.Request) (*model.Request, error)
	GetRequest(ctx context.Context, id int64) (*model.Request, error)
	// ListRequestsByRequestor orders by created ascending.
	ListRequestsByRequestor(ctx context.Context, requestorID int64) ([]model.Request, error)
	// ListRequestsExcept lists requests of everyone but userID, by created ascending.
	ListRequestsExcept(ctx context.Context, userID int64, page model.Page) ([]model.Request, error)
}

// Repository is the full storage contract.
type Repository interface {
	UserRepository
	ItemRepository
	BookingRepository
	CommentRepository
	RequestRepository
}
