package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/erazemk/shareit/internal/model"
)

// Role selects whose bookings a listing returns.
type Role int

// Listing perspectives.
const (
	RoleBooker Role = iota
	RoleOwner
)

// BookingService runs the booking lifecycle.
type BookingService struct {
	repo           Repository
	now            func() time.Time
	log            *zap.Logger
	preventOverlap bool
	locks          *itemLocks
}

// NewBookingService creates a booking service.
func NewBookingService(repo Repository, opts ...Option) *BookingService {
	o := buildOptions(opts)
	return &BookingService{
		repo:           repo,
		now:            o.now,
		log:            o.logger,
		preventOverlap: o.preventOverlap,
		locks:          newItemLocks(),
	}
}

// ParseState parses a booking state name from a request.
func ParseState(s string) (model.BookingState, error) {
	st, ok := model.ParseBookingState(s)
	if !ok {
		return "", badRequest("Unknown state: %s", s)
	}
	return st, nil
}

// Create books itemID for bookerID over [start, end). The booking starts out
// WAITING for the owner's decision.
func (s *BookingService) Create(ctx context.Context, itemID, bookerID int64, start, end time.Time) (*model.Booking, error) {
	if err := requireUser(ctx, s.repo, bookerID); err != nil {
		return nil, err
	}
	item, err := getItem(ctx, s.repo, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnedBy(bookerID) {
		return nil, newError(KindOwnershipConflict, "User with id=%d is owner of Item with id=%d", bookerID, itemID)
	}
	if !item.Available {
		return nil, newError(KindUnavailable, "Item with id=%d is unavailable", itemID)
	}
	if start.Equal(end) {
		return nil, newError(KindInvalidTimeRange, "StartTime: %s is equal EndTime: %s", fmtTime(start), fmtTime(end))
	}
	if start.After(end) {
		return nil, newError(KindInvalidTimeRange, "StartTime: %s is after EndTime: %s", fmtTime(start), fmtTime(end))
	}

	if s.preventOverlap {
		unlock := s.locks.lock(itemID)
		defer unlock()
	}

	b, err := s.repo.CreateBooking(ctx, model.Booking{
		Start:    start,
		End:      end,
		ItemID:   itemID,
		BookerID: bookerID,
		Status:   model.StatusWaiting,
	}, s.preventOverlap)
	if errors.Is(err, ErrBookingOverlap) {
		return nil, newError(KindOverlap, "Item with id=%d is already booked between %s and %s", itemID, fmtTime(start), fmtTime(end))
	}
	if err != nil {
		return nil, fmt.Errorf("creating booking: %w", err)
	}

	s.log.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("item_id", itemID),
		zap.Int64("booker_id", bookerID),
	)
	return b, nil
}

// Decide approves or rejects a waiting booking. Only the item owner decides.
func (s *BookingService) Decide(ctx context.Context, actingUserID, bookingID int64, approve bool) (*model.Booking, error) {
	b, err := getBooking(ctx, s.repo, bookingID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != actingUserID {
		return nil, notFound("User with id=%d is not the owner of Item with id=%d", actingUserID, b.ItemID)
	}
	if b.Status != model.StatusWaiting {
		return nil, newError(KindInvalidState, "Booking with id=%d already APPROVED or REJECTED", bookingID)
	}

	status := model.StatusRejected
	if approve {
		status = model.StatusApproved
	}
	updated, err := s.repo.UpdateBookingStatus(ctx, bookingID, status)
	if errors.Is(err, ErrBookingDecided) {
		return nil, newError(KindInvalidState, "Booking with id=%d already APPROVED or REJECTED", bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("updating booking: %w", err)
	}
	if updated == nil {
		return nil, notFound("Booking with id=%d not found", bookingID)
	}

	s.log.Info("booking decided",
		zap.Int64("booking_id", bookingID),
		zap.String("status", string(status)),
	)
	return updated, nil
}

// FindByID returns a booking to its booker or to the item owner.
func (s *BookingService) FindByID(ctx context.Context, bookingID, requesterID int64) (*model.Booking, error) {
	b, err := getBooking(ctx, s.repo, bookingID)
	if err != nil {
		return nil, err
	}
	if b.BookerID != requesterID && b.OwnerID != requesterID {
		return nil, notFound("User with id=%d has no access to Booking with id=%d", requesterID, bookingID)
	}
	return b, nil
}

// List returns a page of the user's bookings in the given state, newest
// start first. With RoleOwner the bookings of the user's items are listed.
func (s *BookingService) List(ctx context.Context, state model.BookingState, userID int64, role Role, from, size int) ([]model.Booking, error) {
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	page, err := newPage(from, size)
	if err != nil {
		return nil, err
	}

	f := BookingFilter{State: state, Now: s.now(), Page: &page}
	if role == RoleOwner {
		f.OwnerID = userID
	} else {
		f.BookerID = userID
	}

	bookings, err := s.repo.ListBookings(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	return bookings, nil
}

func getBooking(ctx context.Context, bookings BookingRepository, id int64) (*model.Booking, error) {
	b, err := bookings.GetBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting booking: %w", err)
	}
	if b == nil {
		return nil, notFound("Booking with id=%d is not exist", id)
	}
	return b, nil
}

func fmtTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
