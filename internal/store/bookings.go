package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/service"
)

// bookingSelect joins the item and booker names into every booking read.
func (s *Store) bookingSelect() *goqu.SelectDataset {
	return s.dialect.From(goqu.T("bookings").As("b")).
		Join(goqu.T("items").As("i"), goqu.On(goqu.I("i.id").Eq(goqu.I("b.item_id")))).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("b.booker_id")))).
		Select(
			"b.id", "b.start_at", "b.end_at", "b.item_id", "b.booker_id", "b.status",
			"i.name", "i.owner_id", "u.name",
		)
}

// CreateBooking inserts a booking. With rejectOverlap the overlap check and
// the insert share one transaction.
func (s *Store) CreateBooking(ctx context.Context, b model.Booking, rejectOverlap bool) (*model.Booking, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if rejectOverlap {
		var overlapping bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (
			     SELECT 1 FROM bookings
			     WHERE item_id = ? AND status IN ('WAITING', 'APPROVED')
			       AND start_at < ? AND end_at > ?
			 )`,
			b.ItemID, toNanos(b.End), toNanos(b.Start),
		).Scan(&overlapping)
		if err != nil {
			return nil, fmt.Errorf("checking overlap: %w", err)
		}
		if overlapping {
			return nil, service.ErrBookingOverlap
		}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (start_at, end_at, item_id, booker_id, status) VALUES (?, ?, ?, ?, ?)`,
		toNanos(b.Start), toNanos(b.End), b.ItemID, b.BookerID, string(b.Status),
	)
	if err != nil {
		return nil, fmt.Errorf("creating booking: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting booking id: %w", err)
	}

	created, err := s.getBooking(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing booking: %w", err)
	}
	return created, nil
}

// GetBooking returns a booking by ID.
func (s *Store) GetBooking(ctx context.Context, id int64) (*model.Booking, error) {
	return s.getBooking(ctx, s.db, id)
}

func (s *Store) getBooking(ctx context.Context, q queryer, id int64) (*model.Booking, error) {
	return s.queryOneBooking(ctx, q, s.bookingSelect().Where(goqu.I("b.id").Eq(id)))
}

// UpdateBookingStatus decides a waiting booking.
func (s *Store) UpdateBookingStatus(ctx context.Context, id int64, status model.BookingStatus) (*model.Booking, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ? AND status = ?`,
		string(status), id, string(model.StatusWaiting),
	)
	if err != nil {
		return nil, fmt.Errorf("updating booking status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating booking status: %w", err)
	}

	b, err := s.GetBooking(ctx, id)
	if err != nil || b == nil {
		return b, err
	}
	if n == 0 {
		return nil, service.ErrBookingDecided
	}
	return b, nil
}

// ListBookings returns the bookings selected by f.
func (s *Store) ListBookings(ctx context.Context, f service.BookingFilter) ([]model.Booking, error) {
	ds := s.bookingSelect()
	if f.BookerID != 0 {
		ds = ds.Where(goqu.I("b.booker_id").Eq(f.BookerID))
	}
	if f.OwnerID != 0 {
		ds = ds.Where(goqu.I("i.owner_id").Eq(f.OwnerID))
	}
	if cond := stateCondition(f.State, f.Now); cond != nil {
		ds = ds.Where(cond)
	}

	if f.Ascending {
		ds = ds.Order(goqu.I("b.start_at").Asc(), goqu.I("b.id").Asc())
	} else {
		ds = ds.Order(goqu.I("b.start_at").Desc(), goqu.I("b.id").Desc())
	}
	if f.Page != nil {
		ds = paged(ds, *f.Page)
	}

	return s.queryBookings(ctx, s.db, ds)
}

// stateCondition mirrors model.Booking.MatchesState in SQL.
func stateCondition(state model.BookingState, now time.Time) goqu.Expression {
	n := toNanos(now)
	switch state {
	case model.StateCurrent:
		return goqu.And(goqu.I("b.start_at").Lte(n), goqu.I("b.end_at").Gt(n))
	case model.StatePast:
		return goqu.I("b.end_at").Lt(n)
	case model.StateFuture:
		return goqu.I("b.start_at").Gt(n)
	case model.StateWaiting:
		return goqu.I("b.status").Eq(string(model.StatusWaiting))
	case model.StateRejected:
		return goqu.I("b.status").Eq(string(model.StatusRejected))
	}
	return nil
}

// LastApprovedBooking returns the approved booking of the item with the
// latest start before now.
func (s *Store) LastApprovedBooking(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error) {
	ds := s.bookingSelect().
		Where(
			goqu.I("b.item_id").Eq(itemID),
			goqu.I("b.status").Eq(string(model.StatusApproved)),
			goqu.I("b.start_at").Lt(toNanos(now)),
		).
		Order(goqu.I("b.start_at").Desc()).
		Limit(1)
	return s.queryOneBooking(ctx, s.db, ds)
}

// NextApprovedBooking returns the approved booking of the item with the
// earliest start at or after now.
func (s *Store) NextApprovedBooking(ctx context.Context, itemID int64, now time.Time) (*model.Booking, error) {
	ds := s.bookingSelect().
		Where(
			goqu.I("b.item_id").Eq(itemID),
			goqu.I("b.status").Eq(string(model.StatusApproved)),
			goqu.I("b.start_at").Gte(toNanos(now)),
		).
		Order(goqu.I("b.start_at").Asc()).
		Limit(1)
	return s.queryOneBooking(ctx, s.db, ds)
}

// FindCompletedBooking returns an approved booking of the item by the booker
// that ended before now.
func (s *Store) FindCompletedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (*model.Booking, error) {
	ds := s.bookingSelect().
		Where(
			goqu.I("b.booker_id").Eq(bookerID),
			goqu.I("b.item_id").Eq(itemID),
			goqu.I("b.status").Eq(string(model.StatusApproved)),
			goqu.I("b.end_at").Lt(toNanos(now)),
		).
		Order(goqu.I("b.id").Asc()).
		Limit(1)
	return s.queryOneBooking(ctx, s.db, ds)
}

func (s *Store) queryOneBooking(ctx context.Context, q queryer, ds *goqu.SelectDataset) (*model.Booking, error) {
	bookings, err := s.queryBookings(ctx, q, ds)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, nil
	}
	return &bookings[0], nil
}

func (s *Store) queryBookings(ctx context.Context, q queryer, ds *goqu.SelectDataset) ([]model.Booking, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building booking query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		var start, end int64
		var status string
		if err := rows.Scan(&b.ID, &start, &end, &b.ItemID, &b.BookerID, &status,
			&b.ItemName, &b.OwnerID, &b.BookerName); err != nil {
			return nil, fmt.Errorf("scanning booking: %w", err)
		}
		b.Start = fromNanos(start)
		b.End = fromNanos(end)
		b.Status = model.BookingStatus(status)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bookings: %w", err)
	}
	return bookings, nil
}

var _ queryer = (*sql.Tx)(nil)
