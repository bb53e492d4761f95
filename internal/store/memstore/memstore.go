// Package memstore is an in-memory implementation of the service storage
// contract. It is used in tests and for running the server without a database.
package memstore

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/service"
)

var _ service.Repository = (*Store)(nil)

// Store keeps all entities in maps guarded by a single lock.
type Store struct {
	mu       sync.RWMutex
	users    map[int64]model.User
	items    map[int64]model.Item
	bookings map[int64]model.Booking
	comments map[int64]model.Comment
	requests map[int64]model.Request

	userSeq, itemSeq, bookingSeq, commentSeq, requestSeq atomic.Int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:    make(map[int64]model.User),
		items:    make(map[int64]model.Item),
		bookings: make(map[int64]model.Booking),
		comments: make(map[int64]model.Comment),
		requests: make(map[int64]model.Request),
	}
}

func (s *Store) CreateUser(_ context.Context, u model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTaken(u.Email, 0) {
		return nil, service.ErrDuplicateEmail
	}
	u.ID = s.userSeq.Add(1)
	s.users[u.ID] = u
	return &u, nil
}

func (s *Store) GetUser(_ context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) UserExists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[id]
	return ok, nil
}

func (s *Store) ListUsers(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b model.User) int { return cmp.Compare(a.ID, b.ID) })
	return users, nil
}

func (s *Store) UpdateUser(_ context.Context, u model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return nil, nil
	}
	if s.emailTaken(u.Email, u.ID) {
		return nil, service.ErrDuplicateEmail
	}
	s.users[u.ID] = u
	return &u, nil
}

// DeleteUser removes the user and cascades like the SQL schema does.
func (s *Store) DeleteUser(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	for rid, r := range s.requests {
		if r.RequestorID == id {
			delete(s.requests, rid)
			for iid, it := range s.items {
				if it.RequestID != nil && *it.RequestID == rid {
					it.RequestID = nil
					s.items[iid] = it
				}
			}
		}
	}
	for iid, it := range s.items {
		if it.OwnerID == id {
			s.deleteItemLocked(iid)
		}
	}
	for bid, b := range s.bookings {
		if b.BookerID == id {
			delete(s.bookings, bid)
		}
	}
	for cid, c := range s.comments {
		if c.AuthorID == id {
			delete(s.comments, cid)
		}
	}
	return nil
}

func (s *Store) deleteItemLocked(id int64) {
	delete(s.items, id)
	for bid, b := range s.bookings {
		if b.ItemID == id {
			delete(s.bookings, bid)
		}
	}
	for cid, c := range s.comments {
		if c.ItemID == id {
			delete(s.comments, cid)
		}
	}
}

func (s *Store) emailTaken(email string, except int64) bool {
	for _, u := range s.users {
		if u.ID != except && u.Email == email {
			return true
		}
	}
	return false
}

func (s *Store) CreateItem(_ context.Context, item model.Item) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = s.itemSeq.Add(1)
	s.items[item.ID] = item
	return &item, nil
}

func (s *Store) GetItem(_ context.Context, id int64) (*model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *Store) UpdateItem(_ context.Context, item model.Item) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.items[item.ID]
	if !ok {
		return nil, nil
	}
	item.OwnerID = old.OwnerID
	s.items[item.ID] = item
	return &item, nil
}

func (s *Store) ListItemsByOwner(_ context.Context, ownerID int64, page model.Page) ([]model.Item, error) {
	return s.filterItems(page, func(it model.Item) bool { return it.OwnerID == ownerID }), nil
}

func (s *Store) SearchItems(_ context.Context, text string, page model.Page) ([]model.Item, error) {
	text = strings.ToLower(text)
	return s.filterItems(page, func(it model.Item) bool {
		return it.Available && (strings.Contains(strings.ToLower(it.Name), text) ||
			strings.Contains(strings.ToLower(it.Description), text))
	}), nil
}

func (s *Store) ListItemsByRequests(_ context.Context, requestIDs ...int64) ([]model.Item, error) {
	return s.filterItems(model.Page{}, func(it model.Item) bool {
		return it.RequestID != nil && slices.Contains(requestIDs, *it.RequestID)
	}), nil
}

// filterItems returns matching items ordered by id. A zero page returns all.
func (s *Store) filterItems(page model.Page, match func(model.Item) bool) []model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []model.Item
	for _, it := range s.items {
		if match(it) {
			items = append(items, it)
		}
	}
	slices.SortFunc(items, func(a, b model.Item) int { return cmp.Compare(a.ID, b.ID) })
	return paginate(items, page)
}

func (s *Store) CreateBooking(_ context.Context, b model.Booking, rejectOverlap bool) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rejectOverlap {
		for _, other := range s.bookings {
			if other.ItemID == b.ItemID && other.Blocking() && other.Overlaps(b.Start, b.End) {
				return nil, service.ErrBookingOverlap
			}
		}
	}
	b.ID = s.bookingSeq.Add(1)
	s.bookings[b.ID] = b
	out := s.joinBooking(b)
	return &out, nil
}

func (s *Store) GetBooking(_ context.Context, id int64) (*model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	out := s.joinBooking(b)
	return &out, nil
}

func (s *Store) UpdateBookingStatus(_ context.Context, id int64, status model.BookingStatus) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	if b.Status != model.StatusWaiting {
		return nil, service.ErrBookingDecided
	}
	b.Status = status
	s.bookings[id] = b
	out := s.joinBooking(b)
	return &out, nil
}

func (s *Store) ListBookings(_ context.Context, f service.BookingFilter) ([]model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Booking
	for _, b := range s.bookings {
		b = s.joinBooking(b)
		if f.BookerID != 0 && b.BookerID != f.BookerID {
			continue
		}
		if f.OwnerID != 0 && b.OwnerID != f.OwnerID {
			continue
		}
		if !b.MatchesState(f.State, f.Now) {
			continue
		}
		out = append(out, b)
	}

	slices.SortFunc(out, func(a, b model.Booking) int {
		c := a.Start.Compare(b.Start)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if !f.Ascending {
			c = -c
		}
		return c
	})

	if f.Page != nil {
		out = paginate(out, *f.Page)
	}
	return out, nil
}

func (s *Store) LastApprovedBooking(_ context.Context, itemID int64, now time.Time) (*model.Booking, error) {
	return s.pickBooking(func(b model.Booking) bool {
		return b.ItemID == itemID && b.Status == model.StatusApproved && b.Start.Before(now)
	}, func(candidate, best model.Booking) bool { return candidate.Start.After(best.Start) }), nil
}

func (s *Store) NextApprovedBooking(_ context.Context, itemID int64, now time.Time) (*model.Booking, error) {
	return s.pickBooking(func(b model.Booking) bool {
		return b.ItemID == itemID && b.Status == model.StatusApproved && !b.Start.Before(now)
	}, func(candidate, best model.Booking) bool { return candidate.Start.Before(best.Start) }), nil
}

func (s *Store) FindCompletedBooking(_ context.Context, bookerID, itemID int64, now time.Time) (*model.Booking, error) {
	return s.pickBooking(func(b model.Booking) bool {
		return b.IsCompletedBy(bookerID, itemID, now)
	}, func(candidate, best model.Booking) bool { return candidate.ID < best.ID }), nil
}

// pickBooking returns the best matching booking, or nil.
func (s *Store) pickBooking(match func(model.Booking) bool, better func(candidate, best model.Booking) bool) *model.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *model.Booking
	for _, b := range s.bookings {
		if !match(b) {
			continue
		}
		if best == nil || better(b, *best) {
			b := b
			best = &b
		}
	}
	if best == nil {
		return nil
	}
	out := s.joinBooking(*best)
	return &out
}

func (s *Store) joinBooking(b model.Booking) model.Booking {
	item := s.items[b.ItemID]
	b.ItemName = item.Name
	b.OwnerID = item.OwnerID
	b.BookerName = s.users[b.BookerID].Name
	return b
}

func (s *Store) CreateComment(_ context.Context, c model.Comment) (*model.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.commentSeq.Add(1)
	s.comments[c.ID] = c
	c.AuthorName = s.users[c.AuthorID].Name
	return &c, nil
}

func (s *Store) ListCommentsByItems(_ context.Context, itemIDs ...int64) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Comment
	for _, c := range s.comments {
		if slices.Contains(itemIDs, c.ItemID) {
			c.AuthorName = s.users[c.AuthorID].Name
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b model.Comment) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) CreateRequest(_ context.Context, r model.Request) (*model.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.requestSeq.Add(1)
	r.Items = nil
	s.requests[r.ID] = r
	return &r, nil
}

func (s *Store) GetRequest(_ context.Context, id int64) (*model.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *Store) ListRequestsByRequestor(_ context.Context, requestorID int64) ([]model.Request, error) {
	return s.filterRequests(model.Page{}, func(r model.Request) bool { return r.RequestorID == requestorID }), nil
}

func (s *Store) ListRequestsExcept(_ context.Context, userID int64, page model.Page) ([]model.Request, error) {
	return s.filterRequests(page, func(r model.Request) bool { return r.RequestorID != userID }), nil
}

func (s *Store) filterRequests(page model.Page, match func(model.Request) bool) []model.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Request
	for _, r := range s.requests {
		if match(r) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b model.Request) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return paginate(out, page)
}

func paginate[T any](s []T, page model.Page) []T {
	if page.Size == 0 {
		return s
	}
	start := page.Offset()
	if start >= len(s) {
		return nil
	}
	end := min(start+page.Size, len(s))
	return s[start:end]
}
