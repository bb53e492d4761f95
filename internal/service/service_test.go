package service_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/service"
	"github.com/erazemk/shareit/internal/store/memstore"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

type env struct {
	repo     *memstore.Store
	users    *service.UserService
	items    *service.ItemService
	bookings *service.BookingService
	requests *service.RequestService
}

func newEnv(opts ...service.Option) *env {
	repo := memstore.New()
	opts = append([]service.Option{service.WithClock(clock)}, opts...)
	return &env{
		repo:     repo,
		users:    service.NewUserService(repo, opts...),
		items:    service.NewItemService(repo, opts...),
		bookings: service.NewBookingService(repo, opts...),
		requests: service.NewRequestService(repo, opts...),
	}
}

func (e *env) user(t *testing.T, name string) *model.User {
	t.Helper()
	u, err := e.users.Create(context.Background(), name, name+"@example.com")
	require.NoError(t, err)
	return u
}

func (e *env) item(t *testing.T, ownerID int64, name string) *model.Item {
	t.Helper()
	it, err := e.items.Create(context.Background(), ownerID, service.NewItem{
		Name: name, Description: name + " for rent", Available: true,
	})
	require.NoError(t, err)
	return it
}

// booking stores a booking directly, bypassing validation, so tests can
// place bookings in the past.
func (e *env) booking(t *testing.T, itemID, bookerID int64, start, end time.Duration, status model.BookingStatus) *model.Booking {
	t.Helper()
	ctx := context.Background()
	b, err := e.repo.CreateBooking(ctx, model.Booking{
		Start: now.Add(start), End: now.Add(end), ItemID: itemID, BookerID: bookerID, Status: model.StatusWaiting,
	}, false)
	require.NoError(t, err)
	if status != model.StatusWaiting {
		b, err = e.repo.UpdateBookingStatus(ctx, b.ID, status)
		require.NoError(t, err)
	}
	return b
}

func requireKind(t *testing.T, err error, sentinel error) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, sentinel, "got %v", err)
}

func ptr[T any](v T) *T { return &v }

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
