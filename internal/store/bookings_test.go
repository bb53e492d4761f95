package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/service"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type bookingFixture struct {
	s      *Store
	owner  *model.User
	booker *model.User
	item   *model.Item
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	s := newTestStore(t)
	owner := mustUser(t, s, "owner")
	return &bookingFixture{
		s:      s,
		owner:  owner,
		booker: mustUser(t, s, "booker"),
		item:   mustItem(t, s, owner.ID, "Drill", "cordless", true),
	}
}

func (f *bookingFixture) book(t *testing.T, start, end time.Duration, status model.BookingStatus) *model.Booking {
	t.Helper()
	ctx := context.Background()
	b, err := f.s.CreateBooking(ctx, model.Booking{
		Start:    testNow.Add(start),
		End:      testNow.Add(end),
		ItemID:   f.item.ID,
		BookerID: f.booker.ID,
		Status:   model.StatusWaiting,
	}, false)
	require.NoError(t, err)
	if status != model.StatusWaiting {
		b, err = f.s.UpdateBookingStatus(ctx, b.ID, status)
		require.NoError(t, err)
	}
	return b
}

func TestCreateBookingJoinsNames(t *testing.T) {
	f := newBookingFixture(t)
	b := f.book(t, time.Hour, 2*time.Hour, model.StatusWaiting)

	assert.Equal(t, "Drill", b.ItemName)
	assert.Equal(t, f.owner.ID, b.OwnerID)
	assert.Equal(t, "booker", b.BookerName)
	assert.Equal(t, model.StatusWaiting, b.Status)
	assert.True(t, b.Start.Equal(testNow.Add(time.Hour)))

	got, err := f.s.GetBooking(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, *b, *got)
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	f.book(t, time.Hour, 3*time.Hour, model.StatusApproved)
	f.book(t, 5*time.Hour, 6*time.Hour, model.StatusRejected)

	tests := []struct {
		name       string
		start, end time.Duration
		wantErr    bool
	}{
		{"inside", 90 * time.Minute, 2 * time.Hour, true},
		{"straddles start", 0, 2 * time.Hour, true},
		{"touches end", 3 * time.Hour, 4 * time.Hour, false},
		{"over rejected booking", 5 * time.Hour, 6 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.s.CreateBooking(ctx, model.Booking{
				Start:    testNow.Add(tt.start),
				End:      testNow.Add(tt.end),
				ItemID:   f.item.ID,
				BookerID: f.booker.ID,
				Status:   model.StatusWaiting,
			}, true)
			if tt.wantErr {
				assert.ErrorIs(t, err, service.ErrBookingOverlap)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestListBookingsByState(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	past := f.book(t, -3*time.Hour, -2*time.Hour, model.StatusApproved)
	current := f.book(t, -time.Hour, time.Hour, model.StatusApproved)
	future := f.book(t, 2*time.Hour, 3*time.Hour, model.StatusWaiting)
	rejected := f.book(t, 4*time.Hour, 5*time.Hour, model.StatusRejected)

	tests := []struct {
		state model.BookingState
		want  []int64
	}{
		{model.StateAll, []int64{rejected.ID, future.ID, current.ID, past.ID}},
		{model.StateCurrent, []int64{current.ID}},
		{model.StatePast, []int64{past.ID}},
		{model.StateFuture, []int64{rejected.ID, future.ID}},
		{model.StateWaiting, []int64{future.ID}},
		{model.StateRejected, []int64{rejected.ID}},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			for _, filter := range []service.BookingFilter{
				{BookerID: f.booker.ID, State: tt.state, Now: testNow},
				{OwnerID: f.owner.ID, State: tt.state, Now: testNow},
			} {
				got, err := f.s.ListBookings(ctx, filter)
				require.NoError(t, err)
				assert.Equal(t, tt.want, bookingIDs(got))
			}
		})
	}

	// Nobody else sees these bookings.
	got, err := f.s.ListBookings(ctx, service.BookingFilter{BookerID: f.owner.ID, State: model.StateAll, Now: testNow})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListBookingsPagingAndOrder(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	first := f.book(t, time.Hour, 2*time.Hour, model.StatusWaiting)
	second := f.book(t, 3*time.Hour, 4*time.Hour, model.StatusWaiting)
	third := f.book(t, 5*time.Hour, 6*time.Hour, model.StatusWaiting)

	page, _ := model.NewPage(0, 2)
	got, err := f.s.ListBookings(ctx, service.BookingFilter{BookerID: f.booker.ID, State: model.StateAll, Now: testNow, Page: &page})
	require.NoError(t, err)
	assert.Equal(t, []int64{third.ID, second.ID}, bookingIDs(got))

	page, _ = model.NewPage(2, 2)
	got, err = f.s.ListBookings(ctx, service.BookingFilter{BookerID: f.booker.ID, State: model.StateAll, Now: testNow, Page: &page})
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID}, bookingIDs(got))

	got, err = f.s.ListBookings(ctx, service.BookingFilter{OwnerID: f.owner.ID, State: model.StateAll, Now: testNow, Ascending: true})
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID, second.ID, third.ID}, bookingIDs(got))
}

func TestLastAndNextApprovedBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.book(t, -5*time.Hour, -4*time.Hour, model.StatusApproved)
	last := f.book(t, -2*time.Hour, -time.Hour, model.StatusApproved)
	f.book(t, -30*time.Minute, -10*time.Minute, model.StatusRejected)
	next := f.book(t, time.Hour, 2*time.Hour, model.StatusApproved)
	f.book(t, 3*time.Hour, 4*time.Hour, model.StatusApproved)
	f.book(t, 30*time.Minute, 40*time.Minute, model.StatusWaiting)

	got, err := f.s.LastApprovedBooking(ctx, f.item.ID, testNow)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, last.ID, got.ID)

	got, err = f.s.NextApprovedBooking(ctx, f.item.ID, testNow)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, next.ID, got.ID)

	got, err = f.s.NextApprovedBooking(ctx, f.item.ID, testNow.Add(10*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindCompletedBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	f.book(t, -3*time.Hour, -2*time.Hour, model.StatusRejected)
	got, err := f.s.FindCompletedBooking(ctx, f.booker.ID, f.item.ID, testNow)
	require.NoError(t, err)
	assert.Nil(t, got)

	done := f.book(t, -5*time.Hour, -4*time.Hour, model.StatusApproved)
	got, err = f.s.FindCompletedBooking(ctx, f.booker.ID, f.item.ID, testNow)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, done.ID, got.ID)

	got, err = f.s.FindCompletedBooking(ctx, f.owner.ID, f.item.ID, testNow)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func bookingIDs(bookings []model.Booking) []int64 {
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}
	return ids
}

func TestUpdateBookingStatusOnlyFromWaiting(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	b := f.book(t, time.Hour, 2*time.Hour, model.StatusWaiting)

	approved, err := f.s.UpdateBookingStatus(ctx, b.ID, model.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.Status)

	_, err = f.s.UpdateBookingStatus(ctx, b.ID, model.StatusRejected)
	assert.ErrorIs(t, err, service.ErrBookingDecided)

	got, err := f.s.GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)

	missing, err := f.s.UpdateBookingStatus(ctx, 999, model.StatusApproved)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
