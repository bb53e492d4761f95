package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/service"
	"github.com/erazemk/shareit/internal/store/memstore"
)

func TestCreateItem(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := e.user(t, "owner")
	requestor := e.user(t, "requestor")

	_, err := e.items.Create(ctx, 999, service.NewItem{Name: "Drill", Description: "d", Available: true})
	requireKind(t, err, service.ErrNotFound)

	_, err = e.items.Create(ctx, owner.ID, service.NewItem{Name: " ", Description: "d"})
	requireKind(t, err, service.ErrBadRequest)

	_, err = e.items.Create(ctx, owner.ID, service.NewItem{Name: "Drill", Description: "d", RequestID: ptr(int64(42))})
	requireKind(t, err, service.ErrNotFound)

	req, err := e.requests.Create(ctx, requestor.ID, "need a drill")
	require.NoError(t, err)
	item, err := e.items.Create(ctx, owner.ID, service.NewItem{Name: "Drill", Description: "d", Available: true, RequestID: &req.ID})
	require.NoError(t, err)
	require.NotNil(t, item.RequestID)
	assert.Equal(t, req.ID, *item.RequestID)
	assert.Equal(t, owner.ID, item.OwnerID)
}

func TestPatchItem(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := e.user(t, "owner")
	other := e.user(t, "other")
	item := e.item(t, owner.ID, "Drill")

	_, err := e.items.Patch(ctx, other.ID, item.ID, service.ItemPatch{Name: ptr("Mine now")})
	requireKind(t, err, service.ErrNotFound)

	_, err = e.items.Patch(ctx, 999, item.ID, service.ItemPatch{})
	requireKind(t, err, service.ErrNotFound)

	patched, err := e.items.Patch(ctx, owner.ID, item.ID, service.ItemPatch{Available: ptr(false)})
	require.NoError(t, err)
	assert.False(t, patched.Available)
	assert.Equal(t, "Drill", patched.Name)
	assert.Equal(t, item.Description, patched.Description)

	patched, err = e.items.Patch(ctx, owner.ID, item.ID, service.ItemPatch{Name: ptr("Hammer drill"), Description: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Hammer drill", patched.Name)
	assert.Equal(t, item.Description, patched.Description)
	assert.False(t, patched.Available)
}

func TestSearchItems(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := e.user(t, "owner")
	drill := e.item(t, owner.ID, "Power Drill")
	e.item(t, owner.ID, "Ladder")
	hidden := e.item(t, owner.ID, "Old drill")
	_, err := e.items.Patch(ctx, owner.ID, hidden.ID, service.ItemPatch{Available: ptr(false)})
	require.NoError(t, err)

	got, err := e.items.Search(ctx, "DRILL", 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, drill.ID, got[0].ID)

	// "for rent" is in every description.
	got, err = e.items.Search(ctx, "For Rent", 0, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = e.items.Search(ctx, "drill", 0, -1)
	requireKind(t, err, service.ErrBadRequest)
}

// noSearchRepo fails the test if storage is searched.
type noSearchRepo struct {
	*memstore.Store
	t *testing.T
}

func (r noSearchRepo) SearchItems(context.Context, string, model.Page) ([]model.Item, error) {
	r.t.Error("blank search reached storage")
	return nil, nil
}

func TestSearchBlankTextSkipsStorage(t *testing.T) {
	e := newEnv()
	e.item(t, e.user(t, "owner").ID, "Drill")
	items := service.NewItemService(noSearchRepo{Store: e.repo, t: t}, service.WithClock(clock))

	for _, text := range []string{"", "   ", "\t\n"} {
		got, err := items.Search(context.Background(), text, 0, 10)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestListItemsByOwner(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := e.user(t, "owner")
	for _, name := range []string{"a", "b", "c"} {
		e.item(t, owner.ID, name)
	}

	got, err := e.items.ListByOwner(ctx, owner.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
}

func TestAddComment(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := e.user(t, "owner")
	booker := e.user(t, "booker")
	item := e.item(t, owner.ID, "Drill")

	_, err := e.items.AddComment(ctx, booker.ID, item.ID, "great")
	requireKind(t, err, service.ErrBadRequest)
	assert.Equal(t, "User id="+itoa(booker.ID)+" did not book Item="+itoa(item.ID), err.Error())

	// Waiting and unfinished bookings do not count.
	e.booking(t, item.ID, booker.ID, -2*time.Hour, -time.Hour, model.StatusWaiting)
	e.booking(t, item.ID, booker.ID, -time.Hour, time.Hour, model.StatusApproved)
	_, err = e.items.AddComment(ctx, booker.ID, item.ID, "great")
	requireKind(t, err, service.ErrBadRequest)

	e.booking(t, item.ID, booker.ID, -5*time.Hour, -4*time.Hour, model.StatusApproved)
	c, err := e.items.AddComment(ctx, booker.ID, item.ID, "great")
	require.NoError(t, err)
	assert.Equal(t, "great", c.Text)
	assert.Equal(t, "booker", c.AuthorName)
	assert.Equal(t, item.ID, c.ItemID)
	assert.True(t, c.Created.Equal(now))

	_, err = e.items.AddComment(ctx, booker.ID, item.ID, "  ")
	requireKind(t, err, service.ErrBadRequest)
}

func TestGetItemDetail(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := e.user(t, "owner")
	booker := e.user(t, "booker")
	item := e.item(t, owner.ID, "Drill")

	e.booking(t, item.ID, booker.ID, -10*time.Hour, -9*time.Hour, model.StatusApproved)
	last := e.booking(t, item.ID, booker.ID, -3*time.Hour, -2*time.Hour, model.StatusApproved)
	e.booking(t, item.ID, booker.ID, -90*time.Minute, -80*time.Minute, model.StatusRejected)
	next := e.booking(t, item.ID, booker.ID, 2*time.Hour, 3*time.Hour, model.StatusApproved)
	e.booking(t, item.ID, booker.ID, 5*time.Hour, 6*time.Hour, model.StatusApproved)
	_, err := e.items.AddComment(ctx, booker.ID, item.ID, "solid")
	require.NoError(t, err)

	detail, err := e.items.GetItemDetail(ctx, item.ID, owner.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.LastBooking)
	require.NotNil(t, detail.NextBooking)
	assert.Equal(t, last.ID, detail.LastBooking.ID)
	assert.Equal(t, booker.ID, detail.LastBooking.BookerID)
	assert.Equal(t, next.ID, detail.NextBooking.ID)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "booker", detail.Comments[0].AuthorName)

	detail, err = e.items.GetItemDetail(ctx, item.ID, booker.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.LastBooking)
	assert.Nil(t, detail.NextBooking)
	assert.Len(t, detail.Comments, 1)

	_, err = e.items.GetItemDetail(ctx, 999, owner.ID)
	requireKind(t, err, service.ErrNotFound)
	_, err = e.items.GetItemDetail(ctx, item.ID, 999)
	requireKind(t, err, service.ErrNotFound)
}

func TestGetOwnerItemList(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	owner := e.user(t, "owner")
	booker := e.user(t, "booker")
	drill := e.item(t, owner.ID, "Drill")
	saw := e.item(t, owner.ID, "Saw")
	e.item(t, booker.ID, "Not listed")

	earliest := e.booking(t, drill.ID, booker.ID, -10*time.Hour, -9*time.Hour, model.StatusApproved)
	e.booking(t, drill.ID, booker.ID, -3*time.Hour, -2*time.Hour, model.StatusApproved)
	soonest := e.booking(t, drill.ID, booker.ID, 2*time.Hour, 3*time.Hour, model.StatusWaiting)
	e.booking(t, drill.ID, booker.ID, 5*time.Hour, 6*time.Hour, model.StatusApproved)

	list, err := e.items.GetOwnerItemList(ctx, owner.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, drill.ID, list[0].ID)
	assert.Equal(t, saw.ID, list[1].ID)

	// First match in ascending start order, unlike the detail view.
	require.NotNil(t, list[0].LastBooking)
	assert.Equal(t, earliest.ID, list[0].LastBooking.ID)
	require.NotNil(t, list[0].NextBooking)
	assert.Equal(t, soonest.ID, list[0].NextBooking.ID)

	assert.Nil(t, list[1].LastBooking)
	assert.Nil(t, list[1].NextBooking)
	assert.NotNil(t, list[1].Comments)

	list, err = e.items.GetOwnerItemList(ctx, owner.ID, 10, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = e.items.GetOwnerItemList(ctx, 999, 0, 10)
	requireKind(t, err, service.ErrNotFound)
}
