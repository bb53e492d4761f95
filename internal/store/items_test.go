package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/shareit/internal/model"
)

func mustItem(t *testing.T, s *Store, ownerID int64, name, description string, available bool) *model.Item {
	t.Helper()
	item, err := s.CreateItem(context.Background(), model.Item{
		Name: name, Description: description, Available: available, OwnerID: ownerID,
	})
	require.NoError(t, err)
	return item
}

func TestCreateAndGetItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, s, "owner")

	item := mustItem(t, s, owner.ID, "Drill", "Cordless drill", true)
	assert.Equal(t, "Drill", item.Name)
	assert.True(t, item.Available)
	assert.Equal(t, owner.ID, item.OwnerID)
	assert.Nil(t, item.RequestID)

	item.Available = false
	item.Name = "Hammer drill"
	updated, err := s.UpdateItem(ctx, *item)
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Equal(t, "Hammer drill", updated.Name)
}

func TestListItemsByOwnerPaging(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, s, "owner")
	other := mustUser(t, s, "other")

	for _, name := range []string{"a", "b", "c"} {
		mustItem(t, s, owner.ID, name, "x", true)
	}
	mustItem(t, s, other.ID, "z", "x", true)

	page, _ := model.NewPage(0, 2)
	items, err := s.ListItemsByOwner(ctx, owner.ID, page)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Name)
	assert.Equal(t, "b", items[1].Name)

	page, _ = model.NewPage(3, 2)
	items, err = s.ListItemsByOwner(ctx, owner.ID, page)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "c", items[0].Name)
}

func TestSearchItems(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, s, "owner")

	mustItem(t, s, owner.ID, "Power Drill", "makes holes", true)
	mustItem(t, s, owner.ID, "Ladder", "reaches the DRILL on the shelf", true)
	mustItem(t, s, owner.ID, "Old drill", "broken", false)
	mustItem(t, s, owner.ID, "Saw", "100% sharp", true)

	page, _ := model.NewPage(0, 10)
	items, err := s.SearchItems(ctx, "dRiLl", page)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Power Drill", items[0].Name)
	assert.Equal(t, "Ladder", items[1].Name)

	// LIKE wildcards are matched literally.
	items, err = s.SearchItems(ctx, "%", page)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Saw", items[0].Name)
}

func TestListItemsByRequests(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	owner := mustUser(t, s, "owner")
	requestor := mustUser(t, s, "requestor")

	req, err := s.CreateRequest(ctx, model.Request{Description: "need a ladder", RequestorID: requestor.ID})
	require.NoError(t, err)

	_, err = s.CreateItem(ctx, model.Item{Name: "Ladder", Description: "tall", Available: true, OwnerID: owner.ID, RequestID: &req.ID})
	require.NoError(t, err)
	mustItem(t, s, owner.ID, "Saw", "sharp", true)

	items, err := s.ListItemsByRequests(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].RequestID)
	assert.Equal(t, req.ID, *items[0].RequestID)

	items, err = s.ListItemsByRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
