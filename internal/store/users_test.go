package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/shareit/internal/db"
	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/service"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(db.NewTestDB(t))
}

func mustUser(t *testing.T, s *Store, name string) *model.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), model.User{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return u
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := mustUser(t, s, "alice")
	assert.NotZero(t, u.ID)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, *u, *got)

	missing, err := s.GetUser(ctx, u.ID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)

	ok, err := s.UserExists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustUser(t, s, "alice")
	_, err := s.CreateUser(ctx, model.User{Name: "other", Email: "alice@example.com"})
	assert.ErrorIs(t, err, service.ErrDuplicateEmail)

	bob := mustUser(t, s, "bob")
	bob.Email = "alice@example.com"
	_, err = s.UpdateUser(ctx, *bob)
	assert.ErrorIs(t, err, service.ErrDuplicateEmail)
}

func TestListUpdateDeleteUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := mustUser(t, s, "alice")
	b := mustUser(t, s, "bob")

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, a.ID, users[0].ID)

	b.Name = "robert"
	updated, err := s.UpdateUser(ctx, *b)
	require.NoError(t, err)
	assert.Equal(t, "robert", updated.Name)

	item, err := s.CreateItem(ctx, model.Item{Name: "drill", Description: "d", Available: true, OwnerID: a.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(ctx, a.ID))
	users, _ = s.ListUsers(ctx)
	assert.Len(t, users, 1)

	// Items go with their owner.
	gone, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
