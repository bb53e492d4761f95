package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/shareit/internal/service"
)

func TestUsers(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	_, err := e.users.Create(ctx, "alice again", "alice@example.com")
	requireKind(t, err, service.ErrConflict)

	_, err = e.users.Create(ctx, "", "x@example.com")
	requireKind(t, err, service.ErrBadRequest)

	ok, err := e.users.Exists(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = e.users.Get(ctx, 999)
	requireKind(t, err, service.ErrNotFound)

	// Blank fields are ignored.
	patched, err := e.users.Patch(ctx, alice.ID, ptr(""), ptr("ally@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "alice", patched.Name)
	assert.Equal(t, "ally@example.com", patched.Email)

	_, err = e.users.Patch(ctx, bob.ID, nil, ptr("ally@example.com"))
	requireKind(t, err, service.ErrConflict)

	_, err = e.users.Patch(ctx, 999, ptr("ghost"), nil)
	requireKind(t, err, service.ErrNotFound)

	users, err := e.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, e.users.Delete(ctx, bob.ID))
	err = e.users.Delete(ctx, bob.ID)
	requireKind(t, err, service.ErrNotFound)
}
