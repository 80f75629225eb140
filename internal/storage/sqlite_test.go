package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mkhisamo/learn-english/internal/storage"
	"github.com/Mkhisamo/learn-english/internal/testutil"
)

func TestSQLiteStore(t *testing.T) {
	database := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, database) })

	store := storage.NewSQLiteStore(database.DB)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", "v1"))
	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v1", value)

	// Overwrites in place.
	require.NoError(t, store.Set(ctx, "k", "v2"))
	value, _, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v2", value)

	require.NoError(t, store.Remove(ctx, "k"))
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent key is not an error.
	require.NoError(t, store.Remove(ctx, "k"))
}

func TestSQLiteStore_SetMulti(t *testing.T) {
	database := testutil.NewTestDB(t)
	t.Cleanup(func() { testutil.MustClose(t, database) })

	store := storage.NewSQLiteStore(database.DB)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "old"))
	require.NoError(t, store.SetMulti(ctx, map[string]string{"a": "1", "b": "2"}))

	a, ok, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", a)

	b, ok, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2", b)
}
