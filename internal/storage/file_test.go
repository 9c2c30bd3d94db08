package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreSetGetDelete(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "leafside")
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "token", []byte("abc")))

	value, ok, err := store.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), value)

	require.NoError(t, store.Delete(ctx, "token"))

	_, ok, err = store.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreOverwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "leafside")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart", []byte("v1")))
	require.NoError(t, store.Set(ctx, "cart", []byte("v2")))

	value, ok, err := store.Get(ctx, "cart")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), value)
}

func TestFileStoreValuesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFileStore(dir, "leafside")
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "cart", []byte(`{"items":[]}`)))

	second, err := NewFileStore(dir, "leafside")
	require.NoError(t, err)

	value, ok, err := second.Get(ctx, "cart")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"items":[]}`), value)
}

func TestFileStoreDeleteMissingIsNoError(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "leafside")
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "never-set"))
}

func TestFileStoreSanitizesKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "leafside")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "../escape/attempt", []byte("x")))

	value, ok, err := store.Get(ctx, "../escape/attempt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("x"), value)
}
