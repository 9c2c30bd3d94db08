package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leafside-client/internal/domains/cart/model"
)

type memoryStore struct {
	values map[string][]byte
	getErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: make(map[string][]byte)}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte) error {
	m.values[key] = value
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func TestLocalCartRoundTrip(t *testing.T) {
	store := newMemoryStore()
	repo := NewLocalCart(store)
	ctx := context.Background()

	price := decimal.RequireFromString("12.50")
	now := time.Now().UTC().Truncate(time.Second)
	snap := model.Snapshot{
		Items: []model.LineItem{
			{BookID: "a", Quantity: 2, PriceSnapshot: &price},
		},
		UpdatedAt: &now,
		Source:    model.SourceLocal,
	}

	require.NoError(t, repo.Save(ctx, snap))

	loaded := repo.Load(ctx)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "a", loaded.Items[0].BookID)
	assert.Equal(t, 2, loaded.Items[0].Quantity)
	require.NotNil(t, loaded.Items[0].PriceSnapshot)
	assert.True(t, loaded.Items[0].PriceSnapshot.Equal(price))
	assert.Equal(t, model.SourceLocal, loaded.Source)
}

func TestLocalCartLoadMissingReturnsEmpty(t *testing.T) {
	repo := NewLocalCart(newMemoryStore())

	snap := repo.Load(context.Background())

	assert.NotNil(t, snap.Items)
	assert.Empty(t, snap.Items)
	assert.Equal(t, model.SourceLocal, snap.Source)
}

func TestLocalCartLoadCorruptValueReturnsEmpty(t *testing.T) {
	store := newMemoryStore()
	store.values[cartKey] = []byte("{not json")
	repo := NewLocalCart(store)

	snap := repo.Load(context.Background())

	assert.Empty(t, snap.Items)
	assert.Equal(t, model.SourceLocal, snap.Source)
}

func TestLocalCartLoadStorageFailureReturnsEmpty(t *testing.T) {
	store := newMemoryStore()
	store.getErr = errors.New("disk on fire")
	repo := NewLocalCart(store)

	snap := repo.Load(context.Background())

	assert.Empty(t, snap.Items)
}

func TestLocalCartLoadForcesLocalSource(t *testing.T) {
	store := newMemoryStore()
	// a remote-tagged snapshot somehow ended up persisted
	store.values[cartKey] = []byte(`{"id":"srv-1","items":[{"bookId":"a","quantity":1}],"source":"remote"}`)
	repo := NewLocalCart(store)

	snap := repo.Load(context.Background())

	assert.Equal(t, model.SourceLocal, snap.Source)
	assert.Equal(t, 1, snap.Quantity("a"))
}

func TestLocalCartClear(t *testing.T) {
	store := newMemoryStore()
	repo := NewLocalCart(store)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, model.Snapshot{
		Items:  []model.LineItem{{BookID: "a", Quantity: 1}},
		Source: model.SourceLocal,
	}))
	require.NoError(t, repo.Clear(ctx))

	assert.Empty(t, repo.Load(ctx).Items)
}
