package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leafside-client/internal/domains/cart/model"
	catalogModel "leafside-client/internal/domains/catalog/model"
)

type fakeRemote struct {
	mu        sync.Mutex
	id        string
	items     []model.PayloadItem
	fetchErr  error
	upsertErr error
	removeErr error
	clearErr  error

	fetches int
	upserts []model.UpsertItemRequest
	removes []string
	clears  int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{id: "cart-1"}
}

func (f *fakeRemote) Fetch(context.Context) (*model.CartPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.payloadLocked(), nil
}

func (f *fakeRemote) UpsertItem(_ context.Context, bookID string, quantity int) (*model.CartPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, model.UpsertItemRequest{BookID: bookID, Quantity: quantity})
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}

	for i := range f.items {
		if f.items[i].BookID == bookID {
			f.items[i].Quantity = quantity
			return f.payloadLocked(), nil
		}
	}
	f.items = append(f.items, model.PayloadItem{BookID: bookID, Quantity: quantity})
	return f.payloadLocked(), nil
}

func (f *fakeRemote) RemoveItem(_ context.Context, bookID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removes = append(f.removes, bookID)
	if f.removeErr != nil {
		return f.removeErr
	}
	for i := range f.items {
		if f.items[i].BookID == bookID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeRemote) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	if f.clearErr != nil {
		return f.clearErr
	}
	f.items = nil
	return nil
}

func (f *fakeRemote) payloadLocked() *model.CartPayload {
	payload := &model.CartPayload{ID: f.id, Items: make([]model.PayloadItem, len(f.items))}
	copy(payload.Items, f.items)
	return payload
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches + len(f.upserts) + len(f.removes) + f.clears
}

type fakeBooks struct {
	mu      sync.Mutex
	books   map[string]catalogModel.Book
	failing map[string]bool
}

func newFakeBooks() *fakeBooks {
	return &fakeBooks{
		books:   make(map[string]catalogModel.Book),
		failing: make(map[string]bool),
	}
}

func (f *fakeBooks) add(id, title string, price string) {
	book := catalogModel.Book{ID: id, Title: title, IsAvailable: true}
	if price != "" {
		p := decimal.RequireFromString(price)
		book.Price = &p
	}
	f.mu.Lock()
	f.books[id] = book
	f.mu.Unlock()
}

func (f *fakeBooks) GetBook(_ context.Context, id string) (*catalogModel.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing[id] {
		return nil, errors.New("catalog unavailable")
	}
	book, ok := f.books[id]
	if !ok {
		return nil, catalogModel.ErrBookNotFound
	}
	copied := book
	return &copied, nil
}

type fakeLocal struct {
	mu     sync.Mutex
	stored *model.Snapshot
	saves  int
}

func (f *fakeLocal) Load(context.Context) model.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stored == nil {
		return model.EmptySnapshot(model.SourceLocal)
	}
	snap := f.stored.Clone()
	snap.Source = model.SourceLocal
	return snap
}

func (f *fakeLocal) Save(_ context.Context, snap model.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := snap.Clone()
	f.stored = &copied
	f.saves++
	return nil
}

func (f *fakeLocal) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = nil
	return nil
}

func (f *fakeLocal) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

type fakeToken struct {
	mu    sync.Mutex
	value string
}

func (f *fakeToken) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

func (f *fakeToken) set(value string) {
	f.mu.Lock()
	f.value = value
	f.mu.Unlock()
}

func newTestStore() (ServiceInterface, *fakeRemote, *fakeLocal, *fakeBooks, *fakeToken) {
	remote := newFakeRemote()
	local := &fakeLocal{}
	books := newFakeBooks()
	token := &fakeToken{}
	return NewCartStore(remote, local, books, token), remote, local, books, token
}

func TestAddItemLocalAccumulatesQuantity(t *testing.T) {
	store, remote, local, books, _ := newTestStore()
	books.add("a", "Book A", "10.00")

	ctx := context.Background()
	require.NoError(t, store.AddItem(ctx, "a", 1))
	require.NoError(t, store.AddItem(ctx, "a", 1))

	snap := store.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, model.SourceLocal, snap.Source)
	require.NoError(t, snap.Validate())

	// every local mutation is persisted, none touch the server
	assert.Equal(t, 2, local.saveCount())
	assert.Equal(t, 0, remote.callCount())
}

func TestAddItemLocalAttachesBookWhenAvailable(t *testing.T) {
	store, _, _, books, _ := newTestStore()
	books.add("a", "Book A", "10.00")

	require.NoError(t, store.AddItem(context.Background(), "a", 1))

	snap := store.Snapshot()
	require.Len(t, snap.Items, 1)
	require.NotNil(t, snap.Items[0].Book)
	assert.Equal(t, "Book A", snap.Items[0].Book.Title)
	require.NotNil(t, snap.Items[0].PriceSnapshot)
	assert.True(t, snap.Items[0].PriceSnapshot.Equal(decimal.RequireFromString("10.00")))
}

func TestAddItemLocalKeepsLineWhenLookupFails(t *testing.T) {
	store, _, _, _, _ := newTestStore()

	// nothing in the catalog at all
	require.NoError(t, store.AddItem(context.Background(), "ghost", 2))

	snap := store.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Nil(t, snap.Items[0].Book)
	assert.Equal(t, 2, snap.Items[0].Quantity)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	store, _, _, _, _ := newTestStore()

	err := store.AddItem(context.Background(), "a", 0)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
}

func TestUpdateQuantityNonPositiveRemovesLine(t *testing.T) {
	store, _, _, books, _ := newTestStore()
	books.add("a", "Book A", "10.00")
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "a", 3))
	require.NoError(t, store.UpdateQuantity(ctx, "a", 0))

	assert.Empty(t, store.Snapshot().Items)

	require.NoError(t, store.AddItem(ctx, "a", 3))
	require.NoError(t, store.UpdateQuantity(ctx, "a", -5))

	assert.Empty(t, store.Snapshot().Items)
}

func TestUpdateQuantityLocalSetsAbsoluteValue(t *testing.T) {
	store, _, _, books, _ := newTestStore()
	books.add("a", "Book A", "10.00")
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "a", 3))
	require.NoError(t, store.UpdateQuantity(ctx, "a", 7))

	snap := store.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 7, snap.Items[0].Quantity)
}

func TestRemoteAddSendsAbsoluteQuantity(t *testing.T) {
	store, remote, local, books, token := newTestStore()
	books.add("p", "Book P", "5.00")
	token.set("jwt")
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "p", 3))
	require.NoError(t, store.AddItem(ctx, "p", 2))

	// the wire sees "set to 3" then "set to 5", never "+3 +2"
	require.Len(t, remote.upserts, 2)
	assert.Equal(t, 3, remote.upserts[0].Quantity)
	assert.Equal(t, 5, remote.upserts[1].Quantity)

	snap := store.Snapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 5, snap.Items[0].Quantity)
	assert.Equal(t, model.SourceRemote, snap.Source)
	assert.Equal(t, "cart-1", snap.ID)

	// authenticated mutations never persist locally
	assert.Equal(t, 0, local.saveCount())
}

func TestEnrichmentFailureKeepsLine(t *testing.T) {
	store, remote, _, books, token := newTestStore()
	books.add("b1", "Book 1", "1.00")
	books.add("b2", "Book 2", "2.00")
	books.add("b3", "Book 3", "3.00")
	books.failing["b2"] = true

	remote.items = []model.PayloadItem{
		{BookID: "b1", Quantity: 1},
		{BookID: "b2", Quantity: 4},
		{BookID: "b3", Quantity: 2},
	}
	token.set("jwt")

	require.NoError(t, store.Load(context.Background()))

	snap := store.Snapshot()
	require.Len(t, snap.Items, 3)
	assert.NotNil(t, snap.Items[0].Book)
	assert.Nil(t, snap.Items[1].Book, "failed lookup must not attach a book")
	assert.Equal(t, 4, snap.Items[1].Quantity, "failed lookup must not drop the quantity")
	assert.NotNil(t, snap.Items[2].Book)
}

func TestLoadRemoteFailureKeepsPreviousSnapshot(t *testing.T) {
	store, remote, _, books, token := newTestStore()
	books.add("a", "Book A", "10.00")
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "a", 2))
	before := store.Snapshot()

	token.set("jwt")
	remote.fetchErr = errors.New("connection refused")

	err := store.Load(ctx)
	require.Error(t, err)

	after := store.Snapshot()
	assert.Equal(t, before.Items, after.Items, "stale cart beats empty cart")
	assert.False(t, store.Syncing())
}

func TestMutationFailureClearsSyncingAndKeepsSnapshot(t *testing.T) {
	store, remote, _, _, token := newTestStore()
	token.set("jwt")
	remote.upsertErr = errors.New("500")

	err := store.AddItem(context.Background(), "a", 1)
	require.Error(t, err)

	assert.False(t, store.Syncing(), "busy flag must never stay stuck")
	assert.Empty(t, store.Snapshot().Items, "unconfirmed mutation must not change state")
}

func TestRemoveItemRemoteRefetchesAuthoritativeCart(t *testing.T) {
	store, remote, _, books, token := newTestStore()
	books.add("b", "Book B", "8.00")
	remote.items = []model.PayloadItem{{BookID: "b", Quantity: 1}}
	token.set("jwt")
	ctx := context.Background()

	require.NoError(t, store.Load(ctx))
	fetchesBefore := remote.fetches

	require.NoError(t, store.RemoveItem(ctx, "b"))

	assert.Equal(t, []string{"b"}, remote.removes)
	assert.Greater(t, remote.fetches, fetchesBefore, "remove must re-fetch, not trust its own copy")

	snap := store.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Equal(t, model.SourceRemote, snap.Source)
}

func TestClearLocalPersistsEmptySnapshot(t *testing.T) {
	store, _, local, books, _ := newTestStore()
	books.add("a", "Book A", "10.00")
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "a", 2))
	require.NoError(t, store.Clear(ctx))

	assert.Empty(t, store.Snapshot().Items)

	local.mu.Lock()
	stored := local.stored.Clone()
	local.mu.Unlock()
	assert.Empty(t, stored.Items)
}

func TestClearRemoteReloads(t *testing.T) {
	store, remote, _, _, token := newTestStore()
	remote.items = []model.PayloadItem{{BookID: "x", Quantity: 2}}
	token.set("jwt")

	require.NoError(t, store.Clear(context.Background()))

	assert.Equal(t, 1, remote.clears)
	assert.Empty(t, store.Snapshot().Items)
}

func TestSignInReloadsRemoteWithoutMerging(t *testing.T) {
	store, remote, local, books, token := newTestStore()
	books.add("a", "Book A", "10.00")
	ctx := context.Background()

	// anonymous session builds a cart
	require.NoError(t, store.AddItem(ctx, "a", 1))
	require.NoError(t, store.AddItem(ctx, "a", 1))
	require.Equal(t, 2, store.Snapshot().Quantity("a"))

	// sign-in: the remote cart (empty) becomes authoritative
	token.set("jwt")
	require.NoError(t, store.Load(ctx))

	snap := store.Snapshot()
	assert.Empty(t, snap.Items, "anonymous cart is never pushed to the server")
	assert.Equal(t, model.SourceRemote, snap.Source)
	assert.Empty(t, remote.upserts)

	// the anonymous cart stays persisted for the next sign-out
	local.mu.Lock()
	stored := local.stored.Clone()
	local.mu.Unlock()
	assert.Equal(t, 2, stored.Quantity("a"))
}

func TestSignOutLoadsPersistedLocalCart(t *testing.T) {
	store, _, _, books, token := newTestStore()
	books.add("a", "Book A", "10.00")
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "a", 3))

	token.set("jwt")
	require.NoError(t, store.Load(ctx))
	require.Empty(t, store.Snapshot().Items)

	token.set("")
	require.NoError(t, store.Load(ctx))

	snap := store.Snapshot()
	assert.Equal(t, 3, snap.Quantity("a"))
	assert.Equal(t, model.SourceLocal, snap.Source)
}

func TestSubscribeDeliversInstalledSnapshots(t *testing.T) {
	store, _, _, books, _ := newTestStore()
	books.add("a", "Book A", "10.00")
	ctx := context.Background()

	var (
		mu   sync.Mutex
		seen []model.Snapshot
	)
	cancel := store.Subscribe(func(snap model.Snapshot) {
		mu.Lock()
		seen = append(seen, snap)
		mu.Unlock()
	})

	require.NoError(t, store.AddItem(ctx, "a", 1))

	mu.Lock()
	require.Len(t, seen, 1)
	assert.Equal(t, 1, seen[0].Quantity("a"))
	mu.Unlock()

	cancel()
	require.NoError(t, store.AddItem(ctx, "a", 1))

	mu.Lock()
	assert.Len(t, seen, 1, "cancelled subscriber must not be notified")
	mu.Unlock()
}

func TestSnapshotUniquenessUnderMixedOperations(t *testing.T) {
	store, _, _, books, _ := newTestStore()
	books.add("a", "Book A", "1.00")
	books.add("b", "Book B", "2.00")
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "a", 1))
	require.NoError(t, store.AddItem(ctx, "b", 2))
	require.NoError(t, store.AddItem(ctx, "a", 4))
	require.NoError(t, store.UpdateQuantity(ctx, "b", 1))

	snap := store.Snapshot()
	require.NoError(t, snap.Validate())
	assert.Len(t, snap.Items, 2)
	assert.Equal(t, 5, snap.Quantity("a"))
	assert.Equal(t, 1, snap.Quantity("b"))
}
