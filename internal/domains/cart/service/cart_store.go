package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"leafside-client/internal/domains/cart/model"
	repo "leafside-client/internal/domains/cart/repository"
	"leafside-client/pkg/logger"
)

// CartStore is the single source of truth for the session's cart. It
// decides per operation whether to persist locally or synchronize with
// the server, based solely on token presence, and always installs whole
// snapshots so readers never observe a half-applied mutation.
//
// Identity transitions reload the cart from the backend that became
// authoritative; the anonymous cart is never pushed to the server on
// sign-in (reload, not merge). Operations are not queued: overlapping
// calls race at the snapshot level and the last writer wins.
type CartStore struct {
	remote repo.RemoteRepository
	local  repo.LocalRepository
	books  BookGetter
	tokens TokenSource

	mu       sync.RWMutex
	snapshot model.Snapshot

	syncing atomic.Int32

	subMu   sync.Mutex
	subs    map[int]func(model.Snapshot)
	nextSub int
}

func NewCartStore(
	remote repo.RemoteRepository,
	local repo.LocalRepository,
	books BookGetter,
	tokens TokenSource,
) ServiceInterface {
	return &CartStore{
		remote:   remote,
		local:    local,
		books:    books,
		tokens:   tokens,
		snapshot: model.EmptySnapshot(model.SourceLocal),
		subs:     make(map[int]func(model.Snapshot)),
	}
}

func (s *CartStore) Load(ctx context.Context) error {
	if s.authenticated() {
		return s.loadRemote(ctx)
	}

	s.install(s.local.Load(ctx))
	return nil
}

func (s *CartStore) Refresh(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *CartStore) AddItem(ctx context.Context, bookID string, quantity int) error {
	if quantity < 1 {
		return model.ErrInvalidQuantity
	}

	if !s.authenticated() {
		return s.addLocal(ctx, bookID, quantity)
	}

	s.syncing.Add(1)
	defer s.syncing.Add(-1)

	// The caller's intent is incremental, but the wire operation is
	// "set to N" so a retried request cannot double-count.
	desired := s.Snapshot().Quantity(bookID) + quantity
	payload, err := s.remote.UpsertItem(ctx, bookID, desired)
	if err != nil {
		return fmt.Errorf("add item %s: %w", bookID, err)
	}

	s.install(s.enrich(ctx, payload))
	return nil
}

func (s *CartStore) UpdateQuantity(ctx context.Context, bookID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, bookID)
	}

	if !s.authenticated() {
		current := s.Snapshot()
		items := current.Items
		for i := range items {
			if items[i].BookID == bookID {
				items[i].Quantity = quantity
			}
		}
		return s.installLocal(ctx, current, items)
	}

	s.syncing.Add(1)
	defer s.syncing.Add(-1)

	payload, err := s.remote.UpsertItem(ctx, bookID, quantity)
	if err != nil {
		return fmt.Errorf("update quantity for %s: %w", bookID, err)
	}

	s.install(s.enrich(ctx, payload))
	return nil
}

func (s *CartStore) RemoveItem(ctx context.Context, bookID string) error {
	if !s.authenticated() {
		current := s.Snapshot()
		return s.installLocal(ctx, current, removeLine(current.Items, bookID))
	}

	s.syncing.Add(1)
	defer s.syncing.Add(-1)

	if err := s.remote.RemoveItem(ctx, bookID); err != nil {
		return fmt.Errorf("remove item %s: %w", bookID, err)
	}

	// Drop the line immediately for responsive UI, then re-fetch: the
	// server view is authoritative and other lines may have changed.
	optimistic := s.Snapshot()
	optimistic.Items = removeLine(optimistic.Items, bookID)
	s.install(optimistic)

	return s.loadRemote(ctx)
}

func (s *CartStore) Clear(ctx context.Context) error {
	if !s.authenticated() {
		next := model.EmptySnapshot(model.SourceLocal)
		if err := s.local.Save(ctx, next); err != nil {
			logger.Warn("persisting cleared cart failed", map[string]interface{}{"error": err.Error()})
		}
		s.install(next)
		return nil
	}

	s.syncing.Add(1)
	defer s.syncing.Add(-1)

	if err := s.remote.Clear(ctx); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	return s.loadRemote(ctx)
}

func (s *CartStore) Snapshot() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

func (s *CartStore) Syncing() bool {
	return s.syncing.Load() > 0
}

func (s *CartStore) Subscribe(fn func(model.Snapshot)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *CartStore) authenticated() bool {
	return s.tokens.Token() != ""
}

func (s *CartStore) loadRemote(ctx context.Context) error {
	s.syncing.Add(1)
	defer s.syncing.Add(-1)

	payload, err := s.remote.Fetch(ctx)
	if err != nil {
		// Previous snapshot stays installed: stale beats empty.
		return fmt.Errorf("load remote cart: %w", err)
	}

	s.install(s.enrich(ctx, payload))
	return nil
}

func (s *CartStore) addLocal(ctx context.Context, bookID string, quantity int) error {
	current := s.Snapshot()
	items := current.Items

	found := false
	for i := range items {
		if items[i].BookID == bookID {
			items[i].Quantity += quantity
			found = true
			break
		}
	}

	if !found {
		line := model.LineItem{BookID: bookID, Quantity: quantity}
		// Attach the book for immediate display when the catalog can
		// serve it; a failed lookup is not a failed add.
		if book, err := s.books.GetBook(ctx, bookID); err == nil {
			line.Book = book
			if book.Price != nil {
				price := *book.Price
				line.PriceSnapshot = &price
			}
		}
		items = append(items, line)
	}

	return s.installLocal(ctx, current, items)
}

// installLocal builds the next local snapshot from the given items,
// persists it, and installs it. Persistence failures are logged and
// swallowed: the in-memory cart keeps working for the session.
func (s *CartStore) installLocal(ctx context.Context, current model.Snapshot, items []model.LineItem) error {
	now := time.Now().UTC()
	next := model.Snapshot{
		Items:     items,
		UpdatedAt: &now,
		Source:    model.SourceLocal,
	}

	if err := s.local.Save(ctx, next); err != nil {
		logger.Warn("persisting local cart failed", map[string]interface{}{"error": err.Error()})
	}

	s.install(next)
	return nil
}

// enrich turns a server payload into a snapshot by looking every line's
// book up concurrently. A failed lookup leaves that line without its
// Book; the line itself is always retained so a vanished book can never
// silently drop a quantity.
func (s *CartStore) enrich(ctx context.Context, payload *model.CartPayload) model.Snapshot {
	items := make([]model.LineItem, len(payload.Items))

	var wg sync.WaitGroup
	for i, it := range payload.Items {
		items[i] = model.LineItem{
			BookID:        it.BookID,
			Quantity:      it.Quantity,
			PriceSnapshot: it.PriceSnapshot,
		}

		wg.Add(1)
		go func(i int, bookID string) {
			defer wg.Done()
			book, err := s.books.GetBook(ctx, bookID)
			if err != nil {
				logger.Warn("book lookup failed during enrichment", map[string]interface{}{
					"book_id": bookID,
					"error":   err.Error(),
				})
				return
			}
			items[i].Book = book
		}(i, it.BookID)
	}
	wg.Wait()

	now := time.Now().UTC()
	return model.Snapshot{
		ID:        payload.ID,
		Items:     items,
		UpdatedAt: &now,
		Source:    model.SourceRemote,
	}
}

// install atomically replaces the current snapshot and notifies
// subscribers with their own copies.
func (s *CartStore) install(next model.Snapshot) {
	s.mu.Lock()
	s.snapshot = next
	s.mu.Unlock()

	s.subMu.Lock()
	fns := make([]func(model.Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(next.Clone())
	}
}

func removeLine(items []model.LineItem, bookID string) []model.LineItem {
	next := make([]model.LineItem, 0, len(items))
	for _, item := range items {
		if item.BookID != bookID {
			next = append(next, item)
		}
	}
	return next
}
