package service

import (
	"context"

	"leafside-client/internal/domains/cart/model"
	catalogModel "leafside-client/internal/domains/catalog/model"
)

// TokenSource tells the store which mode it is in: a non-empty token
// means authenticated (remote cart), empty means anonymous (local cart).
type TokenSource interface {
	Token() string
}

// BookGetter is the read-only catalog lookup used to enrich thin cart
// lines with full book records.
type BookGetter interface {
	GetBook(ctx context.Context, id string) (*catalogModel.Book, error)
}

type ServiceInterface interface {
	// Load installs the authoritative snapshot for the current mode.
	// Authenticated: fetches the remote cart and enriches every line; a
	// line whose book lookup fails is kept without its Book attached. A
	// failed remote fetch keeps the previous snapshot (stale beats
	// empty) and returns the error for the UI to surface.
	// Anonymous: reads the persisted local cart, empty when missing or
	// unreadable.
	Load(ctx context.Context) error

	// Refresh re-runs Load unconditionally (pull-to-refresh).
	Refresh(ctx context.Context) error

	// AddItem increases the line for bookID by quantity, creating it
	// when absent. Remote mode sends the absolute target quantity so a
	// retried request cannot double-count.
	AddItem(ctx context.Context, bookID string, quantity int) error

	// UpdateQuantity sets the line's quantity directly (not additive).
	// quantity <= 0 removes the line instead; a non-positive quantity
	// is never stored.
	UpdateQuantity(ctx context.Context, bookID string, quantity int) error

	// RemoveItem deletes the line. Remote mode re-fetches the cart
	// afterwards rather than trusting its own filtered copy.
	RemoveItem(ctx context.Context, bookID string) error

	// Clear empties the cart in the current mode.
	Clear(ctx context.Context) error

	// Snapshot returns a copy of the current cart state.
	Snapshot() model.Snapshot

	// Syncing reports whether a remote round trip is outstanding. It is
	// a UI hint only and never gates operations.
	Syncing() bool

	// Subscribe registers fn to run with a copy of every newly
	// installed snapshot. The returned cancel removes the subscription.
	Subscribe(fn func(model.Snapshot)) (cancel func())
}
