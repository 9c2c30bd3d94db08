package repository

import (
	"context"

	"leafside-client/internal/domains/cart/model"
)

// LocalRepository persists the anonymous cart between app runs.
type LocalRepository interface {
	// Load returns the persisted snapshot, always tagged local. A
	// missing or unreadable value yields an empty snapshot; corruption
	// is never an error the caller has to handle.
	Load(ctx context.Context) model.Snapshot

	// Save persists the snapshot, replacing any previous value.
	Save(ctx context.Context, snap model.Snapshot) error

	// Clear removes the persisted snapshot.
	Clear(ctx context.Context) error
}

// RemoteRepository talks to the server-side cart. All operations need
// an authenticated token on the underlying API client.
type RemoteRepository interface {
	// Fetch returns the authoritative server cart.
	Fetch(ctx context.Context) (*model.CartPayload, error)

	// UpsertItem sets the line for bookID to an absolute quantity and
	// returns the authoritative cart after the change.
	UpsertItem(ctx context.Context, bookID string, quantity int) (*model.CartPayload, error)

	// RemoveItem deletes the line for bookID.
	RemoveItem(ctx context.Context, bookID string) error

	// Clear empties the server cart.
	Clear(ctx context.Context) error
}
