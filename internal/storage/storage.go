// Package storage provides the scoped key-value store the client keeps
// between runs: the persisted anonymous cart and the session token live
// here. The file backend is the default; a Redis backend can be selected
// by config for shared dev environments.
package storage

import "context"

// Store is a namespaced key-value store surviving restarts.
type Store interface {
	// Get returns the stored value. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores the value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
