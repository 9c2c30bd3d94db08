package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"leafside-client/internal/domains/cart/model"
	"leafside-client/internal/storage"
	"leafside-client/pkg/logger"
)

const cartKey = "cart"

// LocalCart keeps the anonymous cart in the on-device key-value store
// under a single namespaced key.
type LocalCart struct {
	store storage.Store
}

func NewLocalCart(store storage.Store) *LocalCart {
	return &LocalCart{store: store}
}

func (l *LocalCart) Load(ctx context.Context) model.Snapshot {
	raw, ok, err := l.store.Get(ctx, cartKey)
	if err != nil {
		logger.Warn("reading local cart failed", map[string]interface{}{"error": err.Error()})
		return model.EmptySnapshot(model.SourceLocal)
	}
	if !ok {
		return model.EmptySnapshot(model.SourceLocal)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		// Corrupt value is treated as no cart.
		logger.Warn("persisted cart is unreadable, starting empty", map[string]interface{}{"error": err.Error()})
		return model.EmptySnapshot(model.SourceLocal)
	}

	if snap.Items == nil {
		snap.Items = []model.LineItem{}
	}
	snap.Source = model.SourceLocal
	return snap
}

func (l *LocalCart) Save(ctx context.Context, snap model.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := l.store.Set(ctx, cartKey, raw); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func (l *LocalCart) Clear(ctx context.Context) error {
	return l.store.Delete(ctx, cartKey)
}
