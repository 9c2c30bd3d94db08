package repository

import (
	"context"
	"fmt"
	"net/url"

	"leafside-client/internal/domains/cart/model"
	"leafside-client/pkg/apiclient"
)

// RemoteCart implements the server cart contract:
//
//	GET    /api/cart                 -> cart payload
//	POST   /api/cart/items           -> cart payload (absolute quantity)
//	DELETE /api/cart/items/{bookId}  -> empty
//	DELETE /api/cart                 -> empty
type RemoteCart struct {
	api *apiclient.Client
}

func NewRemoteCart(api *apiclient.Client) *RemoteCart {
	return &RemoteCart{api: api}
}

func (r *RemoteCart) Fetch(ctx context.Context) (*model.CartPayload, error) {
	var payload model.CartPayload
	if err := r.api.Get(ctx, "/api/cart", &payload); err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}
	return &payload, nil
}

func (r *RemoteCart) UpsertItem(ctx context.Context, bookID string, quantity int) (*model.CartPayload, error) {
	req := model.UpsertItemRequest{BookID: bookID, Quantity: quantity}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var payload model.CartPayload
	if err := r.api.Post(ctx, "/api/cart/items", req, &payload); err != nil {
		return nil, fmt.Errorf("upsert cart item: %w", err)
	}
	return &payload, nil
}

func (r *RemoteCart) RemoveItem(ctx context.Context, bookID string) error {
	path := "/api/cart/items/" + url.PathEscape(bookID)
	if err := r.api.Delete(ctx, path); err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (r *RemoteCart) Clear(ctx context.Context) error {
	if err := r.api.Delete(ctx, "/api/cart"); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
