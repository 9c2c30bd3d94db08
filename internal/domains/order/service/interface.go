package service

import (
	"context"

	"leafside-client/internal/domains/order/model"
)

type ServiceInterface interface {
	// Create places an order. The caller is responsible for building
	// the request from the current cart (model.FromSnapshot).
	Create(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error)

	// List returns the authenticated user's past orders.
	List(ctx context.Context) ([]model.Order, error)
}
