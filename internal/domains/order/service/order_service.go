package service

import (
	"context"
	"fmt"

	"leafside-client/internal/domains/order/model"
	"leafside-client/pkg/apiclient"
)

type OrderService struct {
	api *apiclient.Client
}

func NewOrderService(api *apiclient.Client) ServiceInterface {
	return &OrderService{api: api}
}

func (s *OrderService) Create(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var order model.Order
	if err := s.api.Post(ctx, "/api/orders", req, &order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &order, nil
}

func (s *OrderService) List(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := s.api.Get(ctx, "/api/orders", &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
