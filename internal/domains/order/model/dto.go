package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	cartModel "leafside-client/internal/domains/cart/model"
)

type CreateOrderItem struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

func (i CreateOrderItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.BookID, validation.Required),
		validation.Field(&i.Quantity, validation.Required, validation.Min(1)),
	)
}

type CreateOrderRequest struct {
	Items           []CreateOrderItem `json:"items"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	ShippingAddress string            `json:"shippingAddress,omitempty"`
	CustomerName    string            `json:"customerName,omitempty"`
	CustomerEmail   string            `json:"customerEmail,omitempty"`
	CustomerPhone   string            `json:"customerPhone,omitempty"`
	Notes           string            `json:"notes,omitempty"`
}

func (r CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Items, validation.Required.Error("order must contain at least one item")),
	)
}

// FromSnapshot builds an order request from the current cart: the
// lines as (bookId, quantity) pairs and the computed subtotal.
func FromSnapshot(snap cartModel.Snapshot) CreateOrderRequest {
	items := make([]CreateOrderItem, 0, len(snap.Items))
	for _, line := range snap.Items {
		items = append(items, CreateOrderItem{BookID: line.BookID, Quantity: line.Quantity})
	}
	return CreateOrderRequest{
		Items:       items,
		TotalAmount: snap.Subtotal(),
	}
}
