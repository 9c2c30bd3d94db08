package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

// CartPayload mirrors the server-side cart shape returned by every
// remote cart endpoint that answers with a body.
type CartPayload struct {
	ID    string        `json:"id"`
	Items []PayloadItem `json:"items"`
}

type PayloadItem struct {
	BookID        string           `json:"bookId"`
	Quantity      int              `json:"quantity"`
	PriceSnapshot *decimal.Decimal `json:"priceSnapshot,omitempty"`
}

// UpsertItemRequest sets a line to an absolute quantity. Expressing
// "set to N" rather than "add N" keeps the operation idempotent under
// retry.
type UpsertItemRequest struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

func (r UpsertItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required.Error("bookId is required")),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1).Error("quantity must be at least 1")),
	)
}
