package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book is a catalog record as served by the LeafSide API. The client
// never mutates books; the catalog is read-only from its perspective.
type Book struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Author      string           `json:"author"`
	Genre       string           `json:"genre"`
	Publishing  string           `json:"publishing,omitempty"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"` // nil = not orderable
	ISBN        string           `json:"isbn,omitempty"`
	Language    string           `json:"language,omitempty"`
	PageCount   int              `json:"pageCount,omitempty"`
	IsAvailable bool             `json:"isAvailable"`
	CreatedAt   *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time       `json:"updatedAt,omitempty"`
}
