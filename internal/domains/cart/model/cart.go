package model

import (
	"time"

	"github.com/shopspring/decimal"

	catalogModel "leafside-client/internal/domains/catalog/model"
)

// Source tags which backend a snapshot came from: the on-device store
// for anonymous sessions, the server-side cart for authenticated ones.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// LineItem is one book's presence in the cart. Quantity is always >= 1
// while the line exists; an operation that would drop it to zero removes
// the line instead. Book is a transient enrichment for display and is
// never authoritative; PriceSnapshot is the price recorded when the item
// was added or last synced, used as a fallback for totals.
type LineItem struct {
	BookID        string             `json:"bookId"`
	Quantity      int                `json:"quantity"`
	PriceSnapshot *decimal.Decimal   `json:"priceSnapshot,omitempty"`
	Book          *catalogModel.Book `json:"book,omitempty"`
}

// UnitPrice returns the price used for totals: the enriched book's
// price when present, else the snapshot price, else zero.
func (li LineItem) UnitPrice() decimal.Decimal {
	if li.Book != nil && li.Book.Price != nil {
		return *li.Book.Price
	}
	if li.PriceSnapshot != nil {
		return *li.PriceSnapshot
	}
	return decimal.Zero
}

// Subtotal calculates the line total.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice().Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Snapshot is the full cart at a point in time. Lines are ordered by
// insertion and unique per book. A snapshot is replaced wholesale on
// every load or mutation round trip, never edited in place.
type Snapshot struct {
	ID        string     `json:"id,omitempty"` // server cart id, remote only
	Items     []LineItem `json:"items"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Source    Source     `json:"source"`
}

// EmptySnapshot is the cart state on first launch and after sign-out.
func EmptySnapshot(source Source) Snapshot {
	return Snapshot{Items: []LineItem{}, Source: source}
}

// Find returns the line for bookID, if any.
func (s Snapshot) Find(bookID string) (LineItem, bool) {
	for _, item := range s.Items {
		if item.BookID == bookID {
			return item, true
		}
	}
	return LineItem{}, false
}

// Quantity returns the quantity of the line for bookID, 0 when absent.
func (s Snapshot) Quantity(bookID string) int {
	if item, ok := s.Find(bookID); ok {
		return item.Quantity
	}
	return 0
}

// ItemsCount returns the total number of units across all lines.
func (s Snapshot) ItemsCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// Subtotal sums the line totals.
func (s Snapshot) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Clone returns a copy whose Items slice is independent of the
// original, so readers never observe later mutations.
func (s Snapshot) Clone() Snapshot {
	copied := s
	copied.Items = make([]LineItem, len(s.Items))
	copy(copied.Items, s.Items)
	return copied
}

// Validate checks the snapshot invariants: one line per book, every
// quantity positive.
func (s Snapshot) Validate() error {
	seen := make(map[string]struct{}, len(s.Items))
	for _, item := range s.Items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if _, dup := seen[item.BookID]; dup {
			return ErrDuplicateLine
		}
		seen[item.BookID] = struct{}{}
	}
	return nil
}
