package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatPrice renders a price for terminal output. A nil price means
// the book is not orderable.
func FormatPrice(price *decimal.Decimal, currency string) string {
	if price == nil {
		return "Price not specified"
	}
	return fmt.Sprintf("%s %s", currency, price.StringFixed(2))
}

// Truncate shortens a string to limit runes, appending an ellipsis when
// anything was cut.
func Truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit]) + "…"
}
