package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	price := decimal.RequireFromString("12.5")
	assert.Equal(t, "EUR 12.50", FormatPrice(&price, "EUR"))

	zero := decimal.Zero
	assert.Equal(t, "EUR 0.00", FormatPrice(&zero, "EUR"))

	assert.Equal(t, "Price not specified", FormatPrice(nil, "EUR"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly", Truncate("exactly", 7))
	assert.Equal(t, "lon…", Truncate("longer", 3))

	// rune-safe, not byte-safe
	assert.Equal(t, "héll…", Truncate("héllo wörld", 4))
}
