package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartModel "leafside-client/internal/domains/cart/model"
)

func TestFromSnapshotBuildsOrderRequest(t *testing.T) {
	priceA := decimal.RequireFromString("10.00")
	priceB := decimal.RequireFromString("4.50")

	snap := cartModel.Snapshot{
		Items: []cartModel.LineItem{
			{BookID: "a", Quantity: 2, PriceSnapshot: &priceA},
			{BookID: "b", Quantity: 1, PriceSnapshot: &priceB},
		},
	}

	req := FromSnapshot(snap)

	require.Len(t, req.Items, 2)
	assert.Equal(t, CreateOrderItem{BookID: "a", Quantity: 2}, req.Items[0])
	assert.Equal(t, CreateOrderItem{BookID: "b", Quantity: 1}, req.Items[1])
	assert.True(t, req.TotalAmount.Equal(decimal.RequireFromString("24.50")))
	assert.NoError(t, req.Validate())
}

func TestCreateOrderRequestRequiresItems(t *testing.T) {
	req := FromSnapshot(cartModel.Snapshot{Items: []cartModel.LineItem{}})
	assert.Error(t, req.Validate())
}

func TestCreateOrderItemValidate(t *testing.T) {
	assert.NoError(t, CreateOrderItem{BookID: "a", Quantity: 1}.Validate())
	assert.Error(t, CreateOrderItem{BookID: "", Quantity: 1}.Validate())
	assert.Error(t, CreateOrderItem{BookID: "a", Quantity: 0}.Validate())
}
