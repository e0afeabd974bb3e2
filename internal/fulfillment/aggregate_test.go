package fulfillment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/willardc/stocktrack-backend/pkg/db/models"
	"github.com/willardc/stocktrack-backend/pkg/enums"
)

func TestProgress(t *testing.T) {
	cases := []struct {
		name  string
		lines []LineProgress
		want  enums.FulfillmentProgress
	}{
		{"no lines", nil, enums.FulfillmentProgressUnfulfilled},
		{"nothing started", []LineProgress{{10, 0}, {3, 0}}, enums.FulfillmentProgressUnfulfilled},
		{"one line partial", []LineProgress{{10, 4}, {3, 0}}, enums.FulfillmentProgressPartial},
		{"one complete one untouched", []LineProgress{{10, 10}, {3, 0}}, enums.FulfillmentProgressPartial},
		{"all complete", []LineProgress{{10, 10}, {3, 3}}, enums.FulfillmentProgressFulfilled},
		{"single line complete", []LineProgress{{5, 5}}, enums.FulfillmentProgressFulfilled},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Progress(tc.lines))
			// recompute is idempotent
			require.Equal(t, tc.want, Progress(tc.lines))
		})
	}
}

func TestOrderTotal(t *testing.T) {
	items := []models.OrderLineItem{
		{Quantity: 3, UnitPrice: decimal.RequireFromString("19.99")},
		{Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
	}
	require.True(t, OrderTotal(items).Equal(decimal.RequireFromString("69.97")))
	require.True(t, OrderTotal(nil).Equal(decimal.Zero))
}

func TestSupplyTotal(t *testing.T) {
	items := []models.SupplyLineItem{
		{Quantity: 10, UnitCost: decimal.RequireFromString("2.50")},
	}
	require.True(t, SupplyTotal(items).Equal(decimal.RequireFromString("25.00")))
}

func TestOrderStatusFor(t *testing.T) {
	cases := []struct {
		current  enums.OrderStatus
		progress enums.FulfillmentProgress
		want     enums.OrderStatus
	}{
		{enums.OrderStatusPending, enums.FulfillmentProgressUnfulfilled, enums.OrderStatusPending},
		{enums.OrderStatusProcessing, enums.FulfillmentProgressUnfulfilled, enums.OrderStatusProcessing},
		{enums.OrderStatusPending, enums.FulfillmentProgressPartial, enums.OrderStatusPartiallyFulfilled},
		{enums.OrderStatusPartiallyFulfilled, enums.FulfillmentProgressFulfilled, enums.OrderStatusFulfilled},
		{enums.OrderStatusCancelled, enums.FulfillmentProgressFulfilled, enums.OrderStatusCancelled},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, OrderStatusFor(tc.current, tc.progress))
	}
}

func TestSupplyOrderStatusFor(t *testing.T) {
	cases := []struct {
		current  enums.SupplyOrderStatus
		progress enums.FulfillmentProgress
		want     enums.SupplyOrderStatus
	}{
		{enums.SupplyOrderStatusDraft, enums.FulfillmentProgressUnfulfilled, enums.SupplyOrderStatusDraft},
		{enums.SupplyOrderStatusOrdered, enums.FulfillmentProgressPartial, enums.SupplyOrderStatusPartiallyReceived},
		{enums.SupplyOrderStatusPartiallyReceived, enums.FulfillmentProgressFulfilled, enums.SupplyOrderStatusReceived},
		{enums.SupplyOrderStatusCancelled, enums.FulfillmentProgressPartial, enums.SupplyOrderStatusCancelled},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, SupplyOrderStatusFor(tc.current, tc.progress))
	}
}

func TestCollectionStatusFor(t *testing.T) {
	total := decimal.RequireFromString("1000")

	require.Equal(t, enums.CollectionStatusUnpaid, CollectionStatusFor(total, decimal.Zero))
	require.Equal(t, enums.CollectionStatusPartiallyCollected, CollectionStatusFor(total, decimal.RequireFromString("400")))
	require.Equal(t, enums.CollectionStatusFullyCollected, CollectionStatusFor(total, decimal.RequireFromString("1000")))
	// over-collection still reads fully collected
	require.Equal(t, enums.CollectionStatusFullyCollected, CollectionStatusFor(total, decimal.RequireFromString("1200")))
}

func TestBalanceScenario(t *testing.T) {
	total := decimal.RequireFromString("1000")

	applied := decimal.RequireFromString("400")
	require.True(t, Balance(total, applied).Equal(decimal.RequireFromString("600")))
	require.Equal(t, enums.CollectionStatusPartiallyCollected, CollectionStatusFor(total, applied))

	applied = applied.Add(decimal.RequireFromString("600"))
	require.True(t, Balance(total, applied).Equal(decimal.Zero))
	require.Equal(t, enums.CollectionStatusFullyCollected, CollectionStatusFor(total, applied))

	// deleting the second record reverts the derived state
	applied = applied.Sub(decimal.RequireFromString("600"))
	require.True(t, Balance(total, applied).Equal(decimal.RequireFromString("600")))
	require.Equal(t, enums.CollectionStatusPartiallyCollected, CollectionStatusFor(total, applied))
}
