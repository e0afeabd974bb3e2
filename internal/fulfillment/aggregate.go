// Package fulfillment holds the pure aggregation logic shared by the order
// and procurement workflows: order totals, fulfillment progress, collection
// status, and the status labels derived from them. Nothing here touches
// storage; every function is deterministic over its inputs and safe to call
// on every read.
package fulfillment

import (
	"github.com/shopspring/decimal"

	"github.com/willardc/stocktrack-backend/pkg/db/models"
	"github.com/willardc/stocktrack-backend/pkg/enums"
)

// LineProgress is the ordered/fulfilled pair the progress fold works over.
// Order line items count deliveries, supply line items count receipts; both
// reduce to the same shape.
type LineProgress struct {
	Ordered   int
	Fulfilled int
}

// OrderLines projects customer order line items onto LineProgress.
func OrderLines(items []models.OrderLineItem) []LineProgress {
	out := make([]LineProgress, 0, len(items))
	for _, item := range items {
		out = append(out, LineProgress{Ordered: item.Quantity, Fulfilled: item.QuantityDelivered})
	}
	return out
}

// SupplyLines projects supply order line items onto LineProgress.
func SupplyLines(items []models.SupplyLineItem) []LineProgress {
	out := make([]LineProgress, 0, len(items))
	for _, item := range items {
		out = append(out, LineProgress{Ordered: item.Quantity, Fulfilled: item.QuantityReceived})
	}
	return out
}

// Progress reduces per-line counters to a three-way label. A line with
// Fulfilled == Ordered is complete; any movement short of every line being
// complete is partial.
func Progress(lines []LineProgress) enums.FulfillmentProgress {
	if len(lines) == 0 {
		return enums.FulfillmentProgressUnfulfilled
	}

	started := false
	allComplete := true
	for _, line := range lines {
		if line.Fulfilled > 0 {
			started = true
		}
		if line.Fulfilled < line.Ordered {
			allComplete = false
		}
	}

	switch {
	case allComplete:
		return enums.FulfillmentProgressFulfilled
	case started:
		return enums.FulfillmentProgressPartial
	default:
		return enums.FulfillmentProgressUnfulfilled
	}
}

// OrderTotal is the sum of quantity x unit price across line items.
func OrderTotal(items []models.OrderLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// SupplyTotal is the sum of quantity x unit cost across supply line items.
func SupplyTotal(items []models.SupplyLineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// OrderStatusFor maps fulfillment progress onto the order status to persist.
// Cancelled is sticky: the workflow never reopens a cancelled order, only the
// administrative status override can. When nothing has been delivered yet the
// current status is kept, so pending/processing survives an empty recompute.
func OrderStatusFor(current enums.OrderStatus, progress enums.FulfillmentProgress) enums.OrderStatus {
	if current == enums.OrderStatusCancelled {
		return current
	}
	switch progress {
	case enums.FulfillmentProgressFulfilled:
		return enums.OrderStatusFulfilled
	case enums.FulfillmentProgressPartial:
		return enums.OrderStatusPartiallyFulfilled
	default:
		return current
	}
}

// SupplyOrderStatusFor is the procurement counterpart of OrderStatusFor.
func SupplyOrderStatusFor(current enums.SupplyOrderStatus, progress enums.FulfillmentProgress) enums.SupplyOrderStatus {
	if current == enums.SupplyOrderStatusCancelled {
		return current
	}
	switch progress {
	case enums.FulfillmentProgressFulfilled:
		return enums.SupplyOrderStatusReceived
	case enums.FulfillmentProgressPartial:
		return enums.SupplyOrderStatusPartiallyReceived
	default:
		return current
	}
}

// Balance is the order total minus the amounts applied against it.
func Balance(total, applied decimal.Decimal) decimal.Decimal {
	return total.Sub(applied)
}

// CollectionStatusFor derives the payment label for an order. A balance at or
// below zero counts as fully collected, which keeps over-payments and rounding
// from blocking the final state.
func CollectionStatusFor(total, applied decimal.Decimal) enums.CollectionStatus {
	if applied.LessThanOrEqual(decimal.Zero) {
		return enums.CollectionStatusUnpaid
	}
	if Balance(total, applied).LessThanOrEqual(decimal.Zero) {
		return enums.CollectionStatusFullyCollected
	}
	return enums.CollectionStatusPartiallyCollected
}
