package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/willardc/stocktrack-backend/pkg/db/models"
	"github.com/willardc/stocktrack-backend/pkg/enums"
)

// LineItemInput is one submitted order row. Rows with an empty name or a
// non-positive quantity are dropped before persistence; at least one valid
// row must survive or the whole order is rejected.
type LineItemInput struct {
	Name       string
	PartNumber *string
	Quantity   int
	UnitPrice  decimal.Decimal
}

// CreateOrderInput carries everything needed to create an order with its
// line items in one atomic unit.
type CreateOrderInput struct {
	UserID               int64
	OrderNumber          string
	CustomerName         string
	OrderDate            time.Time
	ExpectedDeliveryDate *time.Time
	TrackingReference    *string
	Notes                *string
	DocumentURL          *string
	Items                []LineItemInput
}

// UpdateOrderInput supports partial updates; only non-nil fields change.
// Fulfillment counters and status are never reachable through this path.
type UpdateOrderInput struct {
	UserID               int64
	OrderID              int64
	OrderNumber          *string
	CustomerName         *string
	OrderDate            *time.Time
	ExpectedDeliveryDate *time.Time
	TrackingReference    *string
	Notes                *string
	DocumentURL          *string
}

// DeliveryInput is a batch delivery submission: line item id -> quantity to
// apply. The batch is all-or-nothing.
type DeliveryInput struct {
	UserID     int64
	OrderID    int64
	Deliveries map[int64]int
}

// SetStatusInput is the administrative status override.
type SetStatusInput struct {
	UserID  int64
	OrderID int64
	Status  enums.OrderStatus
}

// OrderFilters describe the inputs supported by the orders list.
type OrderFilters struct {
	Status *enums.OrderStatus
	Query  string
}

// OrderView is an order plus the derived aggregates recomputed on every read.
type OrderView struct {
	Order            models.Order              `json:"order"`
	TotalAmount      decimal.Decimal           `json:"total_amount"`
	Progress         enums.FulfillmentProgress `json:"progress"`
	AmountCollected  decimal.Decimal           `json:"amount_collected"`
	Balance          decimal.Decimal           `json:"balance"`
	CollectionStatus enums.CollectionStatus    `json:"collection_status"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderView `json:"orders"`
	NextCursor string      `json:"next_cursor,omitempty"`
}
