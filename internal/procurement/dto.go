package procurement

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/willardc/stocktrack-backend/pkg/db/models"
	"github.com/willardc/stocktrack-backend/pkg/enums"
)

// LineItemInput is one submitted supply order row. Rows with an empty name
// or a non-positive quantity are dropped; at least one valid row must
// survive or the order is rejected.
type LineItemInput struct {
	Name       string
	PartNumber *string
	Quantity   int
	UnitCost   decimal.Decimal
}

// CreateSupplyOrderInput creates a supply order with its line items atomically.
type CreateSupplyOrderInput struct {
	UserID               int64
	OrderNumber          string
	SupplierName         string
	OrderDate            time.Time
	ExpectedDeliveryDate *time.Time
	TrackingReference    *string
	Notes                *string
	DocumentURL          *string
	Items                []LineItemInput
}

// UpdateSupplyOrderInput supports partial updates; only non-nil fields change.
type UpdateSupplyOrderInput struct {
	UserID               int64
	SupplyOrderID        int64
	OrderNumber          *string
	SupplierName         *string
	OrderDate            *time.Time
	ExpectedDeliveryDate *time.Time
	TrackingReference    *string
	Notes                *string
	DocumentURL          *string
}

// ReceiptInput is a batch receiving submission: line item id -> quantity
// received. All-or-nothing.
type ReceiptInput struct {
	UserID        int64
	SupplyOrderID int64
	Receipts      map[int64]int
}

// SetStatusInput is the administrative status override.
type SetStatusInput struct {
	UserID        int64
	SupplyOrderID int64
	Status        enums.SupplyOrderStatus
}

// SupplyOrderFilters describe the inputs supported by the supply order list.
type SupplyOrderFilters struct {
	Status *enums.SupplyOrderStatus
	Query  string
}

// SupplyOrderView is a supply order plus derived aggregates.
type SupplyOrderView struct {
	Order         models.SupplyOrder        `json:"order"`
	TotalCost     decimal.Decimal           `json:"total_cost"`
	Progress      enums.FulfillmentProgress `json:"progress"`
	AmountPaid    decimal.Decimal           `json:"amount_paid"`
	Balance       decimal.Decimal           `json:"balance"`
	PaymentStatus enums.CollectionStatus    `json:"payment_status"`
}

// SupplyOrderList wraps the paginated supply orders plus the next cursor.
type SupplyOrderList struct {
	Orders     []SupplyOrderView `json:"orders"`
	NextCursor string            `json:"next_cursor,omitempty"`
}
