package inventory

import (
	"github.com/willardc/stocktrack-backend/pkg/db/models"
)

// CreateItemInput carries the fields for a new stock item.
type CreateItemInput struct {
	UserID       int64
	Name         string
	PartNumber   *string
	Supplier     *string
	Description  *string
	Quantity     int
	Category     *string
	Location     *string
	ReorderLevel *int
}

// UpdateItemInput supports partial updates; only non-nil fields change.
type UpdateItemInput struct {
	UserID       int64
	ItemID       int64
	Name         *string
	PartNumber   *string
	Supplier     *string
	Description  *string
	Quantity     *int
	Category     *string
	Location     *string
	ReorderLevel *int
}

// ItemFilters describe the inputs supported by the inventory list.
type ItemFilters struct {
	Category *string
	Query    string
	LowStock bool
}

// ItemView is a stock item plus its derived low-stock flag.
type ItemView struct {
	Item     models.InventoryItem `json:"item"`
	LowStock bool                 `json:"low_stock"`
}

// ItemList wraps the paginated items plus the next page cursor.
type ItemList struct {
	Items      []ItemView `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}
