package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyLineItem is one ordered row on a supply order. QuantityReceived only
// moves through the receiving workflow and never exceeds Quantity.
type SupplyLineItem struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement"`
	SupplyOrderID    int64           `gorm:"column:supply_order_id;not null;index"`
	Name             string          `gorm:"column:name;not null"`
	PartNumber       *string         `gorm:"column:part_number"`
	Quantity         int             `gorm:"column:quantity;not null"`
	UnitCost         decimal.Decimal `gorm:"column:unit_cost;type:numeric(12,2);not null"`
	QuantityReceived int             `gorm:"column:quantity_received;not null;default:0"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Remaining returns the quantity still expected from the supplier.
func (i SupplyLineItem) Remaining() int {
	return i.Quantity - i.QuantityReceived
}

// Subtotal returns quantity x unit cost.
func (i SupplyLineItem) Subtotal() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
