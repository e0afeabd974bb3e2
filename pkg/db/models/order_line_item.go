package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineItem is one product/quantity/price row on a customer order.
// QuantityDelivered only moves through the fulfillment workflow and never
// exceeds Quantity.
type OrderLineItem struct {
	ID                int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID           int64           `gorm:"column:order_id;not null;index"`
	Name              string          `gorm:"column:name;not null"`
	PartNumber        *string         `gorm:"column:part_number"`
	Quantity          int             `gorm:"column:quantity;not null"`
	UnitPrice         decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	QuantityDelivered int             `gorm:"column:quantity_delivered;not null;default:0"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Remaining returns the undelivered quantity.
func (i OrderLineItem) Remaining() int {
	return i.Quantity - i.QuantityDelivered
}

// Subtotal returns quantity x unit price.
func (i OrderLineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
