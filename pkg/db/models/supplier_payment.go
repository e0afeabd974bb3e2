package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplierPayment is an append-only payment record against a supply order.
type SupplierPayment struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          int64           `gorm:"column:user_id;not null;index"`
	SupplyOrderID   int64           `gorm:"column:supply_order_id;not null;index"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	DatePaid        time.Time       `gorm:"column:date_paid;not null"`
	PaymentMethod   *string         `gorm:"column:payment_method"`
	ReferenceNumber *string         `gorm:"column:reference_number"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}
