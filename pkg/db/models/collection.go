package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collection is an append-only payment record against a customer order.
// Corrections are delete-and-recreate; amounts are never edited in place.
type Collection struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	UserID          int64           `gorm:"column:user_id;not null;index"`
	OrderID         int64           `gorm:"column:order_id;not null;index"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	DateCollected   time.Time       `gorm:"column:date_collected;not null"`
	PaymentMethod   *string         `gorm:"column:payment_method"`
	ReferenceNumber *string         `gorm:"column:reference_number"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}
