package models

import (
	"time"

	"github.com/willardc/stocktrack-backend/pkg/enums"
)

// Order is a customer purchase order with its line items.
type Order struct {
	ID                   int64             `gorm:"column:id;primaryKey;autoIncrement"`
	UserID               int64             `gorm:"column:user_id;not null;index"`
	OrderNumber          string            `gorm:"column:order_number;not null"`
	CustomerName         string            `gorm:"column:customer_name;not null"`
	Status               enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	OrderDate            time.Time         `gorm:"column:order_date;not null"`
	ExpectedDeliveryDate *time.Time        `gorm:"column:expected_delivery_date"`
	TrackingReference    *string           `gorm:"column:tracking_reference"`
	Notes                *string           `gorm:"column:notes"`
	DocumentURL          *string           `gorm:"column:document_url"`
	Items                []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
