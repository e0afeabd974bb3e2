package models

import (
	"time"

	"github.com/willardc/stocktrack-backend/pkg/enums"
)

// SupplyOrder is a procurement order placed with a supplier.
type SupplyOrder struct {
	ID                   int64                   `gorm:"column:id;primaryKey;autoIncrement"`
	UserID               int64                   `gorm:"column:user_id;not null;index"`
	OrderNumber          string                  `gorm:"column:order_number;not null"`
	SupplierName         string                  `gorm:"column:supplier_name;not null"`
	Status               enums.SupplyOrderStatus `gorm:"column:status;not null;default:'draft'"`
	OrderDate            time.Time               `gorm:"column:order_date;not null"`
	ExpectedDeliveryDate *time.Time              `gorm:"column:expected_delivery_date"`
	TrackingReference    *string                 `gorm:"column:tracking_reference"`
	Notes                *string                 `gorm:"column:notes"`
	DocumentURL          *string                 `gorm:"column:document_url"`
	Items                []SupplyLineItem        `gorm:"foreignKey:SupplyOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
