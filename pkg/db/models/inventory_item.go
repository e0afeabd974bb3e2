package models

import "time"

// InventoryItem tracks stock on hand. It is CRUD-managed independently of
// orders; the fulfillment workflow never mutates it.
type InventoryItem struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID       int64     `gorm:"column:user_id;not null;index"`
	Name         string    `gorm:"column:name;not null"`
	PartNumber   *string   `gorm:"column:part_number"`
	Supplier     *string   `gorm:"column:supplier"`
	Description  *string   `gorm:"column:description"`
	Quantity     int       `gorm:"column:quantity;not null;default:0"`
	Category     *string   `gorm:"column:category"`
	Location     *string   `gorm:"column:location"`
	ReorderLevel *int      `gorm:"column:reorder_level"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// LowStock reports whether quantity has fallen to or below the reorder level.
func (i InventoryItem) LowStock() bool {
	return i.ReorderLevel != nil && i.Quantity <= *i.ReorderLevel
}
