package dashboard

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/willardc/stocktrack-backend/pkg/db/models"
	"github.com/willardc/stocktrack-backend/pkg/enums"
	pkgerrors "github.com/willardc/stocktrack-backend/pkg/errors"
)

// Stats is a per-user snapshot of record counts shown on the landing page.
type Stats struct {
	Orders         int64 `json:"orders"`
	OpenOrders     int64 `json:"open_orders"`
	SupplyOrders   int64 `json:"supply_orders"`
	OpenSupplies   int64 `json:"open_supplies"`
	InventoryItems int64 `json:"inventory_items"`
	LowStockItems  int64 `json:"low_stock_items"`
	Collections    int64 `json:"collections"`
	Payments       int64 `json:"payments"`
}

// Service computes dashboard stats for a user.
type Service interface {
	Stats(ctx context.Context, userID int64) (*Stats, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds a dashboard service on the provided DB handle.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &service{db: db}, nil
}

func (s *service) Stats(ctx context.Context, userID int64) (*Stats, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var stats Stats
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.Orders, s.db.WithContext(ctx).Model(&models.Order{}).
			Where("user_id = ?", userID)},
		{&stats.OpenOrders, s.db.WithContext(ctx).Model(&models.Order{}).
			Where("user_id = ? AND status NOT IN ?", userID,
				[]enums.OrderStatus{enums.OrderStatusFulfilled, enums.OrderStatusCancelled})},
		{&stats.SupplyOrders, s.db.WithContext(ctx).Model(&models.SupplyOrder{}).
			Where("user_id = ?", userID)},
		{&stats.OpenSupplies, s.db.WithContext(ctx).Model(&models.SupplyOrder{}).
			Where("user_id = ? AND status NOT IN ?", userID,
				[]enums.SupplyOrderStatus{enums.SupplyOrderStatusReceived, enums.SupplyOrderStatusCancelled})},
		{&stats.InventoryItems, s.db.WithContext(ctx).Model(&models.InventoryItem{}).
			Where("user_id = ?", userID)},
		{&stats.LowStockItems, s.db.WithContext(ctx).Model(&models.InventoryItem{}).
			Where("user_id = ? AND reorder_level IS NOT NULL AND quantity <= reorder_level", userID)},
		{&stats.Collections, s.db.WithContext(ctx).Model(&models.Collection{}).
			Where("user_id = ?", userID)},
		{&stats.Payments, s.db.WithContext(ctx).Model(&models.SupplierPayment{}).
			Where("user_id = ?", userID)},
	}

	for _, count := range counts {
		if err := count.query.Count(count.dest).Error; err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count records")
		}
	}
	return &stats, nil
}
