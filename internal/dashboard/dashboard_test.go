package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/willardc/stocktrack-backend/pkg/db/models"
	"github.com/willardc/stocktrack-backend/pkg/enums"
)

func setupDashboardTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  order_number TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  order_date DATETIME NOT NULL,
  expected_delivery_date DATETIME,
  tracking_reference TEXT,
  notes TEXT,
  document_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS supply_orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  order_number TEXT NOT NULL,
  supplier_name TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'draft',
  order_date DATETIME NOT NULL,
  expected_delivery_date DATETIME,
  tracking_reference TEXT,
  notes TEXT,
  document_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS inventory_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  part_number TEXT,
  supplier TEXT,
  description TEXT,
  quantity INTEGER NOT NULL DEFAULT 0,
  category TEXT,
  location TEXT,
  reorder_level INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS collections (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  order_id INTEGER NOT NULL,
  amount NUMERIC NOT NULL,
  date_collected DATETIME NOT NULL,
  payment_method TEXT,
  reference_number TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS supplier_payments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  supply_order_id INTEGER NOT NULL,
  amount NUMERIC NOT NULL,
  date_paid DATETIME NOT NULL,
  payment_method TEXT,
  reference_number TEXT,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestServiceStats_perUserCounts(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, row := range []models.Order{
		{UserID: 1, OrderNumber: "ORD-1", CustomerName: "A", Status: enums.OrderStatusPending, OrderDate: now},
		{UserID: 1, OrderNumber: "ORD-2", CustomerName: "B", Status: enums.OrderStatusFulfilled, OrderDate: now},
		{UserID: 2, OrderNumber: "ORD-3", CustomerName: "C", Status: enums.OrderStatusPending, OrderDate: now},
	} {
		require.NoError(t, db.Create(&row).Error)
	}

	require.NoError(t, db.Create(&models.SupplyOrder{
		UserID: 1, OrderNumber: "SUP-1", SupplierName: "S", Status: enums.SupplyOrderStatusOrdered, OrderDate: now,
	}).Error)

	reorder := 10
	for _, row := range []models.InventoryItem{
		{UserID: 1, Name: "Bolts", Quantity: 100, ReorderLevel: &reorder},
		{UserID: 1, Name: "Nuts", Quantity: 5, ReorderLevel: &reorder},
	} {
		item := row
		require.NoError(t, db.Create(&item).Error)
	}

	require.NoError(t, db.Create(&models.Collection{
		UserID: 1, OrderID: 1, Amount: decimal.RequireFromString("50"), DateCollected: now,
	}).Error)

	stats, err := svc.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Orders)
	assert.Equal(t, int64(1), stats.OpenOrders)
	assert.Equal(t, int64(1), stats.SupplyOrders)
	assert.Equal(t, int64(1), stats.OpenSupplies)
	assert.Equal(t, int64(2), stats.InventoryItems)
	assert.Equal(t, int64(1), stats.LowStockItems)
	assert.Equal(t, int64(1), stats.Collections)
	assert.Equal(t, int64(0), stats.Payments)

	other, err := svc.Stats(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(1), other.Orders)
	assert.Equal(t, int64(0), other.InventoryItems)
}
