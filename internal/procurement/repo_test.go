package procurement

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
	"github.com/willardc/stocktrack-backend/pkg/pagination"
)

func setupProcurementTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	supplyOrders := `
CREATE TABLE IF NOT EXISTS supply_orders (
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
);`
	lineItems := `
CREATE TABLE IF NOT EXISTS supply_line_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  supply_order_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  part_number TEXT,
  quantity INTEGER NOT NULL,
  unit_cost NUMERIC NOT NULL DEFAULT 0,
  quantity_received INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	payments := `
CREATE TABLE IF NOT EXISTS supplier_payments (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  supply_order_id INTEGER NOT NULL,
  amount NUMERIC NOT NULL,
  date_paid DATETIME NOT NULL,
  payment_method TEXT,
  reference_number TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(supplyOrders).Error)
	require.NoError(t, db.Exec(lineItems).Error)
	require.NoError(t, db.Exec(payments).Error)
	return db
}

func createTestSupplyOrder(t *testing.T, db *gorm.DB, userID int64, number string, created time.Time, quantities ...int) *models.SupplyOrder {
	t.Helper()

	order := &models.SupplyOrder{
		UserID:       userID,
		OrderNumber:  number,
		SupplierName: "Parts Warehouse",
		Status:       enums.SupplyOrderStatusOrdered,
		OrderDate:    created,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, qty := range quantities {
		order.Items = append(order.Items, models.SupplyLineItem{
			Name:     "Bearing",
			Quantity: qty,
			UnitCost: decimal.RequireFromString("4.00"),
		})
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryIncrementReceived(t *testing.T) {
	db := setupProcurementTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := createTestSupplyOrder(t, db, 1, "SUP-001", time.Now().UTC(), 8)
	lineID := order.Items[0].ID

	applied, err := repo.IncrementReceived(ctx, lineID, 8)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = repo.IncrementReceived(ctx, lineID, 1)
	require.NoError(t, err)
	assert.False(t, applied)

	var item models.SupplyLineItem
	require.NoError(t, db.First(&item, lineID).Error)
	assert.Equal(t, 8, item.QuantityReceived)
}

func TestRepositoryFindSupplyOrder_ownerScoped(t *testing.T) {
	db := setupProcurementTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := createTestSupplyOrder(t, db, 1, "SUP-001", time.Now().UTC(), 5)

	found, err := repo.FindSupplyOrder(ctx, 1, order.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)

	_, err = repo.FindSupplyOrder(ctx, 2, order.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryListSupplyOrders_pagination(t *testing.T) {
	db := setupProcurementTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	createTestSupplyOrder(t, db, 1, "SUP-001", now.Add(-time.Hour), 2)
	createTestSupplyOrder(t, db, 1, "SUP-002", now, 3)

	rows, nextCursor, err := repo.ListSupplyOrders(ctx, 1, pagination.Params{Limit: 1}, SupplyOrderFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SUP-002", rows[0].OrderNumber)
	require.NotEmpty(t, nextCursor)

	rows, nextCursor, err = repo.ListSupplyOrders(ctx, 1, pagination.Params{Limit: 1, Cursor: nextCursor}, SupplyOrderFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SUP-001", rows[0].OrderNumber)
	assert.Empty(t, nextCursor)
}

func TestRepositorySumPaymentsByOrders(t *testing.T) {
	db := setupProcurementTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	order := createTestSupplyOrder(t, db, 1, "SUP-001", now, 5)

	require.NoError(t, db.Create(&models.SupplierPayment{
		UserID:        1,
		SupplyOrderID: order.ID,
		Amount:        decimal.RequireFromString("12.50"),
		DatePaid:      now,
	}).Error)

	sums, err := repo.SumPaymentsByOrders(ctx, []int64{order.ID})
	require.NoError(t, err)
	assert.True(t, sums[order.ID].Equal(decimal.RequireFromString("12.50")))
}
