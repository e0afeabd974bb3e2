package procurement

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/willardc/stocktrack-backend/pkg/db/models"
	"github.com/willardc/stocktrack-backend/pkg/enums"
	"github.com/willardc/stocktrack-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a procurement repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateSupplyOrder(ctx context.Context, order *models.SupplyOrder) (*models.SupplyOrder, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindSupplyOrder(ctx context.Context, userID, orderID int64) (*models.SupplyOrder, error) {
	var order models.SupplyOrder
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("supply_line_items.id ASC")
		}).
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListSupplyOrders(ctx context.Context, userID int64, params pagination.Params, filters SupplyOrderFilters) ([]models.SupplyOrder, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	limit := pagination.NormalizeLimit(params.Limit)

	q := r.db.WithContext(ctx).
		Model(&models.SupplyOrder{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("supply_line_items.id ASC")
		}).
		Where("user_id = ?", userID)

	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if filters.Query != "" {
		pattern := "%" + strings.ToLower(filters.Query) + "%"
		q = q.Where("LOWER(order_number) LIKE ? OR LOWER(supplier_name) LIKE ?", pattern, pattern)
	}
	if cursor != nil {
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.SupplyOrder
	err = q.Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

func (r *repository) UpdateSupplyOrder(ctx context.Context, userID, orderID int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.SupplyOrder{}).
		Where("id = ? AND user_id = ?", orderID, userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpdateSupplyOrderStatus(ctx context.Context, orderID int64, status enums.SupplyOrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.SupplyOrder{}).
		Where("id = ?", orderID).
		Update("status", status).Error
}

func (r *repository) DeleteSupplyOrder(ctx context.Context, userID, orderID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", orderID, userID).
		Delete(&models.SupplyOrder{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) IncrementReceived(ctx context.Context, lineItemID int64, delta int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE supply_line_items
		SET quantity_received = quantity_received + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND quantity_received + ? <= quantity
	`, delta, lineItemID, delta)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) SumPaymentsByOrders(ctx context.Context, orderIDs []int64) (map[int64]decimal.Decimal, error) {
	sums := make(map[int64]decimal.Decimal, len(orderIDs))
	if len(orderIDs) == 0 {
		return sums, nil
	}

	var rows []struct {
		SupplyOrderID int64
		Total         decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.SupplierPayment{}).
		Select("supply_order_id, COALESCE(SUM(amount), 0) AS total").
		Where("supply_order_id IN ?", orderIDs).
		Group("supply_order_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		sums[row.SupplyOrderID] = row.Total
	}
	return sums, nil
}
