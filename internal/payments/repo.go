package payments

import (
	"context"

	"gorm.io/gorm"

	"github.com/willardc/stocktrack-backend/pkg/db/models"
)

// Repository manages persistence for the supplier payment ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.SupplierPayment) error
	ListByOrder(ctx context.Context, userID, supplyOrderID int64) ([]models.SupplierPayment, error)
	Delete(ctx context.Context, userID, recordID int64) error
	FindSupplyOrder(ctx context.Context, userID, supplyOrderID int64) (*models.SupplyOrder, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a payments repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.SupplierPayment) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) ListByOrder(ctx context.Context, userID, supplyOrderID int64) ([]models.SupplierPayment, error) {
	var records []models.SupplierPayment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND supply_order_id = ?", userID, supplyOrderID).
		Order("date_paid ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) Delete(ctx context.Context, userID, recordID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", recordID, userID).
		Delete(&models.SupplierPayment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindSupplyOrder(ctx context.Context, userID, supplyOrderID int64) (*models.SupplyOrder, error) {
	var order models.SupplyOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", supplyOrderID, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
