package collections

import (
	"context"

	"gorm.io/gorm"

	"github.com/willardc/stocktrack-backend/pkg/db/models"
)

// Repository manages persistence for the collections ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.Collection) error
	ListByOrder(ctx context.Context, userID, orderID int64) ([]models.Collection, error)
	Delete(ctx context.Context, userID, recordID int64) error
	// FindOrder resolves the referenced order under the caller's ownership,
	// with line items loaded for total computation.
	FindOrder(ctx context.Context, userID, orderID int64) (*models.Order, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a collections repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.Collection) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) ListByOrder(ctx context.Context, userID, orderID int64) ([]models.Collection, error) {
	var records []models.Collection
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND order_id = ?", userID, orderID).
		Order("date_collected ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) Delete(ctx context.Context, userID, recordID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", recordID, userID).
		Delete(&models.Collection{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
