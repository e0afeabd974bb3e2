package orders

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/willardc/stocktrack-backend/pkg/db/models"
	"github.com/willardc/stocktrack-backend/pkg/enums"
	"github.com/willardc/stocktrack-backend/pkg/pagination"
)

// Repository defines persistence operations for customer orders and their
// line items. Every read and write is filtered by the owning user id;
// cross-user references surface as record-not-found.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindOrder(ctx context.Context, userID, orderID int64) (*models.Order, error)
	ListOrders(ctx context.Context, userID int64, params pagination.Params, filters OrderFilters) ([]models.Order, string, error)
	UpdateOrder(ctx context.Context, userID, orderID int64, updates map[string]any) error
	UpdateOrderStatus(ctx context.Context, orderID int64, status enums.OrderStatus) error
	DeleteOrder(ctx context.Context, userID, orderID int64) error
	// IncrementDelivered applies the delta with a conditional update that
	// enforces quantity_delivered + delta <= quantity inside the statement.
	// It reports false when the guard rejected the increment.
	IncrementDelivered(ctx context.Context, lineItemID int64, delta int) (bool, error)
	SumCollectionsByOrders(ctx context.Context, orderIDs []int64) (map[int64]decimal.Decimal, error)
}
