package procurement

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/willardc/stocktrack-backend/pkg/db/models"
	"github.com/willardc/stocktrack-backend/pkg/enums"
	"github.com/willardc/stocktrack-backend/pkg/pagination"
)

// Repository defines persistence operations for supply orders and their line
// items, owner-filtered throughout.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateSupplyOrder(ctx context.Context, order *models.SupplyOrder) (*models.SupplyOrder, error)
	FindSupplyOrder(ctx context.Context, userID, orderID int64) (*models.SupplyOrder, error)
	ListSupplyOrders(ctx context.Context, userID int64, params pagination.Params, filters SupplyOrderFilters) ([]models.SupplyOrder, string, error)
	UpdateSupplyOrder(ctx context.Context, userID, orderID int64, updates map[string]any) error
	UpdateSupplyOrderStatus(ctx context.Context, orderID int64, status enums.SupplyOrderStatus) error
	DeleteSupplyOrder(ctx context.Context, userID, orderID int64) error
	// IncrementReceived applies the delta with a conditional update enforcing
	// quantity_received + delta <= quantity inside the statement. Reports
	// false when the guard rejected the increment.
	IncrementReceived(ctx context.Context, lineItemID int64, delta int) (bool, error)
	SumPaymentsByOrders(ctx context.Context, orderIDs []int64) (map[int64]decimal.Decimal, error)
}
