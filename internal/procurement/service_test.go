package procurement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/willardc/stocktrack-backend/pkg/config"
	"github.com/willardc/stocktrack-backend/pkg/db/models"
	"github.com/willardc/stocktrack-backend/pkg/enums"
	pkgerrors "github.com/willardc/stocktrack-backend/pkg/errors"
	"github.com/willardc/stocktrack-backend/pkg/pagination"
)

type stubSupplyRepo struct {
	orders      map[int64]*models.SupplyOrder
	payments    map[int64]decimal.Decimal
	nextOrderID int64
	nextLineID  int64
}

func newStubSupplyRepo() *stubSupplyRepo {
	return &stubSupplyRepo{
		orders:      map[int64]*models.SupplyOrder{},
		payments:    map[int64]decimal.Decimal{},
		nextOrderID: 1,
		nextLineID:  1,
	}
}

func (s *stubSupplyRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubSupplyRepo) CreateSupplyOrder(ctx context.Context, order *models.SupplyOrder) (*models.SupplyOrder, error) {
	order.ID = s.nextOrderID
	s.nextOrderID++
	for i := range order.Items {
		order.Items[i].ID = s.nextLineID
		order.Items[i].SupplyOrderID = order.ID
		s.nextLineID++
	}
	clone := *order
	s.orders[order.ID] = &clone
	return order, nil
}

func (s *stubSupplyRepo) FindSupplyOrder(ctx context.Context, userID, orderID int64) (*models.SupplyOrder, error) {
	order, ok := s.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	clone.Items = append([]models.SupplyLineItem(nil), order.Items...)
	return &clone, nil
}

func (s *stubSupplyRepo) ListSupplyOrders(ctx context.Context, userID int64, params pagination.Params, filters SupplyOrderFilters) ([]models.SupplyOrder, string, error) {
	var rows []models.SupplyOrder
	for _, order := range s.orders {
		if order.UserID == userID {
			rows = append(rows, *order)
		}
	}
	return rows, "", nil
}

func (s *stubSupplyRepo) UpdateSupplyOrder(ctx context.Context, userID, orderID int64, updates map[string]any) error {
	order, ok := s.orders[orderID]
	if !ok || order.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["supplier_name"].(string); ok {
		order.SupplierName = name
	}
	return nil
}

func (s *stubSupplyRepo) UpdateSupplyOrderStatus(ctx context.Context, orderID int64, status enums.SupplyOrderStatus) error {
	order, ok := s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	return nil
}

func (s *stubSupplyRepo) DeleteSupplyOrder(ctx context.Context, userID, orderID int64) error {
	order, ok := s.orders[orderID]
	if !ok || order.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(s.orders, orderID)
	return nil
}

func (s *stubSupplyRepo) IncrementReceived(ctx context.Context, lineItemID int64, delta int) (bool, error) {
	for _, order := range s.orders {
		for i := range order.Items {
			item := &order.Items[i]
			if item.ID != lineItemID {
				continue
			}
			if item.QuantityReceived+delta > item.Quantity {
				return false, nil
			}
			item.QuantityReceived += delta
			return true, nil
		}
	}
	return false, nil
}

func (s *stubSupplyRepo) SumPaymentsByOrders(ctx context.Context, orderIDs []int64) (map[int64]decimal.Decimal, error) {
	sums := map[int64]decimal.Decimal{}
	for _, id := range orderIDs {
		if total, ok := s.payments[id]; ok {
			sums[id] = total
		}
	}
	return sums, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func seedSupplyOrder(t *testing.T, repo *stubSupplyRepo, userID int64, quantities ...int) *models.SupplyOrder {
	t.Helper()
	order := &models.SupplyOrder{
		UserID:       userID,
		OrderNumber:  "SUP-100",
		SupplierName: "Parts Warehouse",
		Status:       enums.SupplyOrderStatusOrdered,
		OrderDate:    time.Now().UTC(),
	}
	for _, qty := range quantities {
		order.Items = append(order.Items, models.SupplyLineItem{
			Name:     "Bearing",
			Quantity: qty,
			UnitCost: decimal.RequireFromString("4.00"),
		})
	}
	_, err := repo.CreateSupplyOrder(context.Background(), order)
	require.NoError(t, err)
	return order
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	var appErr *pkgerrors.Error
	require.True(t, errors.As(err, &appErr), "expected coded error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestServiceReceiveItems_movesThroughStatuses(t *testing.T) {
	repo := newStubSupplyRepo()
	svc, err := NewService(repo, stubTxRunner{}, config.FulfillmentConfig{CancelFromAnyState: true})
	require.NoError(t, err)
	order := seedSupplyOrder(t, repo, 1, 10)

	view, err := svc.ReceiveItems(context.Background(), ReceiptInput{
		UserID:        1,
		SupplyOrderID: order.ID,
		Receipts:      map[int64]int{order.Items[0].ID: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.SupplyOrderStatusPartiallyReceived, view.Order.Status)
	assert.Equal(t, 6, view.Order.Items[0].Remaining())

	view, err = svc.ReceiveItems(context.Background(), ReceiptInput{
		UserID:        1,
		SupplyOrderID: order.ID,
		Receipts:      map[int64]int{order.Items[0].ID: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.SupplyOrderStatusReceived, view.Order.Status)
	assert.Equal(t, enums.FulfillmentProgressFulfilled, view.Progress)
}

func TestServiceReceiveItems_batchIsAllOrNothing(t *testing.T) {
	repo := newStubSupplyRepo()
	svc, err := NewService(repo, stubTxRunner{}, config.FulfillmentConfig{CancelFromAnyState: true})
	require.NoError(t, err)
	order := seedSupplyOrder(t, repo, 1, 5, 3)

	_, err = svc.ReceiveItems(context.Background(), ReceiptInput{
		UserID:        1,
		SupplyOrderID: order.ID,
		Receipts: map[int64]int{
			order.Items[0].ID: 5,
			order.Items[1].ID: 4, // exceeds remaining
		},
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	stored, err := repo.FindSupplyOrder(context.Background(), 1, order.ID)
	require.NoError(t, err)
	for _, item := range stored.Items {
		assert.Equal(t, 0, item.QuantityReceived)
	}
	assert.Equal(t, enums.SupplyOrderStatusOrdered, stored.Status)
}

func TestServiceCreate_startsInDraft(t *testing.T) {
	repo := newStubSupplyRepo()
	svc, err := NewService(repo, stubTxRunner{}, config.FulfillmentConfig{CancelFromAnyState: true})
	require.NoError(t, err)

	view, err := svc.Create(context.Background(), CreateSupplyOrderInput{
		UserID:       1,
		SupplierName: "Parts Warehouse",
		OrderDate:    time.Now().UTC(),
		Items: []LineItemInput{
			{Name: "Bearing", Quantity: 10, UnitCost: decimal.RequireFromString("4.00")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.SupplyOrderStatusDraft, view.Order.Status)
	assert.True(t, view.TotalCost.Equal(decimal.RequireFromString("40.00")))
	assert.Equal(t, enums.CollectionStatusUnpaid, view.PaymentStatus)
}

func TestServiceCreate_rejectsWithoutValidLineItems(t *testing.T) {
	repo := newStubSupplyRepo()
	svc, err := NewService(repo, stubTxRunner{}, config.FulfillmentConfig{CancelFromAnyState: true})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateSupplyOrderInput{
		UserID:       1,
		SupplierName: "Parts Warehouse",
		OrderDate:    time.Now().UTC(),
		Items:        []LineItemInput{{Name: " ", Quantity: 2}},
	})
	assertCode(t, err, pkgerrors.CodeValidation)
	assert.Empty(t, repo.orders)
}

func TestServiceReceiveItems_crossUserFailsClosed(t *testing.T) {
	repo := newStubSupplyRepo()
	svc, err := NewService(repo, stubTxRunner{}, config.FulfillmentConfig{CancelFromAnyState: true})
	require.NoError(t, err)
	order := seedSupplyOrder(t, repo, 1, 5)

	_, err = svc.ReceiveItems(context.Background(), ReceiptInput{
		UserID:        2,
		SupplyOrderID: order.ID,
		Receipts:      map[int64]int{order.Items[0].ID: 1},
	})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceSetStatus_cancelSticky(t *testing.T) {
	repo := newStubSupplyRepo()
	svc, err := NewService(repo, stubTxRunner{}, config.FulfillmentConfig{CancelFromAnyState: true})
	require.NoError(t, err)
	order := seedSupplyOrder(t, repo, 1, 5)

	require.NoError(t, svc.SetStatus(context.Background(), SetStatusInput{
		UserID:        1,
		SupplyOrderID: order.ID,
		Status:        enums.SupplyOrderStatusCancelled,
	}))

	_, err = svc.ReceiveItems(context.Background(), ReceiptInput{
		UserID:        1,
		SupplyOrderID: order.ID,
		Receipts:      map[int64]int{order.Items[0].ID: 1},
	})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}
