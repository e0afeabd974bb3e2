package payments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/willardc/stocktrack-backend/pkg/db/models"
	"github.com/willardc/stocktrack-backend/pkg/enums"
	pkgerrors "github.com/willardc/stocktrack-backend/pkg/errors"
)

type stubPaymentsRepo struct {
	order   *models.SupplyOrder
	records map[int64]*models.SupplierPayment
	nextID  int64
}

func newStubPaymentsRepo(order *models.SupplyOrder) *stubPaymentsRepo {
	return &stubPaymentsRepo{
		order:   order,
		records: map[int64]*models.SupplierPayment{},
		nextID:  1,
	}
}

func (s *stubPaymentsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPaymentsRepo) Create(ctx context.Context, record *models.SupplierPayment) error {
	record.ID = s.nextID
	s.nextID++
	clone := *record
	s.records[record.ID] = &clone
	return nil
}

func (s *stubPaymentsRepo) ListByOrder(ctx context.Context, userID, supplyOrderID int64) ([]models.SupplierPayment, error) {
	var out []models.SupplierPayment
	for id := int64(1); id < s.nextID; id++ {
		record, ok := s.records[id]
		if ok && record.UserID == userID && record.SupplyOrderID == supplyOrderID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (s *stubPaymentsRepo) Delete(ctx context.Context, userID, recordID int64) error {
	record, ok := s.records[recordID]
	if !ok || record.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(s.records, recordID)
	return nil
}

func (s *stubPaymentsRepo) FindSupplyOrder(ctx context.Context, userID, supplyOrderID int64) (*models.SupplyOrder, error) {
	if s.order == nil || s.order.ID != supplyOrderID || s.order.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func TestServicePaymentLedger(t *testing.T) {
	order := &models.SupplyOrder{
		ID:     7,
		UserID: 1,
		Items: []models.SupplyLineItem{
			{Quantity: 5, UnitCost: decimal.RequireFromString("100")},
		},
	}
	repo := newStubPaymentsRepo(order)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err = svc.Record(ctx, RecordPaymentInput{
		UserID: 1, SupplyOrderID: 7,
		Amount:   decimal.RequireFromString("200"),
		DatePaid: now,
	})
	require.NoError(t, err)

	view, err := svc.ListByOrder(ctx, 1, 7)
	require.NoError(t, err)
	assert.True(t, view.OrderTotal.Equal(decimal.RequireFromString("500")))
	assert.True(t, view.Balance.Equal(decimal.RequireFromString("300")))
	assert.Equal(t, enums.CollectionStatusPartiallyCollected, view.Status)

	record, err := svc.Record(ctx, RecordPaymentInput{
		UserID: 1, SupplyOrderID: 7,
		Amount:   decimal.RequireFromString("300"),
		DatePaid: now,
	})
	require.NoError(t, err)

	view, err = svc.ListByOrder(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, enums.CollectionStatusFullyCollected, view.Status)

	require.NoError(t, svc.Delete(ctx, 1, record.ID))
	view, err = svc.ListByOrder(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, enums.CollectionStatusPartiallyCollected, view.Status)
}

func TestServiceRecord_rejectsNonPositiveAmount(t *testing.T) {
	order := &models.SupplyOrder{ID: 7, UserID: 1}
	svc, err := NewService(newStubPaymentsRepo(order))
	require.NoError(t, err)

	_, err = svc.Record(context.Background(), RecordPaymentInput{
		UserID: 1, SupplyOrderID: 7,
		Amount:   decimal.Zero,
		DatePaid: time.Now().UTC(),
	})
	var appErr *pkgerrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestServiceRecord_crossUserFailsClosed(t *testing.T) {
	order := &models.SupplyOrder{ID: 7, UserID: 1}
	svc, err := NewService(newStubPaymentsRepo(order))
	require.NoError(t, err)

	_, err = svc.Record(context.Background(), RecordPaymentInput{
		UserID: 2, SupplyOrderID: 7,
		Amount:   decimal.RequireFromString("50"),
		DatePaid: time.Now().UTC(),
	})
	var appErr *pkgerrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
