package collections

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

type stubCollectionsRepo struct {
	order   *models.Order
	records map[int64]*models.Collection
	nextID  int64
}

func newStubCollectionsRepo(order *models.Order) *stubCollectionsRepo {
	return &stubCollectionsRepo{
		order:   order,
		records: map[int64]*models.Collection{},
		nextID:  1,
	}
}

func (s *stubCollectionsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCollectionsRepo) Create(ctx context.Context, record *models.Collection) error {
	record.ID = s.nextID
	s.nextID++
	clone := *record
	s.records[record.ID] = &clone
	return nil
}

func (s *stubCollectionsRepo) ListByOrder(ctx context.Context, userID, orderID int64) ([]models.Collection, error) {
	var out []models.Collection
	for id := int64(1); id < s.nextID; id++ {
		record, ok := s.records[id]
		if ok && record.UserID == userID && record.OrderID == orderID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (s *stubCollectionsRepo) Delete(ctx context.Context, userID, recordID int64) error {
	record, ok := s.records[recordID]
	if !ok || record.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(s.records, recordID)
	return nil
}

func (s *stubCollectionsRepo) FindOrder(ctx context.Context, userID, orderID int64) (*models.Order, error) {
	if s.order == nil || s.order.ID != orderID || s.order.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func orderWithTotal(userID int64, total string) *models.Order {
	return &models.Order{
		ID:     10,
		UserID: userID,
		Items: []models.OrderLineItem{
			{Quantity: 1, UnitPrice: decimal.RequireFromString(total)},
		},
	}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	var appErr *pkgerrors.Error
	require.True(t, errors.As(err, &appErr), "expected coded error, got %v", err)
	assert.Equal(t, code, appErr.Code())
}

func TestServicePartialCollectionLifecycle(t *testing.T) {
	repo := newStubCollectionsRepo(orderWithTotal(1, "1000"))
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err = svc.Record(ctx, RecordCollectionInput{
		UserID: 1, OrderID: 10,
		Amount:        decimal.RequireFromString("400"),
		DateCollected: now,
	})
	require.NoError(t, err)

	view, err := svc.ListByOrder(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, view.Balance.Equal(decimal.RequireFromString("600")))
	assert.Equal(t, enums.CollectionStatusPartiallyCollected, view.Status)

	second, err := svc.Record(ctx, RecordCollectionInput{
		UserID: 1, OrderID: 10,
		Amount:        decimal.RequireFromString("600"),
		DateCollected: now,
	})
	require.NoError(t, err)

	view, err = svc.ListByOrder(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, view.Balance.Equal(decimal.Zero))
	assert.Equal(t, enums.CollectionStatusFullyCollected, view.Status)

	// reversing the second record reverts the derived state
	require.NoError(t, svc.Delete(ctx, 1, second.ID))
	view, err = svc.ListByOrder(ctx, 1, 10)
	require.NoError(t, err)
	assert.True(t, view.Balance.Equal(decimal.RequireFromString("600")))
	assert.Equal(t, enums.CollectionStatusPartiallyCollected, view.Status)
}

func TestServiceRecord_validation(t *testing.T) {
	repo := newStubCollectionsRepo(orderWithTotal(1, "1000"))
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Record(ctx, RecordCollectionInput{
		UserID: 1, OrderID: 10,
		Amount:        decimal.Zero,
		DateCollected: time.Now().UTC(),
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Record(ctx, RecordCollectionInput{
		UserID: 1, OrderID: 10,
		Amount: decimal.RequireFromString("-5"),
	})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceRecord_crossUserOrderFailsClosed(t *testing.T) {
	repo := newStubCollectionsRepo(orderWithTotal(1, "1000"))
	svc, err := NewService(repo)
	require.NoError(t, err)

	_, err = svc.Record(context.Background(), RecordCollectionInput{
		UserID: 2, OrderID: 10,
		Amount:        decimal.RequireFromString("100"),
		DateCollected: time.Now().UTC(),
	})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceDelete_crossUserFailsClosed(t *testing.T) {
	repo := newStubCollectionsRepo(orderWithTotal(1, "1000"))
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	record, err := svc.Record(ctx, RecordCollectionInput{
		UserID: 1, OrderID: 10,
		Amount:        decimal.RequireFromString("100"),
		DateCollected: time.Now().UTC(),
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, 2, record.ID)
	assertCode(t, err, pkgerrors.CodeNotFound)
}
