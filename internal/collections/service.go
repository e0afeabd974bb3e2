package collections

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/willardc/stocktrack-backend/internal/fulfillment"
	"github.com/willardc/stocktrack-backend/pkg/db/models"
	"github.com/willardc/stocktrack-backend/pkg/enums"
	pkgerrors "github.com/willardc/stocktrack-backend/pkg/errors"
)

// Service records and reverses cash collections against customer orders.
// Records are append-only; correcting an amount is delete-and-recreate.
type Service interface {
	Record(ctx context.Context, input RecordCollectionInput) (*models.Collection, error)
	ListByOrder(ctx context.Context, userID, orderID int64) (*LedgerView, error)
	Delete(ctx context.Context, userID, recordID int64) error
}

// RecordCollectionInput captures the immutable data a collection requires.
type RecordCollectionInput struct {
	UserID          int64
	OrderID         int64
	Amount          decimal.Decimal
	DateCollected   time.Time
	PaymentMethod   *string
	ReferenceNumber *string
}

// LedgerView is the order's collection records with the derived balance.
type LedgerView struct {
	Records      []models.Collection    `json:"records"`
	OrderTotal   decimal.Decimal        `json:"order_total"`
	TotalApplied decimal.Decimal        `json:"total_applied"`
	Balance      decimal.Decimal        `json:"balance"`
	Status       enums.CollectionStatus `json:"status"`
}

type service struct {
	repo Repository
}

// NewService wires a collections service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("collections repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, input RecordCollectionInput) (*models.Collection, error) {
	if input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.OrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.DateCollected.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collection date required")
	}

	// ownership check doubles as existence check; cross-user ids fail closed
	if _, err := s.repo.FindOrder(ctx, input.UserID, input.OrderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	record := &models.Collection{
		UserID:          input.UserID,
		OrderID:         input.OrderID,
		Amount:          input.Amount,
		DateCollected:   input.DateCollected,
		PaymentMethod:   input.PaymentMethod,
		ReferenceNumber: input.ReferenceNumber,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record collection")
	}
	return record, nil
}

func (s *service) ListByOrder(ctx context.Context, userID, orderID int64) (*LedgerView, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	order, err := s.repo.FindOrder(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	records, err := s.repo.ListByOrder(ctx, userID, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list collections")
	}

	applied := decimal.Zero
	for _, record := range records {
		applied = applied.Add(record.Amount)
	}
	total := fulfillment.OrderTotal(order.Items)

	return &LedgerView{
		Records:      records,
		OrderTotal:   total,
		TotalApplied: applied,
		Balance:      fulfillment.Balance(total, applied),
		Status:       fulfillment.CollectionStatusFor(total, applied),
	}, nil
}

func (s *service) Delete(ctx context.Context, userID, recordID int64) error {
	if userID <= 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if recordID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "collection id required")
	}

	if err := s.repo.Delete(ctx, userID, recordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "collection not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete collection")
	}
	return nil
}
