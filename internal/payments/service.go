package payments

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

// Service records and reverses payments made to suppliers against supply
// orders. Same append-only rules as collections: no edit-in-place.
type Service interface {
	Record(ctx context.Context, input RecordPaymentInput) (*models.SupplierPayment, error)
	ListByOrder(ctx context.Context, userID, supplyOrderID int64) (*LedgerView, error)
	Delete(ctx context.Context, userID, recordID int64) error
}

// RecordPaymentInput captures the immutable data a payment requires.
type RecordPaymentInput struct {
	UserID          int64
	SupplyOrderID   int64
	Amount          decimal.Decimal
	DatePaid        time.Time
	PaymentMethod   *string
	ReferenceNumber *string
}

// LedgerView is the supply order's payment records with the derived balance.
type LedgerView struct {
	Records      []models.SupplierPayment `json:"records"`
	OrderTotal   decimal.Decimal          `json:"order_total"`
	TotalApplied decimal.Decimal          `json:"total_applied"`
	Balance      decimal.Decimal          `json:"balance"`
	Status       enums.CollectionStatus   `json:"status"`
}

type service struct {
	repo Repository
}

// NewService wires a payments service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, input RecordPaymentInput) (*models.SupplierPayment, error) {
	if input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.SupplyOrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supply order id required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.DatePaid.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment date required")
	}

	if _, err := s.repo.FindSupplyOrder(ctx, input.UserID, input.SupplyOrderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supply order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supply order")
	}

	record := &models.SupplierPayment{
		UserID:          input.UserID,
		SupplyOrderID:   input.SupplyOrderID,
		Amount:          input.Amount,
		DatePaid:        input.DatePaid,
		PaymentMethod:   input.PaymentMethod,
		ReferenceNumber: input.ReferenceNumber,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
	}
	return record, nil
}

func (s *service) ListByOrder(ctx context.Context, userID, supplyOrderID int64) (*LedgerView, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if supplyOrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supply order id required")
	}

	order, err := s.repo.FindSupplyOrder(ctx, userID, supplyOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supply order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supply order")
	}

	records, err := s.repo.ListByOrder(ctx, userID, supplyOrderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}

	applied := decimal.Zero
	for _, record := range records {
		applied = applied.Add(record.Amount)
	}
	total := fulfillment.SupplyTotal(order.Items)

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
		return pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}

	if err := s.repo.Delete(ctx, userID, recordID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete payment")
	}
	return nil
}
