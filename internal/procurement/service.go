package procurement

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/willardc/stocktrack-backend/internal/fulfillment"
	"github.com/willardc/stocktrack-backend/pkg/config"
	"github.com/willardc/stocktrack-backend/pkg/db/models"
	"github.com/willardc/stocktrack-backend/pkg/enums"
	pkgerrors "github.com/willardc/stocktrack-backend/pkg/errors"
	"github.com/willardc/stocktrack-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines supply order operations.
type Service interface {
	Create(ctx context.Context, input CreateSupplyOrderInput) (*SupplyOrderView, error)
	Get(ctx context.Context, userID, orderID int64) (*SupplyOrderView, error)
	List(ctx context.Context, userID int64, params pagination.Params, filters SupplyOrderFilters) (*SupplyOrderList, error)
	Update(ctx context.Context, input UpdateSupplyOrderInput) (*SupplyOrderView, error)
	Delete(ctx context.Context, userID, orderID int64) error
	ReceiveItems(ctx context.Context, input ReceiptInput) (*SupplyOrderView, error)
	SetStatus(ctx context.Context, input SetStatusInput) error
}

type service struct {
	repo Repository
	tx   txRunner
	cfg  config.FulfillmentConfig
}

// NewService builds a procurement service with the required dependencies.
func NewService(repo Repository, tx txRunner, cfg config.FulfillmentConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("procurement repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, cfg: cfg}, nil
}

func (s *service) Create(ctx context.Context, input CreateSupplyOrderInput) (*SupplyOrderView, error) {
	if input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.SupplierName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name required")
	}
	if input.OrderDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order date required")
	}

	items, err := validLineItems(input.Items)
	if err != nil {
		return nil, err
	}

	order := &models.SupplyOrder{
		UserID:               input.UserID,
		OrderNumber:          strings.TrimSpace(input.OrderNumber),
		SupplierName:         strings.TrimSpace(input.SupplierName),
		Status:               enums.SupplyOrderStatusDraft,
		OrderDate:            input.OrderDate,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		TrackingReference:    input.TrackingReference,
		Notes:                input.Notes,
		DocumentURL:          input.DocumentURL,
		Items:                items,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).CreateSupplyOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supply order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := s.buildView(*order, decimal.Zero)
	return &view, nil
}

func (s *service) Get(ctx context.Context, userID, orderID int64) (*SupplyOrderView, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supply order id required")
	}

	order, err := s.repo.FindSupplyOrder(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supply order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supply order")
	}

	sums, err := s.repo.SumPaymentsByOrders(ctx, []int64{order.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum payments")
	}

	view := s.buildView(*order, sums[order.ID])
	return &view, nil
}

func (s *service) List(ctx context.Context, userID int64, params pagination.Params, filters SupplyOrderFilters) (*SupplyOrderList, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	rows, nextCursor, err := s.repo.ListSupplyOrders(ctx, userID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supply orders")
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	sums, err := s.repo.SumPaymentsByOrders(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum payments")
	}

	views := make([]SupplyOrderView, 0, len(rows))
	for _, row := range rows {
		views = append(views, s.buildView(row, sums[row.ID]))
	}
	return &SupplyOrderList{Orders: views, NextCursor: nextCursor}, nil
}

func (s *service) Update(ctx context.Context, input UpdateSupplyOrderInput) (*SupplyOrderView, error) {
	if input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.SupplyOrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supply order id required")
	}

	updates := map[string]any{}
	if input.OrderNumber != nil {
		updates["order_number"] = strings.TrimSpace(*input.OrderNumber)
	}
	if input.SupplierName != nil {
		name := strings.TrimSpace(*input.SupplierName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name cannot be empty")
		}
		updates["supplier_name"] = name
	}
	if input.OrderDate != nil {
		updates["order_date"] = *input.OrderDate
	}
	if input.ExpectedDeliveryDate != nil {
		updates["expected_delivery_date"] = *input.ExpectedDeliveryDate
	}
	if input.TrackingReference != nil {
		updates["tracking_reference"] = *input.TrackingReference
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.DocumentURL != nil {
		updates["document_url"] = *input.DocumentURL
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.UpdateSupplyOrder(ctx, input.UserID, input.SupplyOrderID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supply order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update supply order")
	}

	return s.Get(ctx, input.UserID, input.SupplyOrderID)
}

func (s *service) Delete(ctx context.Context, userID, orderID int64) error {
	if userID <= 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "supply order id required")
	}

	if err := s.repo.DeleteSupplyOrder(ctx, userID, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supply order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete supply order")
	}
	return nil
}

func (s *service) ReceiveItems(ctx context.Context, input ReceiptInput) (*SupplyOrderView, error) {
	if input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.SupplyOrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supply order id required")
	}
	if len(input.Receipts) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one receipt entry required")
	}
	for lineItemID, qty := range input.Receipts {
		if qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("receipt quantity for line item %d must be positive", lineItemID))
		}
	}

	var view SupplyOrderView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindSupplyOrder(ctx, input.UserID, input.SupplyOrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "supply order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supply order")
		}
		if order.Status == enums.SupplyOrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "supply order is cancelled")
		}

		byID := make(map[int64]models.SupplyLineItem, len(order.Items))
		for _, item := range order.Items {
			byID[item.ID] = item
		}
		for _, lineItemID := range sortedKeys(input.Receipts) {
			qty := input.Receipts[lineItemID]
			item, ok := byID[lineItemID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("line item %d does not belong to supply order", lineItemID))
			}
			if qty > item.Remaining() {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("line item %d: quantity %d exceeds remaining %d", lineItemID, qty, item.Remaining()))
			}
		}

		for _, lineItemID := range sortedKeys(input.Receipts) {
			applied, err := repo.IncrementReceived(ctx, lineItemID, input.Receipts[lineItemID])
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply receipt")
			}
			if !applied {
				return pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("line item %d: remaining quantity changed, retry the receipt", lineItemID))
			}
		}

		order, err = repo.FindSupplyOrder(ctx, input.UserID, input.SupplyOrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload supply order")
		}

		progress := fulfillment.Progress(fulfillment.SupplyLines(order.Items))
		status := fulfillment.SupplyOrderStatusFor(order.Status, progress)
		if status != order.Status {
			if err := repo.UpdateSupplyOrderStatus(ctx, order.ID, status); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist supply order status")
			}
			order.Status = status
		}

		sums, err := repo.SumPaymentsByOrders(ctx, []int64{order.ID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum payments")
		}
		view = s.buildView(*order, sums[order.ID])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// SetStatus is the administrative override: any target state, no quantity
// validation.
func (s *service) SetStatus(ctx context.Context, input SetStatusInput) error {
	if input.UserID <= 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.SupplyOrderID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "supply order id required")
	}
	if !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid supply order status")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindSupplyOrder(ctx, input.UserID, input.SupplyOrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "supply order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supply order")
		}
		if order.Status == input.Status {
			return nil
		}
		if input.Status == enums.SupplyOrderStatusCancelled &&
			!s.cfg.CancelFromAnyState &&
			order.Status == enums.SupplyOrderStatusReceived {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "received orders cannot be cancelled")
		}

		if err := repo.UpdateSupplyOrderStatus(ctx, order.ID, input.Status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update supply order status")
		}
		return nil
	})
}

func (s *service) buildView(order models.SupplyOrder, paid decimal.Decimal) SupplyOrderView {
	total := fulfillment.SupplyTotal(order.Items)
	return SupplyOrderView{
		Order:         order,
		TotalCost:     total,
		Progress:      fulfillment.Progress(fulfillment.SupplyLines(order.Items)),
		AmountPaid:    paid,
		Balance:       fulfillment.Balance(total, paid),
		PaymentStatus: fulfillment.CollectionStatusFor(total, paid),
	}
}

func validLineItems(inputs []LineItemInput) ([]models.SupplyLineItem, error) {
	items := make([]models.SupplyLineItem, 0, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" || in.Quantity <= 0 {
			continue
		}
		if in.UnitCost.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("unit cost for %q cannot be negative", name))
		}
		items = append(items, models.SupplyLineItem{
			Name:       name,
			PartNumber: in.PartNumber,
			Quantity:   in.Quantity,
			UnitCost:   in.UnitCost,
		})
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supply order requires at least one valid line item")
	}
	return items, nil
}

func sortedKeys(entries map[int64]int) []int64 {
	keys := make([]int64, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
