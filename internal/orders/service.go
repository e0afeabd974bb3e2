package orders

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

// Service defines customer order operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*OrderView, error)
	Get(ctx context.Context, userID, orderID int64) (*OrderView, error)
	List(ctx context.Context, userID int64, params pagination.Params, filters OrderFilters) (*OrderList, error)
	Update(ctx context.Context, input UpdateOrderInput) (*OrderView, error)
	Delete(ctx context.Context, userID, orderID int64) error
	ApplyDelivery(ctx context.Context, input DeliveryInput) (*OrderView, error)
	SetStatus(ctx context.Context, input SetStatusInput) error
}

type service struct {
	repo Repository
	tx   txRunner
	cfg  config.FulfillmentConfig
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, cfg config.FulfillmentConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, cfg: cfg}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderView, error) {
	if input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if input.OrderDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order date required")
	}

	items, err := validLineItems(input.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:               input.UserID,
		OrderNumber:          strings.TrimSpace(input.OrderNumber),
		CustomerName:         strings.TrimSpace(input.CustomerName),
		Status:               enums.OrderStatusPending,
		OrderDate:            input.OrderDate,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
		TrackingReference:    input.TrackingReference,
		Notes:                input.Notes,
		DocumentURL:          input.DocumentURL,
		Items:                items,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		// order and line items persist as one unit
		_, err := s.repo.WithTx(tx).CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := s.buildView(*order, decimal.Zero)
	return &view, nil
}

func (s *service) Get(ctx context.Context, userID, orderID int64) (*OrderView, error) {
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

	sums, err := s.repo.SumCollectionsByOrders(ctx, []int64{order.ID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum collections")
	}

	view := s.buildView(*order, sums[order.ID])
	return &view, nil
}

func (s *service) List(ctx context.Context, userID int64, params pagination.Params, filters OrderFilters) (*OrderList, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	rows, nextCursor, err := s.repo.ListOrders(ctx, userID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	sums, err := s.repo.SumCollectionsByOrders(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum collections")
	}

	views := make([]OrderView, 0, len(rows))
	for _, row := range rows {
		views = append(views, s.buildView(row, sums[row.ID]))
	}
	return &OrderList{Orders: views, NextCursor: nextCursor}, nil
}

func (s *service) Update(ctx context.Context, input UpdateOrderInput) (*OrderView, error) {
	if input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.OrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	updates := map[string]any{}
	if input.OrderNumber != nil {
		updates["order_number"] = strings.TrimSpace(*input.OrderNumber)
	}
	if input.CustomerName != nil {
		name := strings.TrimSpace(*input.CustomerName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name cannot be empty")
		}
		updates["customer_name"] = name
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

	if err := s.repo.UpdateOrder(ctx, input.UserID, input.OrderID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
	}

	return s.Get(ctx, input.UserID, input.OrderID)
}

func (s *service) Delete(ctx context.Context, userID, orderID int64) error {
	if userID <= 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	if err := s.repo.DeleteOrder(ctx, userID, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func (s *service) ApplyDelivery(ctx context.Context, input DeliveryInput) (*OrderView, error) {
	if input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.OrderID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if len(input.Deliveries) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one delivery entry required")
	}
	for lineItemID, qty := range input.Deliveries {
		if qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("delivery quantity for line item %d must be positive", lineItemID))
		}
	}

	var view OrderView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.UserID, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is cancelled")
		}

		byID := make(map[int64]models.OrderLineItem, len(order.Items))
		for _, item := range order.Items {
			byID[item.ID] = item
		}
		for _, lineItemID := range sortedKeys(input.Deliveries) {
			qty := input.Deliveries[lineItemID]
			item, ok := byID[lineItemID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("line item %d does not belong to order", lineItemID))
			}
			if qty > item.Remaining() {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("line item %d: quantity %d exceeds remaining %d", lineItemID, qty, item.Remaining()))
			}
		}

		// the conditional update re-checks remaining inside the statement,
		// so a concurrent delivery between read and write rolls back the
		// whole batch instead of double-counting
		for _, lineItemID := range sortedKeys(input.Deliveries) {
			applied, err := repo.IncrementDelivered(ctx, lineItemID, input.Deliveries[lineItemID])
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply delivery")
			}
			if !applied {
				return pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("line item %d: remaining quantity changed, retry the delivery", lineItemID))
			}
		}

		order, err = repo.FindOrder(ctx, input.UserID, input.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload order")
		}

		progress := fulfillment.Progress(fulfillment.OrderLines(order.Items))
		status := fulfillment.OrderStatusFor(order.Status, progress)
		if status != order.Status {
			if err := repo.UpdateOrderStatus(ctx, order.ID, status); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order status")
			}
			order.Status = status
		}

		sums, err := repo.SumCollectionsByOrders(ctx, []int64{order.ID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum collections")
		}
		view = s.buildView(*order, sums[order.ID])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// SetStatus is the administrative override: no quantity validation, any
// target state, stored status may diverge from the computed one until the
// next delivery recomputes it.
func (s *service) SetStatus(ctx context.Context, input SetStatusInput) error {
	if input.UserID <= 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.OrderID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.UserID, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status == input.Status {
			return nil
		}
		if input.Status == enums.OrderStatusCancelled &&
			!s.cfg.CancelFromAnyState &&
			order.Status == enums.OrderStatusFulfilled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "fulfilled orders cannot be cancelled")
		}

		if err := repo.UpdateOrderStatus(ctx, order.ID, input.Status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		return nil
	})
}

func (s *service) buildView(order models.Order, collected decimal.Decimal) OrderView {
	total := fulfillment.OrderTotal(order.Items)
	return OrderView{
		Order:            order,
		TotalAmount:      total,
		Progress:         fulfillment.Progress(fulfillment.OrderLines(order.Items)),
		AmountCollected:  collected,
		Balance:          fulfillment.Balance(total, collected),
		CollectionStatus: fulfillment.CollectionStatusFor(total, collected),
	}
}

// validLineItems drops structurally invalid rows and rejects the submission
// when nothing valid survives.
func validLineItems(inputs []LineItemInput) ([]models.OrderLineItem, error) {
	items := make([]models.OrderLineItem, 0, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" || in.Quantity <= 0 {
			continue
		}
		if in.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("unit price for %q cannot be negative", name))
		}
		items = append(items, models.OrderLineItem{
			Name:       name,
			PartNumber: in.PartNumber,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
		})
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one valid line item")
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
