package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/willardc/stocktrack-backend/api/responses"
	"github.com/willardc/stocktrack-backend/api/validators"
	"github.com/willardc/stocktrack-backend/internal/orders"
	"github.com/willardc/stocktrack-backend/pkg/enums"
	pkgerrors "github.com/willardc/stocktrack-backend/pkg/errors"
	"github.com/willardc/stocktrack-backend/pkg/logger"
	"github.com/willardc/stocktrack-backend/pkg/pagination"
)

type orderLineRequest struct {
	Name       string          `json:"name"`
	PartNumber *string         `json:"part_number,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

type createOrderRequest struct {
	OrderNumber          string             `json:"order_number,omitempty"`
	CustomerName         string             `json:"customer_name" validate:"required"`
	OrderDate            string             `json:"order_date" validate:"required"`
	ExpectedDeliveryDate *string            `json:"expected_delivery_date,omitempty"`
	TrackingReference    *string            `json:"tracking_reference,omitempty"`
	Notes                *string            `json:"notes,omitempty"`
	DocumentURL          *string            `json:"document_url,omitempty"`
	Items                []orderLineRequest `json:"items" validate:"required,min=1"`
}

type updateOrderRequest struct {
	OrderNumber          *string `json:"order_number,omitempty"`
	CustomerName         *string `json:"customer_name,omitempty"`
	OrderDate            *string `json:"order_date,omitempty"`
	ExpectedDeliveryDate *string `json:"expected_delivery_date,omitempty"`
	TrackingReference    *string `json:"tracking_reference,omitempty"`
	Notes                *string `json:"notes,omitempty"`
	DocumentURL          *string `json:"document_url,omitempty"`
}

type fulfillOrderRequest struct {
	Deliveries map[string]int `json:"deliveries" validate:"required,min=1"`
}

type setOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrdersCreate persists a new order with its line items.
func OrdersCreate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderDate, err := parseDate("order_date", body.OrderDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		expected, err := parseOptionalDate("expected_delivery_date", body.ExpectedDeliveryDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]orders.LineItemInput, 0, len(body.Items))
		for _, item := range body.Items {
			items = append(items, orders.LineItemInput{
				Name:       item.Name,
				PartNumber: item.PartNumber,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice,
			})
		}

		view, err := svc.Create(r.Context(), orders.CreateOrderInput{
			UserID:               userID,
			OrderNumber:          body.OrderNumber,
			CustomerName:         body.CustomerName,
			OrderDate:            orderDate,
			ExpectedDeliveryDate: expected,
			TrackingReference:    body.TrackingReference,
			Notes:                body.Notes,
			DocumentURL:          body.DocumentURL,
			Items:                items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// OrdersList returns the caller's orders, newest first.
func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		filters := orders.OrderFilters{
			Query: validators.SanitizeString(r.URL.Query().Get("q"), 120),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParseOrderStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid status filter"))
				return
			}
			filters.Status = &status
		}

		list, err := svc.List(r.Context(), userID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// OrdersDetail returns one order with recomputed aggregates.
func OrdersDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// OrdersUpdate applies a partial update to mutable order fields.
func OrdersUpdate(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderDate, err := parseOptionalDate("order_date", body.OrderDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		expected, err := parseOptionalDate("expected_delivery_date", body.ExpectedDeliveryDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), orders.UpdateOrderInput{
			UserID:               userID,
			OrderID:              orderID,
			OrderNumber:          body.OrderNumber,
			CustomerName:         body.CustomerName,
			OrderDate:            orderDate,
			ExpectedDeliveryDate: expected,
			TrackingReference:    body.TrackingReference,
			Notes:                body.Notes,
			DocumentURL:          body.DocumentURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// OrdersDelete removes an order and cascades to its line items and records.
func OrdersDelete(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// OrdersFulfill applies a batch of deliveries against an order's line items.
func OrdersFulfill(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body fulfillOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deliveries, err := parseLineKeys(body.Deliveries)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.ApplyDelivery(r.Context(), orders.DeliveryInput{
			UserID:     userID,
			OrderID:    orderID,
			Deliveries: deliveries,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// OrdersSetStatus is the owner's manual status override.
func OrdersSetStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := parseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		if err := svc.SetStatus(r.Context(), orders.SetStatusInput{
			UserID:  userID,
			OrderID: orderID,
			Status:  status,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": string(status)})
	}
}
