package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/willardc/stocktrack-backend/api/responses"
	"github.com/willardc/stocktrack-backend/api/validators"
	"github.com/willardc/stocktrack-backend/internal/procurement"
	"github.com/willardc/stocktrack-backend/pkg/enums"
	pkgerrors "github.com/willardc/stocktrack-backend/pkg/errors"
	"github.com/willardc/stocktrack-backend/pkg/logger"
	"github.com/willardc/stocktrack-backend/pkg/pagination"
)

type supplyLineRequest struct {
	Name       string          `json:"name"`
	PartNumber *string         `json:"part_number,omitempty"`
	Quantity   int             `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
}

type createSupplyOrderRequest struct {
	OrderNumber          string              `json:"order_number,omitempty"`
	SupplierName         string              `json:"supplier_name" validate:"required"`
	OrderDate            string              `json:"order_date" validate:"required"`
	ExpectedDeliveryDate *string             `json:"expected_delivery_date,omitempty"`
	TrackingReference    *string             `json:"tracking_reference,omitempty"`
	Notes                *string             `json:"notes,omitempty"`
	DocumentURL          *string             `json:"document_url,omitempty"`
	Items                []supplyLineRequest `json:"items" validate:"required,min=1"`
}

type updateSupplyOrderRequest struct {
	OrderNumber          *string `json:"order_number,omitempty"`
	SupplierName         *string `json:"supplier_name,omitempty"`
	OrderDate            *string `json:"order_date,omitempty"`
	ExpectedDeliveryDate *string `json:"expected_delivery_date,omitempty"`
	TrackingReference    *string `json:"tracking_reference,omitempty"`
	Notes                *string `json:"notes,omitempty"`
	DocumentURL          *string `json:"document_url,omitempty"`
}

type receiveSupplyRequest struct {
	Receipts map[string]int `json:"receipts" validate:"required,min=1"`
}

type setSupplyStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ProcurementCreate persists a new supply order with its line items.
func ProcurementCreate(svc procurement.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createSupplyOrderRequest
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

		items := make([]procurement.LineItemInput, 0, len(body.Items))
		for _, item := range body.Items {
			items = append(items, procurement.LineItemInput{
				Name:       item.Name,
				PartNumber: item.PartNumber,
				Quantity:   item.Quantity,
				UnitCost:   item.UnitCost,
			})
		}

		view, err := svc.Create(r.Context(), procurement.CreateSupplyOrderInput{
			UserID:               userID,
			OrderNumber:          body.OrderNumber,
			SupplierName:         body.SupplierName,
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

// ProcurementList returns the caller's supply orders, newest first.
func ProcurementList(svc procurement.Service, logg *logger.Logger) http.HandlerFunc {
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

		filters := procurement.SupplyOrderFilters{
			Query: validators.SanitizeString(r.URL.Query().Get("q"), 120),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, parseErr := enums.ParseSupplyOrderStatus(raw)
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

// ProcurementDetail returns one supply order with recomputed aggregates.
func ProcurementDetail(svc procurement.Service, logg *logger.Logger) http.HandlerFunc {
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

// ProcurementUpdate applies a partial update to mutable supply order fields.
func ProcurementUpdate(svc procurement.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body updateSupplyOrderRequest
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

		view, err := svc.Update(r.Context(), procurement.UpdateSupplyOrderInput{
			UserID:               userID,
			SupplyOrderID:        orderID,
			OrderNumber:          body.OrderNumber,
			SupplierName:         body.SupplierName,
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

// ProcurementDelete removes a supply order and its dependent rows.
func ProcurementDelete(svc procurement.Service, logg *logger.Logger) http.HandlerFunc {
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

// ProcurementReceive applies a batch of received quantities against line items.
func ProcurementReceive(svc procurement.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body receiveSupplyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipts, err := parseLineKeys(body.Receipts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.ReceiveItems(r.Context(), procurement.ReceiptInput{
			UserID:        userID,
			SupplyOrderID: orderID,
			Receipts:      receipts,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// ProcurementSetStatus is the owner's manual status override.
func ProcurementSetStatus(svc procurement.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body setSupplyStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseSupplyOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		if err := svc.SetStatus(r.Context(), procurement.SetStatusInput{
			UserID:        userID,
			SupplyOrderID: orderID,
			Status:        status,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": string(status)})
	}
}
