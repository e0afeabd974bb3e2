package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/willardc/stocktrack-backend/api/responses"
	"github.com/willardc/stocktrack-backend/api/validators"
	"github.com/willardc/stocktrack-backend/internal/collections"
	pkgerrors "github.com/willardc/stocktrack-backend/pkg/errors"
	"github.com/willardc/stocktrack-backend/pkg/logger"
)

type recordCollectionRequest struct {
	OrderID         int64           `json:"order_id" validate:"required,gt=0"`
	Amount          decimal.Decimal `json:"amount"`
	DateCollected   string          `json:"date_collected" validate:"required"`
	PaymentMethod   *string         `json:"payment_method,omitempty"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
}

// CollectionsRecord appends an immutable collection record to an order.
func CollectionsRecord(svc collections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body recordCollectionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		collected, err := parseDate("date_collected", body.DateCollected)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Record(r.Context(), collections.RecordCollectionInput{
			UserID:          userID,
			OrderID:         body.OrderID,
			Amount:          body.Amount,
			DateCollected:   collected,
			PaymentMethod:   body.PaymentMethod,
			ReferenceNumber: body.ReferenceNumber,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// CollectionsList returns the ledger for one order, including the derived balance.
func CollectionsList(svc collections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw := strings.TrimSpace(r.URL.Query().Get("order_id"))
		orderID, convErr := strconv.ParseInt(raw, 10, 64)
		if raw == "" || convErr != nil || orderID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order_id query parameter is required"))
			return
		}

		ledger, err := svc.ListByOrder(r.Context(), userID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ledger)
	}
}

// CollectionsDelete removes a single collection record; aggregates revert on
// the next read.
func CollectionsDelete(svc collections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		recordID, err := parseIDParam(r, "collectionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, recordID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
