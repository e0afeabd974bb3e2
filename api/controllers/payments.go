package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/willardc/stocktrack-backend/api/responses"
	"github.com/willardc/stocktrack-backend/api/validators"
	"github.com/willardc/stocktrack-backend/internal/payments"
	pkgerrors "github.com/willardc/stocktrack-backend/pkg/errors"
	"github.com/willardc/stocktrack-backend/pkg/logger"
)

type recordPaymentRequest struct {
	SupplyOrderID   int64           `json:"supply_order_id" validate:"required,gt=0"`
	Amount          decimal.Decimal `json:"amount"`
	DatePaid        string          `json:"date_paid" validate:"required"`
	PaymentMethod   *string         `json:"payment_method,omitempty"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
}

// PaymentsRecord appends an immutable supplier payment record.
func PaymentsRecord(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body recordPaymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		paid, err := parseDate("date_paid", body.DatePaid)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.Record(r.Context(), payments.RecordPaymentInput{
			UserID:          userID,
			SupplyOrderID:   body.SupplyOrderID,
			Amount:          body.Amount,
			DatePaid:        paid,
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

// PaymentsList returns the payment ledger for one supply order.
func PaymentsList(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		raw := strings.TrimSpace(r.URL.Query().Get("supply_order_id"))
		orderID, convErr := strconv.ParseInt(raw, 10, 64)
		if raw == "" || convErr != nil || orderID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "supply_order_id query parameter is required"))
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

// PaymentsDelete removes a single payment record; aggregates revert on the
// next read.
func PaymentsDelete(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		recordID, err := parseIDParam(r, "paymentId")
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
