package controllers

import (
	"net/http"

	"github.com/willardc/stocktrack-backend/api/responses"
	"github.com/willardc/stocktrack-backend/internal/dashboard"
	"github.com/willardc/stocktrack-backend/pkg/logger"
)

// DashboardStats returns the caller's headline counts.
func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
