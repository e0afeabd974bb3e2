package controllers

import (
	"net/http"
	"strings"

	"github.com/willardc/stocktrack-backend/api/responses"
	"github.com/willardc/stocktrack-backend/api/validators"
	"github.com/willardc/stocktrack-backend/internal/inventory"
	"github.com/willardc/stocktrack-backend/pkg/logger"
	"github.com/willardc/stocktrack-backend/pkg/pagination"
)

type createItemRequest struct {
	Name         string  `json:"name" validate:"required"`
	PartNumber   *string `json:"part_number,omitempty"`
	Supplier     *string `json:"supplier,omitempty"`
	Description  *string `json:"description,omitempty"`
	Quantity     int     `json:"quantity" validate:"min=0"`
	Category     *string `json:"category,omitempty"`
	Location     *string `json:"location,omitempty"`
	ReorderLevel *int    `json:"reorder_level,omitempty"`
}

type updateItemRequest struct {
	Name         *string `json:"name,omitempty"`
	PartNumber   *string `json:"part_number,omitempty"`
	Supplier     *string `json:"supplier,omitempty"`
	Description  *string `json:"description,omitempty"`
	Quantity     *int    `json:"quantity,omitempty"`
	Category     *string `json:"category,omitempty"`
	Location     *string `json:"location,omitempty"`
	ReorderLevel *int    `json:"reorder_level,omitempty"`
}

// InventoryCreate adds a stock item to the caller's catalog.
func InventoryCreate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), inventory.CreateItemInput{
			UserID:       userID,
			Name:         body.Name,
			PartNumber:   body.PartNumber,
			Supplier:     body.Supplier,
			Description:  body.Description,
			Quantity:     body.Quantity,
			Category:     body.Category,
			Location:     body.Location,
			ReorderLevel: body.ReorderLevel,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// InventoryList returns the caller's stock items with optional filters.
func InventoryList(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
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

		lowStock, err := validators.ParseQueryBool(r, "low_stock")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := inventory.ItemFilters{
			Query:    validators.SanitizeString(r.URL.Query().Get("q"), 120),
			LowStock: lowStock,
		}
		if category := validators.SanitizeString(r.URL.Query().Get("category"), 80); category != "" {
			filters.Category = &category
		}

		list, err := svc.List(r.Context(), userID, params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// InventoryDetail returns one stock item.
func InventoryDetail(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := parseIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), userID, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// InventoryUpdate applies a partial update to a stock item.
func InventoryUpdate(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := parseIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), inventory.UpdateItemInput{
			UserID:       userID,
			ItemID:       itemID,
			Name:         body.Name,
			PartNumber:   body.PartNumber,
			Supplier:     body.Supplier,
			Description:  body.Description,
			Quantity:     body.Quantity,
			Category:     body.Category,
			Location:     body.Location,
			ReorderLevel: body.ReorderLevel,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// InventoryDelete removes a stock item.
func InventoryDelete(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := parseIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
