package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/willardc/stocktrack-backend/pkg/db/models"
	pkgerrors "github.com/willardc/stocktrack-backend/pkg/errors"
	"github.com/willardc/stocktrack-backend/pkg/pagination"
)

// Service defines stock item operations.
type Service interface {
	Create(ctx context.Context, input CreateItemInput) (*ItemView, error)
	Get(ctx context.Context, userID, itemID int64) (*ItemView, error)
	List(ctx context.Context, userID int64, params pagination.Params, filters ItemFilters) (*ItemList, error)
	Update(ctx context.Context, input UpdateItemInput) (*ItemView, error)
	Delete(ctx context.Context, userID, itemID int64) error
}

type service struct {
	repo Repository
}

// NewService builds an inventory service with the required repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*ItemView, error) {
	if input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if input.ReorderLevel != nil && *input.ReorderLevel < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder level cannot be negative")
	}

	item := &models.InventoryItem{
		UserID:       input.UserID,
		Name:         name,
		PartNumber:   input.PartNumber,
		Supplier:     input.Supplier,
		Description:  input.Description,
		Quantity:     input.Quantity,
		Category:     input.Category,
		Location:     input.Location,
		ReorderLevel: input.ReorderLevel,
	}
	if _, err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory item")
	}
	return &ItemView{Item: *item, LowStock: item.LowStock()}, nil
}

func (s *service) Get(ctx context.Context, userID, itemID int64) (*ItemView, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if itemID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	item, err := s.repo.Find(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
	}
	return &ItemView{Item: *item, LowStock: item.LowStock()}, nil
}

func (s *service) List(ctx context.Context, userID int64, params pagination.Params, filters ItemFilters) (*ItemList, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	rows, nextCursor, err := s.repo.List(ctx, userID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory items")
	}

	views := make([]ItemView, 0, len(rows))
	for _, row := range rows {
		views = append(views, ItemView{Item: row, LowStock: row.LowStock()})
	}
	return &ItemList{Items: views, NextCursor: nextCursor}, nil
}

func (s *service) Update(ctx context.Context, input UpdateItemInput) (*ItemView, error) {
	if input.UserID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ItemID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
		}
		updates["name"] = name
	}
	if input.PartNumber != nil {
		updates["part_number"] = *input.PartNumber
	}
	if input.Supplier != nil {
		updates["supplier"] = *input.Supplier
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
		}
		updates["quantity"] = *input.Quantity
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.ReorderLevel != nil {
		if *input.ReorderLevel < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reorder level cannot be negative")
		}
		updates["reorder_level"] = *input.ReorderLevel
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, input.UserID, input.ItemID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory item")
	}

	return s.Get(ctx, input.UserID, input.ItemID)
}

func (s *service) Delete(ctx context.Context, userID, itemID int64) error {
	if userID <= 0 {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if itemID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}

	if err := s.repo.Delete(ctx, userID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete inventory item")
	}
	return nil
}
