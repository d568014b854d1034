package garage

import (
	"context"
	"strings"

	"garage_backend/pkg/apperr"
	"garage_backend/pkg/models"
	"garage_backend/pkg/store"
)

// InventoryInput is the editable part of an inventory item. StockQuantity
// is the desired count; the difference is booked as an adjustment.
type InventoryInput struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Code          *string `json:"code" validate:"omitempty,max=64"`
	Description   *string `json:"description"`
	StockQuantity int     `json:"stock_quantity"`
	MinStockLevel int     `json:"min_stock_level" validate:"min=0"`
	CostPrice     float64 `json:"cost_price" validate:"gte=0"`
	SellingPrice  float64 `json:"selling_price" validate:"gte=0"`
}

func (in *InventoryInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = trimmed(in.Code)
	in.Description = trimmed(in.Description)
}

// StockAdjustment is a manual restock (positive) or write-off (negative)
type StockAdjustment struct {
	Quantity int     `json:"quantity" validate:"required"`
	Note     *string `json:"note" validate:"omitempty,max=500"`
}

// InventoryFilter narrows ListInventory
type InventoryFilter struct {
	Search       string
	LowStockOnly bool
}

func (s *Service) CreateInventoryItem(ctx context.Context, in InventoryInput) (*models.InventoryItem, error) {
	const action = "create inventory item"
	in.normalize()
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*models.InventoryItem, error) {
		item := &models.InventoryItem{
			Name:          in.Name,
			Code:          in.Code,
			Description:   in.Description,
			MinStockLevel: in.MinStockLevel,
			CostPrice:     in.CostPrice,
			SellingPrice:  in.SellingPrice,
		}
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			if err := store.Create(ctx, tx, item); err != nil {
				return err
			}
			return adjustStock(ctx, tx, item.ID, in.StockQuantity, "opening stock")
		})
		if err != nil {
			return nil, err
		}
		return store.Get[models.InventoryItem](ctx, s.store, item.ID)
	})
}

func (s *Service) UpdateInventoryItem(ctx context.Context, id string, in InventoryInput) (*models.InventoryItem, error) {
	const action = "update inventory item"
	in.normalize()
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*models.InventoryItem, error) {
		var out *models.InventoryItem
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			item, err := store.Get[models.InventoryItem](ctx, tx, id)
			if err != nil {
				return err
			}
			if err := adjustStock(ctx, tx, id, in.StockQuantity-item.StockQuantity, "edited"); err != nil {
				return err
			}
			out, err = store.Update[models.InventoryItem](ctx, tx, id, map[string]interface{}{
				"name":            in.Name,
				"code":            in.Code,
				"description":     in.Description,
				"min_stock_level": in.MinStockLevel,
				"cost_price":      in.CostPrice,
				"selling_price":   in.SellingPrice,
			})
			return err
		})
		return out, err
	})
}

// AdjustStock books a manual stock change
func (s *Service) AdjustStock(ctx context.Context, id string, in StockAdjustment) (*models.InventoryItem, error) {
	const action = "adjust stock"
	in.Note = trimmed(in.Note)
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*models.InventoryItem, error) {
		var out *models.InventoryItem
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			if _, err := store.Get[models.InventoryItem](ctx, tx, id); err != nil {
				return err
			}
			note := "manual adjustment"
			if in.Note != nil {
				note = *in.Note
			}
			if err := adjustStock(ctx, tx, id, in.Quantity, note); err != nil {
				return err
			}
			var err error
			out, err = store.Get[models.InventoryItem](ctx, tx, id)
			return err
		})
		return out, err
	})
}

func adjustStock(ctx context.Context, tx *store.Store, itemID string, delta int, note string) error {
	if delta == 0 {
		return nil
	}
	operatorID, err := store.OperatorFrom(ctx)
	if err != nil {
		return err
	}
	err = models.ApplyStock(tx.DB().WithContext(ctx), operatorID, itemID, delta, models.StockActionAdjust, nil, &note)
	return store.Translate("inventory item", err)
}

func (s *Service) GetInventoryItem(ctx context.Context, id string) (*models.InventoryItem, error) {
	return do(ctx, s, "load inventory item", func() (*models.InventoryItem, error) {
		return store.Get[models.InventoryItem](ctx, s.store, id)
	})
}

// ListInventory returns items by name
func (s *Service) ListInventory(ctx context.Context, filter InventoryFilter) ([]models.InventoryItem, error) {
	return do(ctx, s, "list inventory", func() ([]models.InventoryItem, error) {
		scopes := []store.Scope{store.Order("name ASC")}
		if q := strings.TrimSpace(filter.Search); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			scopes = append(scopes, store.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", like, like))
		}
		if filter.LowStockOnly {
			scopes = append(scopes, store.Where("stock_quantity < min_stock_level"))
		}
		return store.Query[models.InventoryItem](ctx, s.store, scopes...)
	})
}

// StockMovements is the item's ledger, newest first
func (s *Service) StockMovements(ctx context.Context, itemID string) ([]models.StockMovement, error) {
	return do(ctx, s, "list stock movements", func() ([]models.StockMovement, error) {
		if _, err := store.Get[models.InventoryItem](ctx, s.store, itemID); err != nil {
			return nil, err
		}
		return store.Query[models.StockMovement](ctx, s.store,
			store.Where("inventory_item_id = ?", itemID),
			store.Order("created_at DESC"))
	})
}

// DeleteInventoryItem is refused while any job part or package item still
// points at the item
func (s *Service) DeleteInventoryItem(ctx context.Context, id string) error {
	return exec(ctx, s, "delete inventory item", func() error {
		return s.store.Transaction(ctx, func(tx *store.Store) error {
			if _, err := store.Get[models.InventoryItem](ctx, tx, id); err != nil {
				return err
			}
			parts, err := store.Count[models.JobPart](ctx, tx, store.Where("inventory_item_id = ?", id))
			if err != nil {
				return err
			}
			items, err := store.Count[models.ServicePackageItem](ctx, tx, store.Where("inventory_item_id = ?", id))
			if err != nil {
				return err
			}
			if parts > 0 || items > 0 {
				return &apperr.ConstraintError{
					Entity: "inventory item",
					Detail: "still used by job parts or service packages",
				}
			}
			return store.Delete[models.InventoryItem](ctx, tx, id)
		})
	})
}
