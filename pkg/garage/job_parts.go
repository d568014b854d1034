package garage

import (
	"context"
	"strings"

	"garage_backend/pkg/models"
	"garage_backend/pkg/store"
)

const unknownPart = "Unknown Part"

// PartInput is one structured parts line. When linked to an inventory item
// the name and unit price default to the item's.
type PartInput struct {
	InventoryItemID *string  `json:"inventory_item_id"`
	ItemName        string   `json:"item_name" validate:"max=200"`
	Quantity        int      `json:"quantity" validate:"min=1"`
	UnitPrice       *float64 `json:"unit_price" validate:"omitempty,gte=0"`
}

// PartsInput wraps a full replacement list
type PartsInput struct {
	Parts []PartInput `json:"parts" validate:"dive"`
}

func (s *Service) ListJobParts(ctx context.Context, jobID string) ([]models.JobPart, error) {
	return do(ctx, s, "list job parts", func() ([]models.JobPart, error) {
		if _, err := store.Get[models.Job](ctx, s.store, jobID); err != nil {
			return nil, err
		}
		return store.Query[models.JobPart](ctx, s.store,
			store.Where("job_id = ?", jobID),
			store.Preload("InventoryItem"),
			store.Order("created_at ASC"))
	})
}

// AddJobPart records a part on the job and takes it out of stock
func (s *Service) AddJobPart(ctx context.Context, jobID string, in PartInput) (*models.JobPart, error) {
	const action = "add job part"
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*models.JobPart, error) {
		var part *models.JobPart
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			if _, err := store.Get[models.Job](ctx, tx, jobID); err != nil {
				return err
			}
			var err error
			part, err = insertPart(ctx, tx, jobID, in)
			return err
		})
		if err != nil {
			return nil, err
		}
		return part, nil
	})
}

func insertPart(ctx context.Context, tx *store.Store, jobID string, in PartInput) (*models.JobPart, error) {
	part := &models.JobPart{
		JobID:    jobID,
		ItemName: strings.TrimSpace(in.ItemName),
		Quantity: in.Quantity,
	}
	if in.UnitPrice != nil {
		part.UnitPrice = *in.UnitPrice
	}
	if in.InventoryItemID != nil && *in.InventoryItemID != "" {
		item, err := store.Get[models.InventoryItem](ctx, tx, *in.InventoryItemID)
		if err != nil {
			return nil, err
		}
		part.InventoryItemID = &item.ID
		if part.ItemName == "" {
			part.ItemName = item.Name
		}
		if in.UnitPrice == nil {
			part.UnitPrice = item.SellingPrice
		}
	}
	if part.ItemName == "" {
		part.ItemName = unknownPart
	}
	if err := store.Create(ctx, tx, part); err != nil {
		return nil, err
	}
	return part, nil
}

// UpdateJobPart changes quantity, price or the linked item. A nil
// InventoryItemID keeps the current link and a blank one unlinks the part.
// Relinking returns the old quantity to the old item and takes the new
// quantity from the new one; otherwise only the quantity difference moves.
func (s *Service) UpdateJobPart(ctx context.Context, jobID, partID string, in PartInput) (*models.JobPart, error) {
	const action = "update job part"
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*models.JobPart, error) {
		var out *models.JobPart
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			part, err := store.Get[models.JobPart](ctx, tx, partID, store.Where("job_id = ?", jobID))
			if err != nil {
				return err
			}

			link := part.InventoryItemID
			var item *models.InventoryItem
			if in.InventoryItemID != nil {
				link = trimmed(in.InventoryItemID)
				if link != nil {
					if item, err = store.Get[models.InventoryItem](ctx, tx, *link); err != nil {
						return err
					}
				}
			}
			relinked := !sameID(link, part.InventoryItemID)

			unitPrice := part.UnitPrice
			switch {
			case in.UnitPrice != nil:
				unitPrice = *in.UnitPrice
			case relinked && item != nil:
				unitPrice = item.SellingPrice
			}
			name := strings.TrimSpace(in.ItemName)
			switch {
			case name != "":
			case relinked && item != nil:
				name = item.Name
			default:
				name = part.ItemName
			}
			out, err = store.Update[models.JobPart](ctx, tx, partID, map[string]interface{}{
				"inventory_item_id": link,
				"item_name":         name,
				"quantity":          in.Quantity,
				"unit_price":        unitPrice,
				"total_price":       float64(in.Quantity) * unitPrice,
			})
			if err != nil {
				return err
			}

			db := tx.DB().WithContext(ctx)
			id := part.ID
			if relinked {
				if part.InventoryItemID != nil {
					err = models.ApplyStock(db, part.OperatorID, *part.InventoryItemID,
						part.Quantity, models.StockActionRestore, &id, nil)
					if err != nil {
						return store.Translate("inventory item", err)
					}
				}
				if link == nil {
					return nil
				}
				err = models.ApplyStock(db, part.OperatorID, *link,
					-in.Quantity, models.StockActionConsume, &id, nil)
				return store.Translate("inventory item", err)
			}

			delta := in.Quantity - part.Quantity
			if part.InventoryItemID == nil || delta == 0 {
				return nil
			}
			stockAction := models.StockActionConsume
			if delta < 0 {
				stockAction = models.StockActionRestore
			}
			err = models.ApplyStock(db, part.OperatorID, *part.InventoryItemID,
				-delta, stockAction, &id, nil)
			return store.Translate("inventory item", err)
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// DeleteJobPart removes the part and returns its stock
func (s *Service) DeleteJobPart(ctx context.Context, jobID, partID string) error {
	return exec(ctx, s, "delete job part", func() error {
		return s.store.Transaction(ctx, func(tx *store.Store) error {
			if _, err := store.Get[models.JobPart](ctx, tx, partID, store.Where("job_id = ?", jobID)); err != nil {
				return err
			}
			return store.Delete[models.JobPart](ctx, tx, partID)
		})
	})
}

// ReplaceJobParts syncs the job's parts to the given list. Existing parts
// are removed with their stock restored before the new ones are consumed.
func (s *Service) ReplaceJobParts(ctx context.Context, jobID string, in PartsInput) ([]models.JobPart, error) {
	const action = "replace job parts"
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() ([]models.JobPart, error) {
		out := make([]models.JobPart, 0, len(in.Parts))
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			if _, err := store.Get[models.Job](ctx, tx, jobID); err != nil {
				return err
			}
			existing, err := store.Query[models.JobPart](ctx, tx, store.Where("job_id = ?", jobID))
			if err != nil {
				return err
			}
			for _, p := range existing {
				if err := store.Delete[models.JobPart](ctx, tx, p.ID); err != nil {
					return err
				}
			}
			for _, p := range in.Parts {
				part, err := insertPart(ctx, tx, jobID, p)
				if err != nil {
					return err
				}
				out = append(out, *part)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}
