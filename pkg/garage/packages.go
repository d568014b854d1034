package garage

import (
	"context"
	"strings"

	"garage_backend/pkg/billing"
	"garage_backend/pkg/models"
	"garage_backend/pkg/store"

	"gorm.io/gorm"
)

// PackageItemInput is one templated part line
type PackageItemInput struct {
	InventoryItemID *string  `json:"inventory_item_id"`
	ItemName        string   `json:"item_name" validate:"max=200"`
	Quantity        int      `json:"quantity" validate:"min=1"`
	UnitPrice       *float64 `json:"unit_price" validate:"omitempty,gte=0"`
}

// PackageInput is a full package definition. Updates replace the items.
type PackageInput struct {
	Name           string             `json:"name" validate:"required,max=200"`
	Description    *string            `json:"description"`
	Category       *string            `json:"category" validate:"omitempty,max=100"`
	LaborCharge    float64            `json:"labor_charge" validate:"gte=0"`
	FixedPrice     *float64           `json:"fixed_price" validate:"omitempty,gte=0"`
	GSTApplicable  bool               `json:"gst_applicable"`
	EstimatedTime  *string            `json:"estimated_time"`
	ChecklistItems []string           `json:"checklist_items"`
	Items          []PackageItemInput `json:"items" validate:"dive"`
}

func (in *PackageInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = trimmed(in.Description)
	in.Category = trimmed(in.Category)
	in.EstimatedTime = trimmed(in.EstimatedTime)
	checklist := make([]string, 0, len(in.ChecklistItems))
	for _, c := range in.ChecklistItems {
		if c = strings.TrimSpace(c); c != "" {
			checklist = append(checklist, c)
		}
	}
	in.ChecklistItems = checklist
}

// PackageView adds the computed template total
type PackageView struct {
	models.ServicePackage
	Total float64 `json:"total"`
}

func packageView(pkg *models.ServicePackage) *PackageView {
	return &PackageView{ServicePackage: *pkg, Total: billing.PackageTotal(pkg)}
}

func itemsByCreation(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }

func (s *Service) CreatePackage(ctx context.Context, in PackageInput) (*PackageView, error) {
	const action = "create service package"
	in.normalize()
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*PackageView, error) {
		pkg := &models.ServicePackage{
			Name:           in.Name,
			Description:    in.Description,
			Category:       in.Category,
			LaborCharge:    in.LaborCharge,
			FixedPrice:     in.FixedPrice,
			GSTApplicable:  in.GSTApplicable,
			EstimatedTime:  in.EstimatedTime,
			ChecklistItems: models.StringList(in.ChecklistItems),
		}
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			if err := store.Create(ctx, tx, pkg); err != nil {
				return err
			}
			return insertPackageItems(ctx, tx, pkg.ID, in.Items)
		})
		if err != nil {
			return nil, err
		}
		return s.loadPackage(ctx, s.store, pkg.ID)
	})
}

func insertPackageItems(ctx context.Context, tx *store.Store, packageID string, items []PackageItemInput) error {
	for _, in := range items {
		item := &models.ServicePackageItem{
			PackageID: packageID,
			ItemName:  strings.TrimSpace(in.ItemName),
			Quantity:  in.Quantity,
		}
		if in.UnitPrice != nil {
			item.UnitPrice = *in.UnitPrice
		}
		if in.InventoryItemID != nil && *in.InventoryItemID != "" {
			stocked, err := store.Get[models.InventoryItem](ctx, tx, *in.InventoryItemID)
			if err != nil {
				return err
			}
			item.InventoryItemID = &stocked.ID
			if item.ItemName == "" {
				item.ItemName = stocked.Name
			}
			if in.UnitPrice == nil {
				item.UnitPrice = stocked.SellingPrice
			}
		}
		if item.ItemName == "" {
			item.ItemName = unknownPart
		}
		if err := store.Create(ctx, tx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) loadPackage(ctx context.Context, st *store.Store, id string) (*PackageView, error) {
	pkg, err := store.Get[models.ServicePackage](ctx, st, id, store.Preload("Items", itemsByCreation))
	if err != nil {
		return nil, err
	}
	return packageView(pkg), nil
}

// UpdatePackage rewrites the package and replaces its items. Jobs that
// used the package keep their copied values.
func (s *Service) UpdatePackage(ctx context.Context, id string, in PackageInput) (*PackageView, error) {
	const action = "update service package"
	in.normalize()
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*PackageView, error) {
		var out *PackageView
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			_, err := store.Update[models.ServicePackage](ctx, tx, id, map[string]interface{}{
				"name":            in.Name,
				"description":     in.Description,
				"category":        in.Category,
				"labor_charge":    in.LaborCharge,
				"fixed_price":     in.FixedPrice,
				"gst_applicable":  in.GSTApplicable,
				"estimated_time":  in.EstimatedTime,
				"checklist_items": models.StringList(in.ChecklistItems),
			})
			if err != nil {
				return err
			}
			existing, err := store.Query[models.ServicePackageItem](ctx, tx, store.Where("package_id = ?", id))
			if err != nil {
				return err
			}
			for _, item := range existing {
				if err := store.Delete[models.ServicePackageItem](ctx, tx, item.ID); err != nil {
					return err
				}
			}
			if err := insertPackageItems(ctx, tx, id, in.Items); err != nil {
				return err
			}
			out, err = s.loadPackage(ctx, tx, id)
			return err
		})
		return out, err
	})
}

func (s *Service) GetPackage(ctx context.Context, id string) (*PackageView, error) {
	return do(ctx, s, "load service package", func() (*PackageView, error) {
		return s.loadPackage(ctx, s.store, id)
	})
}

func (s *Service) ListPackages(ctx context.Context) ([]PackageView, error) {
	return do(ctx, s, "list service packages", func() ([]PackageView, error) {
		pkgs, err := store.Query[models.ServicePackage](ctx, s.store,
			store.Preload("Items", itemsByCreation), store.Order("name ASC"))
		if err != nil {
			return nil, err
		}
		out := make([]PackageView, 0, len(pkgs))
		for i := range pkgs {
			out = append(out, *packageView(&pkgs[i]))
		}
		return out, nil
	})
}

func (s *Service) DeletePackage(ctx context.Context, id string) error {
	return exec(ctx, s, "delete service package", func() error {
		return s.store.Transaction(ctx, func(tx *store.Store) error {
			return store.Delete[models.ServicePackage](ctx, tx, id)
		})
	})
}
