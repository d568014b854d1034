package garage

import (
	"context"
	"strings"

	"garage_backend/pkg/models"
	"garage_backend/pkg/store"

	"gorm.io/gorm"
)

// CustomerInput is the editable part of a customer
type CustomerInput struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Phone    string  `json:"phone" validate:"required,min=10,max=20,phone"`
	WhatsApp *string `json:"whatsapp" validate:"omitempty,max=20"`
	Address  *string `json:"address" validate:"omitempty,max=500"`
	Notes    *string `json:"notes" validate:"omitempty,max=1000"`
}

func (in *CustomerInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	in.WhatsApp = trimmed(in.WhatsApp)
	in.Address = trimmed(in.Address)
	in.Notes = trimmed(in.Notes)
}

func (s *Service) CreateCustomer(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	const action = "create customer"
	in.normalize()
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*models.Customer, error) {
		customer := &models.Customer{
			Name:     in.Name,
			Phone:    in.Phone,
			WhatsApp: in.WhatsApp,
			Address:  in.Address,
			Notes:    in.Notes,
		}
		if err := store.Create(ctx, s.store, customer); err != nil {
			return nil, err
		}
		return customer, nil
	})
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, in CustomerInput) (*models.Customer, error) {
	const action = "update customer"
	in.normalize()
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*models.Customer, error) {
		return store.Update[models.Customer](ctx, s.store, id, map[string]interface{}{
			"name":     in.Name,
			"phone":    in.Phone,
			"whatsapp": in.WhatsApp,
			"address":  in.Address,
			"notes":    in.Notes,
		})
	})
}

// GetCustomer returns the customer with their bikes
func (s *Service) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	return do(ctx, s, "load customer", func() (*models.Customer, error) {
		return store.Get[models.Customer](ctx, s.store, id,
			store.Preload("Bikes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }))
	})
}

// ListCustomers returns the newest customers first, optionally filtered by
// a case-insensitive match on name or phone
func (s *Service) ListCustomers(ctx context.Context, search string) ([]models.Customer, error) {
	return do(ctx, s, "list customers", func() ([]models.Customer, error) {
		scopes := []store.Scope{store.Order("created_at DESC")}
		if q := strings.TrimSpace(search); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			scopes = append(scopes, store.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, like))
		}
		return store.Query[models.Customer](ctx, s.store, scopes...)
	})
}

// DeleteCustomer removes the customer together with their bikes, jobs and
// job parts. Stock held by those parts goes back to inventory first.
func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	return exec(ctx, s, "delete customer", func() error {
		return s.store.Transaction(ctx, func(tx *store.Store) error {
			if _, err := store.Get[models.Customer](ctx, tx, id); err != nil {
				return err
			}
			bikes, err := store.Query[models.Bike](ctx, tx, store.Where("customer_id = ?", id))
			if err != nil {
				return err
			}
			bikeIDs := make([]string, 0, len(bikes))
			for _, b := range bikes {
				bikeIDs = append(bikeIDs, b.ID)
			}
			if err := restoreStockForBikes(ctx, tx, bikeIDs); err != nil {
				return err
			}
			return store.Delete[models.Customer](ctx, tx, id)
		})
	})
}
