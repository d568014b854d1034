package garage

import (
	"context"
	"strings"

	"garage_backend/pkg/models"
	"garage_backend/pkg/store"

	"gorm.io/gorm"
)

// BikeInput is the editable part of a bike
type BikeInput struct {
	CustomerID         string  `json:"customer_id" validate:"required"`
	RegistrationNumber string  `json:"registration_number" validate:"required,max=50"`
	MakeModel          string  `json:"make_model" validate:"required,max=100"`
	Color              *string `json:"color" validate:"omitempty,max=50"`
	Year               *int    `json:"year" validate:"omitempty,vehicle_year"`
	EngineNumber       *string `json:"engine_number" validate:"omitempty,max=50"`
	ChassisNumber      *string `json:"chassis_number" validate:"omitempty,max=50"`
	LastMileage        *int    `json:"last_mileage" validate:"omitempty,min=0"`
}

func (in *BikeInput) normalize() {
	in.RegistrationNumber = strings.ToUpper(strings.TrimSpace(in.RegistrationNumber))
	in.MakeModel = strings.TrimSpace(in.MakeModel)
	in.Color = trimmed(in.Color)
	in.EngineNumber = trimmed(in.EngineNumber)
	in.ChassisNumber = trimmed(in.ChassisNumber)
}

func (s *Service) CreateBike(ctx context.Context, in BikeInput) (*models.Bike, error) {
	const action = "create bike"
	in.normalize()
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*models.Bike, error) {
		bike := &models.Bike{
			CustomerID:         in.CustomerID,
			RegistrationNumber: in.RegistrationNumber,
			MakeModel:          in.MakeModel,
			Color:              in.Color,
			Year:               in.Year,
			EngineNumber:       in.EngineNumber,
			ChassisNumber:      in.ChassisNumber,
			LastMileage:        in.LastMileage,
		}
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			if _, err := store.Get[models.Customer](ctx, tx, in.CustomerID); err != nil {
				return err
			}
			return store.Create(ctx, tx, bike)
		})
		if err != nil {
			return nil, err
		}
		return bike, nil
	})
}

func (s *Service) UpdateBike(ctx context.Context, id string, in BikeInput) (*models.Bike, error) {
	const action = "update bike"
	in.normalize()
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*models.Bike, error) {
		var out *models.Bike
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			if _, err := store.Get[models.Customer](ctx, tx, in.CustomerID); err != nil {
				return err
			}
			var err error
			out, err = store.Update[models.Bike](ctx, tx, id, map[string]interface{}{
				"customer_id":         in.CustomerID,
				"registration_number": in.RegistrationNumber,
				"make_model":          in.MakeModel,
				"color":               in.Color,
				"year":                in.Year,
				"engine_number":       in.EngineNumber,
				"chassis_number":      in.ChassisNumber,
				"last_mileage":        in.LastMileage,
			})
			return err
		})
		return out, err
	})
}

// GetBike returns the bike with its owner and job history, newest first
func (s *Service) GetBike(ctx context.Context, id string) (*models.Bike, error) {
	return do(ctx, s, "load bike", func() (*models.Bike, error) {
		return store.Get[models.Bike](ctx, s.store, id,
			store.Preload("Customer"),
			store.Preload("Jobs", func(db *gorm.DB) *gorm.DB { return db.Order("date_in DESC") }))
	})
}

// ListBikes lists bikes, optionally for one customer or matching a registration number
func (s *Service) ListBikes(ctx context.Context, customerID, search string) ([]models.Bike, error) {
	return do(ctx, s, "list bikes", func() ([]models.Bike, error) {
		scopes := []store.Scope{store.Preload("Customer"), store.Order("created_at DESC")}
		if customerID != "" {
			scopes = append(scopes, store.Where("customer_id = ?", customerID))
		}
		if q := strings.TrimSpace(search); q != "" {
			scopes = append(scopes, store.Where("registration_number LIKE ?", "%"+strings.ToUpper(q)+"%"))
		}
		return store.Query[models.Bike](ctx, s.store, scopes...)
	})
}

// DeleteBike removes the bike with its jobs and job parts, returning their stock
func (s *Service) DeleteBike(ctx context.Context, id string) error {
	return exec(ctx, s, "delete bike", func() error {
		return s.store.Transaction(ctx, func(tx *store.Store) error {
			if _, err := store.Get[models.Bike](ctx, tx, id); err != nil {
				return err
			}
			if err := restoreStockForBikes(ctx, tx, []string{id}); err != nil {
				return err
			}
			return store.Delete[models.Bike](ctx, tx, id)
		})
	})
}

func restoreStockForBikes(ctx context.Context, tx *store.Store, bikeIDs []string) error {
	if len(bikeIDs) == 0 {
		return nil
	}
	jobs, err := store.Query[models.Job](ctx, tx, store.Where("bike_id IN ?", bikeIDs))
	if err != nil {
		return err
	}
	jobIDs := make([]string, 0, len(jobs))
	for _, j := range jobs {
		jobIDs = append(jobIDs, j.ID)
	}
	return restoreStockForJobs(ctx, tx, jobIDs)
}

// restoreStockForJobs returns the stock of every linked part on the jobs.
// Cascading deletes skip model hooks, so callers run this before deleting.
func restoreStockForJobs(ctx context.Context, tx *store.Store, jobIDs []string) error {
	if len(jobIDs) == 0 {
		return nil
	}
	parts, err := store.Query[models.JobPart](ctx, tx,
		store.Where("job_id IN ? AND inventory_item_id IS NOT NULL", jobIDs))
	if err != nil {
		return err
	}
	operatorID, err := store.OperatorFrom(ctx)
	if err != nil {
		return err
	}
	db := tx.DB().WithContext(ctx)
	for _, part := range parts {
		partID := part.ID
		if err := models.ApplyStock(db, operatorID, *part.InventoryItemID, part.Quantity,
			models.StockActionRestore, &partID, nil); err != nil {
			return store.Translate("inventory item", err)
		}
	}
	return nil
}
