package garage

import (
	"context"
	"strings"

	"garage_backend/pkg/models"
	"garage_backend/pkg/store"
)

// SettingsInput is the garage header an operator saves
type SettingsInput struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Address string  `json:"address" validate:"required,max=500"`
	Phone   string  `json:"phone" validate:"required,max=20,phone"`
	Email   string  `json:"email" validate:"omitempty,email"`
	GSTIN   *string `json:"gstin" validate:"omitempty,len=15"`
	Website *string `json:"website" validate:"omitempty,url"`
}

func (in *SettingsInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	in.GSTIN = trimmed(in.GSTIN)
	if in.GSTIN != nil {
		upper := strings.ToUpper(*in.GSTIN)
		in.GSTIN = &upper
	}
	in.Website = trimmed(in.Website)
}

// GetSettings returns the operator's saved settings, or the default
// profile as an unsaved row when nothing has been saved yet
func (s *Service) GetSettings(ctx context.Context) (*models.GarageSettings, error) {
	return do(ctx, s, "load settings", func() (*models.GarageSettings, error) {
		return s.settings(ctx, s.store)
	})
}

func (s *Service) settings(ctx context.Context, st *store.Store) (*models.GarageSettings, error) {
	rows, err := store.Query[models.GarageSettings](ctx, st, store.Limit(1))
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return &rows[0], nil
	}
	return s.defaultSettings(), nil
}

func (s *Service) defaultSettings() *models.GarageSettings {
	p := s.profile
	settings := &models.GarageSettings{
		Name:    p.Name,
		Address: p.Address,
		Phone:   p.Phone,
		Email:   p.Email,
	}
	if p.GSTIN != "" {
		settings.GSTIN = &p.GSTIN
	}
	if p.Website != "" {
		settings.Website = &p.Website
	}
	return settings
}

// UpsertSettings saves the operator's single settings row
func (s *Service) UpsertSettings(ctx context.Context, in SettingsInput) (*models.GarageSettings, error) {
	const action = "save settings"
	in.normalize()
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*models.GarageSettings, error) {
		var out *models.GarageSettings
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			existing, err := s.settings(ctx, tx)
			if err != nil {
				return err
			}
			if existing.ID != "" {
				out, err = store.Update[models.GarageSettings](ctx, tx, existing.ID, map[string]interface{}{
					"name":    in.Name,
					"address": in.Address,
					"phone":   in.Phone,
					"email":   in.Email,
					"gstin":   in.GSTIN,
					"website": in.Website,
				})
				return err
			}
			out = &models.GarageSettings{
				Name:    in.Name,
				Address: in.Address,
				Phone:   in.Phone,
				Email:   in.Email,
				GSTIN:   in.GSTIN,
				Website: in.Website,
			}
			return store.Create(ctx, tx, out)
		})
		return out, err
	})
}
