package garage

import (
	"context"
	"strings"

	"garage_backend/pkg/models"
	"garage_backend/pkg/store"
)

// DeviceInput registers a push target for the signed-in operator
type DeviceInput struct {
	Token    string `json:"token" validate:"required,max=255"`
	Platform string `json:"platform" validate:"required,oneof=android ios web"`
}

// RegisterDevice stores the token, reactivating it when already known. A
// token registered by another operator is reported as a conflict.
func (s *Service) RegisterDevice(ctx context.Context, in DeviceInput) (*models.DeviceToken, error) {
	const action = "register device"
	in.Token = strings.TrimSpace(in.Token)
	in.Platform = strings.ToLower(strings.TrimSpace(in.Platform))
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*models.DeviceToken, error) {
		var out *models.DeviceToken
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			known, err := store.Query[models.DeviceToken](ctx, tx, store.Where("token = ?", in.Token), store.Limit(1))
			if err != nil {
				return err
			}
			if len(known) > 0 {
				out, err = store.Update[models.DeviceToken](ctx, tx, known[0].ID, map[string]interface{}{
					"platform":  in.Platform,
					"is_active": true,
				})
				return err
			}
			out = &models.DeviceToken{Token: in.Token, Platform: in.Platform, IsActive: true}
			return store.Create(ctx, tx, out)
		})
		return out, err
	})
}

// UnregisterDevice stops pushes to the token
func (s *Service) UnregisterDevice(ctx context.Context, token string) error {
	return exec(ctx, s, "unregister device", func() error {
		known, err := store.Query[models.DeviceToken](ctx, s.store, store.Where("token = ?", token), store.Limit(1))
		if err != nil {
			return err
		}
		if len(known) == 0 {
			return nil
		}
		_, err = store.Update[models.DeviceToken](ctx, s.store, known[0].ID, map[string]interface{}{"is_active": false})
		return err
	})
}

// ActiveDeviceTokens lists the operator's push targets
func (s *Service) ActiveDeviceTokens(ctx context.Context) ([]string, error) {
	return do(ctx, s, "list devices", func() ([]string, error) {
		devices, err := store.Query[models.DeviceToken](ctx, s.store, store.Where("is_active = ?", true))
		if err != nil {
			return nil, err
		}
		tokens := make([]string, 0, len(devices))
		for _, d := range devices {
			tokens = append(tokens, d.Token)
		}
		return tokens, nil
	})
}

// OperatorsWithDevices returns every operator that has an active push
// target. This is the one listing that spans operators; it feeds the
// background digest.
func (s *Service) OperatorsWithDevices(ctx context.Context) ([]string, error) {
	return do(ctx, s, "list operators with devices", func() ([]string, error) {
		var ids []string
		err := s.store.DB().WithContext(ctx).
			Model(&models.DeviceToken{}).
			Where("is_active = ?", true).
			Distinct().
			Pluck("operator_id", &ids).Error
		if err != nil {
			return nil, store.Translate("device token", err)
		}
		return ids, nil
	})
}

// DeactivateTokens marks tokens the push service rejected
func (s *Service) DeactivateTokens(ctx context.Context, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return exec(ctx, s, "deactivate devices", func() error {
		tx, _, err := s.store.Session(ctx)
		if err != nil {
			return err
		}
		err = tx.Model(&models.DeviceToken{}).Where("token IN ?", tokens).Update("is_active", false).Error
		return store.Translate("device token", err)
	})
}
