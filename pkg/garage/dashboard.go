package garage

import (
	"context"

	"garage_backend/pkg/models"
	"garage_backend/pkg/store"

	"golang.org/x/sync/errgroup"
)

// reminderDays is how far ahead reminders look
const reminderDays = 30

// Dashboard is the operator's at-a-glance counts. Each count is read
// independently, so they may reflect slightly different moments.
type Dashboard struct {
	Customers         int64 `json:"customers"`
	Bikes             int64 `json:"bikes"`
	ActiveJobs        int64 `json:"active_jobs"`
	ReadyForDelivery  int64 `json:"ready_for_delivery"`
	PendingPayments   int64 `json:"pending_payments"`
	LowStockItems     int64 `json:"low_stock_items"`
	UpcomingReminders int64 `json:"upcoming_reminders"`
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	return do(ctx, s, "load dashboard", func() (*Dashboard, error) {
		var d Dashboard
		from, until := s.reminderWindow(reminderDays)

		g, gctx := errgroup.WithContext(ctx)
		count := func(dst *int64, fn func(context.Context) (int64, error)) {
			g.Go(func() error {
				n, err := fn(gctx)
				*dst = n
				return err
			})
		}
		count(&d.Customers, func(ctx context.Context) (int64, error) {
			return store.Count[models.Customer](ctx, s.store)
		})
		count(&d.Bikes, func(ctx context.Context) (int64, error) {
			return store.Count[models.Bike](ctx, s.store)
		})
		count(&d.ActiveJobs, func(ctx context.Context) (int64, error) {
			return store.Count[models.Job](ctx, s.store, store.Where("status IN ?",
				[]models.JobStatus{models.JobStatusPending, models.JobStatusInProgress}))
		})
		count(&d.ReadyForDelivery, func(ctx context.Context) (int64, error) {
			return store.Count[models.Job](ctx, s.store, store.Where("status = ?", models.JobStatusReadyForDelivery))
		})
		count(&d.PendingPayments, func(ctx context.Context) (int64, error) {
			return store.Count[models.Job](ctx, s.store, store.Where("payment_status IN ?",
				[]models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusPartial}))
		})
		count(&d.LowStockItems, func(ctx context.Context) (int64, error) {
			return store.Count[models.InventoryItem](ctx, s.store, store.Where("stock_quantity < min_stock_level"))
		})
		count(&d.UpcomingReminders, func(ctx context.Context) (int64, error) {
			return store.Count[models.Job](ctx, s.store,
				store.Where("next_service_date >= ? AND next_service_date < ?", from, until))
		})

		if err := g.Wait(); err != nil {
			return nil, err
		}
		return &d, nil
	})
}
