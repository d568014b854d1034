package garage

import (
	"context"
	"testing"
	"time"

	"garage_backend/pkg/database/databasetest"
	"garage_backend/pkg/models"
	"garage_backend/pkg/store"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(databasetest.New(t),
		WithClock(func() time.Time { return testNow }),
		WithRetry(store.RetryPolicy{Attempts: 1}))
}

func asOperator(id string) context.Context {
	return store.WithOperator(context.Background(), id)
}

func ptr[T any](v T) *T { return &v }

func seedCustomerBike(t *testing.T, s *Service, ctx context.Context) (*models.Customer, *models.Bike) {
	t.Helper()
	customer, err := s.CreateCustomer(ctx, CustomerInput{Name: "Raj", Phone: "9876543210"})
	require.NoError(t, err)
	bike, err := s.CreateBike(ctx, BikeInput{
		CustomerID:         customer.ID,
		RegistrationNumber: "MH12AB1234",
		MakeModel:          "Honda Activa",
	})
	require.NoError(t, err)
	return customer, bike
}

func seedJob(t *testing.T, s *Service, ctx context.Context, bikeID string, in JobInput) *JobView {
	t.Helper()
	in.BikeID = bikeID
	if in.ProblemDescription == "" && in.PackageID == nil {
		in.ProblemDescription = "General service"
	}
	job, err := s.CreateJob(ctx, in)
	require.NoError(t, err)
	return job
}

func seedItem(t *testing.T, s *Service, ctx context.Context, name string, stock int, price float64) *models.InventoryItem {
	t.Helper()
	item, err := s.CreateInventoryItem(ctx, InventoryInput{
		Name:          name,
		StockQuantity: stock,
		MinStockLevel: 2,
		CostPrice:     price / 2,
		SellingPrice:  price,
	})
	require.NoError(t, err)
	return item
}
