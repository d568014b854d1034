package garage

import (
	"testing"
	"time"

	"garage_backend/pkg/apperr"
	"garage_backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")
	raj, rajBike := seedCustomerBike(t, s, ctx)
	meera, err := s.CreateCustomer(ctx, CustomerInput{Name: "Meera", Phone: "9123456789"})
	require.NoError(t, err)
	meeraBike, err := s.CreateBike(ctx, BikeInput{CustomerID: meera.ID, RegistrationNumber: "MH14XY9999", MakeModel: "Bajaj Pulsar"})
	require.NoError(t, err)
	oil := seedItem(t, s, ctx, "Engine Oil", 20, 350)

	paid := ptr(models.PaymentStatusPaid)
	upi := ptr(models.PaymentMethodUPI)
	j1 := seedJob(t, s, ctx, rajBike.ID, JobInput{FinalTotal: 1000, PaymentStatus: paid})
	seedJob(t, s, ctx, rajBike.ID, JobInput{FinalTotal: 500.5, PaymentStatus: paid, PaymentMethod: upi})
	seedJob(t, s, ctx, meeraBike.ID, JobInput{FinalTotal: 2000, PaymentStatus: paid, PaymentMethod: upi})
	seedJob(t, s, ctx, meeraBike.ID, JobInput{FinalTotal: 9999})

	_, err = s.AddJobPart(ctx, j1.ID, PartInput{InventoryItemID: &oil.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = s.AddJobPart(ctx, j1.ID, PartInput{ItemName: "Rag", Quantity: 1, UnitPrice: ptr(10.0)})
	require.NoError(t, err)

	now := time.Now()
	r, err := s.Report(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 3, r.PaidJobs)
	assert.Equal(t, 3500.5, r.TotalRevenue)

	daily := 0.0
	for _, d := range r.Daily {
		daily += d.Revenue
	}
	assert.InDelta(t, 3500.5, daily, 0.001)

	require.Len(t, r.ByMethod, 2)
	assert.Equal(t, models.PaymentMethodUPI, r.ByMethod[0].Method)
	assert.Equal(t, 2500.5, r.ByMethod[0].Revenue)
	assert.Equal(t, models.PaymentMethodCash, r.ByMethod[1].Method)
	assert.Equal(t, 1, r.ByMethod[1].Jobs)

	require.Len(t, r.TopCustomers, 2)
	assert.Equal(t, meera.ID, r.TopCustomers[0].CustomerID)
	assert.Equal(t, raj.ID, r.TopCustomers[1].CustomerID)
	assert.Equal(t, 1500.5, r.TopCustomers[1].Total)
	assert.Equal(t, 2, r.TopCustomers[1].Jobs)

	require.Len(t, r.TopParts, 2)
	assert.Equal(t, "Engine Oil", r.TopParts[0].ItemName)
	assert.Equal(t, 3, r.TopParts[0].Quantity)
	assert.Equal(t, 1050.0, r.TopParts[0].Revenue)

	empty, err := s.Report(ctx, now.Add(time.Hour), now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, empty.PaidJobs)
	assert.Empty(t, empty.Daily)

	_, err = s.Report(ctx, now, now)
	assert.True(t, apperr.IsValidation(err))
}

func TestDashboardCounts(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")
	_, bike := seedCustomerBike(t, s, ctx)
	seedItem(t, s, ctx, "Fuse", 0, 20)

	soon := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	seedJob(t, s, ctx, bike.ID, JobInput{NextServiceDate: &soon})
	seedJob(t, s, ctx, bike.ID, JobInput{Status: ptr(models.JobStatusInProgress), PaymentStatus: ptr(models.PaymentStatusPartial)})
	seedJob(t, s, ctx, bike.ID, JobInput{Status: ptr(models.JobStatusReadyForDelivery), PaymentStatus: ptr(models.PaymentStatusPaid)})
	seedJob(t, s, ctx, bike.ID, JobInput{Status: ptr(models.JobStatusDelivered), PaymentStatus: ptr(models.PaymentStatusPaid)})

	d, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, Dashboard{
		Customers:         1,
		Bikes:             1,
		ActiveJobs:        2,
		ReadyForDelivery:  1,
		PendingPayments:   2,
		LowStockItems:     1,
		UpcomingReminders: 1,
	}, *d)
}
