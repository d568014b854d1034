package garage

import (
	"testing"

	"garage_backend/pkg/apperr"
	"garage_backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stockOf(t *testing.T, s *Service, itemID string) int {
	t.Helper()
	item, err := s.GetInventoryItem(asOperator("op-a"), itemID)
	require.NoError(t, err)
	return item.StockQuantity
}

func TestJobPartsMoveStock(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")
	_, bike := seedCustomerBike(t, s, ctx)
	item := seedItem(t, s, ctx, "Engine Oil", 10, 350)
	job := seedJob(t, s, ctx, bike.ID, JobInput{})

	part, err := s.AddJobPart(ctx, job.ID, PartInput{InventoryItemID: &item.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, "Engine Oil", part.ItemName)
	assert.Equal(t, 350.0, part.UnitPrice)
	assert.Equal(t, 1050.0, part.TotalPrice)
	assert.Equal(t, 7, stockOf(t, s, item.ID))

	part, err = s.UpdateJobPart(ctx, job.ID, part.ID, PartInput{Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 1750.0, part.TotalPrice)
	assert.Equal(t, 5, stockOf(t, s, item.ID))

	_, err = s.UpdateJobPart(ctx, job.ID, part.ID, PartInput{Quantity: 1, UnitPrice: ptr(300.0)})
	require.NoError(t, err)
	assert.Equal(t, 9, stockOf(t, s, item.ID))

	require.NoError(t, s.DeleteJobPart(ctx, job.ID, part.ID))
	assert.Equal(t, 10, stockOf(t, s, item.ID))

	movements, err := s.StockMovements(ctx, item.ID)
	require.NoError(t, err)
	actions := map[models.StockAction]int{}
	net := 0
	for _, m := range movements {
		actions[m.Action]++
		net += m.Quantity
	}
	assert.Equal(t, 10, net)
	assert.Equal(t, 1, actions[models.StockActionAdjust])
	assert.Equal(t, 2, actions[models.StockActionConsume])
	assert.Equal(t, 2, actions[models.StockActionRestore])
}

func TestRelinkJobPartMovesStock(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")
	_, bike := seedCustomerBike(t, s, ctx)
	oil := seedItem(t, s, ctx, "Engine Oil", 10, 350)
	synthetic := seedItem(t, s, ctx, "Synthetic Oil", 8, 600)
	job := seedJob(t, s, ctx, bike.ID, JobInput{})

	part, err := s.AddJobPart(ctx, job.ID, PartInput{InventoryItemID: &oil.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 8, stockOf(t, s, oil.ID))

	part, err = s.UpdateJobPart(ctx, job.ID, part.ID, PartInput{InventoryItemID: &synthetic.ID, Quantity: 3})
	require.NoError(t, err)
	require.NotNil(t, part.InventoryItemID)
	assert.Equal(t, synthetic.ID, *part.InventoryItemID)
	assert.Equal(t, "Synthetic Oil", part.ItemName)
	assert.Equal(t, 600.0, part.UnitPrice)
	assert.Equal(t, 1800.0, part.TotalPrice)
	assert.Equal(t, 10, stockOf(t, s, oil.ID))
	assert.Equal(t, 5, stockOf(t, s, synthetic.ID))

	// a nil id keeps the link
	_, err = s.UpdateJobPart(ctx, job.ID, part.ID, PartInput{Quantity: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, stockOf(t, s, synthetic.ID))

	// a blank id unlinks and returns the stock
	part, err = s.UpdateJobPart(ctx, job.ID, part.ID, PartInput{InventoryItemID: ptr(""), Quantity: 4})
	require.NoError(t, err)
	assert.Nil(t, part.InventoryItemID)
	assert.Equal(t, 8, stockOf(t, s, synthetic.ID))

	require.NoError(t, s.DeleteJobPart(ctx, job.ID, part.ID))
	assert.Equal(t, 10, stockOf(t, s, oil.ID))
	assert.Equal(t, 8, stockOf(t, s, synthetic.ID))

	_, err = s.AddJobPart(ctx, job.ID, PartInput{InventoryItemID: &oil.ID, Quantity: 1})
	require.NoError(t, err)
	parts, err := s.ListJobParts(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	_, err = s.UpdateJobPart(ctx, job.ID, parts[0].ID, PartInput{InventoryItemID: ptr("missing"), Quantity: 1})
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, 9, stockOf(t, s, oil.ID))
}

func TestFreeTextPartSkipsLedger(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")
	_, bike := seedCustomerBike(t, s, ctx)
	job := seedJob(t, s, ctx, bike.ID, JobInput{})

	part, err := s.AddJobPart(ctx, job.ID, PartInput{Quantity: 2, UnitPrice: ptr(40.0)})
	require.NoError(t, err)
	assert.Equal(t, unknownPart, part.ItemName)
	assert.Equal(t, 80.0, part.TotalPrice)
}

func TestReplaceJobParts(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")
	_, bike := seedCustomerBike(t, s, ctx)
	oil := seedItem(t, s, ctx, "Engine Oil", 10, 350)
	plug := seedItem(t, s, ctx, "Spark Plug", 5, 120)
	job := seedJob(t, s, ctx, bike.ID, JobInput{})

	_, err := s.AddJobPart(ctx, job.ID, PartInput{InventoryItemID: &oil.ID, Quantity: 2})
	require.NoError(t, err)

	parts, err := s.ReplaceJobParts(ctx, job.ID, PartsInput{Parts: []PartInput{
		{InventoryItemID: &plug.ID, Quantity: 2},
		{ItemName: "Labour consumables", Quantity: 1, UnitPrice: ptr(50.0)},
	}})
	require.NoError(t, err)
	assert.Len(t, parts, 2)
	assert.Equal(t, 10, stockOf(t, s, oil.ID))
	assert.Equal(t, 3, stockOf(t, s, plug.ID))

	listed, err := s.ListJobParts(ctx, job.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestNegativeStockIsFlagged(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")
	_, bike := seedCustomerBike(t, s, ctx)
	item := seedItem(t, s, ctx, "Chain", 1, 900)
	job := seedJob(t, s, ctx, bike.ID, JobInput{})

	_, err := s.AddJobPart(ctx, job.ID, PartInput{InventoryItemID: &item.ID, Quantity: 3})
	require.NoError(t, err)

	got, err := s.GetInventoryItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, -2, got.StockQuantity)
	assert.True(t, got.LowStock)

	low, err := s.ListInventory(ctx, InventoryFilter{LowStockOnly: true})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, item.ID, low[0].ID)
}

func TestCascadingDeleteRestoresStock(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")
	customer, bike := seedCustomerBike(t, s, ctx)
	item := seedItem(t, s, ctx, "Brake Pad", 10, 250)

	for i := 0; i < 2; i++ {
		job := seedJob(t, s, ctx, bike.ID, JobInput{})
		_, err := s.AddJobPart(ctx, job.ID, PartInput{InventoryItemID: &item.ID, Quantity: 2})
		require.NoError(t, err)
	}
	assert.Equal(t, 6, stockOf(t, s, item.ID))

	require.NoError(t, s.DeleteCustomer(ctx, customer.ID))
	assert.Equal(t, 10, stockOf(t, s, item.ID))

	_, err := s.GetBike(ctx, bike.ID)
	assert.True(t, apperr.IsNotFound(err))
	jobs, err := s.ListJobs(ctx, JobFilter{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestDeleteReferencedItemIsBlocked(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")
	_, bike := seedCustomerBike(t, s, ctx)
	used := seedItem(t, s, ctx, "Clutch Plate", 4, 700)
	packaged := seedItem(t, s, ctx, "Coolant", 4, 300)
	unused := seedItem(t, s, ctx, "Mirror", 4, 150)

	job := seedJob(t, s, ctx, bike.ID, JobInput{})
	_, err := s.AddJobPart(ctx, job.ID, PartInput{InventoryItemID: &used.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = s.CreatePackage(ctx, PackageInput{
		Name:  "Coolant Flush",
		Items: []PackageItemInput{{InventoryItemID: &packaged.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	err = s.DeleteInventoryItem(ctx, used.ID)
	assert.True(t, apperr.IsConstraint(err))
	err = s.DeleteInventoryItem(ctx, packaged.ID)
	assert.True(t, apperr.IsConstraint(err))

	require.NoError(t, s.DeleteInventoryItem(ctx, unused.ID))
	_, err = s.GetInventoryItem(ctx, unused.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestInventoryEditsAreBooked(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")
	item := seedItem(t, s, ctx, "Headlamp", 3, 450)

	_, err := s.UpdateInventoryItem(ctx, item.ID, InventoryInput{Name: "Headlamp LED", StockQuantity: 8, SellingPrice: 500})
	require.NoError(t, err)
	got, err := s.AdjustStock(ctx, item.ID, StockAdjustment{Quantity: -1, Note: ptr("broken in transit")})
	require.NoError(t, err)
	assert.Equal(t, 7, got.StockQuantity)
	assert.Equal(t, "Headlamp LED", got.Name)

	movements, err := s.StockMovements(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, movements, 3)
	for _, m := range movements {
		assert.Equal(t, models.StockActionAdjust, m.Action)
	}

	_, err = s.AdjustStock(ctx, item.ID, StockAdjustment{})
	assert.True(t, apperr.IsValidation(err))
}
