package garage

import (
	"testing"

	"garage_backend/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerValidation(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")

	_, err := s.CreateCustomer(ctx, CustomerInput{Name: "  ", Phone: "98765-432"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create customer")

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "phone")

	customers, err := s.ListCustomers(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestCustomerSearchAndDetail(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")
	raj, bike := seedCustomerBike(t, s, ctx)
	_, err := s.CreateCustomer(ctx, CustomerInput{Name: "Meera Kulkarni", Phone: "9123456789", Address: ptr("  ")})
	require.NoError(t, err)

	found, err := s.ListCustomers(ctx, "RAJ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, raj.ID, found[0].ID)

	found, err = s.ListCustomers(ctx, "91234")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Meera Kulkarni", found[0].Name)
	assert.Nil(t, found[0].Address)

	detail, err := s.GetCustomer(ctx, raj.ID)
	require.NoError(t, err)
	require.Len(t, detail.Bikes, 1)
	assert.Equal(t, bike.ID, detail.Bikes[0].ID)

	updated, err := s.UpdateCustomer(ctx, raj.ID, CustomerInput{Name: "Raj Patil", Phone: "9876543210", Notes: ptr("prefers UPI")})
	require.NoError(t, err)
	assert.Equal(t, "Raj Patil", updated.Name)
	assert.Equal(t, "prefers UPI", *updated.Notes)
}

func TestBikeRules(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")
	customer, _ := seedCustomerBike(t, s, ctx)

	_, err := s.CreateBike(ctx, BikeInput{CustomerID: customer.ID, MakeModel: "Pulsar", Year: ptr(1850), LastMileage: ptr(-5)})
	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "registration_number")
	assert.Contains(t, ve.Fields, "year")
	assert.Contains(t, ve.Fields, "last_mileage")

	bike, err := s.CreateBike(ctx, BikeInput{CustomerID: customer.ID, RegistrationNumber: " ka01ab0001 ", MakeModel: "Pulsar", Year: ptr(2020)})
	require.NoError(t, err)
	assert.Equal(t, "KA01AB0001", bike.RegistrationNumber)

	bikes, err := s.ListBikes(ctx, customer.ID, "ka01")
	require.NoError(t, err)
	require.Len(t, bikes, 1)
	assert.Equal(t, bike.ID, bikes[0].ID)

	job := seedJob(t, s, ctx, bike.ID, JobInput{})
	detail, err := s.GetBike(ctx, bike.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Customer)
	require.Len(t, detail.Jobs, 1)
	assert.Equal(t, job.ID, detail.Jobs[0].ID)

	require.NoError(t, s.DeleteBike(ctx, bike.ID))
	_, err = s.GetJob(ctx, job.ID)
	assert.True(t, apperr.IsNotFound(err))
}
