package garage

import (
	"testing"

	"garage_backend/pkg/apperr"
	"garage_backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorsCannotSeeEachOther(t *testing.T) {
	s := newTestService(t)
	a := asOperator("op-a")
	b := asOperator("op-b")

	customer, bike := seedCustomerBike(t, s, a)
	item := seedItem(t, s, a, "Engine Oil", 10, 350)
	job := seedJob(t, s, a, bike.ID, JobInput{})
	part, err := s.AddJobPart(a, job.ID, PartInput{InventoryItemID: &item.ID, Quantity: 1})
	require.NoError(t, err)
	pkg, err := s.CreatePackage(a, PackageInput{Name: "Wash", LaborCharge: 100})
	require.NoError(t, err)
	tpl, err := s.CreateTemplate(a, TemplateInput{Name: "Thanks", Content: "Thanks {customer_name}"})
	require.NoError(t, err)
	_, err = s.LogCommunication(a, LogInput{CustomerID: customer.ID, MessageContent: "hi", SentVia: models.MessageChannelSMS})
	require.NoError(t, err)
	_, err = s.UpsertSettings(a, SettingsInput{Name: "A Motors", Address: "Pune", Phone: "9876500000"})
	require.NoError(t, err)

	notFound := func(t *testing.T, err error) {
		t.Helper()
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err), "got %v", err)
	}

	t.Run("reads", func(t *testing.T) {
		_, err := s.GetCustomer(b, customer.ID)
		notFound(t, err)
		_, err = s.GetBike(b, bike.ID)
		notFound(t, err)
		_, err = s.GetJob(b, job.ID)
		notFound(t, err)
		_, err = s.ListJobParts(b, job.ID)
		notFound(t, err)
		_, err = s.GetInventoryItem(b, item.ID)
		notFound(t, err)
		_, err = s.GetPackage(b, pkg.ID)
		notFound(t, err)
		_, err = s.InvoiceDocument(b, job.ID)
		notFound(t, err)
		_, err = s.Compose(b, ComposeInput{CustomerID: customer.ID})
		notFound(t, err)
	})

	t.Run("lists are empty", func(t *testing.T) {
		customers, err := s.ListCustomers(b, "")
		require.NoError(t, err)
		assert.Empty(t, customers)
		bikes, err := s.ListBikes(b, "", "")
		require.NoError(t, err)
		assert.Empty(t, bikes)
		jobs, err := s.ListJobs(b, JobFilter{})
		require.NoError(t, err)
		assert.Empty(t, jobs)
		items, err := s.ListInventory(b, InventoryFilter{})
		require.NoError(t, err)
		assert.Empty(t, items)
		pkgs, err := s.ListPackages(b)
		require.NoError(t, err)
		assert.Empty(t, pkgs)
		templates, err := s.ListTemplates(b)
		require.NoError(t, err)
		assert.Empty(t, templates)
		logs, err := s.ListCommunicationLogs(b, "")
		require.NoError(t, err)
		assert.Empty(t, logs)

		settings, err := s.GetSettings(b)
		require.NoError(t, err)
		assert.Empty(t, settings.ID)
		assert.Equal(t, s.Profile().Name, settings.Name)

		dash, err := s.Dashboard(b)
		require.NoError(t, err)
		assert.Equal(t, Dashboard{}, *dash)
	})

	t.Run("writes", func(t *testing.T) {
		_, err := s.UpdateCustomer(b, customer.ID, CustomerInput{Name: "Hijack", Phone: "9999999999"})
		notFound(t, err)
		_, err = s.UpdateJob(b, job.ID, JobUpdate{MechanicNotes: ptr("hijack")})
		notFound(t, err)
		_, err = s.GenerateInvoice(b, job.ID)
		notFound(t, err)
		_, err = s.UpdateJobPart(b, job.ID, part.ID, PartInput{Quantity: 9})
		notFound(t, err)
		_, err = s.AdjustStock(b, item.ID, StockAdjustment{Quantity: 5})
		notFound(t, err)
		_, err = s.UpdateTemplate(b, tpl.ID, TemplateInput{Name: "x", Content: "y"})
		notFound(t, err)
		_, err = s.CreateBike(b, BikeInput{CustomerID: customer.ID, RegistrationNumber: "KA01", MakeModel: "Pulsar"})
		notFound(t, err)
		_, err = s.AddJobPart(b, job.ID, PartInput{Quantity: 1})
		notFound(t, err)
		_, err = s.ApplyPackageToJob(b, job.ID, pkg.ID, nil)
		notFound(t, err)
	})

	t.Run("deletes", func(t *testing.T) {
		notFound(t, s.DeleteJobPart(b, job.ID, part.ID))
		notFound(t, s.DeleteJob(b, job.ID))
		notFound(t, s.DeleteBike(b, bike.ID))
		notFound(t, s.DeleteCustomer(b, customer.ID))
		notFound(t, s.DeleteInventoryItem(b, item.ID))
		notFound(t, s.DeletePackage(b, pkg.ID))
		notFound(t, s.DeleteTemplate(b, tpl.ID))
	})

	t.Run("owner still sees everything", func(t *testing.T) {
		got, err := s.GetJob(a, job.ID)
		require.NoError(t, err)
		assert.Nil(t, got.MechanicNotes)
		assert.Nil(t, got.InvoiceNumber)
		require.NotNil(t, got.Bike)
		assert.Equal(t, customer.ID, got.Bike.Customer.ID)
		require.Len(t, got.Parts, 1)

		stock, err := s.GetInventoryItem(a, item.ID)
		require.NoError(t, err)
		assert.Equal(t, 9, stock.StockQuantity)
	})
}

func TestMissingOperatorIsRejected(t *testing.T) {
	s := newTestService(t)
	_, err := s.ListCustomers(asOperator(""), "")
	require.Error(t, err)
}
