package garage

import (
	"strings"
	"testing"
	"time"

	"garage_backend/pkg/apperr"
	"garage_backend/pkg/messaging"
	"garage_backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltInTemplatesAreReadOnly(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")

	require.NoError(t, s.EnsureBuiltInTemplates(ctx))
	require.NoError(t, s.EnsureBuiltInTemplates(ctx))

	templates, err := s.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, len(messaging.BuiltInTemplates()))
	builtIn := templates[0]
	assert.True(t, builtIn.IsBuiltIn)

	_, err = s.UpdateTemplate(ctx, builtIn.ID, TemplateInput{Name: "Mine", Content: "changed"})
	assert.True(t, apperr.IsConstraint(err))
	assert.True(t, apperr.IsConstraint(s.DeleteTemplate(ctx, builtIn.ID)))

	own, err := s.CreateTemplate(ctx, TemplateInput{Name: "Diwali Offer", Content: "Hi {customer_name}"})
	require.NoError(t, err)
	assert.Equal(t, models.TemplateCategoryCustom, own.Category)

	updated, err := s.UpdateTemplate(ctx, own.ID, TemplateInput{Name: "Diwali Offer", Content: "Hello {customer_name}"})
	require.NoError(t, err)
	assert.Equal(t, "Hello {customer_name}", updated.Content)
	require.NoError(t, s.DeleteTemplate(ctx, own.ID))
}

func TestComposeWithJob(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")
	customer, bike := seedCustomerBike(t, s, ctx)
	_, err := s.UpsertSettings(ctx, SettingsInput{Name: "Speed Motors", Address: "MG Road, Pune", Phone: "020 1234 5678"})
	require.NoError(t, err)

	due := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	job := seedJob(t, s, ctx, bike.ID, JobInput{FinalTotal: 1500, PaidAmount: 500, NextServiceDate: &due})
	job, err = s.GenerateInvoice(ctx, job.ID)
	require.NoError(t, err)

	require.NoError(t, s.EnsureBuiltInTemplates(ctx))
	templates, err := s.ListTemplates(ctx)
	require.NoError(t, err)
	var paymentDue string
	for _, tpl := range templates {
		if tpl.Name == "Payment Due" {
			paymentDue = tpl.ID
		}
	}
	require.NotEmpty(t, paymentDue)

	got, err := s.Compose(ctx, ComposeInput{CustomerID: customer.ID, JobID: &job.ID, TemplateID: &paymentDue})
	require.NoError(t, err)

	assert.Equal(t, "Payment Due", got.TemplateName)
	assert.Contains(t, got.Message, "Hi Raj")
	assert.Contains(t, got.Message, "Rs. 1000 is pending on invoice INV-0001")
	assert.Contains(t, got.Message, "Speed Motors, 020 1234 5678")
	assert.True(t, strings.HasPrefix(got.WhatsAppLink, "https://wa.me/9876543210?text=Hi%20Raj"))
	assert.True(t, strings.HasPrefix(got.SMSLink, "sms:9876543210?body="))
}

func TestComposeFallbacks(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")
	customer, err := s.CreateCustomer(ctx, CustomerInput{Name: "Anita", Phone: "98200 12345", WhatsApp: ptr("+91 98200 54321")})
	require.NoError(t, err)

	manual, err := s.Compose(ctx, ComposeInput{CustomerID: customer.ID})
	require.NoError(t, err)
	assert.Equal(t, messaging.ManualNoteName, manual.TemplateName)
	assert.Contains(t, manual.Message, "Team MechanicPro Garage")
	assert.Equal(t, "+91 98200 54321", manual.Phone)
	assert.True(t, strings.HasPrefix(manual.WhatsAppLink, "https://wa.me/919820054321?"))

	custom, err := s.Compose(ctx, ComposeInput{CustomerID: customer.ID, Content: ptr("Is your {bike_model} running well?")})
	require.NoError(t, err)
	assert.Equal(t, messaging.CustomMessageName, custom.TemplateName)
	assert.Equal(t, "Is your your vehicle running well?", custom.Message)
}

func TestComposeRejectsAnotherCustomersJob(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")
	_, bike := seedCustomerBike(t, s, ctx)
	job := seedJob(t, s, ctx, bike.ID, JobInput{})
	other, err := s.CreateCustomer(ctx, CustomerInput{Name: "Meera", Phone: "9123456789"})
	require.NoError(t, err)

	_, err = s.Compose(ctx, ComposeInput{CustomerID: other.ID, JobID: &job.ID})
	assert.True(t, apperr.IsNotFound(err))
}

func TestCommunicationLog(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")
	customer, bike := seedCustomerBike(t, s, ctx)
	job := seedJob(t, s, ctx, bike.ID, JobInput{})

	entry, err := s.LogCommunication(ctx, LogInput{
		CustomerID:     customer.ID,
		JobID:          &job.ID,
		TemplateName:   ptr(messaging.ManualNoteName),
		MessageContent: "Your bike is ready",
		SentVia:        models.MessageChannelWhatsApp,
	})
	require.NoError(t, err)
	assert.Equal(t, "sent", entry.Status)

	_, err = s.LogCommunication(ctx, LogInput{CustomerID: customer.ID, MessageContent: "x", SentVia: "email"})
	assert.True(t, apperr.IsValidation(err))

	require.NoError(t, s.DeleteJob(ctx, job.ID))
	logs, err := s.ListCommunicationLogs(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].JobID)
}

func TestSettingsUpsert(t *testing.T) {
	s := newTestService(t)
	ctx := asOperator("op-a")

	got, err := s.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "MechanicPro Garage", got.Name)

	first, err := s.UpsertSettings(ctx, SettingsInput{Name: "Speed Motors", Address: "Pune", Phone: "9876543210", GSTIN: ptr("27abcde1234f1z5")})
	require.NoError(t, err)
	assert.Equal(t, "27ABCDE1234F1Z5", *first.GSTIN)

	second, err := s.UpsertSettings(ctx, SettingsInput{Name: "Speed Motors & Co", Address: "Pune", Phone: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Nil(t, second.GSTIN)

	_, err = s.UpsertSettings(ctx, SettingsInput{Name: "x", Address: "y", Phone: "123"})
	assert.True(t, apperr.IsValidation(err))
}

func TestDevices(t *testing.T) {
	s := newTestService(t)
	a := asOperator("op-a")

	_, err := s.RegisterDevice(a, DeviceInput{Token: "tok-1", Platform: "Android"})
	require.NoError(t, err)
	_, err = s.RegisterDevice(a, DeviceInput{Token: "tok-1", Platform: "android"})
	require.NoError(t, err)
	_, err = s.RegisterDevice(a, DeviceInput{Token: "tok-2", Platform: "web"})
	require.NoError(t, err)

	_, err = s.RegisterDevice(asOperator("op-b"), DeviceInput{Token: "tok-1", Platform: "ios"})
	assert.True(t, apperr.IsConflict(err))

	tokens, err := s.ActiveDeviceTokens(a)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tok-1", "tok-2"}, tokens)

	require.NoError(t, s.DeactivateTokens(a, []string{"tok-2"}))
	require.NoError(t, s.UnregisterDevice(a, "tok-missing"))
	tokens, err = s.ActiveDeviceTokens(a)
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-1"}, tokens)

	operators, err := s.OperatorsWithDevices(a)
	require.NoError(t, err)
	assert.Equal(t, []string{"op-a"}, operators)
}
