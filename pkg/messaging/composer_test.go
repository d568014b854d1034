package messaging

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFillReplacesEveryOccurrence(t *testing.T) {
	total := 1180.0
	pending := 780.5
	due := time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC)

	out := Fill("{customer_name}/{customer_name} {bike_model} {reg_number} {invoice_amount} {invoice_number} "+
		"{pending_amount} {due_date} {garage_name} {garage_phone} {garage_address} {feedback_link}", Fields{
		CustomerName:  "Raj",
		BikeModel:     "Pulsar 150",
		RegNumber:     "MH12AB1234",
		InvoiceAmount: &total,
		InvoiceNumber: "INV-0007",
		PendingAmount: &pending,
		DueDate:       &due,
		GarageName:    "Speed Motors",
		GaragePhone:   "020-1234",
		GarageAddress: "Pune",
		FeedbackLink:  "https://g.page/speed/review",
	})

	assert.Equal(t, "Raj/Raj Pulsar 150 MH12AB1234 1180 INV-0007 780.5 05-Nov-2026 Speed Motors 020-1234 Pune https://g.page/speed/review", out)
}

func TestFillFallbacks(t *testing.T) {
	out := Fill("{bike_model}|{reg_number}|{invoice_amount}|{pending_amount}|{due_date}|{garage_name}|{garage_phone}|{feedback_link}", Fields{})
	assert.Equal(t, "your vehicle||0|0||our garage||our website", out)
}

func TestFillLeavesUnknownTokens(t *testing.T) {
	assert.Equal(t, "see {your-google-business-name}", Fill("see {your-google-business-name}", Fields{}))
}

func TestManualTemplate(t *testing.T) {
	out := Fill(ManualTemplate, Fields{CustomerName: "Asha"})
	assert.True(t, strings.HasPrefix(out, "Hi Asha,"))
	assert.True(t, strings.HasSuffix(out, "Team our garage"))
}

func TestLinks(t *testing.T) {
	assert.Equal(t, "https://wa.me/919876543210?text=Hi%20Raj%21", WhatsAppLink("+91 98765 43210", "Hi Raj!"))
	assert.Equal(t, "sms:9876543210?body=ok", SMSLink("98765-43210", "ok"))
}

func TestBuiltInTemplatesAreMarked(t *testing.T) {
	for _, tpl := range BuiltInTemplates() {
		assert.True(t, tpl.IsBuiltIn, tpl.Name)
		assert.NotEmpty(t, tpl.Content)
	}
}
