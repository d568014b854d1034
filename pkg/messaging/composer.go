// Package messaging fills customer message templates and builds the deep
// links that hand a message to WhatsApp or SMS.
package messaging

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"garage_backend/pkg/models"
	"garage_backend/pkg/validation"
)

// ManualTemplate is offered when the operator writes a message by hand
const ManualTemplate = "Hi {customer_name},\n\n[Write your message here]\n\nRegards,\nTeam {garage_name}"

// Names recorded in the log when no stored template was used
const (
	ManualNoteName    = "Manual Note"
	CustomMessageName = "Custom Message"
)

// DueDateLayout renders {due_date}
const DueDateLayout = "02-Jan-2006"

// Fields are the values a template may reference. Nil pointers and empty
// strings fall back to the placeholder wording customers expect.
type Fields struct {
	CustomerName  string
	BikeModel     string
	RegNumber     string
	InvoiceAmount *float64
	InvoiceNumber string
	PendingAmount *float64
	DueDate       *time.Time
	GarageName    string
	GaragePhone   string
	GarageAddress string
	FeedbackLink  string
}

// Fill replaces every {token} occurrence in template
func Fill(template string, f Fields) string {
	r := strings.NewReplacer(
		"{customer_name}", f.CustomerName,
		"{bike_model}", fallback(f.BikeModel, "your vehicle"),
		"{reg_number}", f.RegNumber,
		"{invoice_amount}", amount(f.InvoiceAmount),
		"{invoice_number}", f.InvoiceNumber,
		"{pending_amount}", amount(f.PendingAmount),
		"{due_date}", dueDate(f.DueDate),
		"{garage_name}", fallback(f.GarageName, "our garage"),
		"{garage_phone}", f.GaragePhone,
		"{garage_address}", f.GarageAddress,
		"{feedback_link}", fallback(f.FeedbackLink, "our website"),
	)
	return r.Replace(template)
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func amount(v *float64) string {
	if v == nil {
		return "0"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func dueDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DueDateLayout)
}

// WhatsAppLink opens a chat with phone prefilled with message
func WhatsAppLink(phone, message string) string {
	return "https://wa.me/" + validation.Digits(phone) + "?text=" + encode(message)
}

// SMSLink opens the device's SMS composer
func SMSLink(phone, message string) string {
	return "sms:" + validation.Digits(phone) + "?body=" + encode(message)
}

// encode escapes like a URI component, spaces as %20
func encode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BuiltInTemplates are seeded for every new operator and cannot be edited
func BuiltInTemplates() []models.CommunicationTemplate {
	return []models.CommunicationTemplate{
		{
			Name:      "Service Reminder",
			Category:  models.TemplateCategoryReminder,
			IsBuiltIn: true,
			Content: "Hi {customer_name}, your {bike_model} ({reg_number}) is due for service on {due_date}. " +
				"Call {garage_name} on {garage_phone} to book a slot.",
		},
		{
			Name:      "Ready for Pickup",
			Category:  models.TemplateCategoryStatus,
			IsBuiltIn: true,
			Content: "Hi {customer_name}, your {bike_model} ({reg_number}) is ready for pickup at {garage_name}, " +
				"{garage_address}.",
		},
		{
			Name:      "Invoice",
			Category:  models.TemplateCategoryInvoice,
			IsBuiltIn: true,
			Content: "Hi {customer_name}, invoice {invoice_number} for your {bike_model} comes to Rs. {invoice_amount}. " +
				"Thank you for choosing {garage_name}.",
		},
		{
			Name:      "Payment Due",
			Category:  models.TemplateCategoryPayment,
			IsBuiltIn: true,
			Content: "Hi {customer_name}, Rs. {pending_amount} is pending on invoice {invoice_number}. " +
				"Please clear it at your convenience. {garage_name}, {garage_phone}.",
		},
		{
			Name:      "Feedback Request",
			Category:  models.TemplateCategoryFeedback,
			IsBuiltIn: true,
			Content: "Hi {customer_name}, thank you for trusting {garage_name} with your {bike_model}. " +
				"We would love your feedback at {feedback_link}.",
		},
	}
}
