package models

// JobStatus enum
type JobStatus string

const (
	JobStatusPending          JobStatus = "pending"
	JobStatusInProgress       JobStatus = "in_progress"
	JobStatusReadyForDelivery JobStatus = "ready_for_delivery"
	JobStatusDelivered        JobStatus = "delivered"
)

// Valid reports whether s is one of the known job states
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusInProgress, JobStatusReadyForDelivery, JobStatusDelivered:
		return true
	}
	return false
}

// PaymentStatus enum
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Valid reports whether s is one of the known payment states
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// PaymentMethod enum
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// MessageChannel enum
type MessageChannel string

const (
	MessageChannelWhatsApp MessageChannel = "whatsapp"
	MessageChannelSMS      MessageChannel = "sms"
)

// StockAction enum
type StockAction string

const (
	StockActionConsume StockAction = "CONSUME"
	StockActionRestore StockAction = "RESTORE"
	StockActionAdjust  StockAction = "ADJUST"
)

// TemplateCategory enum
type TemplateCategory string

const (
	TemplateCategoryReminder TemplateCategory = "reminder"
	TemplateCategoryInvoice  TemplateCategory = "invoice"
	TemplateCategoryPayment  TemplateCategory = "payment"
	TemplateCategoryStatus   TemplateCategory = "status"
	TemplateCategoryFeedback TemplateCategory = "feedback"
	TemplateCategoryCustom   TemplateCategory = "custom"
)
