// Package billing holds the arithmetic of a work order: tax, totals and
// balances, package prefill, status side effects and invoice numbering.
// Nothing here touches the store.
package billing

import (
	"garage_backend/pkg/models"

	"github.com/shopspring/decimal"
)

var (
	// epsilon is half a paisa; amounts closer than this are equal
	epsilon = decimal.New(5, -3)
	hundred = decimal.NewFromInt(100)
)

// Amounts are stored as float64 columns. They enter decimal here and
// leave through money, so the rounding itself never sees binary fractions.
func amount(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// Round2 rounds half away from zero to two decimals
func Round2(v float64) float64 {
	return money(amount(v))
}

// GSTAmount extracts the tax already included in a tax-inclusive total
func GSTAmount(finalTotal, gstPercent float64) float64 {
	if gstPercent <= 0 {
		return 0
	}
	pct := amount(gstPercent)
	return money(amount(finalTotal).Mul(pct).Div(hundred.Add(pct)))
}

// Balance is what the customer still owes. Overpayment gives a negative balance.
func Balance(finalTotal, paidAmount float64) float64 {
	return money(amount(finalTotal).Sub(amount(paidAmount)))
}

// Summary is the financial shape of a job as shown on screen and on the invoice
type Summary struct {
	LaborCost      float64 `json:"labor_cost"`
	PartsCost      float64 `json:"parts_cost"`
	Subtotal       float64 `json:"subtotal"`
	GSTPercent     float64 `json:"gst_percent"`
	GSTAmount      float64 `json:"gst_amount"`
	DiscountAmount float64 `json:"discount_amount"`
	GrandTotal     float64 `json:"grand_total"`
	PaidAmount     float64 `json:"paid_amount"`
	BalanceDue     float64 `json:"balance_due"`
	PaymentWarning string  `json:"payment_warning,omitempty"`
}

// Summarize derives the display figures for job. Parts cost is
// back-derived from the stored total and only clamped inside the subtotal.
func Summarize(job *models.Job) Summary {
	gst := job.GSTAmount
	labor := amount(job.LaborCost)
	partsCost := amount(job.FinalTotal).Sub(labor).Sub(amount(gst)).Round(2)

	return Summary{
		LaborCost:      job.LaborCost,
		PartsCost:      partsCost.InexactFloat64(),
		Subtotal:       money(labor.Add(decimal.Max(decimal.Zero, partsCost))),
		GSTPercent:     job.GSTPercent,
		GSTAmount:      gst,
		DiscountAmount: job.DiscountAmount,
		GrandTotal:     job.FinalTotal,
		PaidAmount:     job.PaidAmount,
		BalanceDue:     Balance(job.FinalTotal, job.PaidAmount),
		PaymentWarning: PaymentWarning(job.PaymentStatus, job.FinalTotal, job.PaidAmount),
	}
}

// PaymentWarning describes a disagreement between the manual payment
// status and the amounts, or returns "" when they agree.
func PaymentWarning(status models.PaymentStatus, finalTotal, paidAmount float64) string {
	paid := amount(paidAmount)
	balance := amount(finalTotal).Sub(paid)
	switch status {
	case models.PaymentStatusPaid:
		if balance.GreaterThan(epsilon) {
			return "marked paid with a balance still due"
		}
	case models.PaymentStatusPartial:
		if paid.LessThanOrEqual(epsilon) {
			return "marked partial but nothing has been paid"
		}
		if balance.LessThanOrEqual(epsilon) {
			return "marked partial but fully paid"
		}
	case models.PaymentStatusPending:
		if paid.GreaterThan(epsilon) {
			return "marked pending but a payment was recorded"
		}
	}
	if balance.LessThan(epsilon.Neg()) {
		return "overpaid"
	}
	return ""
}
