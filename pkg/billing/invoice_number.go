package billing

import (
	"fmt"
	"regexp"
	"strconv"
)

// InvoicePrefix starts every invoice number
const InvoicePrefix = "INV-"

var invoiceNumberPattern = regexp.MustCompile(`INV-(\d+)`)

// FormatInvoiceNumber renders n zero-padded to at least four digits
func FormatInvoiceNumber(n int) string {
	return fmt.Sprintf("%s%04d", InvoicePrefix, n)
}

// ParseInvoiceNumber extracts the numeric suffix
func ParseInvoiceNumber(s string) (int, bool) {
	m := invoiceNumberPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NextInvoiceNumber follows latest, or starts the sequence at 1 when there
// is no usable previous number.
func NextInvoiceNumber(latest string) string {
	n, ok := ParseInvoiceNumber(latest)
	if !ok {
		return FormatInvoiceNumber(1)
	}
	return FormatInvoiceNumber(n + 1)
}
