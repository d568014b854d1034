package invoice

import (
	"bytes"
	"html/template"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

var page = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"inr":  FormatINR,
	"date": func(t time.Time) string { return t.Format(DateLayout) },
}).Parse(pageHTML))

// Render writes the invoice as a standalone HTML page
func Render(w io.Writer, doc *Document) error {
	return page.Execute(w, doc)
}

// HTML renders the invoice into memory
func HTML(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatINR prints v with two decimals and Indian digit grouping,
// e.g. 1234567.5 as 12,34,567.50
func FormatINR(v float64) string {
	neg := v < 0
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	whole, frac := s[:len(s)-3], s[len(s)-2:]

	var groups []string
	if len(whole) > 3 {
		head := whole[:len(whole)-3]
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		groups = append([]string{head}, groups...)
		whole = whole[len(whole)-3:]
	}
	groups = append(groups, whole)

	out := strings.Join(groups, ",") + "." + frac
	if neg && out != "0.00" {
		out = "-" + out
	}
	return out
}

const pageHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.InvoiceNumber}}</title>
<style>
body { font-family: Georgia, serif; max-width: 800px; margin: 0 auto; padding: 32px; color: #000; }
.header { display: flex; justify-content: space-between; border-bottom: 2px solid #000; padding-bottom: 24px; margin-bottom: 24px; }
.boxes { display: flex; gap: 32px; margin-bottom: 32px; font-size: 14px; }
.box { flex: 1; border: 1px solid #ccc; padding: 16px; border-radius: 4px; }
table { width: 100%; border-collapse: collapse; font-size: 14px; margin-bottom: 32px; }
td, th { border: 1px solid #ccc; padding: 8px; }
.amount { text-align: right; width: 128px; }
.detail { font-size: 12px; color: #555; font-style: italic; white-space: pre-line; }
.discount { color: #dc2626; }
.total { background: #f3f4f6; font-weight: bold; font-size: 18px; }
.terms { font-size: 12px; }
</style>
</head>
<body>
<div class="header">
  <div>
    <h1>{{.Garage.Name}}</h1>
    <p>Two-Wheeler Service &amp; Repair Specialists</p>
    <p>{{.Garage.Address}}</p>
    {{if .Garage.GSTIN}}<p>GSTIN: {{.Garage.GSTIN}}</p>{{end}}
    <p>Contact: {{.Garage.Phone}}{{if .Garage.Email}} | {{.Garage.Email}}{{end}}</p>
    {{if .Garage.Website}}<p>{{.Garage.Website}}</p>{{end}}
  </div>
  <div style="text-align: right">
    <h2>TAX INVOICE</h2>
    <p><strong>Invoice No:</strong> {{.InvoiceNumber}}</p>
    <p><strong>Work Order No:</strong> {{.WorkOrder}}</p>
    <p><strong>Date:</strong> {{date .IssuedOn}}</p>
  </div>
</div>
<div class="boxes">
  <div class="box">
    <h3>Bill To:</h3>
    <p><strong>{{.CustomerName}}</strong></p>
    <p>Phone: {{.CustomerPhone}}</p>
    {{if .CustomerAddress}}<p>{{.CustomerAddress}}</p>{{end}}
  </div>
  <div class="box">
    <h3>Vehicle Details:</h3>
    <p><strong>Reg No:</strong> {{.RegistrationNumber}}</p>
    <p><strong>Model:</strong> {{.MakeModel}}{{if .Color}} ({{.Color}}){{end}}</p>
    <p><strong>Date In:</strong> {{date .DateIn}}</p>
    {{if .DateOut}}<p><strong>Date Out:</strong> {{date .DateOut}}</p>{{end}}
  </div>
</div>
<table>
  <thead><tr><th>Description</th><th class="amount">Amount (&#8377;)</th></tr></thead>
  <tbody>
    <tr>
      <td><p><strong>Labor / Service Charges</strong></p><p class="detail">{{.LaborDetail}}</p></td>
      <td class="amount">{{inr .Summary.LaborCost}}</td>
    </tr>
    <tr>
      <td><p><strong>Parts &amp; Consumables</strong></p>
        {{range .Parts}}<p class="detail">{{.Label}} &#8377;{{inr .Amount}}</p>{{else}}<p class="detail">{{.PartsDetail}}</p>{{end}}
      </td>
      <td class="amount">{{inr .Summary.PartsCost}}</td>
    </tr>
  </tbody>
  <tfoot>
    <tr><td class="amount">Subtotal</td><td class="amount">{{inr .Summary.Subtotal}}</td></tr>
    {{if .Summary.GSTAmount}}<tr><td class="amount">GST ({{.Summary.GSTPercent}}%)</td><td class="amount">{{inr .Summary.GSTAmount}}</td></tr>{{end}}
    {{if .Summary.DiscountAmount}}<tr class="discount"><td class="amount">Discount</td><td class="amount">- {{inr .Summary.DiscountAmount}}</td></tr>{{end}}
    <tr class="total"><td class="amount">Grand Total</td><td class="amount">&#8377;{{inr .Summary.GrandTotal}}</td></tr>
  </tfoot>
</table>
<div class="terms">
  <h4>Terms &amp; Conditions</h4>
  <ol>{{range .Terms}}<li>{{.}}</li>{{end}}</ol>
</div>
</body>
</html>
`
