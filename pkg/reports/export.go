// Package reports exports garage reports as spreadsheets.
package reports

import (
	"bytes"
	"fmt"

	"garage_backend/pkg/garage"

	"github.com/xuri/excelize/v2"
)

// Sheet names in the exported workbook
const (
	RevenueSheet   = "Revenue"
	CustomersSheet = "Top Customers"
	PartsSheet     = "Top Parts"
)

// ContentType is the MIME type of the exported workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FileName names the download for the report range
func FileName(r *garage.Report) string {
	return fmt.Sprintf("garage-report-%s-to-%s.xlsx", r.From.Format("2006-01-02"), r.To.Format("2006-01-02"))
}

// Excel writes the report as a three-sheet workbook
func Excel(r *garage.Report) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating header style: %v", err)
	}

	revenue := [][]interface{}{}
	for _, d := range r.Daily {
		revenue = append(revenue, []interface{}{d.Date, d.Jobs, d.Revenue})
	}
	revenue = append(revenue, []interface{}{"Total", r.PaidJobs, r.TotalRevenue}, []interface{}{})
	revenue = append(revenue, []interface{}{"Payment Method", "Jobs", "Revenue"})
	for _, m := range r.ByMethod {
		revenue = append(revenue, []interface{}{string(m.Method), m.Jobs, m.Revenue})
	}

	customers := [][]interface{}{}
	for _, c := range r.TopCustomers {
		customers = append(customers, []interface{}{c.Name, c.Phone, c.Jobs, c.Total})
	}

	parts := [][]interface{}{}
	for _, p := range r.TopParts {
		parts = append(parts, []interface{}{p.ItemName, p.Quantity, p.Revenue})
	}

	sheets := []struct {
		name    string
		headers []string
		rows    [][]interface{}
	}{
		{RevenueSheet, []string{"Date", "Paid Jobs", "Revenue"}, revenue},
		{CustomersSheet, []string{"Customer", "Phone", "Jobs", "Total Paid"}, customers},
		{PartsSheet, []string{"Part", "Quantity", "Revenue"}, parts},
	}
	for _, sh := range sheets {
		if err := writeSheet(f, sh.name, sh.headers, sh.rows, headerStyle); err != nil {
			return nil, err
		}
	}

	if f.GetSheetName(0) != RevenueSheet {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("error removing default sheet: %v", err)
		}
	}
	if index, err := f.GetSheetIndex(RevenueSheet); err == nil {
		f.SetActiveSheet(index)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing Excel file to buffer: %v", err)
	}
	return &buf, nil
}

func writeSheet(f *excelize.File, name string, headers []string, rows [][]interface{}, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("error creating sheet %s: %v", name, err)
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(name, cell, header); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(name, cell, value); err != nil {
				return err
			}
		}
	}

	last, _ := excelize.ColumnNumberToName(len(headers))
	return f.SetColWidth(name, "A", last, 18)
}
