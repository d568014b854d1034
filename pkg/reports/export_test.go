package reports

import (
	"testing"
	"time"

	"garage_backend/pkg/garage"
	"garage_backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcel(t *testing.T) {
	report := &garage.Report{
		From:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:           time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		PaidJobs:     3,
		TotalRevenue: 3500.5,
		Daily: []garage.DailyRevenue{
			{Date: "2024-03-02", Jobs: 2, Revenue: 1500.5},
			{Date: "2024-03-09", Jobs: 1, Revenue: 2000},
		},
		ByMethod: []garage.MethodRevenue{
			{Method: models.PaymentMethodUPI, Jobs: 2, Revenue: 2500.5},
			{Method: models.PaymentMethodCash, Jobs: 1, Revenue: 1000},
		},
		TopCustomers: []garage.CustomerTotal{{Name: "Meera", Phone: "9123456789", Jobs: 1, Total: 2000}},
		TopParts:     []garage.PartUsage{{ItemName: "Engine Oil", Quantity: 3, Revenue: 1050}},
	}

	buf, err := Excel(report)
	require.NoError(t, err)
	assert.Equal(t, "garage-report-2024-03-01-to-2024-04-01.xlsx", FileName(report))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{RevenueSheet, CustomersSheet, PartsSheet}, f.GetSheetList())

	rows, err := f.GetRows(RevenueSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Paid Jobs", "Revenue"}, rows[0])
	assert.Equal(t, []string{"2024-03-02", "2", "1500.5"}, rows[1])
	assert.Equal(t, []string{"Total", "3", "3500.5"}, rows[3])
	assert.Equal(t, []string{"upi", "2", "2500.5"}, rows[6])

	name, err := f.GetCellValue(CustomersSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Meera", name)

	qty, err := f.GetCellValue(PartsSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "3", qty)
}
