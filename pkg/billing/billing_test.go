package billing

import (
	"math"
	"math/big"
	"testing"
	"time"

	"garage_backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGSTAmountInclusive(t *testing.T) {
	assert.Equal(t, 180.00, GSTAmount(1180, 18))
	assert.Equal(t, 0.0, GSTAmount(1180, 0))
	assert.Equal(t, 0.0, GSTAmount(0, 18))

	for _, total := range []float64{0, 1, 99.99, 250, 1180, 10000, 123456.78} {
		for _, pct := range []float64{0, 5, 12, 18, 28} {
			gst := GSTAmount(total, pct)
			exact := total * pct / (100 + pct)
			assert.InDelta(t, exact, gst, 0.005, "total=%v pct=%v", total, pct)

			// the exclusive subtotal grossed up by the rate gives the total back
			subtotal := total - gst
			assert.InDelta(t, total, subtotal*(1+pct/100), 0.01, "total=%v pct=%v", total, pct)
		}
	}
}

func TestGSTAmountRoundsHalfPaisaUp(t *testing.T) {
	// 4.64 * 28 / 128 = 1.015 and 18.08 * 28 / 128 = 3.955 exactly
	assert.Equal(t, 1.02, GSTAmount(4.64, 28))
	assert.Equal(t, 3.96, GSTAmount(18.08, 28))
	assert.Equal(t, 0.01, Round2(0.005))
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, -1.01, Round2(-1.005))
}

// gstReference rounds cents*pct/(100+pct) half up using exact rationals
func gstReference(cents, pct int64) int64 {
	r := new(big.Rat).SetFrac(big.NewInt(cents*pct), big.NewInt(100+pct))
	r.Add(r, big.NewRat(1, 2))
	return new(big.Int).Quo(r.Num(), r.Denom()).Int64()
}

func TestGSTAmountMatchesExactRounding(t *testing.T) {
	for _, pct := range []int64{5, 18, 28} {
		for cents := int64(1); cents <= 200000; cents++ {
			got := GSTAmount(float64(cents)/100, float64(pct))
			want := gstReference(cents, pct)
			if int64(math.Round(got*100)) != want {
				t.Fatalf("total=%d.%02d pct=%d: got %v, want %d.%02d",
					cents/100, cents%100, pct, got, want/100, want%100)
			}
		}
	}
}

func TestPackageTotalSumsExactly(t *testing.T) {
	pkg := &models.ServicePackage{
		LaborCharge: 0.1,
		Items: []models.ServicePackageItem{
			{ItemName: "Washer", Quantity: 3, UnitPrice: 0.1},
			{ItemName: "Bolt", Quantity: 7, UnitPrice: 1.15},
		},
	}
	assert.Equal(t, 8.45, PackageTotal(pkg))
}

func TestBalanceNeverClamped(t *testing.T) {
	assert.Equal(t, 600.0, Balance(1000, 400))
	assert.Equal(t, -200.0, Balance(1000, 1200))
	assert.Equal(t, 0.0, Balance(1000, 1000))
	assert.Equal(t, 0.2, Balance(0.3, 0.1))
}

func TestSummarize(t *testing.T) {
	job := &models.Job{
		LaborCost:      300,
		FinalTotal:     1180,
		GSTPercent:     18,
		GSTAmount:      180,
		DiscountAmount: 50,
		PaidAmount:     400,
		PaymentStatus:  models.PaymentStatusPartial,
	}

	s := Summarize(job)
	assert.Equal(t, 700.0, s.PartsCost)
	assert.Equal(t, 1000.0, s.Subtotal)
	assert.Equal(t, 1180.0, s.GrandTotal)
	assert.Equal(t, 780.0, s.BalanceDue)
	assert.Empty(t, s.PaymentWarning)
}

func TestSummarizeClampsOnlyTheSubtotal(t *testing.T) {
	job := &models.Job{LaborCost: 800, FinalTotal: 590, GSTPercent: 18, GSTAmount: 90}

	s := Summarize(job)
	assert.Equal(t, -300.0, s.PartsCost)
	assert.Equal(t, 800.0, s.Subtotal)
	assert.Equal(t, 590.0, s.GrandTotal)
}

func TestPaymentWarning(t *testing.T) {
	assert.NotEmpty(t, PaymentWarning(models.PaymentStatusPaid, 1000, 400))
	assert.Empty(t, PaymentWarning(models.PaymentStatusPaid, 1000, 1000))
	assert.NotEmpty(t, PaymentWarning(models.PaymentStatusPending, 1000, 100))
	assert.NotEmpty(t, PaymentWarning(models.PaymentStatusPartial, 1000, 0))
	assert.Equal(t, "overpaid", PaymentWarning(models.PaymentStatusPaid, 1000, 1200))
}

func TestTransition(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	t.Run("same status is a no-op", func(t *testing.T) {
		stamped := now.Add(-48 * time.Hour)
		job := &models.Job{Status: models.JobStatusDelivered, DateOut: &stamped}

		change := Transition(job, models.JobStatusDelivered, now)
		assert.False(t, change.Changed)
		require.NotNil(t, change.DateOut)
		assert.True(t, change.DateOut.Equal(stamped))
	})

	t.Run("entering delivered stamps date_out", func(t *testing.T) {
		for _, from := range []models.JobStatus{
			models.JobStatusPending, models.JobStatusInProgress, models.JobStatusReadyForDelivery,
		} {
			job := &models.Job{Status: from}
			change := Transition(job, models.JobStatusDelivered, now)
			assert.True(t, change.Changed)
			require.NotNil(t, change.DateOut, "from %s", from)
			assert.True(t, change.DateOut.Equal(now))
		}
	})

	t.Run("existing date_out is not re-stamped", func(t *testing.T) {
		earlier := now.Add(-time.Hour)
		job := &models.Job{Status: models.JobStatusReadyForDelivery, DateOut: &earlier}

		change := Transition(job, models.JobStatusDelivered, now)
		require.NotNil(t, change.DateOut)
		assert.True(t, change.DateOut.Equal(earlier))
	})

	t.Run("leaving delivered keeps date_out", func(t *testing.T) {
		job := &models.Job{Status: models.JobStatusDelivered, DateOut: &now}

		change := Transition(job, models.JobStatusInProgress, now.Add(time.Hour))
		assert.True(t, change.Changed)
		require.NotNil(t, change.DateOut)
		assert.True(t, change.DateOut.Equal(now))
	})

	t.Run("skipping states is allowed", func(t *testing.T) {
		job := &models.Job{Status: models.JobStatusDelivered, DateOut: &now}
		change := Transition(job, models.JobStatusPending, now)
		assert.Equal(t, models.JobStatusPending, change.Status)
	})
}

func TestInvoiceNumbers(t *testing.T) {
	assert.Equal(t, "INV-0001", NextInvoiceNumber(""))
	assert.Equal(t, "INV-0002", NextInvoiceNumber("INV-0001"))
	assert.Equal(t, "INV-10000", NextInvoiceNumber("INV-9999"))
	assert.Equal(t, "INV-10001", NextInvoiceNumber("INV-10000"))
	assert.Equal(t, "INV-0001", NextInvoiceNumber("garbage"))

	n, ok := ParseInvoiceNumber("INV-0042")
	require.True(t, ok)
	assert.Equal(t, 42, n)

	prev := 0
	latest := ""
	for i := 0; i < 25; i++ {
		latest = NextInvoiceNumber(latest)
		n, ok := ParseInvoiceNumber(latest)
		require.True(t, ok)
		assert.Equal(t, prev+1, n)
		assert.GreaterOrEqual(t, len(latest), len("INV-0000"))
		prev = n
	}
}

func strPtr(s string) *string { return &s }

func TestApplyPackage(t *testing.T) {
	pkg := &models.ServicePackage{
		Name:        "General Service",
		Description: strPtr("Oil and filter"),
		LaborCharge: 300,
		Items: []models.ServicePackageItem{
			{ItemName: "Engine Oil", Quantity: 2, UnitPrice: 150},
			{ItemName: "Oil Filter", Quantity: 1, UnitPrice: 85.5},
		},
	}
	pkg.ID = "pkg-1"

	draft := Draft{ProblemDescription: "Brake noise", LaborCost: 500}
	out := ApplyPackage(draft, pkg)

	assert.Equal(t, "General Service - Oil and filter\nBrake noise", out.ProblemDescription)
	assert.Equal(t, 300.0, out.LaborCost)
	assert.Equal(t, 685.5, out.FinalTotal)
	require.NotNil(t, out.PartsUsed)
	assert.Equal(t, "Engine Oil x2\nOil Filter x1", *out.PartsUsed)
	require.NotNil(t, out.AppliedPackageID)
	assert.Equal(t, "pkg-1", *out.AppliedPackageID)
	assert.Equal(t, "General Service", *out.AppliedPackageName)

	// the snapshot does not follow later edits to the package
	pkg.Name = "Renamed"
	pkg.Items[0].UnitPrice = 999
	assert.Equal(t, "General Service", *out.AppliedPackageName)
	assert.Equal(t, 685.5, out.FinalTotal)
}

func TestApplyPackageTwiceOverwrites(t *testing.T) {
	first := &models.ServicePackage{Name: "Wash", LaborCharge: 100,
		Items: []models.ServicePackageItem{{ItemName: "Shampoo", Quantity: 1, UnitPrice: 50}}}
	first.ID = "a"
	second := &models.ServicePackage{Name: "Tune Up", LaborCharge: 400,
		Items: []models.ServicePackageItem{{ItemName: "Spark Plug", Quantity: 2, UnitPrice: 120}}}
	second.ID = "b"

	out := ApplyPackage(ApplyPackage(Draft{}, first), second)

	assert.Equal(t, "Tune Up\nWash", out.ProblemDescription)
	assert.Equal(t, 400.0, out.LaborCost)
	assert.Equal(t, "Spark Plug x2", *out.PartsUsed)
	assert.Equal(t, 640.0, out.FinalTotal)
	assert.Equal(t, "b", *out.AppliedPackageID)
	assert.False(t, math.IsNaN(out.FinalTotal))
}
