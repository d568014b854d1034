package billing

import (
	"fmt"
	"strings"

	"garage_backend/pkg/models"

	"github.com/shopspring/decimal"
)

// Draft is the part of a job a service package prefills
type Draft struct {
	ProblemDescription string
	LaborCost          float64
	PartsUsed          *string
	FinalTotal         float64
	AppliedPackageID   *string
	AppliedPackageName *string
}

// DraftFromJob copies the prefillable fields of job
func DraftFromJob(job *models.Job) Draft {
	return Draft{
		ProblemDescription: job.ProblemDescription,
		LaborCost:          job.LaborCost,
		PartsUsed:          job.PartsUsed,
		FinalTotal:         job.FinalTotal,
		AppliedPackageID:   job.AppliedPackageID,
		AppliedPackageName: job.AppliedPackageName,
	}
}

// PackageTotal is the labor charge plus every item's quantity times unit price
func PackageTotal(pkg *models.ServicePackage) float64 {
	total := amount(pkg.LaborCharge)
	for _, item := range pkg.Items {
		total = total.Add(decimal.NewFromInt(int64(item.Quantity)).Mul(amount(item.UnitPrice)))
	}
	return money(total)
}

// PartsSummary renders the package items as "{item} x{qty}" lines
func PartsSummary(items []models.ServicePackageItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s x%d", item.ItemName, item.Quantity))
	}
	return strings.Join(lines, "\n")
}

// ApplyPackage prefills d from pkg. The description is prepended to what
// the draft already had; the other fields are replaced. The package id and
// name are copied, not linked.
func ApplyPackage(d Draft, pkg *models.ServicePackage) Draft {
	header := pkg.Name
	if pkg.Description != nil && strings.TrimSpace(*pkg.Description) != "" {
		header += " - " + strings.TrimSpace(*pkg.Description)
	}
	existing := strings.TrimSpace(d.ProblemDescription)
	if existing != "" {
		header += "\n" + existing
	}
	d.ProblemDescription = strings.TrimSpace(header)

	d.LaborCost = pkg.LaborCharge
	parts := PartsSummary(pkg.Items)
	d.PartsUsed = &parts
	d.FinalTotal = PackageTotal(pkg)

	id, name := pkg.ID, pkg.Name
	d.AppliedPackageID = &id
	d.AppliedPackageName = &name
	return d
}
