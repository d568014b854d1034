// Package invoice lays out a job as a printable tax invoice.
package invoice

import (
	"fmt"
	"strings"
	"time"

	"garage_backend/pkg/billing"
	"garage_backend/pkg/config"
	"garage_backend/pkg/models"
)

// DateLayout is used for every date printed on the invoice
const DateLayout = "02-Jan-2006"

// Draft stands in for the number until one is generated
const Draft = "DRAFT"

// Garage is the letterhead
type Garage struct {
	Name    string
	Address string
	Phone   string
	Email   string
	GSTIN   string
	Website string
}

// PartLine is one itemized part under the parts row
type PartLine struct {
	Label  string
	Amount float64
}

// Document holds everything the printed invoice shows
type Document struct {
	Garage        Garage
	InvoiceNumber string
	WorkOrder     string
	IssuedOn      time.Time

	CustomerName    string
	CustomerPhone   string
	CustomerAddress string

	RegistrationNumber string
	MakeModel          string
	Color              string
	DateIn             time.Time
	DateOut            *time.Time

	LaborDetail string
	Parts       []PartLine
	PartsDetail string

	Summary billing.Summary
	Terms   []string
}

// Input is what Build needs; Job must have Bike and Bike.Customer loaded
type Input struct {
	Job      *models.Job
	Parts    []models.JobPart
	Settings *models.GarageSettings
	Profile  config.GarageProfile
	IssuedOn time.Time
}

// Build lays out the invoice. Figures come from billing.Summarize so the
// printed totals match the ones on screen.
func Build(in Input) (*Document, error) {
	job := in.Job
	if job == nil || job.Bike == nil || job.Bike.Customer == nil {
		return nil, fmt.Errorf("invoice needs the job with its bike and customer")
	}

	doc := &Document{
		Garage:        letterhead(in.Settings, in.Profile),
		InvoiceNumber: Draft,
		WorkOrder:     workOrder(job.ID),
		IssuedOn:      in.IssuedOn,

		CustomerName:  job.Bike.Customer.Name,
		CustomerPhone: job.Bike.Customer.Phone,

		RegistrationNumber: job.Bike.RegistrationNumber,
		MakeModel:          job.Bike.MakeModel,
		DateIn:             job.DateIn,
		DateOut:            job.DateOut,

		LaborDetail: job.ProblemDescription,
		Summary:     billing.Summarize(job),
		Terms:       in.Profile.Terms,
	}
	if job.InvoiceNumber != nil {
		doc.InvoiceNumber = *job.InvoiceNumber
	}
	if job.Bike.Customer.Address != nil {
		doc.CustomerAddress = *job.Bike.Customer.Address
	}
	if job.Bike.Color != nil {
		doc.Color = *job.Bike.Color
	}

	for _, p := range in.Parts {
		doc.Parts = append(doc.Parts, PartLine{
			Label:  fmt.Sprintf("%s (x%d)", p.ItemName, p.Quantity),
			Amount: billing.Round2(float64(p.Quantity) * p.UnitPrice),
		})
	}
	if len(doc.Parts) == 0 {
		doc.PartsDetail = "General items"
		if job.PartsUsed != nil && strings.TrimSpace(*job.PartsUsed) != "" {
			doc.PartsDetail = *job.PartsUsed
		}
	}
	return doc, nil
}

// letterhead prefers saved settings field by field. GSTIN, email and
// website are only printed when the operator saved them.
func letterhead(s *models.GarageSettings, p config.GarageProfile) Garage {
	g := Garage{Name: p.Name, Address: p.Address, Phone: p.Phone}
	if s == nil {
		return g
	}
	if s.Name != "" {
		g.Name = s.Name
	}
	if s.Address != "" {
		g.Address = s.Address
	}
	if s.Phone != "" {
		g.Phone = s.Phone
	}
	g.Email = s.Email
	if s.GSTIN != nil {
		g.GSTIN = *s.GSTIN
	}
	if s.Website != nil {
		g.Website = *s.Website
	}
	return g
}

func workOrder(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}
