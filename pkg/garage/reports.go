package garage

import (
	"context"
	"sort"
	"time"

	"garage_backend/pkg/apperr"
	"garage_backend/pkg/billing"
	"garage_backend/pkg/models"
	"garage_backend/pkg/store"
)

const topN = 10

// DailyRevenue is the paid total for one calendar day
type DailyRevenue struct {
	Date    string  `json:"date"`
	Jobs    int     `json:"jobs"`
	Revenue float64 `json:"revenue"`
}

// MethodRevenue is the paid total for one payment method
type MethodRevenue struct {
	Method  models.PaymentMethod `json:"method"`
	Jobs    int                  `json:"jobs"`
	Revenue float64              `json:"revenue"`
}

// CustomerTotal ranks a customer by what they paid
type CustomerTotal struct {
	CustomerID string  `json:"customer_id"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Jobs       int     `json:"jobs"`
	Total      float64 `json:"total"`
}

// PartUsage ranks a part by quantity fitted
type PartUsage struct {
	InventoryItemID *string `json:"inventory_item_id"`
	ItemName        string  `json:"item_name"`
	Quantity        int     `json:"quantity"`
	Revenue         float64 `json:"revenue"`
}

// Report covers [From, To)
type Report struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	PaidJobs     int             `json:"paid_jobs"`
	TotalRevenue float64         `json:"total_revenue"`
	Daily        []DailyRevenue  `json:"daily"`
	ByMethod     []MethodRevenue `json:"by_method"`
	TopCustomers []CustomerTotal `json:"top_customers"`
	TopParts     []PartUsage     `json:"top_parts"`
}

// Report aggregates paid jobs and fitted parts created in [from, to).
// Days are bucketed in the service clock's location.
func (s *Service) Report(ctx context.Context, from, to time.Time) (*Report, error) {
	const action = "build report"
	if !to.After(from) {
		return nil, apperr.Wrap(action, apperr.Invalid("to", "to must be after from"))
	}
	return do(ctx, s, action, func() (*Report, error) {
		jobs, err := store.Query[models.Job](ctx, s.store,
			store.Preload("Bike.Customer"),
			store.Where("payment_status = ?", models.PaymentStatusPaid),
			store.Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()),
			store.Order("created_at ASC"))
		if err != nil {
			return nil, err
		}
		parts, err := store.Query[models.JobPart](ctx, s.store,
			store.Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()))
		if err != nil {
			return nil, err
		}

		r := &Report{From: from, To: to, PaidJobs: len(jobs)}
		s.revenue(r, jobs)
		r.TopCustomers = topCustomers(jobs)
		r.TopParts = topParts(parts)
		return r, nil
	})
}

func (s *Service) revenue(r *Report, jobs []models.Job) {
	loc := s.now().Location()
	days := map[string]*DailyRevenue{}
	methods := map[models.PaymentMethod]*MethodRevenue{}

	for _, job := range jobs {
		r.TotalRevenue += job.FinalTotal

		day := job.CreatedAt.In(loc).Format("2006-01-02")
		d, ok := days[day]
		if !ok {
			d = &DailyRevenue{Date: day}
			days[day] = d
		}
		d.Jobs++
		d.Revenue += job.FinalTotal

		method := models.PaymentMethodCash
		if job.PaymentMethod != nil {
			method = *job.PaymentMethod
		}
		m, ok := methods[method]
		if !ok {
			m = &MethodRevenue{Method: method}
			methods[method] = m
		}
		m.Jobs++
		m.Revenue += job.FinalTotal
	}
	r.TotalRevenue = billing.Round2(r.TotalRevenue)

	r.Daily = make([]DailyRevenue, 0, len(days))
	for _, d := range days {
		d.Revenue = billing.Round2(d.Revenue)
		r.Daily = append(r.Daily, *d)
	}
	sort.Slice(r.Daily, func(i, j int) bool { return r.Daily[i].Date < r.Daily[j].Date })

	r.ByMethod = make([]MethodRevenue, 0, len(methods))
	for _, m := range methods {
		m.Revenue = billing.Round2(m.Revenue)
		r.ByMethod = append(r.ByMethod, *m)
	}
	sort.Slice(r.ByMethod, func(i, j int) bool {
		if r.ByMethod[i].Revenue != r.ByMethod[j].Revenue {
			return r.ByMethod[i].Revenue > r.ByMethod[j].Revenue
		}
		return r.ByMethod[i].Method < r.ByMethod[j].Method
	})
}

func topCustomers(jobs []models.Job) []CustomerTotal {
	byID := map[string]*CustomerTotal{}
	for _, job := range jobs {
		if job.Bike == nil || job.Bike.Customer == nil {
			continue
		}
		c := job.Bike.Customer
		t, ok := byID[c.ID]
		if !ok {
			t = &CustomerTotal{CustomerID: c.ID, Name: c.Name, Phone: c.Phone}
			byID[c.ID] = t
		}
		t.Jobs++
		t.Total += job.FinalTotal
	}

	out := make([]CustomerTotal, 0, len(byID))
	for _, t := range byID {
		t.Total = billing.Round2(t.Total)
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

func topParts(parts []models.JobPart) []PartUsage {
	byKey := map[string]*PartUsage{}
	for _, p := range parts {
		key := "name:" + p.ItemName
		if p.InventoryItemID != nil {
			key = "item:" + *p.InventoryItemID
		}
		u, ok := byKey[key]
		if !ok {
			u = &PartUsage{InventoryItemID: p.InventoryItemID, ItemName: p.ItemName}
			byKey[key] = u
		}
		u.Quantity += p.Quantity
		u.Revenue += p.TotalPrice
	}

	out := make([]PartUsage, 0, len(byKey))
	for _, u := range byKey {
		u.Revenue = billing.Round2(u.Revenue)
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ItemName < out[j].ItemName
	})
	if len(out) > topN {
		out = out[:topN]
	}
	return out
}
