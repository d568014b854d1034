package garage

import (
	"context"
	"errors"
	"strings"
	"time"

	"garage_backend/pkg/apperr"
	"garage_backend/pkg/billing"
	"garage_backend/pkg/models"
	"garage_backend/pkg/store"

	"gorm.io/gorm"
)

// reminderInterval is the default gap to the next service
const reminderInterval = 3 // months

// JobView is a job together with its derived billing figures
type JobView struct {
	models.Job
	Billing billing.Summary `json:"billing"`
}

func viewOf(job *models.Job) *JobView {
	return &JobView{Job: *job, Billing: billing.Summarize(job)}
}

func viewsOf(jobs []models.Job) []JobView {
	out := make([]JobView, 0, len(jobs))
	for i := range jobs {
		out = append(out, *viewOf(&jobs[i]))
	}
	return out
}

// JobInput opens a new work order. When PackageID is set the package
// prefills the description, labor, parts text and total.
type JobInput struct {
	BikeID             string                `json:"bike_id" validate:"required"`
	ProblemDescription string                `json:"problem_description" validate:"required_without=PackageID"`
	DateIn             *time.Time            `json:"date_in"`
	Status             *models.JobStatus     `json:"status" validate:"omitempty,oneof=pending in_progress ready_for_delivery delivered"`
	PaymentStatus      *models.PaymentStatus `json:"payment_status" validate:"omitempty,oneof=pending partial paid"`
	PaymentMethod      *models.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash upi credit_card debit_card bank_transfer"`
	EstimatedCost      float64               `json:"estimated_cost" validate:"gte=0"`
	LaborCost          float64               `json:"labor_cost" validate:"gte=0"`
	FinalTotal         float64               `json:"final_total" validate:"gte=0"`
	DiscountAmount     float64               `json:"discount_amount" validate:"gte=0"`
	GSTPercent         float64               `json:"gst_percent" validate:"gte=0,lte=100"`
	PaidAmount         float64               `json:"paid_amount" validate:"gte=0"`
	PartsUsed          *string               `json:"parts_used"`
	MechanicNotes      *string               `json:"mechanic_notes"`
	NextServiceDate    *time.Time            `json:"next_service_date"`
	NextServiceMileage *int                  `json:"next_service_mileage" validate:"omitempty,min=0"`
	SetReminder        bool                  `json:"set_reminder"`
	PackageID          *string               `json:"package_id"`
}

// JobUpdate is a partial edit; nil fields are left alone. Version, when
// given, must match the stored version or the edit is rejected.
type JobUpdate struct {
	Version              *int                  `json:"version" validate:"omitempty,min=1"`
	ProblemDescription   *string               `json:"problem_description" validate:"omitempty,min=1"`
	Status               *models.JobStatus     `json:"status" validate:"omitempty,oneof=pending in_progress ready_for_delivery delivered"`
	PaymentStatus        *models.PaymentStatus `json:"payment_status" validate:"omitempty,oneof=pending partial paid"`
	PaymentMethod        *models.PaymentMethod `json:"payment_method" validate:"omitempty,oneof=cash upi credit_card debit_card bank_transfer"`
	EstimatedCost        *float64              `json:"estimated_cost" validate:"omitempty,gte=0"`
	LaborCost            *float64              `json:"labor_cost" validate:"omitempty,gte=0"`
	FinalTotal           *float64              `json:"final_total" validate:"omitempty,gte=0"`
	DiscountAmount       *float64              `json:"discount_amount" validate:"omitempty,gte=0"`
	GSTPercent           *float64              `json:"gst_percent" validate:"omitempty,gte=0,lte=100"`
	PaidAmount           *float64              `json:"paid_amount" validate:"omitempty,gte=0"`
	PartsUsed            *string               `json:"parts_used"`
	MechanicNotes        *string               `json:"mechanic_notes"`
	NextServiceDate      *time.Time            `json:"next_service_date"`
	ClearNextServiceDate bool                  `json:"clear_next_service_date"`
	NextServiceMileage   *int                  `json:"next_service_mileage" validate:"omitempty,min=0"`
}

// JobFilter narrows ListJobs
type JobFilter struct {
	BikeID        string
	Statuses      []models.JobStatus
	PaymentStatus []models.PaymentStatus
}

func (s *Service) CreateJob(ctx context.Context, in JobInput) (*JobView, error) {
	const action = "create job"
	in.ProblemDescription = strings.TrimSpace(in.ProblemDescription)
	// a blank package id counts as no package for required_without
	in.PackageID = trimmed(in.PackageID)
	if err := check(action, in); err != nil {
		return nil, err
	}

	return do(ctx, s, action, func() (*JobView, error) {
		now := s.now()
		dateIn := now
		if in.DateIn != nil {
			dateIn = *in.DateIn
		}

		job := &models.Job{
			BikeID:             in.BikeID,
			ProblemDescription: in.ProblemDescription,
			DateIn:             dateIn.UTC(),
			Status:             models.JobStatusPending,
			PaymentStatus:      models.PaymentStatusPending,
			PaymentMethod:      in.PaymentMethod,
			EstimatedCost:      in.EstimatedCost,
			LaborCost:          in.LaborCost,
			FinalTotal:         in.FinalTotal,
			DiscountAmount:     in.DiscountAmount,
			GSTPercent:         in.GSTPercent,
			PaidAmount:         in.PaidAmount,
			PartsUsed:          trimmed(in.PartsUsed),
			MechanicNotes:      trimmed(in.MechanicNotes),
			NextServiceDate:    utc(in.NextServiceDate),
			NextServiceMileage: in.NextServiceMileage,
			Version:            1,
		}
		if in.PaymentStatus != nil {
			job.PaymentStatus = *in.PaymentStatus
		}
		if in.Status != nil {
			change := billing.Transition(job, *in.Status, now)
			job.Status, job.DateOut = change.Status, utc(change.DateOut)
		}
		if in.SetReminder && job.NextServiceDate == nil {
			y, m, d := dateIn.Date()
			next := time.Date(y, m, d, 0, 0, 0, 0, dateIn.Location()).AddDate(0, reminderInterval, 0).UTC()
			job.NextServiceDate = &next
		}

		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			if _, err := store.Get[models.Bike](ctx, tx, in.BikeID); err != nil {
				return err
			}
			if in.PackageID != nil {
				pkg, err := store.Get[models.ServicePackage](ctx, tx, *in.PackageID, store.Preload("Items"))
				if err != nil {
					return err
				}
				applyDraft(job, billing.ApplyPackage(billing.DraftFromJob(job), pkg))
			}
			job.GSTAmount = billing.GSTAmount(job.FinalTotal, job.GSTPercent)
			return store.Create(ctx, tx, job)
		})
		if err != nil {
			return nil, err
		}
		return viewOf(job), nil
	})
}

func applyDraft(job *models.Job, d billing.Draft) {
	job.ProblemDescription = d.ProblemDescription
	job.LaborCost = d.LaborCost
	job.PartsUsed = d.PartsUsed
	job.FinalTotal = d.FinalTotal
	job.AppliedPackageID = d.AppliedPackageID
	job.AppliedPackageName = d.AppliedPackageName
}

// GetJob returns the job with its bike, customer and parts
func (s *Service) GetJob(ctx context.Context, id string) (*JobView, error) {
	return do(ctx, s, "load job", func() (*JobView, error) {
		job, err := store.Get[models.Job](ctx, s.store, id,
			store.Preload("Bike.Customer"),
			store.Preload("Parts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }))
		if err != nil {
			return nil, err
		}
		return viewOf(job), nil
	})
}

// ListJobs returns jobs newest first
func (s *Service) ListJobs(ctx context.Context, filter JobFilter) ([]JobView, error) {
	return do(ctx, s, "list jobs", func() ([]JobView, error) {
		scopes := []store.Scope{store.Preload("Bike.Customer"), store.Order("date_in DESC")}
		if filter.BikeID != "" {
			scopes = append(scopes, store.Where("bike_id = ?", filter.BikeID))
		}
		if len(filter.Statuses) > 0 {
			scopes = append(scopes, store.Where("status IN ?", filter.Statuses))
		}
		if len(filter.PaymentStatus) > 0 {
			scopes = append(scopes, store.Where("payment_status IN ?", filter.PaymentStatus))
		}
		jobs, err := store.Query[models.Job](ctx, s.store, scopes...)
		if err != nil {
			return nil, err
		}
		return viewsOf(jobs), nil
	})
}

// PendingPayments lists jobs whose payment is pending or partial
func (s *Service) PendingPayments(ctx context.Context) ([]JobView, error) {
	return s.ListJobs(ctx, JobFilter{
		PaymentStatus: []models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusPartial},
	})
}

// UpcomingReminders lists jobs whose next service falls within the next
// days days, today included, soonest first
func (s *Service) UpcomingReminders(ctx context.Context, days int) ([]JobView, error) {
	return do(ctx, s, "list reminders", func() ([]JobView, error) {
		from, until := s.reminderWindow(days)
		jobs, err := store.Query[models.Job](ctx, s.store,
			store.Preload("Bike.Customer"),
			store.Where("next_service_date >= ? AND next_service_date < ?", from, until),
			store.Order("next_service_date ASC"))
		if err != nil {
			return nil, err
		}
		return viewsOf(jobs), nil
	})
}

// reminderWindow is [today, today+days] as a half-open range of instants
func (s *Service) reminderWindow(days int) (time.Time, time.Time) {
	from := s.today()
	return from, from.AddDate(0, 0, days+1)
}

// UpdateJob applies a partial edit. Resubmitting final_total or
// gst_percent recomputes gst_amount; a status change follows the delivered
// stamping rule.
func (s *Service) UpdateJob(ctx context.Context, id string, in JobUpdate) (*JobView, error) {
	const action = "update job"
	if in.ProblemDescription != nil {
		desc := strings.TrimSpace(*in.ProblemDescription)
		in.ProblemDescription = &desc
	}
	if err := check(action, in); err != nil {
		return nil, err
	}
	return do(ctx, s, action, func() (*JobView, error) {
		var out *models.Job
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			job, err := store.Get[models.Job](ctx, tx, id)
			if err != nil {
				return err
			}
			if in.Version != nil && *in.Version != job.Version {
				return errStaleJob()
			}
			out, err = s.patchJob(ctx, tx, job, s.jobPatch(job, in))
			return err
		})
		if err != nil {
			return nil, err
		}
		return viewOf(out), nil
	})
}

func (s *Service) jobPatch(job *models.Job, in JobUpdate) map[string]interface{} {
	patch := map[string]interface{}{}
	if in.ProblemDescription != nil {
		patch["problem_description"] = *in.ProblemDescription
	}
	if in.PaymentStatus != nil {
		patch["payment_status"] = *in.PaymentStatus
	}
	if in.PaymentMethod != nil {
		patch["payment_method"] = *in.PaymentMethod
	}
	if in.EstimatedCost != nil {
		patch["estimated_cost"] = *in.EstimatedCost
	}
	if in.LaborCost != nil {
		patch["labor_cost"] = *in.LaborCost
	}
	if in.DiscountAmount != nil {
		patch["discount_amount"] = *in.DiscountAmount
	}
	if in.PaidAmount != nil {
		patch["paid_amount"] = *in.PaidAmount
	}
	if in.PartsUsed != nil {
		patch["parts_used"] = trimmed(in.PartsUsed)
	}
	if in.MechanicNotes != nil {
		patch["mechanic_notes"] = trimmed(in.MechanicNotes)
	}
	if in.ClearNextServiceDate {
		patch["next_service_date"] = nil
	} else if in.NextServiceDate != nil {
		patch["next_service_date"] = utc(in.NextServiceDate)
	}
	if in.NextServiceMileage != nil {
		patch["next_service_mileage"] = *in.NextServiceMileage
	}

	if in.FinalTotal != nil || in.GSTPercent != nil {
		total, pct := job.FinalTotal, job.GSTPercent
		if in.FinalTotal != nil {
			total = *in.FinalTotal
			patch["final_total"] = total
		}
		if in.GSTPercent != nil {
			pct = *in.GSTPercent
			patch["gst_percent"] = pct
		}
		patch["gst_amount"] = billing.GSTAmount(total, pct)
	}

	if in.Status != nil {
		change := billing.Transition(job, *in.Status, s.now())
		if change.Changed {
			patch["status"] = change.Status
			patch["date_out"] = utc(change.DateOut)
		}
	}
	return patch
}

// patchJob writes patch guarded by the version that was read, bumping it
func (s *Service) patchJob(ctx context.Context, tx *store.Store, job *models.Job, patch map[string]interface{}) (*models.Job, error) {
	patch["version"] = gorm.Expr("version + 1")
	out, err := store.Update[models.Job](ctx, tx, job.ID, patch, store.Where("version = ?", job.Version))
	if errors.Is(err, store.ErrGuardFailed) {
		return nil, errStaleJob()
	}
	return out, err
}

func errStaleJob() error {
	return &apperr.ConflictError{Entity: "job", Reason: "it was changed by someone else, reload and try again"}
}

// SetJobStatus moves the job to status
func (s *Service) SetJobStatus(ctx context.Context, id string, status models.JobStatus, version *int) (*JobView, error) {
	return s.UpdateJob(ctx, id, JobUpdate{Status: &status, Version: version})
}

// PaymentInput records a payment edit. The status is what the operator
// says it is; it is never derived from the amounts.
type PaymentInput struct {
	Version       *int                  `json:"version"`
	PaymentStatus models.PaymentStatus  `json:"payment_status" validate:"required,oneof=pending partial paid"`
	PaymentMethod *models.PaymentMethod `json:"payment_method"`
	PaidAmount    *float64              `json:"paid_amount"`
}

func (s *Service) SetPayment(ctx context.Context, id string, in PaymentInput) (*JobView, error) {
	if err := check("update payment", in); err != nil {
		return nil, err
	}
	return s.UpdateJob(ctx, id, JobUpdate{
		Version:       in.Version,
		PaymentStatus: &in.PaymentStatus,
		PaymentMethod: in.PaymentMethod,
		PaidAmount:    in.PaidAmount,
	})
}

// ApplyPackageToJob prefills an existing job from a package, replacing the
// labor, parts text and total and prepending the package to the description
func (s *Service) ApplyPackageToJob(ctx context.Context, jobID, packageID string, version *int) (*JobView, error) {
	return do(ctx, s, "apply package", func() (*JobView, error) {
		var out *models.Job
		err := s.store.Transaction(ctx, func(tx *store.Store) error {
			job, err := store.Get[models.Job](ctx, tx, jobID)
			if err != nil {
				return err
			}
			if version != nil && *version != job.Version {
				return errStaleJob()
			}
			pkg, err := store.Get[models.ServicePackage](ctx, tx, packageID, store.Preload("Items"))
			if err != nil {
				return err
			}

			d := billing.ApplyPackage(billing.DraftFromJob(job), pkg)
			out, err = s.patchJob(ctx, tx, job, map[string]interface{}{
				"problem_description":  d.ProblemDescription,
				"labor_cost":           d.LaborCost,
				"parts_used":           d.PartsUsed,
				"final_total":          d.FinalTotal,
				"gst_amount":           billing.GSTAmount(d.FinalTotal, job.GSTPercent),
				"applied_package_id":   d.AppliedPackageID,
				"applied_package_name": d.AppliedPackageName,
			})
			return err
		})
		if err != nil {
			return nil, err
		}
		return viewOf(out), nil
	})
}

// DeleteJob removes the job and its parts, returning their stock
func (s *Service) DeleteJob(ctx context.Context, id string) error {
	return exec(ctx, s, "delete job", func() error {
		return s.store.Transaction(ctx, func(tx *store.Store) error {
			if _, err := store.Get[models.Job](ctx, tx, id); err != nil {
				return err
			}
			if err := restoreStockForJobs(ctx, tx, []string{id}); err != nil {
				return err
			}
			return store.Delete[models.Job](ctx, tx, id)
		})
	})
}
