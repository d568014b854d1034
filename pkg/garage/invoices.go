package garage

import (
	"context"
	"errors"
	"time"

	"garage_backend/pkg/apperr"
	"garage_backend/pkg/billing"
	"garage_backend/pkg/invoice"
	"garage_backend/pkg/models"
	"garage_backend/pkg/store"

	"gorm.io/gorm"
)

// invoiceClaimDelay is the first pause between claim attempts
const invoiceClaimDelay = 10 * time.Millisecond

// GenerateInvoice assigns the next invoice number to the job. A job that
// already has one is returned unchanged. The number is claimed with a
// conditional update against a unique column; losing a race to another
// request is retried with a fresh read.
func (s *Service) GenerateInvoice(ctx context.Context, jobID string) (*JobView, error) {
	return do(ctx, s, "generate invoice", func() (*JobView, error) {
		var out *models.Job
		policy := store.RetryPolicy{Attempts: invoiceAttempts, BaseDelay: invoiceClaimDelay}
		err := store.Retry(ctx, policy, apperr.IsConflict, func() error {
			return s.store.Transaction(ctx, func(tx *store.Store) error {
				job, err := store.Get[models.Job](ctx, tx, jobID)
				if err != nil {
					return err
				}
				if job.InvoiceNumber != nil {
					out = job
					return nil
				}

				latest, err := latestInvoiceNumber(ctx, tx)
				if err != nil {
					return err
				}
				out, err = store.Update[models.Job](ctx, tx, jobID, map[string]interface{}{
					"invoice_number":       billing.NextInvoiceNumber(latest),
					"is_invoice_generated": true,
					"version":              gorm.Expr("version + 1"),
				}, store.Where("invoice_number IS NULL"))
				if errors.Is(err, store.ErrGuardFailed) {
					return &apperr.ConflictError{Entity: "job", Reason: "invoice number was claimed concurrently"}
				}
				return err
			})
		})
		if err != nil {
			return nil, err
		}
		return viewOf(out), nil
	})
}

// latestInvoiceNumber reads the highest invoice number across every
// operator. The sequence is global, so this read is deliberately unscoped.
func latestInvoiceNumber(ctx context.Context, tx *store.Store) (string, error) {
	var numbers []string
	err := tx.DB().WithContext(ctx).
		Model(&models.Job{}).
		Where("invoice_number IS NOT NULL").
		Order("LENGTH(invoice_number) DESC, invoice_number DESC").
		Limit(1).
		Pluck("invoice_number", &numbers).Error
	if err != nil {
		return "", store.Translate("job", err)
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

// InvoiceDocument lays out the job's invoice, numbered or draft
func (s *Service) InvoiceDocument(ctx context.Context, jobID string) (*invoice.Document, error) {
	return do(ctx, s, "build invoice", func() (*invoice.Document, error) {
		job, err := store.Get[models.Job](ctx, s.store, jobID, store.Preload("Bike.Customer"))
		if err != nil {
			return nil, err
		}
		parts, err := store.Query[models.JobPart](ctx, s.store,
			store.Where("job_id = ?", jobID), store.Order("created_at ASC"))
		if err != nil {
			return nil, err
		}
		settings, err := s.settings(ctx, s.store)
		if err != nil {
			return nil, err
		}
		return invoice.Build(invoice.Input{
			Job:      job,
			Parts:    parts,
			Settings: settings,
			Profile:  s.profile,
			IssuedOn: s.now(),
		})
	})
}
