// Package scheduler runs the daily reminder digest pushed to operators'
// devices.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"garage_backend/pkg/garage"
	"garage_backend/pkg/models"
	"garage_backend/pkg/store"

	"github.com/robfig/cron/v3"
)

// digestDays is the reminder horizon counted in the digest
const digestDays = 7

// Push delivers a notification to tokens and returns the tokens that
// should no longer be used
type Push func(ctx context.Context, tokens []string, title, body string, data map[string]string) ([]string, error)

// Digest is the summary sent to one operator
type Digest struct {
	Reminders int
	LowStock  int
	Ready     int
}

// Empty reports whether there is nothing worth pushing
func (d Digest) Empty() bool {
	return d.Reminders == 0 && d.LowStock == 0 && d.Ready == 0
}

// Message renders the push title and body
func (d Digest) Message() (string, string) {
	return "Today at the garage", fmt.Sprintf("%d service reminders due this week, %d parts low on stock, %d bikes ready for delivery",
		d.Reminders, d.LowStock, d.Ready)
}

// ReminderDigest sends each operator with a registered device a summary
// of upcoming reminders and low stock
type ReminderDigest struct {
	garage        *garage.Service
	push          Push
	cronScheduler *cron.Cron
	jobID         cron.EntryID
}

// NewReminderDigest creates the digest job
func NewReminderDigest(svc *garage.Service, push Push) *ReminderDigest {
	return &ReminderDigest{
		garage:        svc,
		push:          push,
		cronScheduler: cron.New(cron.WithSeconds()),
	}
}

// Start schedules the digest. Format: "0 0 8 * * *" = at 08:00:00 every day
func (r *ReminderDigest) Start(schedule string) error {
	var err error
	r.jobID, err = r.cronScheduler.AddFunc(schedule, func() {
		log.Println("📬 Running scheduled reminder digest")
		if err := r.RunOnce(context.Background()); err != nil {
			log.Printf("❌ Reminder digest failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("error scheduling reminder digest: %w", err)
	}

	r.cronScheduler.Start()
	log.Printf("⏰ Reminder digest scheduled (%s), next run %s", schedule, r.next().Format(time.RFC3339))
	return nil
}

// Stop waits for a running digest to finish
func (r *ReminderDigest) Stop() {
	if r.cronScheduler != nil {
		<-r.cronScheduler.Stop().Done()
		log.Println("Reminder digest stopped")
	}
}

// RunOnce sends the digest to every operator that has devices. A failure
// for one operator does not stop the others.
func (r *ReminderDigest) RunOnce(ctx context.Context) error {
	operators, err := r.garage.OperatorsWithDevices(ctx)
	if err != nil {
		return err
	}

	var failed int
	for _, operatorID := range operators {
		if err := r.sendTo(store.WithOperator(ctx, operatorID)); err != nil {
			failed++
			log.Printf("⚠️  Reminder digest for operator %s failed: %v", operatorID, err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("reminder digest failed for %d of %d operators", failed, len(operators))
	}
	return nil
}

func (r *ReminderDigest) sendTo(ctx context.Context) error {
	digest, err := r.Build(ctx)
	if err != nil {
		return err
	}
	if digest.Empty() {
		return nil
	}

	tokens, err := r.garage.ActiveDeviceTokens(ctx)
	if err != nil || len(tokens) == 0 {
		return err
	}

	title, body := digest.Message()
	stale, err := r.push(ctx, tokens, title, body, map[string]string{
		"type":      "reminder_digest",
		"reminders": strconv.Itoa(digest.Reminders),
		"low_stock": strconv.Itoa(digest.LowStock),
		"ready":     strconv.Itoa(digest.Ready),
	})
	if len(stale) > 0 {
		if derr := r.garage.DeactivateTokens(ctx, stale); derr != nil {
			log.Printf("⚠️  Could not deactivate %d stale device tokens: %v", len(stale), derr)
		}
	}
	return err
}

// Build counts what the digest for the context's operator would say
func (r *ReminderDigest) Build(ctx context.Context) (Digest, error) {
	reminders, err := r.garage.UpcomingReminders(ctx, digestDays)
	if err != nil {
		return Digest{}, err
	}
	low, err := r.garage.ListInventory(ctx, garage.InventoryFilter{LowStockOnly: true})
	if err != nil {
		return Digest{}, err
	}
	ready, err := r.garage.ListJobs(ctx, garage.JobFilter{
		Statuses: []models.JobStatus{models.JobStatusReadyForDelivery},
	})
	if err != nil {
		return Digest{}, err
	}
	return Digest{Reminders: len(reminders), LowStock: len(low), Ready: len(ready)}, nil
}

// next returns when the digest runs next
func (r *ReminderDigest) next() time.Time {
	entry := r.cronScheduler.Entry(r.jobID)
	if entry.Schedule == nil {
		return time.Time{}
	}
	return entry.Schedule.Next(time.Now())
}
