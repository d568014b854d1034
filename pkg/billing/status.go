package billing

import (
	"time"

	"garage_backend/pkg/models"
)

// StatusChange is the patch produced by moving a job to a new status
type StatusChange struct {
	Status  models.JobStatus
	DateOut *time.Time
	Changed bool
}

// Transition computes the effect of setting job's status to next at now.
// Any status may follow any other. Entering delivered stamps date_out if
// it is empty; leaving delivered keeps it.
func Transition(job *models.Job, next models.JobStatus, now time.Time) StatusChange {
	change := StatusChange{Status: next, DateOut: job.DateOut}
	if job.Status == next {
		return change
	}
	change.Changed = true
	if next == models.JobStatusDelivered && job.DateOut == nil {
		stamped := now
		change.DateOut = &stamped
	}
	return change
}
