// Package garage implements the workshop operations on top of the
// operator-scoped store.
package garage

import (
	"context"
	"strings"
	"time"

	"garage_backend/pkg/apperr"
	"garage_backend/pkg/config"
	"garage_backend/pkg/store"
	"garage_backend/pkg/validation"

	"gorm.io/gorm"
)

// invoiceAttempts bounds the claim loop for a new invoice number
const invoiceAttempts = 5

// Service runs garage operations for the operator carried in each context
type Service struct {
	store   *store.Store
	profile config.GarageProfile
	retry   store.RetryPolicy
	now     func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRetry sets the policy for transient store failures
func WithRetry(policy store.RetryPolicy) Option {
	return func(s *Service) { s.retry = policy }
}

// WithProfile sets the garage profile used before settings are saved
func WithProfile(profile config.GarageProfile) Option {
	return func(s *Service) { s.profile = profile }
}

// NewService builds a Service over db
func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		store:   store.New(db),
		profile: config.DefaultGarageProfile(),
		retry:   store.DefaultRetry,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// On returns a copy of s bound to db, usually a transaction the caller
// owns. The copy does not retry; retrying is up to the owner of db.
func (s *Service) On(db *gorm.DB) *Service {
	c := *s
	c.store = store.New(db)
	c.retry = store.RetryPolicy{Attempts: 1}
	return &c
}

// Profile returns the default garage profile
func (s *Service) Profile() config.GarageProfile {
	return s.profile
}

// do runs fn with transient retries and names the action on failure
func do[T any](ctx context.Context, s *Service, action string, fn func() (T, error)) (T, error) {
	var out T
	err := store.RetryTransient(ctx, s.retry, func() error {
		var err error
		out, err = fn()
		return err
	})
	if err != nil {
		var zero T
		return zero, apperr.Wrap(action, err)
	}
	return out, nil
}

// exec is do for actions without a result
func exec(ctx context.Context, s *Service, action string, fn func() error) error {
	_, err := do(ctx, s, action, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// check validates input before anything touches the store
func check(action string, input interface{}) error {
	return apperr.Wrap(action, validation.Struct(input))
}

// today is local midnight, in UTC
func (s *Service) today() time.Time {
	now := s.now()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).UTC()
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// trimmed returns nil for nil or blank strings
func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	out := strings.TrimSpace(*v)
	if out == "" {
		return nil
	}
	return &out
}
