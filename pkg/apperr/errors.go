// Package apperr defines the error kinds every garage operation can fail with.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries one message per offending input field
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Invalid builds a ValidationError for a single field
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// NotFoundError covers rows that are absent and rows owned by someone else
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

// NotFound builds a NotFoundError
func NotFound(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

// ConstraintError is a store-level rejection such as a blocked delete
type ConstraintError struct {
	Entity string
	Detail string
}

func (e *ConstraintError) Error() string {
	if e.Detail == "" {
		return e.Entity + " violates a store constraint"
	}
	return e.Entity + ": " + e.Detail
}

// ConflictError is recoverable by retrying with fresh state
type ConflictError struct {
	Entity string
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Entity + " conflict: " + e.Reason
}

// TransientError wraps a store failure that may succeed on retry
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "store unavailable: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error { return e.Err }

// ActionError names the operator action that failed
type ActionError struct {
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Action, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Wrap attaches the action to err. Nil stays nil and an existing
// ActionError is not wrapped twice.
func Wrap(action string, err error) error {
	if err == nil {
		return nil
	}
	var ae *ActionError
	if errors.As(err, &ae) {
		return err
	}
	return &ActionError{Action: action, Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsConstraint(err error) bool {
	var target *ConstraintError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsTransient(err error) bool {
	var target *TransientError
	return errors.As(err, &target)
}
