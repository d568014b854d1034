package store

import (
	"context"
	"errors"
)

type operatorKey struct{}

// ErrNoOperator is returned by every store call made without an operator in the context
var ErrNoOperator = errors.New("no operator in request context")

// WithOperator returns a context scoped to the given operator
func WithOperator(ctx context.Context, operatorID string) context.Context {
	return context.WithValue(ctx, operatorKey{}, operatorID)
}

// OperatorFrom returns the operator the context is scoped to
func OperatorFrom(ctx context.Context) (string, error) {
	id, ok := ctx.Value(operatorKey{}).(string)
	if !ok || id == "" {
		return "", ErrNoOperator
	}
	return id, nil
}
