package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"garage_backend/pkg/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes the store distinguishes
const (
	PgErrUniqueViolation     = "23505"
	PgErrForeignKeyViolation = "23503"
	PgErrNotNullViolation    = "23502"
	PgErrSerialization       = "40001"
	PgErrDeadlock            = "40P01"
	PgErrAdminShutdown       = "57P01"
	PgErrCannotConnectNow    = "57P03"
)

// Translate maps driver and gorm errors onto the apperr taxonomy
func Translate(entity string, err error) error {
	if err == nil {
		return nil
	}
	if isClassified(err) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &apperr.ConflictError{Entity: entity, Reason: "a record with the same unique value already exists"}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &apperr.ConstraintError{Entity: entity, Detail: "referenced by or referencing another record"}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case PgErrUniqueViolation, PgErrSerialization, PgErrDeadlock:
			return &apperr.ConflictError{Entity: entity, Reason: pgErr.Message}
		case PgErrForeignKeyViolation, PgErrNotNullViolation:
			return &apperr.ConstraintError{Entity: entity, Detail: pgErr.Message}
		case PgErrAdminShutdown, PgErrCannotConnectNow:
			return &apperr.TransientError{Err: err}
		}
		// connection_exception class
		if strings.HasPrefix(pgErr.Code, "08") {
			return &apperr.TransientError{Err: err}
		}
		return err
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return &apperr.TransientError{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &apperr.TransientError{Err: err}
	}
	return err
}

func isClassified(err error) bool {
	return apperr.IsValidation(err) || apperr.IsNotFound(err) || apperr.IsConstraint(err) ||
		apperr.IsConflict(err) || apperr.IsTransient(err)
}

// ErrGuardFailed reports an update whose extra conditions matched no row
var ErrGuardFailed = errors.New("update guard did not match")
