// Package store is the operator-scoped persistence layer. Every statement it
// issues is filtered by the operator carried in the request context.
package store

import (
	"context"
	"reflect"
	"strings"
	"unicode"

	"garage_backend/pkg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store wraps a gorm handle, or a transaction on one
type Store struct {
	db *gorm.DB
}

// New returns a Store over db
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for statements that are not operator scoped
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Scope narrows a query, in the style of gorm's Scopes
type Scope func(*gorm.DB) *gorm.DB

// Where adds a condition
func Where(query interface{}, args ...interface{}) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Where(query, args...) }
}

// Order sets the ordering
func Order(value interface{}) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Order(value) }
}

// Preload eager-loads an association
func Preload(query string, args ...interface{}) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Preload(query, args...) }
}

// Limit caps the number of rows returned
func Limit(n int) Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Limit(n) }
}

// Session returns a context-bound handle filtered to the current operator
func (s *Store) Session(ctx context.Context) (*gorm.DB, string, error) {
	operatorID, err := OperatorFrom(ctx)
	if err != nil {
		return nil, "", err
	}
	tx := s.db.WithContext(ctx).Where(ownerClause(operatorID))
	return tx, operatorID, nil
}

// Transaction runs fn against a Store bound to one database transaction
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	if _, err := OperatorFrom(ctx); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func ownerClause(operatorID string) clause.Expression {
	return clause.Eq{
		Column: clause.Column{Table: clause.CurrentTable, Name: "operator_id"},
		Value:  operatorID,
	}
}

func idClause(id string) clause.Expression {
	return clause.Eq{
		Column: clause.Column{Table: clause.CurrentTable, Name: "id"},
		Value:  id,
	}
}

// Create stamps the row with the current operator and inserts it
func Create[T models.Owned](ctx context.Context, s *Store, row T) error {
	operatorID, err := OperatorFrom(ctx)
	if err != nil {
		return err
	}
	row.SetOperator(operatorID)
	return Translate(entityName(row), s.db.WithContext(ctx).Create(row).Error)
}

// Get loads one row by id. Rows owned by another operator are reported
// exactly like missing rows.
func Get[T any](ctx context.Context, s *Store, id string, scopes ...Scope) (*T, error) {
	tx, _, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	var row T
	if err := applyScopes(tx, scopes).Where(idClause(id)).First(&row).Error; err != nil {
		return nil, Translate(entityName(&row), err)
	}
	return &row, nil
}

// Query lists the operator's rows matching scopes
func Query[T any](ctx context.Context, s *Store, scopes ...Scope) ([]T, error) {
	tx, _, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	rows := []T{}
	if err := applyScopes(tx, scopes).Find(&rows).Error; err != nil {
		return nil, Translate(entityName(new(T)), err)
	}
	return rows, nil
}

// Count counts the operator's rows matching scopes
func Count[T any](ctx context.Context, s *Store, scopes ...Scope) (int64, error) {
	tx, _, err := s.Session(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := applyScopes(tx.Model(new(T)), scopes).Count(&n).Error; err != nil {
		return 0, Translate(entityName(new(T)), err)
	}
	return n, nil
}

// Update applies patch to the row with id and returns the fresh row.
// Extra conditions (such as an expected version) go in guards; when the
// row exists but a guard fails, the returned error is ErrGuardFailed.
func Update[T any](ctx context.Context, s *Store, id string, patch map[string]interface{}, guards ...Scope) (*T, error) {
	if _, err := Get[T](ctx, s, id); err != nil {
		return nil, err
	}
	tx, _, err := s.Session(ctx)
	if err != nil {
		return nil, err
	}
	res := applyScopes(tx.Model(new(T)).Where(idClause(id)), guards).Updates(patch)
	if res.Error != nil {
		return nil, Translate(entityName(new(T)), res.Error)
	}
	if res.RowsAffected == 0 && len(guards) > 0 {
		return nil, ErrGuardFailed
	}
	return Get[T](ctx, s, id)
}

// Delete removes the row with id. The row is loaded first so model
// delete hooks see its columns.
func Delete[T any](ctx context.Context, s *Store, id string) error {
	row, err := Get[T](ctx, s, id)
	if err != nil {
		return err
	}
	tx, _, err := s.Session(ctx)
	if err != nil {
		return err
	}
	return Translate(entityName(row), tx.Delete(row).Error)
}

func applyScopes(tx *gorm.DB, scopes []Scope) *gorm.DB {
	for _, scope := range scopes {
		tx = scope(tx)
	}
	return tx
}

// entityName turns a model type such as *models.JobPart into "job part"
func entityName(v interface{}) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	var b strings.Builder
	for i, r := range t.Name() {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte(' ')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
