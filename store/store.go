// Package store wraps the gorm handle with the queries the API needs.
// Every write that spans more than one row runs inside Transaction.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("record not found")

	// ErrIntegrity matches any storage constraint violation (unique, foreign key, not null, check)
	ErrIntegrity = errors.New("integrity constraint violated")
)

// IntegrityError wraps the driver error for a failed constraint
type IntegrityError struct {
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: %v", ErrIntegrity, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// Store is a repository bound to either the connection pool or a single transaction
type Store struct {
	db *gorm.DB
}

// New creates a store over db
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a store bound to one transaction.
// It commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Ping verifies the database connection is alive
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Tables lists the tables visible to the connection
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	tables, err := s.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

// IsIntegrityError reports whether err is a constraint violation raised by the database.
// Drivers disagree on error types, so the message is checked as well (works with PostgreSQL, MySQL and SQLite).
func IsIntegrityError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrIntegrity) ||
		errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "foreign key constraint") ||
		strings.Contains(errMsg, "not null constraint") ||
		strings.Contains(errMsg, "violates not-null") ||
		strings.Contains(errMsg, "cannot be null") ||
		strings.Contains(errMsg, "check constraint")
}

// classify maps driver errors onto ErrNotFound and IntegrityError
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case IsIntegrityError(err):
		return &IntegrityError{Err: err}
	default:
		return err
	}
}
