// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"codeberg.org/oliverandrich/go-redirector/internal/models"
	"github.com/vinovest/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("record conflicts with an existing one")
)

// Querier is the set of operations available both on the connection pool
// and inside a transaction.
type Querier interface {
	CreateAccount(ctx context.Context, email, passwordHash string) (*models.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)

	CreateRedirect(ctx context.Context, ownerID int64, shortcode, targetURL string) (*models.Redirect, error)
	GetRedirectByShortcode(ctx context.Context, shortcode string) (*models.Redirect, error)
	GetOwnedRedirect(ctx context.Context, id, ownerID int64) (*models.Redirect, error)
	ListRedirectsByOwner(ctx context.Context, ownerID int64) ([]models.Redirect, error)
	UpdateRedirect(ctx context.Context, r *models.Redirect) (*models.Redirect, error)
	DeleteRedirect(ctx context.Context, id, ownerID int64) (*models.Redirect, error)
}

// Repository wraps sqlx for database operations. A Repository returned by
// Transact is bound to a single transaction.
type Repository struct {
	db *sqlx.DB
	q  sqlx.ExtContext
}

// New creates a new Repository instance.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db, q: db}
}

// Ping checks that the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Transact runs fn inside a single transaction. The transaction is committed
// if fn returns nil and rolled back otherwise, including on panic.
// Calling Transact on a transaction-bound Repository reuses that transaction.
func (r *Repository) Transact(ctx context.Context, fn func(q Querier) error) (err error) {
	if _, inTx := r.q.(*sqlx.Tx); inTx {
		return fn(r)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&Repository{db: r.db, q: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// wrapError converts driver errors to repository errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

var _ Querier = (*Repository)(nil)
