// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/go-redirector/internal/models"
	"github.com/vinovest/sqlx"
)

const accountColumns = `id, email, password_hash, created_at`

// CreateAccount creates a new account. Returns ErrConflict if the email is taken.
func (r *Repository) CreateAccount(ctx context.Context, email, passwordHash string) (*models.Account, error) {
	result, err := r.q.ExecContext(ctx,
		`INSERT INTO accounts (email, password_hash) VALUES (?, ?)`, email, passwordHash)
	if err != nil {
		return nil, wrapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetAccountByID(ctx, id)
}

// GetAccountByID retrieves an account by ID.
func (r *Repository) GetAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	err := sqlx.GetContext(ctx, r.q, &account,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &account, nil
}

// GetAccountByEmail retrieves an account by its exact email address.
func (r *Repository) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := sqlx.GetContext(ctx, r.q, &account,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &account, nil
}
