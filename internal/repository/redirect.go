// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"codeberg.org/oliverandrich/go-redirector/internal/models"
	"github.com/vinovest/sqlx"
)

const redirectColumns = `id, shortcode, target_url, owner_id, created_at, updated_at`

// CreateRedirect creates a redirect owned by ownerID.
// Returns ErrConflict if the shortcode is already taken.
func (r *Repository) CreateRedirect(ctx context.Context, ownerID int64, shortcode, targetURL string) (*models.Redirect, error) {
	result, err := r.q.ExecContext(ctx,
		`INSERT INTO redirects (shortcode, target_url, owner_id) VALUES (?, ?, ?)`,
		shortcode, targetURL, ownerID)
	if err != nil {
		return nil, wrapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetOwnedRedirect(ctx, id, ownerID)
}

// GetRedirectByShortcode retrieves a redirect by shortcode, regardless of owner.
func (r *Repository) GetRedirectByShortcode(ctx context.Context, shortcode string) (*models.Redirect, error) {
	var redirect models.Redirect
	err := sqlx.GetContext(ctx, r.q, &redirect,
		`SELECT `+redirectColumns+` FROM redirects WHERE shortcode = ?`, shortcode)
	if err != nil {
		return nil, wrapError(err)
	}
	return &redirect, nil
}

// GetOwnedRedirect retrieves a redirect by ID only if it belongs to ownerID.
func (r *Repository) GetOwnedRedirect(ctx context.Context, id, ownerID int64) (*models.Redirect, error) {
	var redirect models.Redirect
	err := sqlx.GetContext(ctx, r.q, &redirect,
		`SELECT `+redirectColumns+` FROM redirects WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &redirect, nil
}

// ListRedirectsByOwner returns all redirects of an owner in insertion order.
func (r *Repository) ListRedirectsByOwner(ctx context.Context, ownerID int64) ([]models.Redirect, error) {
	redirects := []models.Redirect{}
	err := sqlx.SelectContext(ctx, r.q, &redirects,
		`SELECT `+redirectColumns+` FROM redirects WHERE owner_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, err
	}
	return redirects, nil
}

// UpdateRedirect writes shortcode and target URL of an owned redirect.
// Returns ErrNotFound if no redirect with that ID belongs to the owner,
// and ErrConflict if the new shortcode is taken.
func (r *Repository) UpdateRedirect(ctx context.Context, redirect *models.Redirect) (*models.Redirect, error) {
	result, err := r.q.ExecContext(ctx,
		`UPDATE redirects SET shortcode = ?, target_url = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND owner_id = ?`,
		redirect.Shortcode, redirect.TargetURL, redirect.ID, redirect.OwnerID)
	if err != nil {
		return nil, wrapError(err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return r.GetOwnedRedirect(ctx, redirect.ID, redirect.OwnerID)
}

// DeleteRedirect deletes an owned redirect and returns the deleted record.
// Returns ErrNotFound if no redirect with that ID belongs to the owner.
func (r *Repository) DeleteRedirect(ctx context.Context, id, ownerID int64) (*models.Redirect, error) {
	redirect, err := r.GetOwnedRedirect(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	result, err := r.q.ExecContext(ctx, `DELETE FROM redirects WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return nil, err
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return redirect, nil
}
