// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Redirect maps a globally unique shortcode to a target URL.
type Redirect struct { //nolint:govet // fieldalignment not critical for models
	ID        int64     `db:"id" json:"id"`
	Shortcode string    `db:"shortcode" json:"shortcode"`
	TargetURL string    `db:"target_url" json:"target_url"`
	OwnerID   int64     `db:"owner_id" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// RedirectPatch is a partial update. Nil fields are left untouched.
type RedirectPatch struct {
	Shortcode *string `json:"shortcode,omitempty"`
	TargetURL *string `json:"target_url,omitempty"`
}

// Apply copies the present fields of the patch onto r.
func (p RedirectPatch) Apply(r *Redirect) {
	if p.Shortcode != nil {
		r.Shortcode = *p.Shortcode
	}
	if p.TargetURL != nil {
		r.TargetURL = *p.TargetURL
	}
}

// Empty reports whether the patch changes nothing.
func (p RedirectPatch) Empty() bool {
	return p.Shortcode == nil && p.TargetURL == nil
}
