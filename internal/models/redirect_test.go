// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models_test

import (
	"encoding/json"
	"testing"

	"codeberg.org/oliverandrich/go-redirector/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestRedirectPatch_Apply(t *testing.T) {
	tests := []struct {
		name          string
		patch         models.RedirectPatch
		wantShortcode string
		wantTarget    string
	}{
		{"empty patch", models.RedirectPatch{}, "go", "http://example.com"},
		{"target only", models.RedirectPatch{TargetURL: ptr("http://other.example")}, "go", "http://other.example"},
		{"shortcode only", models.RedirectPatch{Shortcode: ptr("docs")}, "docs", "http://example.com"},
		{"both", models.RedirectPatch{Shortcode: ptr("docs"), TargetURL: ptr("http://docs.example")}, "docs", "http://docs.example"},
		{"explicit empty string", models.RedirectPatch{TargetURL: ptr("")}, "go", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &models.Redirect{ID: 1, Shortcode: "go", TargetURL: "http://example.com", OwnerID: 7}

			tt.patch.Apply(r)

			assert.Equal(t, tt.wantShortcode, r.Shortcode)
			assert.Equal(t, tt.wantTarget, r.TargetURL)
			assert.Equal(t, int64(1), r.ID)
			assert.Equal(t, int64(7), r.OwnerID)
		})
	}
}

func TestRedirectPatch_Empty(t *testing.T) {
	assert.True(t, models.RedirectPatch{}.Empty())
	assert.False(t, models.RedirectPatch{Shortcode: ptr("x")}.Empty())
}

func TestRedirect_JSON(t *testing.T) {
	r := models.Redirect{ID: 3, Shortcode: "go", TargetURL: "http://example.com", OwnerID: 9}

	data, err := json.Marshal(r)

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":3,"shortcode":"go","target_url":"http://example.com"}`, string(data))
}

func TestRedirectPatch_DecodeAbsentFields(t *testing.T) {
	var p models.RedirectPatch

	err := json.Unmarshal([]byte(`{"target_url":"http://x.example"}`), &p)

	require.NoError(t, err)
	assert.Nil(t, p.Shortcode)
	require.NotNil(t, p.TargetURL)
	assert.Equal(t, "http://x.example", *p.TargetURL)
}

func TestAccount_PasswordHashHidden(t *testing.T) {
	data, err := json.Marshal(models.Account{ID: 1, Email: "a@x.com", PasswordHash: "secret"})

	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
}
