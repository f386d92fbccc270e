// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package routing_test

import (
	"testing"

	"codeberg.org/oliverandrich/go-redirector/internal/routing"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		kind routing.Kind
		name string
	}{
		{"/", routing.SPA, ""},
		{"", routing.SPA, ""},
		{"/login", routing.SPA, "login"},
		{"/register", routing.SPA, "register"},
		{"/redirects", routing.SPA, "redirects"},
		{"/api", routing.Reserved, "api"},
		{"/api/unknown", routing.Reserved, "api/unknown"},
		{"/apiary", routing.Reserved, "apiary"},
		{"/static/app.js", routing.Reserved, "static/app.js"},
		{"/statistics", routing.Reserved, "statistics"},
		{"/gh", routing.Shortcode, "gh"},
		{"/Login", routing.Shortcode, "Login"},
		{"/redirects/", routing.Shortcode, "redirects/"},
		{"/a/b", routing.Shortcode, "a/b"},
		{"//gh", routing.Shortcode, "/gh"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			kind, name := routing.Classify(tt.path)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "reserved", routing.Reserved.String())
	assert.Equal(t, "spa", routing.SPA.String())
	assert.Equal(t, "shortcode", routing.Shortcode.String())
	assert.Equal(t, "unknown", routing.Kind(99).String())
}
