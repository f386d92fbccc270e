// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package i18n_test

import (
	"context"
	"testing"

	"codeberg.org/oliverandrich/go-redirector/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestInit(t *testing.T) {
	require.NoError(t, i18n.Init())
	require.NoError(t, i18n.Init())
}

func TestT(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.English)

	assert.Equal(t, "Email already registered", i18n.T(ctx, "error_email_taken"))
}

func TestT_Spanish(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.Spanish)

	assert.Equal(t, "El correo ya está registrado", i18n.T(ctx, "error_email_taken"))
}

func TestT_UnknownKey(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.English)

	// Should return the key itself for unknown messages
	result := i18n.T(ctx, "unknown_key_that_does_not_exist")
	assert.Equal(t, "unknown_key_that_does_not_exist", result)
}

func TestT_NoLocaleContext(t *testing.T) {
	// Without WithLocale, should fallback to English
	result := i18n.T(context.Background(), "error_not_found")
	assert.Equal(t, "Not found", result)
}

func TestTData(t *testing.T) {
	en := i18n.WithLocale(context.Background(), language.English)
	es := i18n.WithLocale(context.Background(), language.Spanish)

	data := map[string]any{"Field": "email"}
	assert.Equal(t, "Field required: email", i18n.TData(en, "error_field_required", data))
	assert.Equal(t, "Campo obligatorio: email", i18n.TData(es, "error_field_required", data))
}

// Every English message must have a Spanish translation.
func TestTranslationsComplete(t *testing.T) {
	en := i18n.WithLocale(context.Background(), language.English)
	es := i18n.WithLocale(context.Background(), language.Spanish)

	ids := []string{
		"error_internal",
		"error_invalid_request",
		"error_not_found",
		"error_method_not_allowed",
		"error_request_too_large",
		"error_unsupported_media_type",
		"error_service_unavailable",
		"error_not_authenticated",
		"error_invalid_credentials",
		"error_email_taken",
		"error_password_too_long",
		"error_shortcode_taken",
		"error_redirect_not_found",
	}

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			english := i18n.T(en, id)
			spanish := i18n.T(es, id)
			assert.NotEqual(t, id, english)
			assert.NotEqual(t, id, spanish)
			assert.NotEqual(t, english, spanish)
		})
	}
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		expected       language.Tag
		acceptLanguage string
	}{
		{language.English, "en"},
		{language.English, "en-US"},
		{language.Spanish, "es"},
		{language.Spanish, "es-ES"},
		{language.Spanish, "es-MX"},
		{language.English, "fr"}, // fallback to English
		{language.English, ""},   // empty defaults to English
		{language.Spanish, "es, en;q=0.9"},
		{language.English, "en, es;q=0.9"},
	}

	for _, tt := range tests {
		t.Run(tt.acceptLanguage, func(t *testing.T) {
			assert.Equal(t, tt.expected, i18n.MatchLanguage(tt.acceptLanguage))
		})
	}
}

func TestWithLocale(t *testing.T) {
	ctx := i18n.WithLocale(context.Background(), language.Spanish)

	assert.Equal(t, "es", i18n.GetLocale(ctx))
}

func TestGetLocale_Default(t *testing.T) {
	// Without WithLocale, should return "en"
	assert.Equal(t, "en", i18n.GetLocale(context.Background()))
}
