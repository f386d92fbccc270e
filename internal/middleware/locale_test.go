// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/oliverandrich/go-redirector/internal/i18n"
	"codeberg.org/oliverandrich/go-redirector/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestLocale(t *testing.T) {
	e := echo.New()
	e.Use(middleware.Locale())

	var locale, message string
	e.GET("/", func(c echo.Context) error {
		locale = i18n.GetLocale(c.Request().Context())
		message = i18n.T(c.Request().Context(), "error_not_found")
		return c.NoContent(http.StatusOK)
	})

	tests := []struct {
		header  string
		locale  string
		message string
	}{
		{"en-US", "en", "Not found"},
		{"es-ES", "es", "No encontrado"},
		{"fr-FR", "en", "Not found"},
		{"", "en", "Not found"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Accept-Language", tt.header)
			}
			e.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.locale, locale)
			assert.Equal(t, tt.message, message)
		})
	}
}
