// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package middleware provides Echo middleware for authentication and locale
// detection.
package middleware

import (
	"context"
	"log/slog"

	"codeberg.org/oliverandrich/go-redirector/internal/appcontext"
	"codeberg.org/oliverandrich/go-redirector/internal/models"
	"github.com/labstack/echo/v4"
)

// IdentityResolver maps an Authorization header value to an account.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, authorization string) (*models.Account, error)
}

// RequireAccount resolves the bearer token once per request and hands an
// *appcontext.Context carrying the account to the next handler. Failures are
// passed on to the HTTP error handler.
func RequireAccount(resolver IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			account, err := resolver.ResolveIdentity(req.Context(), req.Header.Get(echo.HeaderAuthorization))
			if err != nil {
				slog.Debug("auth_failed", "path", req.URL.Path, "error", err)
				return err
			}
			return next(&appcontext.Context{Context: c, Account: account})
		}
	}
}
