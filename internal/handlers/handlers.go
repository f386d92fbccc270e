// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP handlers of the JSON API, the SPA shell
// and the public shortcode redirects.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/go-redirector/internal/assets"
	"codeberg.org/oliverandrich/go-redirector/internal/models"
	"codeberg.org/oliverandrich/go-redirector/internal/routing"
	"codeberg.org/oliverandrich/go-redirector/internal/services/redirects"
	"github.com/labstack/echo/v4"
)

// Pinger checks that the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Resolver looks up shortcodes for public redirection.
type Resolver interface {
	Resolve(ctx context.Context, shortcode string) (*models.Redirect, error)
}

// Handlers contains the handlers that are not part of the API.
type Handlers struct {
	db       Pinger
	resolver Resolver
	frontend *assets.Frontend
}

// New creates a new Handlers instance.
func New(db Pinger, resolver Resolver, frontend *assets.Frontend) *Handlers {
	return &Handlers{
		db:       db,
		resolver: resolver,
		frontend: frontend,
	}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	if err := h.db.Ping(c.Request().Context()); err != nil {
		slog.Error("health_check_failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Fallback handles every GET no declared route matched: SPA routes get the
// shell, shortcodes are redirected, everything else is a 404.
func (h *Handlers) Fallback(c echo.Context) error {
	kind, name := routing.Classify(c.Request().URL.Path)

	switch kind {
	case routing.SPA:
		return c.HTMLBlob(http.StatusOK, h.frontend.Index())

	case routing.Shortcode:
		redirect, err := h.resolver.Resolve(c.Request().Context(), name)
		if err != nil {
			if errors.Is(err, redirects.ErrNotFound) {
				return echo.ErrNotFound
			}
			return err
		}
		return c.Redirect(http.StatusMovedPermanently, redirect.TargetURL)

	default:
		return echo.ErrNotFound
	}
}
