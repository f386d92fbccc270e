// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package appcontext provides the custom Echo context for authenticated routes.
package appcontext

import (
	"codeberg.org/oliverandrich/go-redirector/internal/models"
	"github.com/labstack/echo/v4"
)

// Context is a custom Echo context carrying the account resolved from the
// bearer token.
type Context struct {
	echo.Context
	Account *models.Account // nil if not authenticated
}

// GetAccount returns the authenticated account, or nil if not authenticated.
func (c *Context) GetAccount() *models.Account {
	return c.Account
}

// IsAuthenticated returns true if the request carries an account.
func (c *Context) IsAuthenticated() bool {
	return c.Account != nil
}

// AccountFrom returns the account of c if it is a *Context, or nil.
func AccountFrom(c echo.Context) *models.Account {
	if cc, ok := c.(*Context); ok {
		return cc.Account
	}
	return nil
}
