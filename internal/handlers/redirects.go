// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"
	"strconv"

	"codeberg.org/oliverandrich/go-redirector/internal/appcontext"
	"codeberg.org/oliverandrich/go-redirector/internal/models"
	authsvc "codeberg.org/oliverandrich/go-redirector/internal/services/auth"
	"codeberg.org/oliverandrich/go-redirector/internal/services/redirects"
	"github.com/labstack/echo/v4"
)

// RedirectHandlers contains the redirect CRUD handlers. They expect the
// account to be resolved by middleware.RequireAccount.
type RedirectHandlers struct {
	redirects *redirects.Service
}

// NewRedirects creates a new RedirectHandlers instance.
func NewRedirects(svc *redirects.Service) *RedirectHandlers {
	return &RedirectHandlers{redirects: svc}
}

// CreateRedirectRequest is the request body for creating a redirect. Both
// fields are required; an empty shortcode is generated.
type CreateRedirectRequest struct {
	Shortcode *string `json:"shortcode"`
	TargetURL *string `json:"target_url"`
}

// ListRedirectsResponse wraps the owner's redirects.
type ListRedirectsResponse struct {
	Redirects []models.Redirect `json:"redirects"`
}

// Create registers a redirect for the current account.
func (h *RedirectHandlers) Create(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	var req CreateRedirectRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Shortcode == nil {
		return &FieldError{Field: "shortcode"}
	}
	if req.TargetURL == nil {
		return &FieldError{Field: "target_url"}
	}

	// An empty shortcode asks for a generated one
	redirect, err := h.redirects.Create(c.Request().Context(), account.ID, *req.Shortcode, *req.TargetURL)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, redirect)
}

// List returns the current account's redirects.
func (h *RedirectHandlers) List(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}

	list, err := h.redirects.List(c.Request().Context(), account.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListRedirectsResponse{Redirects: list})
}

// Update applies a partial update to one of the current account's redirects.
func (h *RedirectHandlers) Update(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := redirectID(c)
	if err != nil {
		return err
	}

	var patch models.RedirectPatch
	if err := c.Bind(&patch); err != nil {
		return err
	}

	redirect, err := h.redirects.Update(c.Request().Context(), account.ID, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, redirect)
}

// Delete removes one of the current account's redirects.
func (h *RedirectHandlers) Delete(c echo.Context) error {
	account, err := currentAccount(c)
	if err != nil {
		return err
	}
	id, err := redirectID(c)
	if err != nil {
		return err
	}

	if _, err := h.redirects.Delete(c.Request().Context(), account.ID, id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"msg": "Deleted"})
}

func currentAccount(c echo.Context) (*models.Account, error) {
	account := appcontext.AccountFrom(c)
	if account == nil {
		return nil, &authsvc.AuthError{Reason: authsvc.AuthMissingCredential}
	}
	return account, nil
}

// redirectID parses the id path parameter. Anything that is not an integer
// cannot name a redirect and is reported as not found.
func redirectID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.ErrNotFound
	}
	return id, nil
}
