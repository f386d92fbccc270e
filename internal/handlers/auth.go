// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	authsvc "codeberg.org/oliverandrich/go-redirector/internal/services/auth"
	"github.com/labstack/echo/v4"
)

// AuthHandlers contains handlers for registration and login.
type AuthHandlers struct {
	auth *authsvc.Service
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(auth *authsvc.Service) *AuthHandlers {
	return &AuthHandlers{auth: auth}
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func newTokenResponse(token string) TokenResponse {
	return TokenResponse{AccessToken: token, TokenType: "bearer"}
}

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Register creates an account from a JSON body and returns a token.
func (h *AuthHandlers) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Email == nil {
		return &FieldError{Field: "email"}
	}
	if req.Password == nil {
		return &FieldError{Field: "password"}
	}

	token, err := h.auth.Register(c.Request().Context(), *req.Email, *req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTokenResponse(token))
}

// Login checks form encoded username and password fields and returns a
// token. The username is the account email.
func (h *AuthHandlers) Login(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return echo.ErrBadRequest.WithInternal(err)
	}
	if !form.Has("username") {
		return &FieldError{Field: "username"}
	}
	if !form.Has("password") {
		return &FieldError{Field: "password"}
	}

	token, err := h.auth.Login(c.Request().Context(), form.Get("username"), form.Get("password"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTokenResponse(token))
}
