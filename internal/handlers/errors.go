// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/go-redirector/internal/i18n"
	authsvc "codeberg.org/oliverandrich/go-redirector/internal/services/auth"
	"codeberg.org/oliverandrich/go-redirector/internal/services/redirects"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// FieldError reports a required request field that is missing.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return "field required: " + e.Field
}

// httpError is a resolved status code with a translatable message.
type httpError struct {
	data      map[string]any
	messageID string
	status    int
}

// ErrorHandler is the Echo HTTPErrorHandler. It maps domain errors to a
// status code and a localized {"detail": ...} body. Internal errors are
// logged and never exposed.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	he := resolveError(err)
	req := c.Request()

	if he.status >= http.StatusInternalServerError {
		slog.Error("request_failed",
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err,
		)
	}
	if he.status == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}

	var writeErr error
	if req.Method == http.MethodHead {
		writeErr = c.NoContent(he.status)
	} else {
		detail := i18n.TData(req.Context(), he.messageID, he.data)
		writeErr = c.JSON(he.status, ErrorResponse{Detail: detail})
	}
	if writeErr != nil {
		slog.Error("failed to write error response", "error", writeErr)
	}
}

func resolveError(err error) httpError {
	var authErr *authsvc.AuthError
	var fieldErr *FieldError
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &authErr):
		return httpError{status: http.StatusUnauthorized, messageID: "error_not_authenticated"}
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		return httpError{status: http.StatusUnauthorized, messageID: "error_invalid_credentials"}
	case errors.Is(err, authsvc.ErrEmailTaken):
		return httpError{status: http.StatusBadRequest, messageID: "error_email_taken"}
	case errors.Is(err, authsvc.ErrPasswordTooLong):
		return httpError{status: http.StatusBadRequest, messageID: "error_password_too_long"}
	case errors.Is(err, redirects.ErrShortcodeTaken):
		return httpError{status: http.StatusBadRequest, messageID: "error_shortcode_taken"}
	case errors.Is(err, redirects.ErrNotFoundOrUnauthorized):
		return httpError{status: http.StatusNotFound, messageID: "error_redirect_not_found"}
	case errors.Is(err, redirects.ErrNotFound):
		return httpError{status: http.StatusNotFound, messageID: "error_not_found"}
	case errors.As(err, &fieldErr):
		return httpError{
			status:    http.StatusUnprocessableEntity,
			messageID: "error_field_required",
			data:      map[string]any{"Field": fieldErr.Field},
		}
	case errors.As(err, &echoErr):
		return resolveHTTPError(echoErr)
	default:
		return httpError{status: http.StatusInternalServerError, messageID: "error_internal"}
	}
}

func resolveHTTPError(he *echo.HTTPError) httpError {
	switch he.Code {
	case http.StatusBadRequest:
		return httpError{status: he.Code, messageID: "error_invalid_request"}
	case http.StatusNotFound:
		return httpError{status: he.Code, messageID: "error_not_found"}
	case http.StatusMethodNotAllowed:
		return httpError{status: he.Code, messageID: "error_method_not_allowed"}
	case http.StatusRequestEntityTooLarge:
		return httpError{status: he.Code, messageID: "error_request_too_large"}
	case http.StatusUnsupportedMediaType:
		return httpError{status: he.Code, messageID: "error_unsupported_media_type"}
	case http.StatusServiceUnavailable:
		return httpError{status: he.Code, messageID: "error_service_unavailable"}
	}
	if he.Code >= http.StatusInternalServerError {
		return httpError{status: he.Code, messageID: "error_internal"}
	}
	// Remaining client errors keep their status with the standard text
	return httpError{status: he.Code, messageID: http.StatusText(he.Code)}
}
