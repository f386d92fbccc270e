// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

// TokenErrorReason says why a token failed verification.
type TokenErrorReason int

const (
	TokenMalformed TokenErrorReason = iota + 1
	TokenExpired
	TokenMissingSubject
)

func (r TokenErrorReason) String() string {
	switch r {
	case TokenMalformed:
		return "malformed"
	case TokenExpired:
		return "expired"
	case TokenMissingSubject:
		return "missing subject"
	default:
		return "unknown"
	}
}

// TokenError is returned by TokenService.Verify.
type TokenError struct {
	Err    error
	Reason TokenErrorReason
}

func (e *TokenError) Error() string {
	if e.Err != nil {
		return "token " + e.Reason.String() + ": " + e.Err.Error()
	}
	return "token " + e.Reason.String()
}

func (e *TokenError) Unwrap() error {
	return e.Err
}

// AuthErrorReason says why a request could not be attributed to an account.
type AuthErrorReason int

const (
	AuthMissingCredential AuthErrorReason = iota + 1
	AuthInvalidToken
	AuthAccountNotFound
)

func (r AuthErrorReason) String() string {
	switch r {
	case AuthMissingCredential:
		return "missing credential"
	case AuthInvalidToken:
		return "invalid token"
	case AuthAccountNotFound:
		return "account not found"
	default:
		return "unknown"
	}
}

// AuthError is returned by Service.ResolveIdentity.
type AuthError struct {
	Err    error
	Reason AuthErrorReason
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Reason.String() + ": " + e.Err.Error()
	}
	return e.Reason.String()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether err is an *AuthError with the given reason.
func IsAuthError(err error, reason AuthErrorReason) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Reason == reason
}

// IsTokenError reports whether err is a *TokenError with the given reason.
func IsTokenError(err error, reason TokenErrorReason) bool {
	var tokenErr *TokenError
	return errors.As(err, &tokenErr) && tokenErr.Reason == reason
}
