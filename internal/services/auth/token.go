// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTokenTTL is the lifetime of tokens issued at register and login.
	DefaultTokenTTL = 30 * time.Minute

	// DevelopmentSecret signs tokens when no secret is configured.
	// Anyone who knows it can mint tokens for any account.
	DevelopmentSecret = "insecure-development-secret-change-me"
)

// signingMethod is the only algorithm accepted at verification.
var signingMethod = jwt.SigningMethodHS256

// TokenConfig configures a TokenService.
type TokenConfig struct {
	Now    func() time.Time
	Secret []byte
	TTL    time.Duration
}

// TokenService issues and verifies HS256-signed bearer tokens carrying the
// account email as subject. Tokens are stateless and cannot be revoked.
type TokenService struct {
	now    func() time.Time
	parser *jwt.Parser
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService. An empty secret is rejected.
func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &TokenService{
		now:    cfg.Now,
		secret: cfg.Secret,
		ttl:    cfg.TTL,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{signingMethod.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(cfg.Now),
		),
	}, nil
}

// TTL returns the default token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject valid for the default TTL.
func (s *TokenService) Issue(subject string) (string, error) {
	return s.IssueWithTTL(subject, s.ttl)
}

// IssueWithTTL signs a token for subject that expires at now+ttl.
// A non-positive ttl yields a token that is already expired.
func (s *TokenService) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(signingMethod, claims).SignedString(s.secret)
}

// Verify checks signature, algorithm and expiry and returns the subject.
// Failures are reported as *TokenError.
func (s *TokenService) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := s.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", &TokenError{Reason: TokenExpired, Err: err}
		}
		return "", &TokenError{Reason: TokenMalformed, Err: err}
	}

	if claims.Subject == "" {
		return "", &TokenError{Reason: TokenMissingSubject}
	}
	return claims.Subject, nil
}
