// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package auth implements account registration, login and bearer token
// identity resolution.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"codeberg.org/oliverandrich/go-redirector/internal/models"
	"codeberg.org/oliverandrich/go-redirector/internal/repository"
)

// AccountStore is the subset of the repository the auth service needs.
type AccountStore interface {
	CreateAccount(ctx context.Context, email, passwordHash string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
}

type Service struct {
	accounts AccountStore
	hasher   *Hasher
	tokens   *TokenService
}

func NewService(accounts AccountStore, hasher *Hasher, tokens *TokenService) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Tokens returns the token service used to issue and verify tokens.
func (s *Service) Tokens() *TokenService {
	return s.tokens
}

// Register creates an account and returns a token for it.
func (s *Service) Register(ctx context.Context, email, password string) (string, error) {
	// Check if account already exists
	_, err := s.accounts.GetAccountByEmail(ctx, email)
	if err == nil {
		return "", ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("failed to check existing account: %w", err)
	}

	// Hash password
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return "", err
	}

	account, err := s.accounts.CreateAccount(ctx, email, passwordHash)
	if err != nil {
		// Lost a race against a concurrent registration
		if errors.Is(err, repository.ErrConflict) {
			return "", ErrEmailTaken
		}
		return "", fmt.Errorf("failed to create account: %w", err)
	}

	token, err := s.tokens.Issue(account.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("register_success", "account_id", account.ID, "email", email)
	return token, nil
}

// Login checks the credentials and returns a fresh token. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform bcrypt comparison to prevent timing attacks
			s.hasher.burn(password)
			slog.Warn("login_failed", "email", email, "reason", "account_not_found")
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get account: %w", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.Email)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("login_success", "account_id", account.ID, "email", email)
	return token, nil
}

// ResolveIdentity maps an Authorization header value to the account named by
// its bearer token. Failures are reported as *AuthError; store failures are
// returned wrapped as they are.
func (s *Service) ResolveIdentity(ctx context.Context, authorization string) (*models.Account, error) {
	token, ok := BearerToken(authorization)
	if !ok {
		return nil, &AuthError{Reason: AuthMissingCredential}
	}

	subject, err := s.tokens.Verify(token)
	if err != nil {
		return nil, &AuthError{Reason: AuthInvalidToken, Err: err}
	}

	account, err := s.accounts.GetAccountByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &AuthError{Reason: AuthAccountNotFound, Err: err}
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func BearerToken(authorization string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(authorization), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
