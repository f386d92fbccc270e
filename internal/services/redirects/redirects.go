// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package redirects manages shortcode redirects and their public resolution.
package redirects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"codeberg.org/oliverandrich/go-redirector/internal/models"
	"codeberg.org/oliverandrich/go-redirector/internal/repository"
	"github.com/jaevor/go-nanoid"
)

const (
	// DefaultCodeLength is the length of generated shortcodes.
	DefaultCodeLength = 7

	maxGenerateAttempts = 5
)

var (
	ErrShortcodeTaken         = errors.New("shortcode already registered")
	ErrNotFoundOrUnauthorized = errors.New("redirect not found or not owned by you")
	ErrNotFound               = errors.New("redirect not found")
	ErrCodeSpaceExhausted     = errors.New("no free shortcode found")
)

// Store is the persistence the service needs. All reads and writes of a
// single operation run through the Querier handed to fn.
type Store interface {
	repository.Querier
	Transact(ctx context.Context, fn func(q repository.Querier) error) error
}

// Cache is an optional lookup cache for Resolve. Errors are logged and never
// fail a request.
type Cache interface {
	Get(ctx context.Context, shortcode string) (*models.Redirect, bool, error)
	Set(ctx context.Context, redirect *models.Redirect) error
	Invalidate(ctx context.Context, shortcodes ...string) error
}

type Service struct {
	store    Store
	cache    Cache
	generate func() string
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables the Resolve cache.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithGenerator replaces the shortcode generator.
func WithGenerator(generate func() string) Option {
	return func(s *Service) {
		s.generate = generate
	}
}

// NewService creates a Service generating codeLength character shortcodes.
func NewService(store Store, codeLength int, opts ...Option) (*Service, error) {
	if codeLength <= 0 {
		codeLength = DefaultCodeLength
	}
	generate, err := nanoid.Standard(codeLength)
	if err != nil {
		return nil, fmt.Errorf("invalid shortcode length %d: %w", codeLength, err)
	}

	s := &Service{store: store, generate: generate}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Create registers a redirect for ownerID. An empty shortcode is replaced by
// a generated one.
func (s *Service) Create(ctx context.Context, ownerID int64, shortcode, targetURL string) (*models.Redirect, error) {
	if shortcode != "" {
		return s.create(ctx, ownerID, shortcode, targetURL)
	}

	for range maxGenerateAttempts {
		redirect, err := s.create(ctx, ownerID, s.generate(), targetURL)
		if errors.Is(err, ErrShortcodeTaken) {
			continue
		}
		return redirect, err
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrCodeSpaceExhausted, maxGenerateAttempts)
}

func (s *Service) create(ctx context.Context, ownerID int64, shortcode, targetURL string) (*models.Redirect, error) {
	var created *models.Redirect
	err := s.store.Transact(ctx, func(q repository.Querier) error {
		// Check if shortcode is taken by anyone
		_, err := q.GetRedirectByShortcode(ctx, shortcode)
		if err == nil {
			return ErrShortcodeTaken
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("failed to check shortcode: %w", err)
		}

		created, err = q.CreateRedirect(ctx, ownerID, shortcode, targetURL)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrShortcodeTaken
			}
			return fmt.Errorf("failed to create redirect: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Drops an entry left behind by a previous holder of the shortcode.
	s.invalidate(ctx, created.Shortcode)

	slog.Info("redirect_created", "redirect_id", created.ID, "shortcode", created.Shortcode, "owner_id", ownerID)
	return created, nil
}

// List returns the redirects of ownerID in creation order.
func (s *Service) List(ctx context.Context, ownerID int64) ([]models.Redirect, error) {
	redirects, err := s.store.ListRedirectsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list redirects: %w", err)
	}
	return redirects, nil
}

// Update applies patch to the redirect id owned by ownerID.
func (s *Service) Update(ctx context.Context, ownerID, id int64, patch models.RedirectPatch) (*models.Redirect, error) {
	var previous string
	var updated *models.Redirect

	err := s.store.Transact(ctx, func(q repository.Querier) error {
		current, err := q.GetOwnedRedirect(ctx, id, ownerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFoundOrUnauthorized
			}
			return fmt.Errorf("failed to get redirect: %w", err)
		}
		previous = current.Shortcode

		if patch.Empty() {
			updated = current
			return nil
		}

		if patch.Shortcode != nil && *patch.Shortcode != current.Shortcode {
			holder, err := q.GetRedirectByShortcode(ctx, *patch.Shortcode)
			switch {
			case err == nil && holder.ID != current.ID:
				return ErrShortcodeTaken
			case err != nil && !errors.Is(err, repository.ErrNotFound):
				return fmt.Errorf("failed to check shortcode: %w", err)
			}
		}

		patch.Apply(current)
		updated, err = q.UpdateRedirect(ctx, current)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrConflict):
				return ErrShortcodeTaken
			case errors.Is(err, repository.ErrNotFound):
				return ErrNotFoundOrUnauthorized
			}
			return fmt.Errorf("failed to update redirect: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return updated, nil
	}

	s.invalidate(ctx, previous, updated.Shortcode)

	slog.Info("redirect_updated", "redirect_id", id, "shortcode", updated.Shortcode, "owner_id", ownerID)
	return updated, nil
}

// Delete removes the redirect id owned by ownerID and returns it.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) (*models.Redirect, error) {
	var deleted *models.Redirect
	err := s.store.Transact(ctx, func(q repository.Querier) error {
		var err error
		deleted, err = q.DeleteRedirect(ctx, id, ownerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFoundOrUnauthorized
			}
			return fmt.Errorf("failed to delete redirect: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, deleted.Shortcode)

	slog.Info("redirect_deleted", "redirect_id", id, "shortcode", deleted.Shortcode, "owner_id", ownerID)
	return deleted, nil
}

// Resolve looks up a shortcode for public redirection.
func (s *Service) Resolve(ctx context.Context, shortcode string) (*models.Redirect, error) {
	if s.cache != nil {
		redirect, ok, err := s.cache.Get(ctx, shortcode)
		if err != nil {
			slog.Warn("cache_get_failed", "shortcode", shortcode, "error", err)
		} else if ok {
			return redirect, nil
		}
	}

	redirect, err := s.store.GetRedirectByShortcode(ctx, shortcode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve shortcode: %w", err)
	}

	if s.cache == nil {
		return redirect, nil
	}
	if err := s.cache.Set(ctx, redirect); err != nil {
		slog.Warn("cache_set_failed", "shortcode", shortcode, "error", err)
		return redirect, nil
	}
	return s.confirmCached(ctx, redirect)
}

// confirmCached reads the shortcode again after the cache write. A delete,
// rename or update that committed between the first read and the write has
// already run its invalidation, so the entry just written is stale and is
// dropped here.
func (s *Service) confirmCached(ctx context.Context, cached *models.Redirect) (*models.Redirect, error) {
	current, err := s.store.GetRedirectByShortcode(ctx, cached.Shortcode)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.invalidate(ctx, cached.Shortcode)
		return nil, fmt.Errorf("failed to resolve shortcode: %w", err)
	}
	if err == nil && current.ID == cached.ID && current.TargetURL == cached.TargetURL {
		return cached, nil
	}

	s.invalidate(ctx, cached.Shortcode)
	if current == nil {
		return nil, ErrNotFound
	}
	return current, nil
}

func (s *Service) invalidate(ctx context.Context, shortcodes ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, shortcodes...); err != nil {
		slog.Warn("cache_invalidate_failed", "shortcodes", shortcodes, "error", err)
	}
}
