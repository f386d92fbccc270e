// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package cache provides a Redis-backed cache for shortcode lookups.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"codeberg.org/oliverandrich/go-redirector/internal/models"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a cached redirect lives when no TTL is configured.
const DefaultTTL = time.Hour

const keyPrefix = "redirect:"

// Connect parses a redis:// URL, opens a client and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// RedirectCache stores redirects as Redis hashes keyed by shortcode.
type RedirectCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedirectCache creates a cache on client. A non-positive ttl uses DefaultTTL.
func NewRedirectCache(client *redis.Client, ttl time.Duration) *RedirectCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedirectCache{
		client: client,
		prefix: keyPrefix,
		ttl:    ttl,
	}
}

func (c *RedirectCache) key(shortcode string) string {
	return c.prefix + shortcode
}

// Get returns the cached redirect for shortcode. A miss returns ok=false
// and a nil error.
func (c *RedirectCache) Get(ctx context.Context, shortcode string) (*models.Redirect, bool, error) {
	result, err := c.client.HGetAll(ctx, c.key(shortcode)).Result()
	if err != nil {
		return nil, false, err
	}
	if len(result) == 0 {
		return nil, false, nil
	}

	id, err := strconv.ParseInt(result["id"], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %q: %w", shortcode, err)
	}
	ownerID, err := strconv.ParseInt(result["owner_id"], 10, 64)
	if err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %q: %w", shortcode, err)
	}

	return &models.Redirect{
		ID:        id,
		Shortcode: result["shortcode"],
		TargetURL: result["target_url"],
		OwnerID:   ownerID,
	}, true, nil
}

// Set caches redirect under its shortcode with the configured TTL.
func (c *RedirectCache) Set(ctx context.Context, redirect *models.Redirect) error {
	key := c.key(redirect.Shortcode)

	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"id":         redirect.ID,
		"shortcode":  redirect.Shortcode,
		"target_url": redirect.TargetURL,
		"owner_id":   redirect.OwnerID,
	})
	pipe.Expire(ctx, key, c.ttl)

	_, err := pipe.Exec(ctx)
	return err
}

// Invalidate drops the given shortcodes from the cache.
func (c *RedirectCache) Invalidate(ctx context.Context, shortcodes ...string) error {
	if len(shortcodes) == 0 {
		return nil
	}
	keys := make([]string, len(shortcodes))
	for i, code := range shortcodes {
		keys[i] = c.key(code)
	}
	return c.client.Del(ctx, keys...).Err()
}
