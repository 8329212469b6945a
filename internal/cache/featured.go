// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// featured.go keeps a JSON copy of the home page's featured listings in
// Valkey so most home page views skip the database.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"carsouq/internal/models"
	"carsouq/internal/observability"
)

const (
	featuredKeyPrefix = "featured:"

	// DefaultFeaturedTTL is how long the featured list stays cached.
	DefaultFeaturedTTL = 5 * time.Minute
)

// FeaturedCache caches the featured-listings query. A nil *FeaturedCache
// is valid and always loads from the database.
type FeaturedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeaturedCache creates a featured cache backed by the given client.
func NewFeaturedCache(client *redis.Client, ttl time.Duration) *FeaturedCache {
	if ttl == 0 {
		ttl = DefaultFeaturedTTL
	}
	return &FeaturedCache{client: client, ttl: ttl}
}

// Loader fetches the featured listings from the database.
type Loader func(ctx context.Context, limit int) ([]models.Listing, error)

// Get returns the cached list for limit, calling load on a miss and
// storing its result. Cache errors fall through to load.
func (c *FeaturedCache) Get(ctx context.Context, limit int, load Loader) ([]models.Listing, error) {
	if c == nil {
		return load(ctx, limit)
	}
	key := featuredKeyPrefix + strconv.Itoa(limit)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var listings []models.Listing
		if jerr := json.Unmarshal(raw, &listings); jerr == nil {
			observability.CacheLookups.WithLabelValues("featured", "hit").Inc()
			return listings, nil
		}
		slog.Warn("featured cache decode failed", "key", key)
	case errors.Is(err, redis.Nil):
		observability.CacheLookups.WithLabelValues("featured", "miss").Inc()
	default:
		observability.CacheLookups.WithLabelValues("featured", "error").Inc()
		slog.Warn("featured cache get error", "key", key, "error", err)
	}

	listings, err := load(ctx, limit)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(listings); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			slog.Warn("featured cache set error", "key", key, "error", err)
		}
	}
	return listings, nil
}

// Invalidate drops every cached featured list. It is called after any
// write that can change which listings are featured and active.
func (c *FeaturedCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, featuredKeyPrefix+"*", 100).Result()
		if err != nil {
			observability.ValkeyErrors.WithLabelValues("featured_invalidate").Inc()
			slog.Warn("featured cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("featured cache delete error", "error", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	slog.Debug("featured cache invalidated")
}
