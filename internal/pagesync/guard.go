// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagesync

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"carsouq/internal/observability"
)

const (
	// TokenField is the hidden form field carrying the submit token.
	TokenField = "submit_token"

	// DefaultTokenTTL bounds how long a claimed token is remembered.
	DefaultTokenTTL = 10 * time.Minute

	tokenPrefix = "submit:"
	tokenLength = 16
)

// Guard rejects replays of the same form submission. Each rendered form
// carries a fresh token; the first submission claims it in Valkey and any
// later submission with the same token is a duplicate.
type Guard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewGuard creates a Guard backed by the given Valkey client.
func NewGuard(client *redis.Client) *Guard {
	return &Guard{client: client, ttl: DefaultTokenTTL}
}

// NewToken returns a random submit token for a form.
func NewToken() string {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return hex.EncodeToString(b)
}

// Claim marks token as used and reports whether this is its first use.
// Empty tokens and a nil Guard always pass. If Valkey is unreachable the
// submission is let through.
func (g *Guard) Claim(ctx context.Context, token string) bool {
	if g == nil || token == "" {
		return true
	}
	ok, err := g.client.SetNX(ctx, tokenPrefix+token, 1, g.ttl).Result()
	if err != nil {
		observability.ValkeyErrors.WithLabelValues("submit_claim").Inc()
		slog.Warn("submit guard unavailable, allowing submission", "error", err)
		return true
	}
	return ok
}

// Release forgets a claimed token so the same form can be resubmitted
// after a failed write.
func (g *Guard) Release(ctx context.Context, token string) {
	if g == nil || token == "" {
		return
	}
	if err := g.client.Del(ctx, tokenPrefix+token).Err(); err != nil {
		observability.ValkeyErrors.WithLabelValues("submit_release").Inc()
		slog.Warn("release submit token failed", "error", err)
	}
}
