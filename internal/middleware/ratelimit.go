// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"carsouq/internal/observability"
)

// MsgTooManyAttempts is shown when a client exceeds the sign-in limit.
const MsgTooManyAttempts = "محاولات كثيرة، يرجى المحاولة بعد دقيقة"

const rateKeyPrefix = "cs:rl:"

// RateLimiter throttles sign-in and sign-up posts per client IP with a
// fixed window counter in Valkey, so every server instance shares the
// same budget.
type RateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRateLimiter allows limit posts per window for each client IP.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: int64(limit), window: window}
}

// allow counts a hit for key. When the window is used up it returns false
// and how long until the counter resets.
func (rl *RateLimiter) allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := rateKeyPrefix + key

	n, err := rl.client.Incr(ctx, k).Result()
	if err != nil {
		return true, 0, fmt.Errorf("count hit: %w", err)
	}
	if n == 1 {
		if err := rl.client.Expire(ctx, k, rl.window).Err(); err != nil {
			return true, 0, fmt.Errorf("start window: %w", err)
		}
	}
	if n <= rl.limit {
		return true, 0, nil
	}

	wait, err := rl.client.PTTL(ctx, k).Result()
	if err != nil || wait <= 0 {
		wait = rl.window
	}
	return false, wait, nil
}

// Middleware limits POSTs by client IP. GETs always pass so the sign-in
// page itself renders. A Valkey outage lets requests through.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isSafeMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		ok, wait, err := rl.allow(r.Context(), ip+":"+r.URL.Path)
		if err != nil {
			observability.ValkeyErrors.WithLabelValues("ratelimit").Inc()
			slog.Warn("rate limiter unavailable", "error", err)
		}
		if !ok {
			slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			http.Error(w, MsgTooManyAttempts, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP is the first X-Forwarded-For hop, then X-Real-IP, then the
// peer address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
