// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLimiter(t *testing.T, limit int) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRateLimiter(client, limit, time.Minute), mr
}

func TestRateLimiterAllow(t *testing.T) {
	rl, _ := testLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _, err := rl.allow(ctx, "test-ip")
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i+1)
	}
	ok, wait, err := rl.allow(ctx, "test-ip")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))
	assert.LessOrEqual(t, wait, time.Minute)

	ok, _, _ = rl.allow(ctx, "other-ip")
	assert.True(t, ok)
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl, mr := testLimiter(t, 2)
	ctx := context.Background()

	rl.allow(ctx, "test-ip")
	rl.allow(ctx, "test-ip")
	ok, _, _ := rl.allow(ctx, "test-ip")
	assert.False(t, ok)

	mr.FastForward(61 * time.Second)
	ok, _, _ = rl.allow(ctx, "test-ip")
	assert.True(t, ok)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	rl, mr := testLimiter(t, 1)
	mr.Close()

	ok, _, err := rl.allow(context.Background(), "test-ip")
	assert.Error(t, err)
	assert.True(t, ok)
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl, _ := testLimiter(t, 2)
	next, _ := okHandler()
	h := rl.Middleware(next)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}
	assert.Equal(t, http.StatusOK, post().Code)
	assert.Equal(t, http.StatusOK, post().Code)
	blocked := post()
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "60", blocked.Header().Get("Retry-After"))

	// The sign-in page stays reachable.
	req := httptest.NewRequest(http.MethodGet, "/auth", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded first hop", "1.2.3.4, 10.0.0.1", "", "127.0.0.1:1", "1.2.3.4"},
		{"real ip", "", "5.6.7.8", "127.0.0.1:1", "5.6.7.8"},
		{"remote addr", "", "", "9.9.9.9:1234", "9.9.9.9"},
		{"ipv6 remote", "", "", "[::1]:80", "::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, clientIP(req))
		})
	}
}
