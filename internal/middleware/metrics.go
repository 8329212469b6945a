// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"carsouq/internal/observability"
)

// Metrics feeds the HTTP request counter and latency histogram. Series are
// keyed by chi route pattern: every /car/{id} view lands on one series.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		observability.HTTPRequestsTotal.
			WithLabelValues(r.Method, route, strconv.Itoa(statusOf(ww))).Inc()
		observability.HTTPRequestDuration.
			WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// routePattern is the chi pattern that matched r, or "unmatched" for 404s
// and requests that never reached the router.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
