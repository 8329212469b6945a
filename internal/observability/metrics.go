// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package observability holds the Prometheus collectors shared by the
// HTTP layer, the mutation dispatcher and the Valkey-backed caches.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carsouq_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency by method and route pattern.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "carsouq_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// MutationsTotal counts dispatched writes by action and outcome
	// (success, failure, duplicate).
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carsouq_mutations_total",
		Help: "Total number of user mutations by action and outcome",
	}, []string{"action", "outcome"})

	// CacheLookups counts Valkey cache reads by cache name and result
	// (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carsouq_cache_lookups_total",
		Help: "Total number of cache lookups by result",
	}, []string{"cache", "result"})

	// PanicsTotal counts handler panics caught by the recovery middleware.
	PanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "carsouq_http_panics_total",
		Help: "Total number of recovered handler panics",
	})

	// ValkeyErrors counts Valkey errors by operation.
	ValkeyErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "carsouq_valkey_errors_total",
		Help: "Total number of Valkey errors by operation",
	}, []string{"operation"})
)
