// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pagesync implements the fetch and mutate halves of every page:
// Load runs a page's independent read queries together, and Dispatcher
// performs exactly one write per submission and redirects back so the page
// is rebuilt from stored state.
package pagesync

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MsgLoadFailed is shown when any read query of a page fails.
const MsgLoadFailed = "تعذر تحميل البيانات"

// Query is one read of a page. It writes its result into a variable owned
// by the caller; queries of the same Load must not share result variables.
type Query func(ctx context.Context) error

// Load runs queries concurrently and waits for all of them. It returns the
// first error; the context passed to the remaining queries is cancelled
// once one fails.
func Load(ctx context.Context, queries ...Query) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, q := range queries {
		g.Go(func() error { return q(gctx) })
	}
	return g.Wait()
}
