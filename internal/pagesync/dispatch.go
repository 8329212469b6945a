// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pagesync

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"carsouq/internal/middleware"
	"carsouq/internal/observability"
	"carsouq/internal/session"
)

// MsgGenericError is the failure notification when a Mutation sets none.
const MsgGenericError = "حدث خطأ"

// Mutation outcomes recorded in carsouq_mutations_total.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeRejected  = "rejected"
	OutcomeDuplicate = "duplicate"
)

// Mutation describes a single user-initiated write.
type Mutation struct {
	// Action labels the write in logs and metrics, e.g. "listing.create".
	Action string

	// Run performs exactly one write. Returning a Rejection shows its
	// message instead of Failure.
	Run func(ctx context.Context) error

	// Success and Failure are the notifications shown after the redirect.
	// An empty Success shows nothing.
	Success string
	Failure string

	// SuccessURL is where the browser goes after a successful write.
	// FailureURL defaults to SuccessURL.
	SuccessURL string
	FailureURL string

	// Token is the submitted one-time form token, if any.
	Token string
}

// Rejection is a user-facing refusal (validation, ownership) that is not an
// internal failure.
type Rejection struct {
	Message string
}

func (e *Rejection) Error() string { return e.Message }

// Reject returns a Rejection with msg.
func Reject(msg string) error {
	return &Rejection{Message: msg}
}

// Dispatcher runs Mutations.
type Dispatcher struct {
	guard *Guard
}

// NewDispatcher creates a Dispatcher. guard may be nil to disable
// duplicate detection.
func NewDispatcher(guard *Guard) *Dispatcher {
	return &Dispatcher{guard: guard}
}

// Dispatch runs m once and redirects. On success it queues the success
// notification and sends the browser to SuccessURL, where the page is
// rebuilt from stored state. On failure nothing is retried: the error is
// logged, the failure notification queued, and the browser sent to
// FailureURL. A replayed token skips the write and goes to SuccessURL.
// Dispatch reports whether the write ran and succeeded.
func (d *Dispatcher) Dispatch(w http.ResponseWriter, r *http.Request, m Mutation) bool {
	ctx := r.Context()
	failURL := m.FailureURL
	if failURL == "" {
		failURL = m.SuccessURL
	}

	if !d.guard.Claim(ctx, m.Token) {
		observability.MutationsTotal.WithLabelValues(m.Action, OutcomeDuplicate).Inc()
		slog.Info("duplicate submission ignored", "action", m.Action)
		middleware.Redirect(w, r, m.SuccessURL)
		return false
	}

	if err := m.Run(ctx); err != nil {
		d.guard.Release(ctx, m.Token)

		var rej *Rejection
		if errors.As(err, &rej) {
			observability.MutationsTotal.WithLabelValues(m.Action, OutcomeRejected).Inc()
			session.AddFlash(w, r, session.FlashError, rej.Message)
			middleware.Redirect(w, r, failURL)
			return false
		}

		observability.MutationsTotal.WithLabelValues(m.Action, OutcomeFailure).Inc()
		slog.Error("mutation failed", "action", m.Action, "error", err)
		msg := m.Failure
		if msg == "" {
			msg = MsgGenericError
		}
		session.AddFlash(w, r, session.FlashError, msg)
		middleware.Redirect(w, r, failURL)
		return false
	}

	observability.MutationsTotal.WithLabelValues(m.Action, OutcomeSuccess).Inc()
	if m.Success != "" {
		session.AddFlash(w, r, session.FlashSuccess, m.Success)
	}
	middleware.Redirect(w, r, m.SuccessURL)
	return true
}
