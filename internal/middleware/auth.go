// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"carsouq/internal/models"
	"carsouq/internal/observability"
	"carsouq/internal/session"
)

type contextKey string

// SessionKey holds the signed-in user's *session.Data on the request context.
const SessionKey contextKey = "session"

// Gate redirect targets and notifications.
const (
	LoginPath = "/auth"
	HomePath  = "/"

	MsgLoginRequired = "يجب تسجيل الدخول أولاً"
	MsgNotAuthorized = "ليس لديك صلاحيات الدخول"
	MsgRoleCheckFail = "حدث خطأ أثناء التحقق من الصلاحيات"
)

// RoleChecker answers whether a user holds a role. *store.RoleStore
// satisfies it.
type RoleChecker interface {
	HasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error)
}

// LoadSession attaches the visitor's session, if any, to the request. It
// never blocks: a Valkey failure leaves the visitor anonymous for this
// request.
func LoadSession(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch data, err := store.Get(r.Context(), r); {
			case err != nil:
				observability.ValkeyErrors.WithLabelValues("session").Inc()
				slog.Warn("session unavailable, continuing anonymous", "error", err)
			case data != nil:
				r = r.WithContext(WithSession(r.Context(), data))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth redirects anonymous visitors to the sign-in page with a
// notification. The protected handler never runs for them. Must be applied
// after LoadSession.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromCtx(r.Context()) == nil {
			session.AddFlash(w, r, session.FlashError, MsgLoginRequired)
			Redirect(w, r, LoginPath)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole lets the request through only if the signed-in user holds
// role. The grant is looked up on every request, so revocations apply
// immediately. A failed lookup denies access. Must be applied after
// RequireAuth.
func RequireRole(checker RoleChecker, role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromCtx(r.Context())
			if sess == nil {
				session.AddFlash(w, r, session.FlashError, MsgLoginRequired)
				Redirect(w, r, LoginPath)
				return
			}

			ok, err := checker.HasRole(r.Context(), sess.UserID, role)
			if err != nil {
				slog.Error("role lookup failed", "user_id", sess.UserID, "role", role, "error", err)
				session.AddFlash(w, r, session.FlashError, MsgRoleCheckFail)
				Redirect(w, r, HomePath)
				return
			}
			if !ok {
				session.AddFlash(w, r, session.FlashError, MsgNotAuthorized)
				Redirect(w, r, HomePath)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromCtx returns the signed-in user, or nil for visitors.
// Returns nil if no session is loaded.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// WithSession returns a copy of ctx carrying data, as LoadSession would.
func WithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, SessionKey, data)
}

// Redirect sends a 303, using HX-Redirect for HTMX requests so the whole
// page navigates instead of swapping a fragment.
func Redirect(w http.ResponseWriter, r *http.Request, to string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}
