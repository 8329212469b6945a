// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"
)

const (
	// CSRFCookieName holds the double-submit token. The layout reads it for
	// hx-headers, so it is not HttpOnly.
	CSRFCookieName = "cs_csrf"

	// CSRFHeaderName carries the token on HTMX requests.
	CSRFHeaderName = "X-CSRF-Token"

	// CSRFFormField carries the token on plain form posts.
	CSRFFormField = "csrf_token"

	csrfTokenLength = 32

	csrfKey contextKey = "csrf"

	msgCSRFRejected = "انتهت صلاحية النموذج، حدّث الصفحة وحاول مرة أخرى"
)

// NewCSRF guards every state-changing request twice: browsers that send
// Sec-Fetch-Site or Origin are refused cross-origin writes, and the
// submitted token must equal the cs_csrf cookie. The token is also put on
// the request context so the first page a visitor sees can embed it.
func NewCSRF(secure bool) func(http.Handler) http.Handler {
	cop := http.NewCrossOriginProtection()
	cop.SetDenyHandler(http.HandlerFunc(rejectCSRF))

	return func(next http.Handler) http.Handler {
		return cop.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fresh := csrfCookie(r)
			if fresh {
				t, err := newCSRFToken()
				if err != nil {
					slog.Error("csrf token", "error", err)
					http.Error(w, msgUnexpected, http.StatusInternalServerError)
					return
				}
				token = t
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookieName,
					Value:    token,
					Path:     "/",
					Secure:   secure,
					SameSite: http.SameSiteStrictMode,
				})
			}
			r = r.WithContext(context.WithValue(r.Context(), csrfKey, token))

			if isSafeMethod(r.Method) || tokenMatches(r, token) {
				next.ServeHTTP(w, r)
				return
			}
			rejectCSRF(w, r)
		}))
	}
}

// CSRFToken returns the token templates should embed for r.
func CSRFToken(r *http.Request) string {
	if t, ok := r.Context().Value(csrfKey).(string); ok {
		return t
	}
	t, _ := csrfCookie(r)
	return t
}

// csrfCookie returns the token from the request cookie; fresh reports that
// none was sent.
func csrfCookie(r *http.Request) (token string, fresh bool) {
	c, err := r.Cookie(CSRFCookieName)
	if err != nil || c.Value == "" {
		return "", true
	}
	return c.Value, false
}

func tokenMatches(r *http.Request, token string) bool {
	sent := r.Header.Get(CSRFHeaderName)
	if sent == "" {
		sent = r.FormValue(CSRFFormField)
	}
	return sent != "" && subtle.ConstantTimeCompare([]byte(token), []byte(sent)) == 1
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}

func rejectCSRF(w http.ResponseWriter, r *http.Request) {
	slog.Warn("csrf rejected", "method", r.Method, "path", r.URL.Path, "ip", clientIP(r))
	http.Error(w, msgCSRFRejected, http.StatusForbidden)
}

func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
