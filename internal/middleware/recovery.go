// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"

	"carsouq/internal/observability"
)

// msgUnexpected is shown when a handler panics.
const msgUnexpected = "حدث خطأ غير متوقع، حاول مرة أخرى"

// Recoverer turns a handler panic into a logged 500. A panic with
// http.ErrAbortHandler keeps propagating so net/http drops the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(v)
			}

			observability.PanicsTotal.Inc()
			slog.Error("handler panic",
				"request_id", chimw.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"panic", fmt.Sprint(v),
				"stack", string(debug.Stack()),
			)

			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Reswap", "none")
			}
			http.Error(w, msgUnexpected, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
