// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for CarSouq. Handlers are
// grouped by concern (public, auth, account, admin) and receive their
// dependencies through the handler struct.
//
// Every page follows the same cycle: a GET reads everything the page needs
// with pagesync.Load and renders it; every action is a POST that performs
// one write through a pagesync.Dispatcher and redirects back, so the page
// is rebuilt from stored state.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"carsouq/internal/pagesync"
	"carsouq/internal/render"
	"carsouq/internal/session"
)

// featuredLimit is the number of listings shown on the home page.
const featuredLimit = 6

// idParam parses a UUID route parameter.
func idParam(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// loadFailed records a failed page read and shows the load error
// notification on the page being rendered.
func loadFailed(data *render.PageData, page string, err error) {
	slog.Error("load page data failed", "page", page, "error", err)
	data.Flashes = append(data.Flashes, session.Flash{
		Type:    session.FlashError,
		Message: pagesync.MsgLoadFailed,
	})
}

// submitToken returns the one-time form token of a POST.
func submitToken(r *http.Request) string {
	return r.FormValue(pagesync.TokenField)
}

// formOn reads the desired state of a toggle form.
func formOn(r *http.Request) bool {
	return r.FormValue("on") == "1"
}
