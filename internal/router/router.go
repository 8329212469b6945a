// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for
// CarSouq. It organizes routes into public, account and admin groups with
// the matching gates.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"carsouq/internal/handlers"
	"carsouq/internal/middleware"
	"carsouq/internal/models"
	"carsouq/internal/session"
	"carsouq/web"
)

// Deps holds everything the router wires together.
type Deps struct {
	Sessions      *session.Store
	Roles         middleware.RoleChecker
	LoginLimiter  *middleware.RateLimiter
	SecureCookies bool

	Public  *handlers.Public
	Auth    *handlers.Auth
	Account *handlers.Account
	Admin   *handlers.Admin
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecureHeaders)

	// Operational endpoints: no session, no CSRF.
	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", staticHandler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadSession(d.Sessions))
		r.Use(middleware.NewCSRF(d.SecureCookies))

		// Public pages.
		r.Get("/", d.Public.Home)
		r.Get("/ads", d.Public.Ads)
		r.Get("/car/{id}", d.Public.CarDetails)

		// Sign-in and sign-up; submissions are rate limited per IP.
		r.Route("/auth", func(r chi.Router) {
			if d.LoginLimiter != nil {
				r.Use(d.LoginLimiter.Middleware)
			}
			r.Get("/", d.Auth.Page)
			r.Post("/login", d.Auth.Login)
			r.Post("/signup", d.Auth.Signup)
			r.Post("/logout", d.Auth.Logout)
		})

		// Signed-in users.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/create-ad", d.Account.CreateAdPage)
			r.Post("/create-ad", d.Account.CreateAd)
			r.Get("/edit-ad/{id}", d.Account.EditAdPage)
			r.Post("/edit-ad/{id}", d.Account.EditAd)

			r.Post("/car/{id}/delete", d.Account.DeleteCar)
			r.Post("/car/{id}/favorite", d.Account.ToggleFavorite)
			r.Post("/car/{id}/message", d.Account.SendMessage)

			r.Get("/profile", d.Account.Profile)

			r.Get("/messages", d.Account.Messages)
			r.Post("/messages", d.Account.Reply)
			r.Post("/messages/{id}/read", d.Account.MarkRead)

			r.Get("/settings", d.Account.Settings)
			r.Post("/settings/profile", d.Account.UpdateProfile)
			r.Post("/settings/password", d.Account.UpdatePassword)
		})

		// Admins. The role is checked against the database on every request.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireRole(d.Roles, models.RoleAdmin))

			r.Get("/", d.Admin.Dashboard)
			r.Post("/cars/{id}/status", d.Admin.SetStatus)
			r.Post("/cars/{id}/featured", d.Admin.SetFeatured)
			r.Post("/cars/{id}/delete", d.Admin.DeleteCar)

			r.Route("/sections", func(r chi.Router) {
				r.Get("/", d.Admin.Sections)
				r.Post("/", d.Admin.SectionCreate)
				r.Post("/{id}", d.Admin.SectionUpdate)
				r.Post("/{id}/delete", d.Admin.SectionDelete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", d.Admin.Categories)
				r.Post("/", d.Admin.CategoryCreate)
				r.Post("/{id}", d.Admin.CategoryUpdate)
				r.Post("/{id}/delete", d.Admin.CategoryDelete)
			})

			r.Route("/car-models", func(r chi.Router) {
				r.Get("/", d.Admin.CarModels)
				r.Post("/", d.Admin.CarModelCreate)
				r.Post("/{id}", d.Admin.CarModelUpdate)
				r.Post("/{id}/delete", d.Admin.CarModelDelete)
			})

			r.Get("/users", d.Admin.Users)
			r.Post("/users/{id}/role", d.Admin.SetRole)
		})

		r.NotFound(d.Public.NotFound)
	})

	return r
}

// staticHandler serves the embedded web/static tree under /static/.
func staticHandler() http.Handler {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("static assets missing from binary: " + err.Error())
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
