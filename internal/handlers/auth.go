// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"carsouq/internal/middleware"
	"carsouq/internal/models"
	"carsouq/internal/pagesync"
	"carsouq/internal/render"
	"carsouq/internal/session"
	"carsouq/internal/store"
)

// Authentication notifications.
const (
	msgInvalidCredentials = "البريد الإلكتروني أو كلمة المرور غير صحيحة"
	msgInvalidEmail       = "البريد الإلكتروني غير صحيح"
	msgEmailTaken         = "البريد الإلكتروني مسجل مسبقاً"
	msgSignedIn           = "تم تسجيل الدخول بنجاح"
	msgSignedUp           = "تم إنشاء الحساب بنجاح"
	msgSignedOut          = "تم تسجيل الخروج بنجاح"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Store
	profiles *store.ProfileStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, profiles *store.ProfileStore) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		profiles: profiles,
	}
}

// Page renders the sign-in and sign-up forms.
func (a *Auth) Page(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	a.renderer.Page(w, r, "auth", &render.PageData{Title: "تسجيل الدخول"})
}

// Login processes the sign-in form.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	profile, err := a.profiles.FindByEmail(r.Context(), email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		a.formError(w, r, email, pagesync.MsgGenericError)
		return
	}
	if profile == nil || !a.profiles.CheckPassword(profile, password) {
		a.formError(w, r, email, msgInvalidCredentials)
		return
	}

	a.startSession(w, r, profile, msgSignedIn)
}

// Signup creates an account and signs the new user in.
func (a *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	fullName := strings.TrimSpace(r.FormValue("full_name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if fullName == "" || utf8.RuneCountInString(fullName) > maxNameLen {
		a.formError(w, r, email, msgNameRequired)
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		a.formError(w, r, email, msgInvalidEmail)
		return
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		a.formError(w, r, email, msgPasswordTooShort)
		return
	}

	existing, err := a.profiles.FindByEmail(r.Context(), email)
	if err != nil {
		slog.Error("signup lookup failed", "error", err)
		a.formError(w, r, email, pagesync.MsgGenericError)
		return
	}
	if existing != nil {
		a.formError(w, r, email, msgEmailTaken)
		return
	}

	profile, err := a.profiles.Create(r.Context(), email, password, fullName)
	if err != nil {
		slog.Error("signup create failed", "error", err)
		a.formError(w, r, email, pagesync.MsgGenericError)
		return
	}
	slog.Info("profile created", "user_id", profile.ID)

	a.startSession(w, r, profile, msgSignedUp)
}

// Logout destroys the session and returns to the home page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	session.AddFlash(w, r, session.FlashSuccess, msgSignedOut)
	middleware.Redirect(w, r, "/")
}

func (a *Auth) startSession(w http.ResponseWriter, r *http.Request, p *models.Profile, msg string) {
	_, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:   p.ID,
		Email:    p.Email,
		FullName: p.FullName,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	session.AddFlash(w, r, session.FlashSuccess, msg)
	middleware.Redirect(w, r, "/")
}

// formError re-renders the auth page with a notification, keeping the
// submitted email.
func (a *Auth) formError(w http.ResponseWriter, r *http.Request, email, msg string) {
	a.renderer.Page(w, r, "auth", &render.PageData{
		Title:   "تسجيل الدخول",
		Data:    map[string]any{"Email": email},
		Flashes: []session.Flash{{Type: session.FlashError, Message: msg}},
	})
}
