// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"carsouq/internal/cache"
	"carsouq/internal/middleware"
	"carsouq/internal/models"
	"carsouq/internal/pagesync"
	"carsouq/internal/render"
	"carsouq/internal/session"
	"carsouq/internal/storage"
	"carsouq/internal/store"
)

// Account notifications.
const (
	msgProfileUpdated  = "تم تحديث البيانات بنجاح"
	msgProfileFailed   = "فشل تحديث البيانات"
	msgPasswordUpdated = "تم تحديث كلمة المرور بنجاح"
	msgPasswordFailed  = "فشل تحديث كلمة المرور"
	msgMessageSent     = "تم إرسال الرسالة"
	msgMessageFailed   = "فشل إرسال الرسالة"
	msgMessageSelf     = "لا يمكنك مراسلة نفسك"
)

// Account groups the handlers of a signed-in user: their listings,
// favorites, messages and settings. Every route is behind RequireAuth.
type Account struct {
	renderer   *render.Renderer
	dispatcher *pagesync.Dispatcher
	sessions   *session.Store
	profiles   *store.ProfileStore
	roles      *store.RoleStore
	listings   *store.ListingStore
	categories *store.CategoryStore
	favorites  *store.FavoriteStore
	messages   *store.MessageStore
	storage    *storage.Client
	featured   *cache.FeaturedCache
}

// AccountDeps lists the dependencies of the Account group. Storage and
// Featured may be nil.
type AccountDeps struct {
	Renderer   *render.Renderer
	Dispatcher *pagesync.Dispatcher
	Sessions   *session.Store
	Profiles   *store.ProfileStore
	Roles      *store.RoleStore
	Listings   *store.ListingStore
	Categories *store.CategoryStore
	Favorites  *store.FavoriteStore
	Messages   *store.MessageStore
	Storage    *storage.Client
	Featured   *cache.FeaturedCache
}

// NewAccount creates a new Account handler group.
func NewAccount(d AccountDeps) *Account {
	return &Account{
		renderer:   d.Renderer,
		dispatcher: d.Dispatcher,
		sessions:   d.Sessions,
		profiles:   d.Profiles,
		roles:      d.Roles,
		listings:   d.Listings,
		categories: d.Categories,
		favorites:  d.Favorites,
		messages:   d.Messages,
		storage:    d.Storage,
		featured:   d.Featured,
	}
}

// Profile renders the user's profile with their listings and favorites.
func (a *Account) Profile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	var (
		profile   *models.Profile
		listings  []models.Listing
		favorites []models.Favorite
	)
	data := &render.PageData{Title: "حسابي", Section: "profile"}

	err := pagesync.Load(r.Context(),
		func(ctx context.Context) (err error) {
			profile, err = a.profiles.FindByID(ctx, sess.UserID)
			return err
		},
		func(ctx context.Context) (err error) {
			listings, err = a.listings.ListByOwner(ctx, sess.UserID)
			return err
		},
		func(ctx context.Context) (err error) {
			favorites, err = a.favorites.ListByUser(ctx, sess.UserID)
			return err
		},
	)
	if err != nil {
		loadFailed(data, "profile", err)
	}

	data.Data = map[string]any{
		"Profile":   profile,
		"Listings":  listings,
		"Favorites": favorites,
	}
	a.renderer.Page(w, r, "profile", data)
}

// Messages renders the conversations the user takes part in.
func (a *Account) Messages(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	data := &render.PageData{Title: "الرسائل", Section: "messages"}

	var (
		msgs   []models.Message
		unread int
	)
	err := pagesync.Load(r.Context(),
		func(ctx context.Context) (err error) {
			msgs, err = a.messages.ListForUser(ctx, sess.UserID)
			return err
		},
		func(ctx context.Context) (err error) {
			unread, err = a.messages.CountUnread(ctx, sess.UserID)
			return err
		},
	)
	if err != nil {
		loadFailed(data, "messages", err)
	}

	data.Data = map[string]any{
		"Messages": msgs,
		"Unread":   unread,
		"UserID":   sess.UserID,
	}
	a.renderer.Page(w, r, "messages", data)
}

// Reply answers a conversation from the messages page. The receiver must
// already have exchanged a message with the user about the same listing.
func (a *Account) Reply(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	body := strings.TrimSpace(r.FormValue("message"))
	carID, carErr := uuid.Parse(r.FormValue("car_id"))
	receiverID, recvErr := uuid.Parse(r.FormValue("receiver_id"))

	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "message.reply",
		Token:  submitToken(r),
		Run: func(ctx context.Context) error {
			if carErr != nil || recvErr != nil {
				return pagesync.Reject(msgMessageFailed)
			}
			if msg := validateMessage(body); msg != "" {
				return pagesync.Reject(msg)
			}
			if receiverID == sess.UserID {
				return pagesync.Reject(msgMessageSelf)
			}
			known, err := a.messages.InConversation(ctx, carID, sess.UserID, receiverID)
			if err != nil {
				return err
			}
			if !known {
				return pagesync.Reject(msgMessageFailed)
			}
			return a.messages.Send(ctx, &models.Message{
				CarID:      carID,
				SenderID:   sess.UserID,
				ReceiverID: receiverID,
				Body:       body,
			})
		},
		Success:    msgMessageSent,
		Failure:    msgMessageFailed,
		SuccessURL: "/messages",
	})
}

// MarkRead marks an incoming message as read.
func (a *Account) MarkRead(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r, "id")

	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "message.read",
		Run: func(ctx context.Context) error {
			if !ok {
				return store.ErrNotFound
			}
			return a.messages.MarkRead(ctx, id, sess.UserID)
		},
		SuccessURL: "/messages",
	})
}

// Settings renders the profile and password forms.
func (a *Account) Settings(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	data := &render.PageData{Title: "الإعدادات", Section: "settings"}

	profile, err := a.profiles.FindByID(r.Context(), sess.UserID)
	if err != nil {
		loadFailed(data, "settings", err)
	}

	data.Data = map[string]any{"Profile": profile}
	a.renderer.Page(w, r, "settings", data)
}

// UpdateProfile saves name, phone and city, and refreshes the name kept
// in the session.
func (a *Account) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	fullName := strings.TrimSpace(r.FormValue("full_name"))
	phone := strings.TrimSpace(r.FormValue("phone"))
	city := strings.TrimSpace(r.FormValue("city"))

	ok := a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "profile.update",
		Run: func(ctx context.Context) error {
			if fullName == "" || utf8.RuneCountInString(fullName) > maxNameLen {
				return pagesync.Reject(msgNameRequired)
			}
			return a.profiles.UpdateProfile(ctx, sess.UserID, fullName, phone, city)
		},
		Success:    msgProfileUpdated,
		Failure:    msgProfileFailed,
		SuccessURL: "/settings",
	})
	if ok && a.sessions != nil {
		updated := *sess
		updated.FullName = fullName
		if err := a.sessions.Update(r.Context(), r, &updated); err != nil {
			slog.Warn("session refresh failed", "error", err)
		}
	}
}

// UpdatePassword changes the user's password after checking that both
// entries match.
func (a *Account) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	newPassword := r.FormValue("new_password")
	confirm := r.FormValue("confirm_password")

	ok := a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "profile.password",
		Run: func(ctx context.Context) error {
			if msg := validatePassword(newPassword, confirm); msg != "" {
				return pagesync.Reject(msg)
			}
			return a.profiles.UpdatePassword(ctx, sess.UserID, newPassword)
		},
		Success:    msgPasswordUpdated,
		Failure:    msgPasswordFailed,
		SuccessURL: "/settings",
	})
	if ok && a.sessions != nil {
		n, err := a.sessions.RevokeOthers(r.Context(), r, sess.UserID)
		if err != nil {
			slog.Warn("revoking other sessions failed", "error", err, "user_id", sess.UserID)
		} else if n > 0 {
			slog.Info("other sessions signed out", "user_id", sess.UserID, "count", n)
		}
	}
}
