// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"carsouq/internal/cache"
	"carsouq/internal/middleware"
	"carsouq/internal/models"
	"carsouq/internal/pagesync"
	"carsouq/internal/render"
	"carsouq/internal/storage"
	"carsouq/internal/store"
)

// Admin notifications.
const (
	msgStatusUpdated   = "تم تحديث الحالة"
	msgInvalidStatus   = "حالة غير صحيحة"
	msgFeaturedOn      = "تم التمييز"
	msgFeaturedOff     = "تم إلغاء التمييز"
	msgRoleGranted     = "تم إضافة دور الأدمن بنجاح"
	msgRoleGrantFail   = "فشل إضافة دور الأدمن"
	msgRoleRevoked     = "تم إزالة دور الأدمن بنجاح"
	msgRoleRevokeFail  = "فشل إزالة دور الأدمن"
	msgRoleRevokeSelf  = "لا يمكنك إزالة صلاحياتك"
	auditRecentEntries = 10
)

// Admin groups the moderation and catalogue handlers. Every route is
// behind RequireAuth and RequireRole(admin).
type Admin struct {
	renderer   *render.Renderer
	dispatcher *pagesync.Dispatcher
	profiles   *store.ProfileStore
	roles      *store.RoleStore
	listings   *store.ListingStore
	favorites  *store.FavoriteStore
	sections   *store.SectionStore
	categories *store.CategoryStore
	carModels  *store.CarModelStore
	audit      *store.AuditStore
	storage    *storage.Client
	featured   *cache.FeaturedCache
}

// AdminDeps lists the dependencies of the Admin group. Storage and
// Featured may be nil.
type AdminDeps struct {
	Renderer   *render.Renderer
	Dispatcher *pagesync.Dispatcher
	Profiles   *store.ProfileStore
	Roles      *store.RoleStore
	Listings   *store.ListingStore
	Favorites  *store.FavoriteStore
	Sections   *store.SectionStore
	Categories *store.CategoryStore
	CarModels  *store.CarModelStore
	Audit      *store.AuditStore
	Storage    *storage.Client
	Featured   *cache.FeaturedCache
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(d AdminDeps) *Admin {
	return &Admin{
		renderer:   d.Renderer,
		dispatcher: d.Dispatcher,
		profiles:   d.Profiles,
		roles:      d.Roles,
		listings:   d.Listings,
		favorites:  d.Favorites,
		sections:   d.Sections,
		categories: d.Categories,
		carModels:  d.CarModels,
		audit:      d.Audit,
		storage:    d.Storage,
		featured:   d.Featured,
	}
}

// Dashboard renders the site counters, every listing and the latest
// moderation actions.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	var (
		stats    models.Stats
		listings []models.Listing
		recent   []store.AuditEntry
	)
	data := &render.PageData{Title: "لوحة التحكم", Section: "admin"}

	err := pagesync.Load(r.Context(),
		func(ctx context.Context) (err error) {
			stats.Cars, err = a.listings.Count(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			stats.Users, err = a.profiles.Count(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			stats.Favorites, err = a.favorites.Count(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			listings, err = a.listings.ListAll(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			recent, err = a.audit.Recent(ctx, auditRecentEntries)
			return err
		},
	)
	if err != nil {
		loadFailed(data, "admin", err)
	}

	data.Data = map[string]any{
		"Stats":    stats,
		"Listings": listings,
		"Audit":    recent,
	}
	a.renderer.Page(w, r, "admin_dashboard", data)
}

// SetStatus changes the moderation status of a listing.
func (a *Admin) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	status := models.ListingStatus(r.FormValue("status"))

	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "admin.listing.status",
		Run: func(ctx context.Context) error {
			if !ok {
				return store.ErrNotFound
			}
			if !models.ValidStatus(status) {
				return pagesync.Reject(msgInvalidStatus)
			}
			if err := a.listings.SetStatus(ctx, id, status); err != nil {
				return err
			}
			a.record(ctx, "car", id, "status:"+string(status))
			a.featured.Invalidate(ctx)
			return nil
		},
		Success:    msgStatusUpdated,
		SuccessURL: "/admin",
	})
}

// SetFeatured stores the requested featured flag (on=1|0) of a listing.
func (a *Admin) SetFeatured(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	on := formOn(r)

	success, action := msgFeaturedOff, "unfeature"
	if on {
		success, action = msgFeaturedOn, "feature"
	}

	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "admin.listing.featured",
		Run: func(ctx context.Context) error {
			if !ok {
				return store.ErrNotFound
			}
			if err := a.listings.SetFeatured(ctx, id, on); err != nil {
				return err
			}
			a.record(ctx, "car", id, action)
			a.featured.Invalidate(ctx)
			return nil
		},
		Success:    success,
		SuccessURL: "/admin",
	})
}

// DeleteCar removes any listing.
func (a *Admin) DeleteCar(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")

	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "admin.listing.delete",
		Run: func(ctx context.Context) error {
			if !ok {
				return store.ErrNotFound
			}
			l, err := a.listings.FindByID(ctx, id)
			if err != nil {
				return err
			}
			if l == nil {
				return store.ErrNotFound
			}
			if err := a.listings.Delete(ctx, id); err != nil {
				return err
			}
			discardPhotos(ctx, a.storage, l.Images)
			a.record(ctx, "car", id, "delete")
			a.featured.Invalidate(ctx)
			return nil
		},
		Success:    msgListingDeleted,
		SuccessURL: "/admin",
	})
}

// Users renders every profile with its roles.
func (a *Admin) Users(w http.ResponseWriter, r *http.Request) {
	data := &render.PageData{Title: "المستخدمون", Section: "admin"}

	users, err := a.profiles.ListWithRoles(r.Context())
	if err != nil {
		loadFailed(data, "admin_users", err)
	}

	data.Data = map[string]any{"Users": users}
	a.renderer.Page(w, r, "admin_users", data)
}

// SetRole grants (on=1) or revokes (on=0) the admin role. Admins cannot
// revoke their own role.
func (a *Admin) SetRole(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r, "id")
	on := formOn(r)

	success, failure, action := msgRoleRevoked, msgRoleRevokeFail, "revoke_admin"
	if on {
		success, failure, action = msgRoleGranted, msgRoleGrantFail, "grant_admin"
	}

	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "admin.role",
		Run: func(ctx context.Context) error {
			if !ok {
				return store.ErrNotFound
			}
			if !on && id == sess.UserID {
				return pagesync.Reject(msgRoleRevokeSelf)
			}
			var err error
			if on {
				err = a.roles.Grant(ctx, id, models.RoleAdmin)
			} else {
				err = a.roles.Revoke(ctx, id, models.RoleAdmin)
			}
			if err != nil {
				return err
			}
			a.record(ctx, "profile", id, action)
			return nil
		},
		Success:    success,
		Failure:    failure,
		SuccessURL: "/admin/users",
	})
}

// record writes an audit entry for the signed-in admin.
func (a *Admin) record(ctx context.Context, entityType string, entityID uuid.UUID, action string) {
	sess := middleware.SessionFromCtx(ctx)
	if sess == nil {
		return
	}
	a.audit.Log(ctx, sess.UserID, entityType, entityID, action)
}
