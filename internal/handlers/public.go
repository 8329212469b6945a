// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"carsouq/internal/cache"
	"carsouq/internal/middleware"
	"carsouq/internal/models"
	"carsouq/internal/pagesync"
	"carsouq/internal/render"
	"carsouq/internal/search"
	"carsouq/internal/session"
	"carsouq/internal/store"
)

// msgCarLoadFailed is shown when a listing detail page cannot be loaded.
const msgCarLoadFailed = "فشل تحميل بيانات السيارة"

// Public groups the handlers anyone can reach: home, listing index and
// listing detail.
type Public struct {
	renderer  *render.Renderer
	listings  *store.ListingStore
	sections  *store.SectionStore
	favorites *store.FavoriteStore
	featured  *cache.FeaturedCache
}

// NewPublic creates a new Public handler group. featured may be nil to
// read the featured listings straight from the database.
func NewPublic(renderer *render.Renderer, listings *store.ListingStore, sections *store.SectionStore, favorites *store.FavoriteStore, featured *cache.FeaturedCache) *Public {
	return &Public{
		renderer:  renderer,
		listings:  listings,
		sections:  sections,
		favorites: favorites,
		featured:  featured,
	}
}

// Home renders the landing page with featured listings and sections.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	var (
		featured []models.Listing
		sections []models.Section
	)
	data := &render.PageData{Title: "الرئيسية", Section: "home"}

	err := pagesync.Load(r.Context(),
		func(ctx context.Context) (err error) {
			featured, err = p.featured.Get(ctx, featuredLimit, p.listings.ListFeatured)
			return err
		},
		func(ctx context.Context) (err error) {
			sections, err = p.sections.List(ctx)
			return err
		},
	)
	if err != nil {
		loadFailed(data, "home", err)
	}

	data.Data = map[string]any{
		"Featured": featured,
		"Sections": sections,
	}
	p.renderer.Page(w, r, "home", data)
}

// Ads renders the active listings, sorted in the database and filtered by
// the search term on title or city.
func (p *Public) Ads(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("search"))
	sortKey := store.NormalizeSort(r.URL.Query().Get("sort"))
	data := &render.PageData{Title: "الإعلانات", Section: "ads"}

	listings, err := p.listings.ListActive(r.Context(), sortKey)
	if err != nil {
		loadFailed(data, "ads", err)
	}

	data.Data = map[string]any{
		"Listings": search.Filter(listings, term),
		"Total":    len(listings),
		"Search":   term,
		"Sort":     sortKey,
	}
	p.renderer.Page(w, r, "ads", data)
}

// CarDetails renders one listing. Each load bumps its view counter once.
// Unknown listings send the visitor back to the index.
func (p *Public) CarDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		p.carNotFound(w, r)
		return
	}
	sess := middleware.SessionFromCtx(r.Context())

	views, err := p.listings.IncrementViews(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		p.carNotFound(w, r)
		return
	}
	if err != nil {
		slog.Warn("increment views failed", "car_id", id, "error", err)
	}

	var (
		listing    *models.Listing
		isFavorite bool
	)
	queries := []pagesync.Query{
		func(ctx context.Context) (err error) {
			listing, err = p.listings.FindByID(ctx, id)
			return err
		},
	}
	if sess != nil {
		queries = append(queries, func(ctx context.Context) (err error) {
			isFavorite, err = p.favorites.Exists(ctx, sess.UserID, id)
			return err
		})
	}
	if err := pagesync.Load(r.Context(), queries...); err != nil {
		slog.Error("load listing failed", "car_id", id, "error", err)
		p.carNotFound(w, r)
		return
	}
	if listing == nil {
		p.carNotFound(w, r)
		return
	}
	if views > listing.Views {
		listing.Views = views
	}

	p.renderer.Page(w, r, "car_details", &render.PageData{
		Title:   listing.Title,
		Section: "ads",
		Data: map[string]any{
			"Listing":    listing,
			"IsFavorite": isFavorite,
			"IsOwner":    sess != nil && listing.IsOwnedBy(sess.UserID),
		},
	})
}

func (p *Public) carNotFound(w http.ResponseWriter, r *http.Request) {
	session.AddFlash(w, r, session.FlashError, msgCarLoadFailed)
	middleware.Redirect(w, r, "/ads")
}

// NotFound renders the 404 page.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.renderer.PageStatus(w, r, http.StatusNotFound, "not_found", &render.PageData{
		Title: "الصفحة غير موجودة",
	})
}
