// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go wires every handler group to a sqlmock database, a
// miniredis instance and the real templates.
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"carsouq/internal/cache"
	"carsouq/internal/middleware"
	"carsouq/internal/pagesync"
	"carsouq/internal/render"
	"carsouq/internal/session"
	"carsouq/internal/store"
)

type testEnv struct {
	mock     sqlmock.Sqlmock
	mr       *miniredis.Miniredis
	sessions *session.Store

	public  *Public
	auth    *Auth
	account *Account
	admin   *Admin

	accountDeps AccountDeps
	adminDeps   AdminDeps
}

// newEnv builds all handler groups over fresh backends. Page loads run
// their queries concurrently, so expectations are matched in any order.
func newEnv(t *testing.T) *testEnv {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.MatchExpectationsInOrder(false)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	renderer, err := render.New()
	require.NoError(t, err)

	sessions := session.NewStore(client, false)
	profiles := store.NewProfileStore(db)
	roles := store.NewRoleStore(db)
	listings := store.NewListingStore(db)
	favorites := store.NewFavoriteStore(db)
	messages := store.NewMessageStore(db)
	sections := store.NewSectionStore(db)
	categories := store.NewCategoryStore(db)
	featured := cache.NewFeaturedCache(client, time.Minute)
	dispatcher := pagesync.NewDispatcher(pagesync.NewGuard(client))

	accountDeps := AccountDeps{
		Renderer:   renderer,
		Dispatcher: dispatcher,
		Sessions:   sessions,
		Profiles:   profiles,
		Roles:      roles,
		Listings:   listings,
		Categories: categories,
		Favorites:  favorites,
		Messages:   messages,
		Featured:   featured,
	}
	adminDeps := AdminDeps{
		Renderer:   renderer,
		Dispatcher: dispatcher,
		Profiles:   profiles,
		Roles:      roles,
		Listings:   listings,
		Favorites:  favorites,
		Sections:   sections,
		Categories: categories,
		CarModels:  store.NewCarModelStore(db),
		Audit:      store.NewAuditStore(db),
		Featured:   featured,
	}

	return &testEnv{
		mock:        mock,
		mr:          mr,
		sessions:    sessions,
		accountDeps: accountDeps,
		adminDeps:   adminDeps,
		public:      NewPublic(renderer, listings, sections, favorites, featured),
		auth:        NewAuth(renderer, sessions, profiles),
		account:     NewAccount(accountDeps),
		admin:       NewAdmin(adminDeps),
	}
}

// q escapes a SQL fragment for sqlmock's regexp matcher.
func q(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

func newUser() *session.Data {
	return &session.Data{UserID: uuid.New(), Email: "user@carsouq.local", FullName: "سالم"}
}

// getReq builds a GET request, optionally signed in.
func getReq(target string, sess *session.Data) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	if sess != nil {
		r = r.WithContext(middleware.WithSession(r.Context(), sess))
	}
	return r
}

// postReq builds a urlencoded POST request, optionally signed in.
func postReq(target string, form url.Values, sess *session.Data) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sess != nil {
		r = r.WithContext(middleware.WithSession(r.Context(), sess))
	}
	return r
}

// withParam sets a chi URL parameter on r.
func withParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// flashesOf decodes the flash cookie set on rr.
func flashesOf(rr *httptest.ResponseRecorder) []session.Flash {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rr.Result().Cookies() {
		r.AddCookie(c)
	}
	return session.PopFlashes(httptest.NewRecorder(), r)
}

// requireFlash asserts that rr queued exactly one flash with msg.
func requireFlash(t *testing.T, rr *httptest.ResponseRecorder, typ, msg string) {
	t.Helper()
	flashes := flashesOf(rr)
	require.Len(t, flashes, 1)
	require.Equal(t, typ, flashes[0].Type)
	require.Equal(t, msg, flashes[0].Message)
}

// requireRedirect asserts a 303 to location.
func requireRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, location, rr.Header().Get("Location"))
}

var listingCols = []string{
	"id", "user_id", "category_id", "title", "description", "price",
	"year", "mileage", "fuel_type", "transmission", "color", "city", "images",
	"status", "featured", "views", "created_at", "updated_at",
	"full_name", "phone",
}

type listingRow struct {
	id, owner uuid.UUID
	title     string
	city      string
	price     float64
	views     int
	images    string // JSON array; the placeholder when empty
}

// listingRows returns sqlmock rows for the given listings.
func listingRows(ls ...listingRow) *sqlmock.Rows {
	rows := sqlmock.NewRows(listingCols)
	now := time.Now()
	for _, l := range ls {
		images := l.images
		if images == "" {
			images = `["/static/placeholder.svg"]`
		}
		rows.AddRow(
			l.id.String(), l.owner.String(), nil, l.title, "**نظيفة**", l.price,
			2020, 45000, "بنزين", "أوتوماتيك", "أبيض", l.city, []byte(images),
			"active", false, l.views, now, now,
			"مالك", "0500000000",
		)
	}
	return rows
}

func emptyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"})
}

// Query fragments shared by the handler tests.
var (
	sqlFindListing  = q("FROM cars c LEFT JOIN profiles p ON p.id = c.user_id WHERE c.id = $1")
	sqlListActive   = q("WHERE c.status = $1 ORDER BY")
	sqlListFeatured = q("c.featured = TRUE")
	sqlListByOwner  = q("WHERE c.user_id = $1 ORDER BY")
	sqlListAll      = q("FROM cars c LEFT JOIN profiles p ON p.id = c.user_id ORDER BY c.created_at DESC")
	sqlIncrement    = q("SELECT increment($1)")
	sqlHasRole      = q("FROM user_roles WHERE user_id = $1 AND role = $2")
	sqlAudit        = q("INSERT INTO audit_log")
)
