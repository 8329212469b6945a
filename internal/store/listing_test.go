// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carsouq/internal/models"
)

func TestNormalizeSort(t *testing.T) {
	tests := map[string]string{
		"":            SortNewest,
		"newest":      SortNewest,
		"price-low":   SortPriceLow,
		"price-high":  SortPriceHigh,
		"year":        SortYear,
		"; DROP cars": SortNewest,
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeSort(in), "input %q", in)
	}
}

func TestListingStore_CreateDefaultsImagesAndStatus(t *testing.T) {
	db, mock := newMock(t)
	s := NewListingStore(db)
	owner := uuid.New()
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(q("INSERT INTO cars")).
		WithArgs(owner, nil, "كامري 2020", "", 85000.0, 2020, 40000, "", "", "", "الرياض",
			models.StringList{models.PlaceholderImage}, models.StatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"id", "featured", "views", "created_at", "updated_at"}).
			AddRow(id.String(), false, 0, now, now))

	l := &models.Listing{
		OwnerID: owner, Title: "كامري 2020", Price: 85000, Year: 2020, Mileage: 40000, City: "الرياض",
	}
	require.NoError(t, s.Create(context.Background(), l))
	assert.Equal(t, id, l.ID)
	assert.Equal(t, models.StatusActive, l.Status)
	assert.Equal(t, models.PlaceholderImage, l.Cover())
}

func TestListingStore_FindByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	s := NewListingStore(db)
	id := uuid.New()

	mock.ExpectQuery(q("WHERE c.id = $1")).WithArgs(id).WillReturnError(sql.ErrNoRows)

	l, err := s.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, l)
}

func TestListingStore_FindByIDJoinsOwner(t *testing.T) {
	db, mock := newMock(t)
	s := NewListingStore(db)
	id, owner := uuid.New(), uuid.New()

	rows := addListingRow(sqlmock.NewRows(listingCols), id, owner, "باترول", "جدة", 120000)
	mock.ExpectQuery(q("LEFT JOIN profiles p ON p.id = c.user_id WHERE c.id = $1")).
		WithArgs(id).WillReturnRows(rows)

	l, err := s.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Equal(t, owner, l.OwnerID)
	assert.Nil(t, l.CategoryID)
	assert.Equal(t, "مالك", l.OwnerName)
	assert.Equal(t, "0500000000", l.OwnerPhone)
	assert.Equal(t, models.StatusActive, l.Status)
	assert.Equal(t, "/a.jpg", l.Cover())
}

func TestListingStore_ListActiveUsesWhitelistedOrder(t *testing.T) {
	tests := []struct {
		sort  string
		order string
	}{
		{"price-low", "ORDER BY c.price ASC"},
		{"price-high", "ORDER BY c.price DESC"},
		{"year", "ORDER BY c.year DESC"},
		{"bogus", "ORDER BY c.created_at DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			db, mock := newMock(t)
			s := NewListingStore(db)

			rows := sqlmock.NewRows(listingCols)
			addListingRow(rows, uuid.New(), uuid.New(), "A", "الرياض", 1)
			mock.ExpectQuery(q("WHERE c.status = $1 " + tt.order)).
				WithArgs(models.StatusActive).
				WillReturnRows(rows)

			list, err := s.ListActive(context.Background(), tt.sort)
			require.NoError(t, err)
			assert.Len(t, list, 1)
		})
	}
}

func TestListingStore_ListFeatured(t *testing.T) {
	db, mock := newMock(t)
	s := NewListingStore(db)

	mock.ExpectQuery(q("c.featured = TRUE ORDER BY c.created_at DESC LIMIT $2")).
		WithArgs(models.StatusActive, 6).
		WillReturnRows(sqlmock.NewRows(listingCols))

	list, err := s.ListFeatured(context.Background(), 6)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestListingStore_SetStatus(t *testing.T) {
	db, mock := newMock(t)
	s := NewListingStore(db)
	id := uuid.New()

	mock.ExpectExec(q("UPDATE cars SET status = $1")).
		WithArgs(models.StatusSold, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.SetStatus(context.Background(), id, models.StatusSold))
}

func TestListingStore_SetStatusRejectsUnknown(t *testing.T) {
	db, _ := newMock(t)
	s := NewListingStore(db)

	err := s.SetStatus(context.Background(), uuid.New(), "archived")
	assert.ErrorContains(t, err, "invalid status")
}

func TestListingStore_SetFeaturedMissing(t *testing.T) {
	db, mock := newMock(t)
	s := NewListingStore(db)
	id := uuid.New()

	mock.ExpectExec(q("UPDATE cars SET featured = $1")).
		WithArgs(true, id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.SetFeatured(context.Background(), id, true), ErrNotFound)
}

func TestListingStore_IncrementViews(t *testing.T) {
	db, mock := newMock(t)
	s := NewListingStore(db)
	id := uuid.New()

	mock.ExpectQuery(q("SELECT increment($1)")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"increment"}).AddRow(int64(12)))

	views, err := s.IncrementViews(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 12, views)
}

func TestListingStore_IncrementViewsMissingListing(t *testing.T) {
	db, mock := newMock(t)
	s := NewListingStore(db)
	id := uuid.New()

	mock.ExpectQuery(q("SELECT increment($1)")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"increment"}).AddRow(nil))

	_, err := s.IncrementViews(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListingStore_Delete(t *testing.T) {
	db, mock := newMock(t)
	s := NewListingStore(db)
	id := uuid.New()

	mock.ExpectExec(q("DELETE FROM cars WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Delete(context.Background(), id))
}

// Integration: the view counter only moves forward across repeated loads.
func TestListingStore_ViewsMonotonic(t *testing.T) {
	db := testDB(t)
	profiles := NewProfileStore(db)
	listings := NewListingStore(db)
	ctx := context.Background()

	email := "views@store-test.local"
	cleanProfiles(db, email)
	t.Cleanup(func() { cleanProfiles(db, email) })

	owner, err := profiles.Create(ctx, email, "secret1", "Views")
	require.NoError(t, err)

	l := &models.Listing{OwnerID: owner.ID, Title: "Test", Price: 1, Year: 2020, City: "جدة"}
	require.NoError(t, listings.Create(ctx, l))

	prev := 0
	for i := 0; i < 3; i++ {
		v, err := listings.IncrementViews(ctx, l.ID)
		require.NoError(t, err)
		assert.Greater(t, v, prev)
		prev = v
	}
}
