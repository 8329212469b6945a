// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carsouq/internal/models"
)

func TestFavoriteStore_SetOnIsIdempotentInsert(t *testing.T) {
	db, mock := newMock(t)
	s := NewFavoriteStore(db)
	user, car := uuid.New(), uuid.New()

	mock.ExpectExec(q("ON CONFLICT (user_id, car_id) DO NOTHING")).
		WithArgs(user, car).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("ON CONFLICT (user_id, car_id) DO NOTHING")).
		WithArgs(user, car).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Set(context.Background(), user, car, true))
	require.NoError(t, s.Set(context.Background(), user, car, true))
}

func TestFavoriteStore_SetOffDeletes(t *testing.T) {
	db, mock := newMock(t)
	s := NewFavoriteStore(db)
	user, car := uuid.New(), uuid.New()

	mock.ExpectExec(q("DELETE FROM favorites WHERE user_id = $1 AND car_id = $2")).
		WithArgs(user, car).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Set(context.Background(), user, car, false))
}

func TestFavoriteStore_Exists(t *testing.T) {
	db, mock := newMock(t)
	s := NewFavoriteStore(db)
	user, car := uuid.New(), uuid.New()

	mock.ExpectQuery(q("SELECT EXISTS (SELECT 1 FROM favorites")).
		WithArgs(user, car).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := s.Exists(context.Background(), user, car)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFavoriteStore_ListByUser(t *testing.T) {
	db, mock := newMock(t)
	s := NewFavoriteStore(db)
	user, car := uuid.New(), uuid.New()

	mock.ExpectQuery(q("JOIN cars c ON c.id = f.car_id")).
		WithArgs(user).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "car_id", "created_at", "title", "price", "year", "city", "images", "status",
		}).AddRow(uuid.NewString(), user.String(), car.String(), time.Now(),
			"سوناتا", 60000.0, 2019, "الدمام", []byte(`[]`), "active"))

	favs, err := s.ListByUser(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, car, favs[0].Listing.ID)
	assert.Equal(t, "سوناتا", favs[0].Listing.Title)
	assert.Equal(t, models.PlaceholderImage, favs[0].Listing.Cover())
}

// Integration: add then remove leaves no join row.
func TestFavoriteStore_AddThenRemove(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	email := "fav@store-test.local"
	cleanProfiles(db, email)
	t.Cleanup(func() { cleanProfiles(db, email) })

	p, err := NewProfileStore(db).Create(ctx, email, "secret1", "Fav")
	require.NoError(t, err)
	l := &models.Listing{OwnerID: p.ID, Title: "Fav car", Price: 1, Year: 2020, City: "جدة"}
	require.NoError(t, NewListingStore(db).Create(ctx, l))

	favs := NewFavoriteStore(db)
	require.NoError(t, favs.Set(ctx, p.ID, l.ID, true))
	require.NoError(t, favs.Set(ctx, p.ID, l.ID, true))
	ok, err := favs.Exists(ctx, p.ID, l.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, favs.Set(ctx, p.ID, l.ID, false))
	ok, err = favs.Exists(ctx, p.ID, l.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
