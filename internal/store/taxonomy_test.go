// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carsouq/internal/models"
)

func TestSectionStore_CreateAndDelete(t *testing.T) {
	db, mock := newMock(t)
	s := NewSectionStore(db)
	id := uuid.New()

	mock.ExpectQuery(q("INSERT INTO sections")).
		WithArgs("للبيع", "For sale", "car").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id.String(), time.Now()))
	mock.ExpectExec(q("DELETE FROM sections WHERE id = $1")).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sec := &models.Section{NameAr: "للبيع", NameEn: "For sale", Icon: "car"}
	require.NoError(t, s.Create(context.Background(), sec))
	assert.Equal(t, id, sec.ID)
	require.NoError(t, s.Delete(context.Background(), id))
}

func TestSectionStore_UpdateMissing(t *testing.T) {
	db, mock := newMock(t)
	s := NewSectionStore(db)

	mock.ExpectExec(q("UPDATE sections")).WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Update(context.Background(), &models.Section{ID: uuid.New(), NameAr: "x", NameEn: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryStore_ListJoinsSectionName(t *testing.T) {
	db, mock := newMock(t)
	s := NewCategoryStore(db)
	sec := uuid.New()

	mock.ExpectQuery(q("LEFT JOIN sections s ON s.id = c.section_id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "section_id", "name_ar", "name_en", "icon", "created_at", "section"}).
			AddRow(uuid.NewString(), sec.String(), "سيدان", "Sedan", "car", time.Now(), "للبيع").
			AddRow(uuid.NewString(), nil, "أخرى", "Other", "", time.Now(), ""))

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].SectionID)
	assert.Equal(t, sec, *list[0].SectionID)
	assert.Equal(t, "للبيع", list[0].SectionName)
	assert.Nil(t, list[1].SectionID)
}

func TestCategoryStore_CreateError(t *testing.T) {
	db, mock := newMock(t)
	s := NewCategoryStore(db)

	mock.ExpectQuery(q("INSERT INTO categories")).WillReturnError(errors.New("fk violation"))

	err := s.Create(context.Background(), &models.Category{NameAr: "x", NameEn: "x"})
	assert.ErrorContains(t, err, "create category")
}

func TestCarModelStore_OptionalYear(t *testing.T) {
	db, mock := newMock(t)
	s := NewCarModelStore(db)

	mock.ExpectQuery(q("FROM car_models ORDER BY make, model")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "make", "model", "year", "created_at"}).
			AddRow(uuid.NewString(), "Kia", "Rio", nil, time.Now()).
			AddRow(uuid.NewString(), "Toyota", "Camry", int64(2022), time.Now()))

	list, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[0].Year)
	require.NotNil(t, list[1].Year)
	assert.Equal(t, 2022, *list[1].Year)
}

func TestCarModelStore_CreateNullYear(t *testing.T) {
	db, mock := newMock(t)
	s := NewCarModelStore(db)

	mock.ExpectQuery(q("INSERT INTO car_models")).
		WithArgs("Kia", "Rio", sql.NullInt64{}).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.NewString(), time.Now()))

	require.NoError(t, s.Create(context.Background(), &models.CarModel{Make: "Kia", Model: "Rio"}))
}

func TestAuditStore_LogSwallowsErrors(t *testing.T) {
	db, mock := newMock(t)
	s := NewAuditStore(db)

	mock.ExpectExec(q("INSERT INTO audit_log")).WillReturnError(errors.New("disk full"))

	s.Log(context.Background(), uuid.New(), "car", uuid.New(), "status:sold")
}

func TestAuditStore_Recent(t *testing.T) {
	db, mock := newMock(t)
	s := NewAuditStore(db)

	mock.ExpectQuery(q("FROM audit_log")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "actor_id", "entity_type", "entity_id", "action", "created_at"}).
			AddRow(uuid.NewString(), nil, "car", uuid.NewString(), "delete", time.Now()))

	entries, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].ActorID.Valid)
	assert.True(t, entries[0].EntityID.Valid)
}
