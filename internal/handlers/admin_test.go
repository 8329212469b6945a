// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"database/sql/driver"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carsouq/internal/pagesync"
	"carsouq/internal/session"
)

func countRows(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestDashboard_LoadsEverything(t *testing.T) {
	env := newEnv(t)
	admin := newUser()

	env.mock.ExpectQuery(q("SELECT COUNT(*) FROM cars")).WillReturnRows(countRows(12))
	env.mock.ExpectQuery(q("SELECT COUNT(*) FROM profiles")).WillReturnRows(countRows(1500))
	env.mock.ExpectQuery(q("SELECT COUNT(*) FROM favorites")).WillReturnRows(countRows(7))
	env.mock.ExpectQuery(sqlListAll).
		WillReturnRows(listingRows(listingRow{id: uuid.New(), owner: uuid.New(), title: "BMW X5", city: "جدة", price: 210000}))
	env.mock.ExpectQuery(q("FROM audit_log")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "actor_id", "entity_type", "entity_id", "action", "created_at"}).
			AddRow(uuid.New().String(), admin.UserID.String(), "car", uuid.New().String(), "feature", time.Now()))

	rr := httptest.NewRecorder()
	env.admin.Dashboard(rr, getReq("/admin", admin))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `id="stat-cars" class="text-2xl font-bold">12<`)
	assert.Contains(t, body, `id="stat-users" class="text-2xl font-bold">1,500<`)
	assert.Contains(t, body, `id="stat-favorites" class="text-2xl font-bold">7<`)
	assert.Contains(t, body, "BMW X5")
	assert.NotContains(t, body, pagesync.MsgLoadFailed)
}

func TestSetFeatured_AuditsAndInvalidatesCache(t *testing.T) {
	env := newEnv(t)
	admin := newUser()
	id := uuid.New()
	env.mr.Set("featured:6", "[]")

	env.mock.ExpectExec(q("UPDATE cars SET featured = $1")).
		WithArgs(true, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectExec(sqlAudit).
		WithArgs(admin.UserID, "car", id, "feature").
		WillReturnResult(sqlmock.NewResult(1, 1))

	r := withParam(postReq("/admin/cars/"+id.String()+"/featured", url.Values{"on": {"1"}}, admin), "id", id.String())
	rr := httptest.NewRecorder()
	env.admin.SetFeatured(rr, r)

	requireRedirect(t, rr, "/admin")
	requireFlash(t, rr, session.FlashSuccess, msgFeaturedOn)
	assert.False(t, env.mr.Exists("featured:6"))
}

func TestSetStatus_InvalidStatusRejected(t *testing.T) {
	env := newEnv(t)
	id := uuid.New()

	r := withParam(postReq("/admin/cars/"+id.String()+"/status", url.Values{"status": {"archived"}}, newUser()), "id", id.String())
	rr := httptest.NewRecorder()
	env.admin.SetStatus(rr, r)

	requireRedirect(t, rr, "/admin")
	requireFlash(t, rr, session.FlashError, msgInvalidStatus)
}

func TestSetStatus_MissingListing(t *testing.T) {
	env := newEnv(t)
	id := uuid.New()

	env.mock.ExpectExec(q("UPDATE cars SET status = $1")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	r := withParam(postReq("/admin/cars/"+id.String()+"/status", url.Values{"status": {"sold"}}, newUser()), "id", id.String())
	rr := httptest.NewRecorder()
	env.admin.SetStatus(rr, r)

	requireRedirect(t, rr, "/admin")
	requireFlash(t, rr, session.FlashError, pagesync.MsgGenericError)
}

func TestSetRole_CannotRevokeOwnRole(t *testing.T) {
	env := newEnv(t)
	admin := newUser()

	r := withParam(postReq("/admin/users/"+admin.UserID.String()+"/role", url.Values{"on": {"0"}}, admin), "id", admin.UserID.String())
	rr := httptest.NewRecorder()
	env.admin.SetRole(rr, r)

	requireRedirect(t, rr, "/admin/users")
	requireFlash(t, rr, session.FlashError, msgRoleRevokeSelf)
}

func TestSetRole_GrantsAdmin(t *testing.T) {
	env := newEnv(t)
	admin := newUser()
	target := uuid.New()

	env.mock.ExpectExec(q("INSERT INTO user_roles")).
		WithArgs(target, "admin").
		WillReturnResult(sqlmock.NewResult(1, 1))
	env.mock.ExpectExec(sqlAudit).WillReturnResult(sqlmock.NewResult(1, 1))

	r := withParam(postReq("/admin/users/"+target.String()+"/role", url.Values{"on": {"1"}}, admin), "id", target.String())
	rr := httptest.NewRecorder()
	env.admin.SetRole(rr, r)

	requireRedirect(t, rr, "/admin/users")
	requireFlash(t, rr, session.FlashSuccess, msgRoleGranted)
}

// nullArg matches a SQL NULL argument.
type nullArg struct{}

func (nullArg) Match(v driver.Value) bool { return v == nil }

func TestCarModelCreate_YearOptional(t *testing.T) {
	env := newEnv(t)

	env.mock.ExpectQuery(q("INSERT INTO car_models")).
		WithArgs("Toyota", "Land Cruiser", nullArg{}).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.New().String(), time.Now()))
	env.mock.ExpectExec(sqlAudit).WillReturnResult(sqlmock.NewResult(1, 1))

	form := url.Values{"make": {"Toyota"}, "model": {"Land Cruiser"}, "year": {""}, "submit_token": {"tok-model"}}
	rr := httptest.NewRecorder()
	env.admin.CarModelCreate(rr, postReq("/admin/car-models", form, newUser()))

	requireRedirect(t, rr, "/admin/car-models")
	requireFlash(t, rr, session.FlashSuccess, carModelMessages.created)
}

func TestSectionCreate_RequiresBothNames(t *testing.T) {
	env := newEnv(t)

	form := url.Values{"name_ar": {"سيدان"}}
	rr := httptest.NewRecorder()
	env.admin.SectionCreate(rr, postReq("/admin/sections", form, newUser()))

	requireRedirect(t, rr, "/admin/sections")
	requireFlash(t, rr, session.FlashError, msgRequiredFields)
}

func TestCategoryDelete_Missing(t *testing.T) {
	env := newEnv(t)
	id := uuid.New()

	env.mock.ExpectExec(q("DELETE FROM categories")).WillReturnResult(sqlmock.NewResult(0, 0))

	r := withParam(postReq("/admin/categories/"+id.String()+"/delete", url.Values{}, newUser()), "id", id.String())
	rr := httptest.NewRecorder()
	env.admin.CategoryDelete(rr, r)

	requireRedirect(t, rr, "/admin/categories")
	requireFlash(t, rr, session.FlashError, categoryMessages.deleteFail)
}

func TestUsers_Renders(t *testing.T) {
	env := newEnv(t)
	env.mock.ExpectQuery(q("FROM profiles p")).WillReturnRows(emptyRows())

	rr := httptest.NewRecorder()
	env.admin.Users(rr, getReq("/admin/users", newUser()))

	assert.Equal(t, http.StatusOK, rr.Code)
}
