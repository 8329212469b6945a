// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"carsouq/internal/session"
)

var profileCols = []string{"id", "email", "password_hash", "full_name", "phone", "city", "created_at", "updated_at"}

func profileRows(t *testing.T, email, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Now()
	return sqlmock.NewRows(profileCols).
		AddRow(uuid.New().String(), email, string(hash), "سالم", "", "", now, now)
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge >= 0 {
			return c
		}
	}
	return nil
}

func TestLogin_Success(t *testing.T) {
	env := newEnv(t)
	env.mock.ExpectQuery(q("FROM profiles WHERE email = $1")).
		WithArgs("salem@carsouq.local").
		WillReturnRows(profileRows(t, "salem@carsouq.local", "secret123"))

	form := url.Values{"email": {"Salem@CarSouq.local"}, "password": {"secret123"}}
	rr := httptest.NewRecorder()
	env.auth.Login(rr, postReq("/auth/login", form, nil))

	requireRedirect(t, rr, "/")
	requireFlash(t, rr, session.FlashSuccess, msgSignedIn)
	require.NotNil(t, sessionCookie(rr))
	assert.Len(t, env.mr.Keys(), 2, "session and its user index stored")
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newEnv(t)
	env.mock.ExpectQuery(q("FROM profiles WHERE email = $1")).
		WillReturnRows(profileRows(t, "salem@carsouq.local", "secret123"))

	form := url.Values{"email": {"salem@carsouq.local"}, "password": {"wrong"}}
	rr := httptest.NewRecorder()
	env.auth.Login(rr, postReq("/auth/login", form, nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, msgInvalidCredentials)
	assert.Contains(t, body, `value="salem@carsouq.local"`)
	assert.Nil(t, sessionCookie(rr))
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := newEnv(t)
	env.mock.ExpectQuery(q("FROM profiles WHERE email = $1")).WillReturnRows(emptyRows())

	form := url.Values{"email": {"nobody@carsouq.local"}, "password": {"secret123"}}
	rr := httptest.NewRecorder()
	env.auth.Login(rr, postReq("/auth/login", form, nil))

	assert.Contains(t, rr.Body.String(), msgInvalidCredentials)
}

func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"missing name", url.Values{"email": {"a@b.co"}, "password": {"secret123"}}, msgNameRequired},
		{"bad email", url.Values{"full_name": {"سالم"}, "email": {"not-an-email"}, "password": {"secret123"}}, msgInvalidEmail},
		{"short password", url.Values{"full_name": {"سالم"}, "email": {"a@b.co"}, "password": {"123"}}, msgPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t)
			rr := httptest.NewRecorder()
			env.auth.Signup(rr, postReq("/auth/signup", tt.form, nil))

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.want)
		})
	}
}

func TestSignup_EmailTaken(t *testing.T) {
	env := newEnv(t)
	env.mock.ExpectQuery(q("FROM profiles WHERE email = $1")).
		WillReturnRows(profileRows(t, "salem@carsouq.local", "secret123"))

	form := url.Values{"full_name": {"سالم"}, "email": {"salem@carsouq.local"}, "password": {"secret123"}}
	rr := httptest.NewRecorder()
	env.auth.Signup(rr, postReq("/auth/signup", form, nil))

	assert.Contains(t, rr.Body.String(), msgEmailTaken)
}

func TestSignup_CreatesProfileAndSignsIn(t *testing.T) {
	env := newEnv(t)
	env.mock.ExpectQuery(q("FROM profiles WHERE email = $1")).WillReturnRows(emptyRows())
	env.mock.ExpectQuery(q("INSERT INTO profiles")).
		WillReturnRows(profileRows(t, "new@carsouq.local", "secret123"))

	form := url.Values{"full_name": {"سالم"}, "email": {"new@carsouq.local"}, "password": {"secret123"}}
	rr := httptest.NewRecorder()
	env.auth.Signup(rr, postReq("/auth/signup", form, nil))

	requireRedirect(t, rr, "/")
	requireFlash(t, rr, session.FlashSuccess, msgSignedUp)
	assert.NotNil(t, sessionCookie(rr))
}

func TestAuthPage_SignedInRedirectsHome(t *testing.T) {
	env := newEnv(t)

	rr := httptest.NewRecorder()
	env.auth.Page(rr, getReq("/auth", newUser()))

	requireRedirect(t, rr, "/")
}

func TestLogout_DestroysSession(t *testing.T) {
	env := newEnv(t)
	user := newUser()

	created := httptest.NewRecorder()
	_, err := env.sessions.Create(t.Context(), created, user)
	require.NoError(t, err)
	require.Len(t, env.mr.Keys(), 2)

	r := postReq("/auth/logout", url.Values{}, user)
	r.AddCookie(sessionCookie(created))
	rr := httptest.NewRecorder()
	env.auth.Logout(rr, r)

	requireRedirect(t, rr, "/")
	requireFlash(t, rr, session.FlashSuccess, msgSignedOut)
	assert.Empty(t, env.mr.Keys())
}
