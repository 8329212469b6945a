// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides shared helpers: a sqlmock-backed *sql.DB for unit
// tests and a live database for integration tests, which are skipped if
// PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"

	"carsouq/internal/database"
)

// newMock returns a sqlmock database. Unmet expectations fail the test.
func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

// q escapes a SQL fragment for sqlmock's regexp matcher.
func q(fragment string) string {
	return regexp.QuoteMeta(fragment)
}

var listingCols = []string{
	"id", "user_id", "category_id", "title", "description", "price",
	"year", "mileage", "fuel_type", "transmission", "color", "city", "images",
	"status", "featured", "views", "created_at", "updated_at",
	"full_name", "phone",
}

// addListingRow appends a minimal active listing to rows.
func addListingRow(rows *sqlmock.Rows, id, owner uuid.UUID, title, city string, price float64) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id.String(), owner.String(), nil, title, "", price,
		2020, 50000, "بنزين", "أوتوماتيك", "أبيض", city, []byte(`["/a.jpg"]`),
		"active", false, 3, now, now,
		"مالك", "0500000000",
	)
}

func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "carsouq")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "carsouq")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanProfiles removes test profiles by email. Listings, favorites and
// messages cascade.
func cleanProfiles(db *sql.DB, emails ...string) {
	for _, email := range emails {
		db.Exec("DELETE FROM profiles WHERE email = $1", email)
	}
}
