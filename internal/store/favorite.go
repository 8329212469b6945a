// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"carsouq/internal/models"
)

// FavoriteStore manages the favorites join table.
type FavoriteStore struct {
	db *sql.DB
}

// NewFavoriteStore creates a new FavoriteStore.
func NewFavoriteStore(db *sql.DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

// Exists reports whether userID has saved carID.
func (s *FavoriteStore) Exists(ctx context.Context, userID, carID uuid.UUID) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND car_id = $2)
	`, userID, carID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return ok, nil
}

// Set stores the desired favorite state. Both directions are idempotent, so
// a repeated submission leaves the same row state as a single one.
func (s *FavoriteStore) Set(ctx context.Context, userID, carID uuid.UUID, on bool) error {
	var err error
	if on {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO favorites (user_id, car_id) VALUES ($1, $2)
			ON CONFLICT (user_id, car_id) DO NOTHING
		`, userID, carID)
	} else {
		_, err = s.db.ExecContext(ctx, `
			DELETE FROM favorites WHERE user_id = $1 AND car_id = $2
		`, userID, carID)
	}
	if err != nil {
		return fmt.Errorf("set favorite: %w", err)
	}
	return nil
}

// ListByUser returns the user's favorites with the joined listing, newest first.
func (s *FavoriteStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.user_id, f.car_id, f.created_at,
		       c.title, c.price, c.year, c.city, c.images, c.status
		FROM favorites f
		JOIN cars c ON c.id = f.car_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var out []models.Favorite
	for rows.Next() {
		var f models.Favorite
		if err := rows.Scan(
			&f.ID, &f.UserID, &f.CarID, &f.CreatedAt,
			&f.Listing.Title, &f.Listing.Price, &f.Listing.Year, &f.Listing.City,
			&f.Listing.Images, &f.Listing.Status,
		); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		f.Listing.ID = f.CarID
		out = append(out, f)
	}
	return out, rows.Err()
}

// Count returns the total number of favorites.
func (s *FavoriteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM favorites`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return n, nil
}
