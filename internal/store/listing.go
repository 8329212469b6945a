// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"carsouq/internal/models"
)

// Sort keys accepted by ListActive.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortYear      = "year"
)

// sortOrders maps the whitelisted sort keys to ORDER BY clauses. The map is
// the only source of SQL fragments that reach the query text.
var sortOrders = map[string]string{
	SortNewest:    "c.created_at DESC",
	SortPriceLow:  "c.price ASC, c.created_at DESC",
	SortPriceHigh: "c.price DESC, c.created_at DESC",
	SortYear:      "c.year DESC, c.created_at DESC",
}

// NormalizeSort returns key if it is a known sort key, otherwise SortNewest.
func NormalizeSort(key string) string {
	if _, ok := sortOrders[key]; ok {
		return key
	}
	return SortNewest
}

// ListingStore handles the cars table.
type ListingStore struct {
	db *sql.DB
}

// NewListingStore creates a new ListingStore.
func NewListingStore(db *sql.DB) *ListingStore {
	return &ListingStore{db: db}
}

const listingColumns = `c.id, c.user_id, c.category_id, c.title, c.description, c.price,
	c.year, c.mileage, c.fuel_type, c.transmission, c.color, c.city, c.images,
	c.status, c.featured, c.views, c.created_at, c.updated_at,
	COALESCE(p.full_name, ''), COALESCE(p.phone, '')`

const listingFrom = ` FROM cars c LEFT JOIN profiles p ON p.id = c.user_id`

func scanListing(row scanner) (*models.Listing, error) {
	l := &models.Listing{}
	err := row.Scan(
		&l.ID, &l.OwnerID, &l.CategoryID, &l.Title, &l.Description, &l.Price,
		&l.Year, &l.Mileage, &l.FuelType, &l.Transmission, &l.Color, &l.City, &l.Images,
		&l.Status, &l.Featured, &l.Views, &l.CreatedAt, &l.UpdatedAt,
		&l.OwnerName, &l.OwnerPhone,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ListingStore) query(ctx context.Context, op, where string, args ...any) ([]models.Listing, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+listingColumns+listingFrom+where, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// Create inserts a listing and fills in its generated fields. Empty image
// lists are stored as the placeholder image.
func (s *ListingStore) Create(ctx context.Context, l *models.Listing) error {
	if len(l.Images) == 0 {
		l.Images = models.StringList{models.PlaceholderImage}
	}
	if l.Status == "" {
		l.Status = models.StatusActive
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO cars (user_id, category_id, title, description, price, year,
			mileage, fuel_type, transmission, color, city, images, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, featured, views, created_at, updated_at
	`,
		l.OwnerID, l.CategoryID, l.Title, l.Description, l.Price, l.Year,
		l.Mileage, l.FuelType, l.Transmission, l.Color, l.City, l.Images, l.Status,
	).Scan(&l.ID, &l.Featured, &l.Views, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

// Update saves the owner-editable fields of a listing.
func (s *ListingStore) Update(ctx context.Context, l *models.Listing) error {
	if len(l.Images) == 0 {
		l.Images = models.StringList{models.PlaceholderImage}
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE cars SET category_id = $1, title = $2, description = $3, price = $4,
			year = $5, mileage = $6, fuel_type = $7, transmission = $8, color = $9,
			city = $10, images = $11, updated_at = NOW()
		WHERE id = $12
	`,
		l.CategoryID, l.Title, l.Description, l.Price, l.Year, l.Mileage,
		l.FuelType, l.Transmission, l.Color, l.City, l.Images, l.ID,
	)
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	return expectAffected(res, "update listing")
}

// Delete removes a listing. Favorites and messages cascade.
func (s *ListingStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	return expectAffected(res, "delete listing")
}

// FindByID retrieves a listing with its owner's name and phone. Returns nil
// if not found.
func (s *ListingStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	l, err := scanListing(s.db.QueryRowContext(ctx,
		`SELECT `+listingColumns+listingFrom+` WHERE c.id = $1`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return l, nil
}

// ListActive returns active listings ordered by the given sort key.
func (s *ListingStore) ListActive(ctx context.Context, sortKey string) ([]models.Listing, error) {
	order := sortOrders[NormalizeSort(sortKey)]
	return s.query(ctx, "list active listings",
		` WHERE c.status = $1 ORDER BY `+order, models.StatusActive)
}

// ListFeatured returns up to limit active featured listings, newest first.
func (s *ListingStore) ListFeatured(ctx context.Context, limit int) ([]models.Listing, error) {
	return s.query(ctx, "list featured listings",
		` WHERE c.status = $1 AND c.featured = TRUE ORDER BY c.created_at DESC LIMIT $2`,
		models.StatusActive, limit)
}

// ListByOwner returns every listing posted by ownerID, newest first.
func (s *ListingStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Listing, error) {
	return s.query(ctx, "list owner listings",
		` WHERE c.user_id = $1 ORDER BY c.created_at DESC`, ownerID)
}

// ListAll returns every listing regardless of status, newest first.
func (s *ListingStore) ListAll(ctx context.Context) ([]models.Listing, error) {
	return s.query(ctx, "list all listings", ` ORDER BY c.created_at DESC`)
}

// SetStatus moves a listing to status. Any status may follow any other.
func (s *ListingStore) SetStatus(ctx context.Context, id uuid.UUID, status models.ListingStatus) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("set listing status: invalid status %q", status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE cars SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("set listing status: %w", err)
	}
	return expectAffected(res, "set listing status")
}

// SetFeatured stores the featured flag. Writing the current value is a no-op
// that still succeeds.
func (s *ListingStore) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE cars SET featured = $1, updated_at = NOW() WHERE id = $2`, featured, id)
	if err != nil {
		return fmt.Errorf("set listing featured: %w", err)
	}
	return expectAffected(res, "set listing featured")
}

// IncrementViews bumps the view counter server-side and returns the new value.
func (s *ListingStore) IncrementViews(ctx context.Context, id uuid.UUID) (int, error) {
	var views sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT increment($1)`, id).Scan(&views); err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	if !views.Valid {
		return 0, fmt.Errorf("increment views: %w", ErrNotFound)
	}
	return int(views.Int64), nil
}

// Count returns the total number of listings.
func (s *ListingStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cars`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}
