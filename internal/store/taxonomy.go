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

// SectionStore manages sections in the database.
type SectionStore struct {
	db *sql.DB
}

// NewSectionStore returns a new SectionStore.
func NewSectionStore(db *sql.DB) *SectionStore {
	return &SectionStore{db: db}
}

// List returns all sections, oldest first.
func (s *SectionStore) List(ctx context.Context) ([]models.Section, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name_ar, name_en, icon, created_at FROM sections ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var out []models.Section
	for rows.Next() {
		var sec models.Section
		if err := rows.Scan(&sec.ID, &sec.NameAr, &sec.NameEn, &sec.Icon, &sec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

// Create inserts a section.
func (s *SectionStore) Create(ctx context.Context, sec *models.Section) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sections (name_ar, name_en, icon) VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, sec.NameAr, sec.NameEn, sec.Icon).Scan(&sec.ID, &sec.CreatedAt)
	if err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// Update saves a section's names and icon.
func (s *SectionStore) Update(ctx context.Context, sec *models.Section) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sections SET name_ar = $1, name_en = $2, icon = $3 WHERE id = $4
	`, sec.NameAr, sec.NameEn, sec.Icon, sec.ID)
	if err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	return expectAffected(res, "update section")
}

// Delete removes a section. Its categories are kept with no section.
func (s *SectionStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return expectAffected(res, "delete section")
}

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// List returns all categories with their section's Arabic name, oldest first.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.section_id, c.name_ar, c.name_en, c.icon, c.created_at,
		       COALESCE(s.name_ar, '')
		FROM categories c
		LEFT JOIN sections s ON s.id = c.section_id
		ORDER BY c.created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(
			&c.ID, &c.SectionID, &c.NameAr, &c.NameEn, &c.Icon, &c.CreatedAt, &c.SectionName,
		); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create inserts a category.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (section_id, name_ar, name_en, icon) VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, c.SectionID, c.NameAr, c.NameEn, c.Icon).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update saves a category.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET section_id = $1, name_ar = $2, name_en = $3, icon = $4 WHERE id = $5
	`, c.SectionID, c.NameAr, c.NameEn, c.Icon, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return expectAffected(res, "update category")
}

// Delete removes a category. Listings in it keep a NULL category.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return expectAffected(res, "delete category")
}

// CarModelStore manages the make/model lookup list.
type CarModelStore struct {
	db *sql.DB
}

// NewCarModelStore returns a new CarModelStore.
func NewCarModelStore(db *sql.DB) *CarModelStore {
	return &CarModelStore{db: db}
}

// List returns all car models ordered by make, then model.
func (s *CarModelStore) List(ctx context.Context) ([]models.CarModel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, make, model, year, created_at FROM car_models ORDER BY make, model
	`)
	if err != nil {
		return nil, fmt.Errorf("list car models: %w", err)
	}
	defer rows.Close()

	var out []models.CarModel
	for rows.Next() {
		var m models.CarModel
		var year sql.NullInt64
		if err := rows.Scan(&m.ID, &m.Make, &m.Model, &year, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan car model: %w", err)
		}
		if year.Valid {
			y := int(year.Int64)
			m.Year = &y
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Create inserts a car model. A nil Year is stored as NULL.
func (s *CarModelStore) Create(ctx context.Context, m *models.CarModel) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO car_models (make, model, year) VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, m.Make, m.Model, nullableInt(m.Year)).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create car model: %w", err)
	}
	return nil
}

// Update saves a car model.
func (s *CarModelStore) Update(ctx context.Context, m *models.CarModel) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE car_models SET make = $1, model = $2, year = $3 WHERE id = $4
	`, m.Make, m.Model, nullableInt(m.Year), m.ID)
	if err != nil {
		return fmt.Errorf("update car model: %w", err)
	}
	return expectAffected(res, "update car model")
}

// Delete removes a car model.
func (s *CarModelStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM car_models WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete car model: %w", err)
	}
	return expectAffected(res, "delete car model")
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
