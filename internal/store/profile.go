// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"carsouq/internal/models"
)

// ProfileStore handles registered users: credentials and profile fields.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore creates a new ProfileStore with the given database connection.
func NewProfileStore(db *sql.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

const profileColumns = `id, email, password_hash, full_name, phone, city, created_at, updated_at`

func scanProfile(row scanner) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(
		&p.ID, &p.Email, &p.PasswordHash, &p.FullName,
		&p.Phone, &p.City, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new profile with a bcrypt-hashed password. The email is
// stored lower-cased.
func (s *ProfileStore) Create(ctx context.Context, email, password, fullName string) (*models.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	p, err := scanProfile(s.db.QueryRowContext(ctx, `
		INSERT INTO profiles (email, password_hash, full_name)
		VALUES ($1, $2, $3)
		RETURNING `+profileColumns,
		normalizeEmail(email), string(hash), fullName,
	))
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

// FindByEmail retrieves a profile by email address. Returns nil if not found.
func (s *ProfileStore) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = $1`, normalizeEmail(email),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find profile by email: %w", err)
	}
	return p, nil
}

// FindByID retrieves a profile by UUID. Returns nil if not found.
func (s *ProfileStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	p, err := scanProfile(s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find profile by id: %w", err)
	}
	return p, nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (s *ProfileStore) CheckPassword(p *models.Profile, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) == nil
}

// UpdateProfile saves the editable profile fields.
func (s *ProfileStore) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone, city string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET full_name = $1, phone = $2, city = $3, updated_at = NOW()
		WHERE id = $4
	`, fullName, phone, city, id)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return expectAffected(res, "update profile")
}

// UpdatePassword replaces the password hash.
func (s *ProfileStore) UpdatePassword(ctx context.Context, id uuid.UUID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET password_hash = $1, updated_at = NOW() WHERE id = $2
	`, string(hash), id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return expectAffected(res, "update password")
}

// ListWithRoles returns every profile, newest first, with its role grants.
func (s *ProfileStore) ListWithRoles(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.email, p.password_hash, p.full_name, p.phone, p.city,
		       p.created_at, p.updated_at,
		       COALESCE(string_agg(r.role, ',' ORDER BY r.role), '')
		FROM profiles p
		LEFT JOIN user_roles r ON r.user_id = p.id
		GROUP BY p.id
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []models.Profile
	for rows.Next() {
		var p models.Profile
		var roles string
		if err := rows.Scan(
			&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.Phone, &p.City,
			&p.CreatedAt, &p.UpdatedAt, &roles,
		); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		for _, r := range strings.Split(roles, ",") {
			if r != "" {
				p.Roles = append(p.Roles, models.Role(r))
			}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Count returns the number of registered profiles.
func (s *ProfileStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return n, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
