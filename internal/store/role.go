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

// RoleStore manages user_roles grants.
type RoleStore struct {
	db *sql.DB
}

// NewRoleStore creates a new RoleStore.
func NewRoleStore(db *sql.DB) *RoleStore {
	return &RoleStore{db: db}
}

// HasRole reports whether userID holds role.
func (s *RoleStore) HasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)
	`, userID, role).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check role: %w", err)
	}
	return ok, nil
}

// Grant adds role to userID. Granting an existing role is a no-op.
func (s *RoleStore) Grant(ctx context.Context, userID uuid.UUID, role models.Role) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id, role) DO NOTHING
	`, userID, role)
	if err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}

// Revoke removes role from userID. Revoking a missing role is a no-op.
func (s *RoleStore) Revoke(ctx context.Context, userID uuid.UUID, role models.Role) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM user_roles WHERE user_id = $1 AND role = $2
	`, userID, role)
	if err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	return nil
}
