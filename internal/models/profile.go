// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a privilege label granted to a profile through user_roles.
type Role string

const (
	RoleAdmin Role = "admin"
)

// Profile is a registered user. It carries both the public profile fields
// and the sign-in credentials.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Roles is populated by ProfileStore.ListWithRoles.
	Roles []Role `json:"roles,omitempty"`
}

// IsAdmin returns true if the profile holds the admin role grant.
func (p *Profile) IsAdmin() bool {
	for _, r := range p.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// DisplayName returns the full name, or the email when no name is set.
func (p *Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return p.Email
}

// RoleGrant is a row of user_roles.
type RoleGrant struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
