// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PlaceholderImage is shown for listings that were posted without photos.
const PlaceholderImage = "/static/placeholder.svg"

// ListingStatus represents the lifecycle state of a listing. Any status can
// be set from any other; there is no transition table.
type ListingStatus string

const (
	StatusPending ListingStatus = "pending"
	StatusActive  ListingStatus = "active"
	StatusSold    ListingStatus = "sold"
)

// ValidStatus reports whether s is one of the known listing statuses.
func ValidStatus(s ListingStatus) bool {
	switch s {
	case StatusPending, StatusActive, StatusSold:
		return true
	}
	return false
}

// Listing is a car offered for sale or rent (the "cars" table).
type Listing struct {
	ID           uuid.UUID     `json:"id"`
	OwnerID      uuid.UUID     `json:"user_id"`
	CategoryID   *uuid.UUID    `json:"category_id,omitempty"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Price        float64       `json:"price"`
	Year         int           `json:"year"`
	Mileage      int           `json:"mileage"`
	FuelType     string        `json:"fuel_type"`
	Transmission string        `json:"transmission"`
	Color        string        `json:"color"`
	City         string        `json:"city"`
	Images       StringList    `json:"images"`
	Status       ListingStatus `json:"status"`
	Featured     bool          `json:"featured"`
	Views        int           `json:"views"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`

	// Virtual fields populated by joined store queries.
	OwnerName  string `json:"owner_name,omitempty"`
	OwnerPhone string `json:"owner_phone,omitempty"`
}

// Cover returns the main photo, falling back to the placeholder.
func (l *Listing) Cover() string {
	if len(l.Images) == 0 || l.Images[0] == "" {
		return PlaceholderImage
	}
	return l.Images[0]
}

// Gallery returns up to four photos after the cover.
func (l *Listing) Gallery() []string {
	if len(l.Images) <= 1 {
		return nil
	}
	rest := l.Images[1:]
	if len(rest) > 4 {
		rest = rest[:4]
	}
	return rest
}

// IsOwnedBy reports whether userID posted the listing.
func (l *Listing) IsOwnedBy(userID uuid.UUID) bool {
	return l.OwnerID == userID
}

// StringList is an ordered list of strings stored as a JSONB array.
type StringList []string

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, fmt.Errorf("marshal string list: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner.
func (s *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan string list: unsupported type %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan string list: %w", err)
	}
	*s = out
	return nil
}
