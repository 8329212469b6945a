// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Section is a top-level grouping of categories (e.g. sale, rental).
type Section struct {
	ID        uuid.UUID `json:"id"`
	NameAr    string    `json:"name_ar"`
	NameEn    string    `json:"name_en"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

// Category belongs to an optional Section and classifies listings.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	SectionID *uuid.UUID `json:"section_id"`
	NameAr    string     `json:"name_ar"`
	NameEn    string     `json:"name_en"`
	Icon      string     `json:"icon"`
	CreatedAt time.Time  `json:"created_at"`

	// SectionName is the Arabic name of the parent section, if any.
	SectionName string `json:"section_name,omitempty"`
}

// CarModel is a make/model lookup row. Year is optional.
type CarModel struct {
	ID        uuid.UUID `json:"id"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Year      *int      `json:"year"`
	CreatedAt time.Time `json:"created_at"`
}
