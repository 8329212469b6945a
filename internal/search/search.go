// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package search filters listings by a free-text term.
package search

import (
	"strings"

	"carsouq/internal/models"
)

// Filter returns the listings whose title or city contains term, ignoring
// case. An empty or blank term returns listings unchanged. Order is kept.
func Filter(listings []models.Listing, term string) []models.Listing {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return listings
	}
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if strings.Contains(strings.ToLower(l.Title), term) ||
			strings.Contains(strings.ToLower(l.City), term) {
			out = append(out, l)
		}
	}
	return out
}
