// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"carsouq/internal/models"
)

func titles(ls []models.Listing) []string {
	var out []string
	for _, l := range ls {
		out = append(out, l.Title)
	}
	return out
}

func TestFilter(t *testing.T) {
	all := []models.Listing{
		{Title: "Toyota Camry 2020", City: "الرياض"},
		{Title: "Nissan Patrol", City: "جدة"},
		{Title: "هيونداي النترا", City: "Dammam"},
	}

	tests := []struct {
		name string
		term string
		want []string
	}{
		{"empty returns all", "", []string{"Toyota Camry 2020", "Nissan Patrol", "هيونداي النترا"}},
		{"blank returns all", "   ", []string{"Toyota Camry 2020", "Nissan Patrol", "هيونداي النترا"}},
		{"title case-insensitive", "camry", []string{"Toyota Camry 2020"}},
		{"city match", "جدة", []string{"Nissan Patrol"}},
		{"city case-insensitive", "DAMMAM", []string{"هيونداي النترا"}},
		{"arabic title substring", "النترا", []string{"هيونداي النترا"}},
		{"no match", "mercedes", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titles(Filter(all, tt.term)))
		})
	}
}
