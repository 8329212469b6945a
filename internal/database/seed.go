// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
)

// Default development admin credentials.
const (
	SeedAdminEmail    = "admin@carsouq.local"
	SeedAdminPassword = "admin123"
)

var seedSections = []struct{ ar, en, icon string }{
	{"سيارات للبيع", "Cars for sale", "car"},
	{"سيارات للإيجار", "Cars for rent", "key"},
}

var seedCategories = []struct{ ar, en, icon string }{
	{"سيدان", "Sedan", "car"},
	{"دفع رباعي", "SUV", "truck"},
	{"رياضية", "Sports", "zap"},
}

var seedModels = []struct{ make, model string }{
	{"Toyota", "Camry"},
	{"Toyota", "Land Cruiser"},
	{"Hyundai", "Elantra"},
	{"Nissan", "Patrol"},
	{"Kia", "Sportage"},
}

var seedCities = []string{"الرياض", "جدة", "الدمام", "مكة", "المدينة"}

// Seed populates the database with initial development data: an admin
// account, the sale/rental sections with a few categories, a make/model
// list and some demo listings. It does nothing once any profile exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&count); err != nil {
		return fmt.Errorf("seed check profiles: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var adminID string
	err = tx.QueryRow(`
		INSERT INTO profiles (email, password_hash, full_name, city)
		VALUES ($1, $2, $3, $4) RETURNING id
	`, SeedAdminEmail, string(hash), "مدير الموقع", seedCities[0]).Scan(&adminID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO user_roles (user_id, role) VALUES ($1, 'admin')`, adminID); err != nil {
		return fmt.Errorf("seed grant admin: %w", err)
	}

	var sectionID string
	for i, s := range seedSections {
		var id string
		if err := tx.QueryRow(
			`INSERT INTO sections (name_ar, name_en, icon) VALUES ($1, $2, $3) RETURNING id`,
			s.ar, s.en, s.icon,
		).Scan(&id); err != nil {
			return fmt.Errorf("seed insert section: %w", err)
		}
		if i == 0 {
			sectionID = id
		}
	}

	var categoryIDs []string
	for _, c := range seedCategories {
		var id string
		if err := tx.QueryRow(
			`INSERT INTO categories (section_id, name_ar, name_en, icon) VALUES ($1, $2, $3, $4) RETURNING id`,
			sectionID, c.ar, c.en, c.icon,
		).Scan(&id); err != nil {
			return fmt.Errorf("seed insert category: %w", err)
		}
		categoryIDs = append(categoryIDs, id)
	}

	for _, m := range seedModels {
		if _, err := tx.Exec(
			`INSERT INTO car_models (make, model) VALUES ($1, $2)`, m.make, m.model,
		); err != nil {
			return fmt.Errorf("seed insert car model: %w", err)
		}
	}

	faker := gofakeit.New(2026)
	for i := 0; i < 8; i++ {
		m := seedModels[i%len(seedModels)]
		title := fmt.Sprintf("%s %s %d", m.make, m.model, faker.Number(2012, 2025))
		_, err := tx.Exec(`
			INSERT INTO cars (user_id, category_id, title, description, price, year,
				mileage, fuel_type, transmission, color, city, status, featured)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'active', $12)
		`,
			adminID,
			categoryIDs[i%len(categoryIDs)],
			title,
			faker.Paragraph(1, 3, 12, " "),
			faker.Number(25, 400)*1000,
			faker.Number(2012, 2025),
			faker.Number(0, 250)*1000,
			faker.RandomString([]string{"بنزين", "ديزل", "هايبرد"}),
			faker.RandomString([]string{"أوتوماتيك", "يدوي"}),
			faker.SafeColor(),
			seedCities[i%len(seedCities)],
			i < 4,
		)
		if err != nil {
			return fmt.Errorf("seed insert listing: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", SeedAdminEmail,
		"password", SeedAdminPassword,
	)
	return nil
}
