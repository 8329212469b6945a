// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"carsouq/internal/models"
)

// Validation limits for listing and profile fields.
const (
	maxTitleLen       = 200
	maxDescriptionLen = 10_000
	maxCityLen        = 100
	maxMessageLen     = 2_000
	maxNameLen        = 200
	maxImages         = 10
	minPasswordLen    = 6
	minYear           = 1900
	maxYear           = 2100
)

// Options offered by the listing form.
var (
	fuelTypes     = []string{"بنزين", "ديزل", "كهرباء", "هايبرد"}
	transmissions = []string{"أوتوماتيك", "يدوي"}
)

// Validation messages.
const (
	msgRequiredFields   = "يرجى تعبئة جميع الحقول المطلوبة"
	msgInvalidPrice     = "السعر غير صحيح"
	msgInvalidYear      = "سنة الصنع غير صحيحة"
	msgInvalidMileage   = "المسافة المقطوعة غير صحيحة"
	msgTitleTooLong     = "عنوان الإعلان طويل جداً"
	msgDescTooLong      = "الوصف طويل جداً"
	msgTooManyImages    = "عدد الصور كبير جداً"
	msgInvalidImageURL  = "رابط الصورة غير صحيح"
	msgPasswordMismatch = "كلمة المرور الجديدة غير متطابقة"
	msgPasswordTooShort = "كلمة المرور يجب أن تكون 6 أحرف على الأقل"
	msgEmptyMessage     = "لا يمكن إرسال رسالة فارغة"
	msgMessageTooLong   = "الرسالة طويلة جداً"
	msgNameRequired     = "الاسم مطلوب"
)

// listingFromForm reads the listing form into l and returns the first
// validation message, or "" when the input is acceptable. Owner, status and
// the uploaded photos are left to the caller.
func listingFromForm(r *http.Request, l *models.Listing) string {
	l.Title = strings.TrimSpace(r.FormValue("title"))
	l.Description = strings.TrimSpace(r.FormValue("description"))
	l.City = strings.TrimSpace(r.FormValue("city"))
	l.Color = strings.TrimSpace(r.FormValue("color"))
	l.FuelType = oneOf(r.FormValue("fuel_type"), fuelTypes)
	l.Transmission = oneOf(r.FormValue("transmission"), transmissions)
	l.CategoryID = optionalUUID(r.FormValue("category_id"))
	l.Images = imageLines(r.FormValue("images"))

	priceRaw := strings.TrimSpace(r.FormValue("price"))
	yearRaw := strings.TrimSpace(r.FormValue("year"))
	mileageRaw := strings.TrimSpace(r.FormValue("mileage"))

	if l.Title == "" || l.City == "" || priceRaw == "" || yearRaw == "" || mileageRaw == "" {
		return msgRequiredFields
	}
	if utf8.RuneCountInString(l.Title) > maxTitleLen || utf8.RuneCountInString(l.City) > maxCityLen {
		return msgTitleTooLong
	}
	if utf8.RuneCountInString(l.Description) > maxDescriptionLen {
		return msgDescTooLong
	}

	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil || price < 0 {
		return msgInvalidPrice
	}
	year, err := strconv.Atoi(yearRaw)
	if err != nil || year < minYear || year > maxYear {
		return msgInvalidYear
	}
	mileage, err := strconv.Atoi(mileageRaw)
	if err != nil || mileage < 0 {
		return msgInvalidMileage
	}
	l.Price, l.Year, l.Mileage = price, year, mileage

	if len(l.Images) > maxImages {
		return msgTooManyImages
	}
	for _, img := range l.Images {
		if !strings.HasPrefix(img, "https://") && !strings.HasPrefix(img, "http://") && !strings.HasPrefix(img, "/") {
			return msgInvalidImageURL
		}
	}
	return ""
}

// validatePassword checks the settings password form.
func validatePassword(newPassword, confirm string) string {
	if newPassword != confirm {
		return msgPasswordMismatch
	}
	if utf8.RuneCountInString(newPassword) < minPasswordLen {
		return msgPasswordTooShort
	}
	return ""
}

// validateMessage checks a message body.
func validateMessage(body string) string {
	if strings.TrimSpace(body) == "" {
		return msgEmptyMessage
	}
	if utf8.RuneCountInString(body) > maxMessageLen {
		return msgMessageTooLong
	}
	return ""
}

// imageLines splits a newline-separated list of image URLs. Blank lines and
// the placeholder, which the store adds to listings without photos, are
// dropped.
func imageLines(raw string) models.StringList {
	var out models.StringList
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == models.PlaceholderImage {
			continue
		}
		out = append(out, line)
	}
	return out
}

// oneOf returns v if it is one of options, otherwise the first option.
func oneOf(v string, options []string) string {
	v = strings.TrimSpace(v)
	for _, o := range options {
		if v == o {
			return v
		}
	}
	return options[0]
}

func optionalUUID(raw string) *uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &id
}

func optionalInt(raw string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &v
}
