// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for every page. It
// supports full-page and HTMX partial rendering, detecting the request
// type via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"carsouq/internal/markdown"
	"carsouq/internal/middleware"
	"carsouq/internal/models"
	"carsouq/internal/pagesync"
	"carsouq/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title     string          // Page title for <title> tag
	Section   string          // Active navigation entry (e.g. "ads", "admin")
	Session   *session.Data   // Current user session (nil if anonymous)
	IsAdmin   bool            // Show admin navigation
	CSRFToken string          // CSRF token for forms and HTMX headers
	Data      map[string]any  // Page-specific data
	Flashes   []session.Flash // One-time notifications
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
}

var statusLabels = map[models.ListingStatus]string{
	models.StatusPending: "قيد المراجعة",
	models.StatusActive:  "نشط",
	models.StatusSold:    "مباع",
}

var printer = message.NewPrinter(language.English)

// Funcs returns the template helpers shared by all pages.
func Funcs() template.FuncMap {
	return template.FuncMap{
		// price formats an amount with thousands separators: 85000 → "85,000".
		"price": func(v float64) string {
			return printer.Sprintf("%.0f", v)
		},
		"number": func(v int) string {
			return printer.Sprintf("%d", v)
		},
		"statusLabel": func(s models.ListingStatus) string {
			if label, ok := statusLabels[s]; ok {
				return label
			}
			return string(s)
		},
		"statuses": func() []models.ListingStatus {
			return []models.ListingStatus{models.StatusPending, models.StatusActive, models.StatusSold}
		},
		"markdown": markdown.Render,
		"excerpt":  markdown.Excerpt,
		// eqUUID compares an optional id with a value.
		"eqUUID": func(ptr *uuid.UUID, val uuid.UUID) bool {
			return ptr != nil && *ptr == val
		},
		"derefInt": func(p *int) string {
			if p == nil {
				return ""
			}
			return fmt.Sprint(*p)
		},
		"date": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"submitToken": pagesync.NewToken,
		"join":        strings.Join,
	}
}

// New parses every page template from the embedded filesystem, each paired
// with the base layout.
func New() (*Renderer, error) {
	return newFromFS(templateFS)
}

func newFromFS(fsys fs.FS) (*Renderer, error) {
	entries, err := fs.ReadDir(fsys, "templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	r := &Renderer{templates: make(map[string]*template.Template)}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" || !strings.HasSuffix(name, ".html") {
			continue
		}
		tmpl, err := template.New("base.html").Funcs(Funcs()).ParseFS(
			fsys, "templates/base.html", "templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}
	return r, nil
}

// Page renders a page with status 200. See PageStatus.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PageStatus(w, r, http.StatusOK, name, data)
}

// PageStatus renders a full page, or only its "content" block for HTMX
// requests. Pending flash notifications are consumed and shown. The page
// is rendered into a buffer first so a template error never leaves a
// half-written response.
func (rn *Renderer) PageStatus(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		slog.Error("template not found", "template", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = &PageData{}
	}
	data.CSRFToken = middleware.CSRFToken(r)
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	data.Flashes = append(session.PopFlashes(w, r), data.Flashes...)

	execName := "base.html"
	if isHTMX(r) {
		execName = "content"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		slog.Error("template execute failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// isHTMX returns true if the request was made by HTMX.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Boosted") != "true"
}
