// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"

	"carsouq/internal/models"
	"carsouq/internal/pagesync"
	"carsouq/internal/render"
	"carsouq/internal/store"
)

// crudMessages holds the notifications of one catalogue entity.
type crudMessages struct {
	created, createFail string
	updated, updateFail string
	deleted, deleteFail string
}

var (
	sectionMessages = crudMessages{
		created: "تم إضافة القسم بنجاح", createFail: "فشل إضافة القسم",
		updated: "تم تحديث القسم بنجاح", updateFail: "فشل تحديث القسم",
		deleted: "تم حذف القسم بنجاح", deleteFail: "فشل حذف القسم",
	}
	categoryMessages = crudMessages{
		created: "تم إضافة الفئة بنجاح", createFail: "فشل إضافة الفئة",
		updated: "تم تحديث الفئة بنجاح", updateFail: "فشل تحديث الفئة",
		deleted: "تم حذف الفئة بنجاح", deleteFail: "فشل حذف الفئة",
	}
	carModelMessages = crudMessages{
		created: "تم إضافة الموديل بنجاح", createFail: "فشل إضافة الموديل",
		updated: "تم تحديث الموديل بنجاح", updateFail: "فشل تحديث الموديل",
		deleted: "تم حذف الموديل بنجاح", deleteFail: "فشل حذف الموديل",
	}
)

// --- Sections ---

// Sections renders the section list and form.
func (a *Admin) Sections(w http.ResponseWriter, r *http.Request) {
	data := &render.PageData{Title: "الأقسام", Section: "admin"}

	sections, err := a.sections.List(r.Context())
	if err != nil {
		loadFailed(data, "admin_sections", err)
	}

	data.Data = map[string]any{"Sections": sections}
	a.renderer.Page(w, r, "admin_sections", data)
}

// SectionCreate adds a section.
func (a *Admin) SectionCreate(w http.ResponseWriter, r *http.Request) {
	sec := sectionFromForm(r)
	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "admin.section.create",
		Token:  submitToken(r),
		Run: func(ctx context.Context) error {
			if sec.NameAr == "" || sec.NameEn == "" {
				return pagesync.Reject(msgRequiredFields)
			}
			if err := a.sections.Create(ctx, sec); err != nil {
				return err
			}
			a.record(ctx, "section", sec.ID, "create")
			return nil
		},
		Success:    sectionMessages.created,
		Failure:    sectionMessages.createFail,
		SuccessURL: "/admin/sections",
	})
}

// SectionUpdate saves a section.
func (a *Admin) SectionUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	sec := sectionFromForm(r)
	sec.ID = id
	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "admin.section.update",
		Run: func(ctx context.Context) error {
			if !ok {
				return store.ErrNotFound
			}
			if sec.NameAr == "" || sec.NameEn == "" {
				return pagesync.Reject(msgRequiredFields)
			}
			return a.sections.Update(ctx, sec)
		},
		Success:    sectionMessages.updated,
		Failure:    sectionMessages.updateFail,
		SuccessURL: "/admin/sections",
	})
}

// SectionDelete removes a section.
func (a *Admin) SectionDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "admin.section.delete",
		Run: func(ctx context.Context) error {
			if !ok {
				return store.ErrNotFound
			}
			if err := a.sections.Delete(ctx, id); err != nil {
				return err
			}
			a.record(ctx, "section", id, "delete")
			return nil
		},
		Success:    sectionMessages.deleted,
		Failure:    sectionMessages.deleteFail,
		SuccessURL: "/admin/sections",
	})
}

func sectionFromForm(r *http.Request) *models.Section {
	return &models.Section{
		NameAr: strings.TrimSpace(r.FormValue("name_ar")),
		NameEn: strings.TrimSpace(r.FormValue("name_en")),
		Icon:   strings.TrimSpace(r.FormValue("icon")),
	}
}

// --- Categories ---

// Categories renders the category list with the sections to choose from.
func (a *Admin) Categories(w http.ResponseWriter, r *http.Request) {
	var (
		categories []models.Category
		sections   []models.Section
	)
	data := &render.PageData{Title: "الفئات", Section: "admin"}

	err := pagesync.Load(r.Context(),
		func(ctx context.Context) (err error) {
			categories, err = a.categories.List(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			sections, err = a.sections.List(ctx)
			return err
		},
	)
	if err != nil {
		loadFailed(data, "admin_categories", err)
	}

	data.Data = map[string]any{
		"Categories": categories,
		"Sections":   sections,
	}
	a.renderer.Page(w, r, "admin_categories", data)
}

// CategoryCreate adds a category.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	c := categoryFromForm(r)
	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "admin.category.create",
		Token:  submitToken(r),
		Run: func(ctx context.Context) error {
			if c.NameAr == "" || c.NameEn == "" {
				return pagesync.Reject(msgRequiredFields)
			}
			if err := a.categories.Create(ctx, c); err != nil {
				return err
			}
			a.record(ctx, "category", c.ID, "create")
			return nil
		},
		Success:    categoryMessages.created,
		Failure:    categoryMessages.createFail,
		SuccessURL: "/admin/categories",
	})
}

// CategoryUpdate saves a category.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	c := categoryFromForm(r)
	c.ID = id
	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "admin.category.update",
		Run: func(ctx context.Context) error {
			if !ok {
				return store.ErrNotFound
			}
			if c.NameAr == "" || c.NameEn == "" {
				return pagesync.Reject(msgRequiredFields)
			}
			return a.categories.Update(ctx, c)
		},
		Success:    categoryMessages.updated,
		Failure:    categoryMessages.updateFail,
		SuccessURL: "/admin/categories",
	})
}

// CategoryDelete removes a category.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "admin.category.delete",
		Run: func(ctx context.Context) error {
			if !ok {
				return store.ErrNotFound
			}
			if err := a.categories.Delete(ctx, id); err != nil {
				return err
			}
			a.record(ctx, "category", id, "delete")
			return nil
		},
		Success:    categoryMessages.deleted,
		Failure:    categoryMessages.deleteFail,
		SuccessURL: "/admin/categories",
	})
}

func categoryFromForm(r *http.Request) *models.Category {
	return &models.Category{
		SectionID: optionalUUID(r.FormValue("section_id")),
		NameAr:    strings.TrimSpace(r.FormValue("name_ar")),
		NameEn:    strings.TrimSpace(r.FormValue("name_en")),
		Icon:      strings.TrimSpace(r.FormValue("icon")),
	}
}

// --- Car models ---

// CarModels renders the car model list and form.
func (a *Admin) CarModels(w http.ResponseWriter, r *http.Request) {
	data := &render.PageData{Title: "موديلات السيارات", Section: "admin"}

	carModels, err := a.carModels.List(r.Context())
	if err != nil {
		loadFailed(data, "admin_car_models", err)
	}

	data.Data = map[string]any{"CarModels": carModels}
	a.renderer.Page(w, r, "admin_car_models", data)
}

// CarModelCreate adds a car model. The year is optional.
func (a *Admin) CarModelCreate(w http.ResponseWriter, r *http.Request) {
	m := carModelFromForm(r)
	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "admin.car_model.create",
		Token:  submitToken(r),
		Run: func(ctx context.Context) error {
			if m.Make == "" || m.Model == "" {
				return pagesync.Reject(msgRequiredFields)
			}
			if err := a.carModels.Create(ctx, m); err != nil {
				return err
			}
			a.record(ctx, "car_model", m.ID, "create")
			return nil
		},
		Success:    carModelMessages.created,
		Failure:    carModelMessages.createFail,
		SuccessURL: "/admin/car-models",
	})
}

// CarModelUpdate saves a car model.
func (a *Admin) CarModelUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	m := carModelFromForm(r)
	m.ID = id
	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "admin.car_model.update",
		Run: func(ctx context.Context) error {
			if !ok {
				return store.ErrNotFound
			}
			if m.Make == "" || m.Model == "" {
				return pagesync.Reject(msgRequiredFields)
			}
			return a.carModels.Update(ctx, m)
		},
		Success:    carModelMessages.updated,
		Failure:    carModelMessages.updateFail,
		SuccessURL: "/admin/car-models",
	})
}

// CarModelDelete removes a car model.
func (a *Admin) CarModelDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "admin.car_model.delete",
		Run: func(ctx context.Context) error {
			if !ok {
				return store.ErrNotFound
			}
			if err := a.carModels.Delete(ctx, id); err != nil {
				return err
			}
			a.record(ctx, "car_model", id, "delete")
			return nil
		},
		Success:    carModelMessages.deleted,
		Failure:    carModelMessages.deleteFail,
		SuccessURL: "/admin/car-models",
	})
}

func carModelFromForm(r *http.Request) *models.CarModel {
	return &models.CarModel{
		Make:  strings.TrimSpace(r.FormValue("make")),
		Model: strings.TrimSpace(r.FormValue("model")),
		Year:  optionalInt(r.FormValue("year")),
	}
}
