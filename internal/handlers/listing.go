// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"carsouq/internal/imaging"
	"carsouq/internal/middleware"
	"carsouq/internal/models"
	"carsouq/internal/pagesync"
	"carsouq/internal/render"
	"carsouq/internal/session"
	"carsouq/internal/storage"
	"carsouq/internal/store"
)

// Listing notifications.
const (
	msgListingCreated     = "تم نشر الإعلان بنجاح!"
	msgListingCreateFail  = "حدث خطأ أثناء نشر الإعلان"
	msgListingUpdated     = "تم تحديث الإعلان بنجاح"
	msgListingUpdateFail  = "حدث خطأ في تحديث الإعلان"
	msgListingDeleted     = "تم حذف الإعلان بنجاح"
	msgFavoriteAdded      = "تم الإضافة للمفضلة"
	msgFavoriteRemoved    = "تم الإزالة من المفضلة"
	msgPhotoTooLarge      = "حجم الصورة كبير جداً"
	msgPhotoUnsupported   = "نوع الصورة غير مدعوم"
	maxMultipartMemory    = 32 << 20
	listingFormPage       = "listing_form"
	listingFormTitleNew   = "أضف إعلان"
	listingFormTitleEdit  = "تعديل الإعلان"
	listingFormCreatePath = "/create-ad"
)

// CreateAdPage renders the empty listing form.
func (a *Account) CreateAdPage(w http.ResponseWriter, r *http.Request) {
	a.renderListingForm(w, r, &models.Listing{
		FuelType:     fuelTypes[0],
		Transmission: transmissions[0],
	}, false)
}

// CreateAd inserts a new active listing owned by the signed-in user and
// sends them to the listing index.
func (a *Account) CreateAd(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	parseListingForm(r)

	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "listing.create",
		Token:  submitToken(r),
		Run: func(ctx context.Context) error {
			l := &models.Listing{OwnerID: sess.UserID, Status: models.StatusActive}
			if msg := listingFromForm(r, l); msg != "" {
				return pagesync.Reject(msg)
			}
			uploaded, err := a.uploadPhotos(ctx, r, sess.UserID, len(l.Images))
			if err != nil {
				return err
			}
			l.Images = append(l.Images, uploaded...)

			if err := a.listings.Create(ctx, l); err != nil {
				discardPhotos(ctx, a.storage, uploaded)
				return err
			}
			slog.Info("listing created", "car_id", l.ID, "user_id", sess.UserID)
			a.featured.Invalidate(ctx)
			return nil
		},
		Success:    msgListingCreated,
		Failure:    msgListingCreateFail,
		SuccessURL: "/ads",
		FailureURL: listingFormCreatePath,
	})
}

// EditAdPage renders the listing form filled with a stored listing. Only
// the owner or an admin may open it.
func (a *Account) EditAdPage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		a.listingMissing(w, r)
		return
	}

	l, err := a.listings.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("load listing for edit failed", "car_id", id, "error", err)
		a.listingMissing(w, r)
		return
	}
	if l == nil {
		a.listingMissing(w, r)
		return
	}
	if err := a.authorizeListing(r.Context(), l); err != nil {
		var rej *pagesync.Rejection
		msg := pagesync.MsgGenericError
		if errors.As(err, &rej) {
			msg = rej.Message
		} else {
			slog.Error("listing permission check failed", "car_id", id, "error", err)
		}
		session.AddFlash(w, r, session.FlashError, msg)
		middleware.Redirect(w, r, middleware.HomePath)
		return
	}

	a.renderListingForm(w, r, l, true)
}

// EditAd saves changes to a listing and sends the user to their profile.
func (a *Account) EditAd(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r, "id")
	parseListingForm(r)

	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "listing.update",
		Token:  submitToken(r),
		Run: func(ctx context.Context) error {
			if !ok {
				return store.ErrNotFound
			}
			l, err := a.listings.FindByID(ctx, id)
			if err != nil {
				return err
			}
			if l == nil {
				return store.ErrNotFound
			}
			if err := a.authorizeListing(ctx, l); err != nil {
				return err
			}
			if msg := listingFromForm(r, l); msg != "" {
				return pagesync.Reject(msg)
			}
			uploaded, err := a.uploadPhotos(ctx, r, sess.UserID, len(l.Images))
			if err != nil {
				return err
			}
			l.Images = append(l.Images, uploaded...)

			if err := a.listings.Update(ctx, l); err != nil {
				discardPhotos(ctx, a.storage, uploaded)
				return err
			}
			a.featured.Invalidate(ctx)
			return nil
		},
		Success:    msgListingUpdated,
		Failure:    msgListingUpdateFail,
		SuccessURL: "/profile",
		FailureURL: fmt.Sprintf("/edit-ad/%s", id),
	})
}

// DeleteCar removes one of the user's own listings together with its
// stored photos.
func (a *Account) DeleteCar(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r, "id")

	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "listing.delete",
		Run: func(ctx context.Context) error {
			if !ok {
				return store.ErrNotFound
			}
			l, err := a.listings.FindByID(ctx, id)
			if err != nil {
				return err
			}
			if l == nil {
				return store.ErrNotFound
			}
			if !l.IsOwnedBy(sess.UserID) {
				return pagesync.Reject(middleware.MsgNotAuthorized)
			}
			if err := a.listings.Delete(ctx, id); err != nil {
				return err
			}
			discardPhotos(ctx, a.storage, l.Images)
			a.featured.Invalidate(ctx)
			return nil
		},
		Success:    msgListingDeleted,
		SuccessURL: "/profile",
		FailureURL: fmt.Sprintf("/car/%s", id),
	})
}

// ToggleFavorite stores the requested favorite state (on=1 adds, on=0
// removes). The write is idempotent and the page shows the stored state
// after the redirect.
func (a *Account) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r, "id")
	on := formOn(r)

	success := msgFavoriteRemoved
	if on {
		success = msgFavoriteAdded
	}

	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "favorite.set",
		Run: func(ctx context.Context) error {
			if !ok {
				return store.ErrNotFound
			}
			return a.favorites.Set(ctx, sess.UserID, id, on)
		},
		Success:    success,
		SuccessURL: fmt.Sprintf("/car/%s", id),
	})
}

// SendMessage sends a message about a listing to its owner.
func (a *Account) SendMessage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r, "id")
	body := strings.TrimSpace(r.FormValue("message"))

	a.dispatcher.Dispatch(w, r, pagesync.Mutation{
		Action: "message.send",
		Token:  submitToken(r),
		Run: func(ctx context.Context) error {
			if !ok {
				return pagesync.Reject(msgCarLoadFailed)
			}
			if msg := validateMessage(body); msg != "" {
				return pagesync.Reject(msg)
			}
			l, err := a.listings.FindByID(ctx, id)
			if err != nil {
				return err
			}
			if l == nil {
				return pagesync.Reject(msgCarLoadFailed)
			}
			if l.IsOwnedBy(sess.UserID) {
				return pagesync.Reject(msgMessageSelf)
			}
			return a.messages.Send(ctx, &models.Message{
				CarID:      id,
				SenderID:   sess.UserID,
				ReceiverID: l.OwnerID,
				Body:       body,
			})
		},
		Success:    msgMessageSent,
		Failure:    msgMessageFailed,
		SuccessURL: fmt.Sprintf("/car/%s", id),
	})
}

// authorizeListing allows the owner and admins to modify a listing.
func (a *Account) authorizeListing(ctx context.Context, l *models.Listing) error {
	sess := middleware.SessionFromCtx(ctx)
	if sess == nil {
		return pagesync.Reject(middleware.MsgLoginRequired)
	}
	if l.IsOwnedBy(sess.UserID) {
		return nil
	}
	admin, err := a.roles.HasRole(ctx, sess.UserID, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("check listing permission: %w", err)
	}
	if !admin {
		return pagesync.Reject(middleware.MsgNotAuthorized)
	}
	return nil
}

func (a *Account) renderListingForm(w http.ResponseWriter, r *http.Request, l *models.Listing, editing bool) {
	data := &render.PageData{Title: listingFormTitleNew, Section: "create"}
	action := listingFormCreatePath
	if editing {
		data.Title = listingFormTitleEdit
		data.Section = "profile"
		action = fmt.Sprintf("/edit-ad/%s", l.ID)
	}

	categories, err := a.categories.List(r.Context())
	if err != nil {
		loadFailed(data, listingFormPage, err)
	}

	data.Data = map[string]any{
		"Listing":        l,
		"Editing":        editing,
		"Action":         action,
		"Categories":     categories,
		"FuelTypes":      fuelTypes,
		"Transmissions":  transmissions,
		"UploadsEnabled": a.storage != nil,
	}
	a.renderer.Page(w, r, listingFormPage, data)
}

func (a *Account) listingMissing(w http.ResponseWriter, r *http.Request) {
	session.AddFlash(w, r, session.FlashError, msgCarLoadFailed)
	middleware.Redirect(w, r, "/profile")
}

// uploadPhotos stores the files of the "photos" field and returns their
// URLs. existing is the number of images the listing already has; the total
// may not exceed maxImages. Without storage configured it returns nothing.
func (a *Account) uploadPhotos(ctx context.Context, r *http.Request, owner uuid.UUID, existing int) ([]string, error) {
	if a.storage == nil || r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File["photos"]
	if existing+len(files) > maxImages {
		return nil, pagesync.Reject(msgTooManyImages)
	}

	var urls []string
	for _, fh := range files {
		if fh.Size > storage.MaxPhotoSize {
			discardPhotos(ctx, a.storage, urls)
			return nil, pagesync.Reject(msgPhotoTooLarge)
		}
		photo, err := readPhoto(fh)
		if err != nil {
			discardPhotos(ctx, a.storage, urls)
			return nil, err
		}
		url, err := a.storage.UploadPhoto(ctx, owner, photo.ContentType, bytes.NewReader(photo.Data), int64(len(photo.Data)))
		if errors.Is(err, storage.ErrUnsupportedType) {
			discardPhotos(ctx, a.storage, urls)
			return nil, pagesync.Reject(msgPhotoUnsupported)
		}
		if err != nil {
			discardPhotos(ctx, a.storage, urls)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// readPhoto reads one uploaded file and prepares it for storage. The type
// stored is the one sniffed from the bytes, not the one the browser sent.
func readPhoto(fh *multipart.FileHeader) (*imaging.Photo, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, storage.MaxPhotoSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > storage.MaxPhotoSize {
		return nil, pagesync.Reject(msgPhotoTooLarge)
	}

	photo, err := imaging.Prepare(data, imaging.MaxWidth)
	switch {
	case errors.Is(err, imaging.ErrNotImage):
		return nil, pagesync.Reject(msgPhotoUnsupported)
	case errors.Is(err, imaging.ErrTooLarge):
		return nil, pagesync.Reject(msgPhotoTooLarge)
	case err != nil:
		return nil, err
	}
	return photo, nil
}

// discardPhotos deletes stored photos, logging failures. URLs that do not
// point into the bucket are skipped by the storage client.
func discardPhotos(ctx context.Context, st *storage.Client, urls []string) {
	if st == nil || len(urls) == 0 {
		return
	}
	if err := st.DeleteURLs(ctx, urls); err != nil {
		slog.Warn("delete listing photos failed", "count", len(urls), "error", err)
	}
}

// parseListingForm parses multipart bodies so uploads are available. URL
// encoded bodies are parsed by FormValue as usual.
func parseListingForm(r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		slog.Warn("parse listing form failed", "error", err)
	}
}
