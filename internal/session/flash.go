// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

// FlashCookieName carries pending notifications across a redirect.
const FlashCookieName = "cs_flash"

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// maxFlashes bounds the cookie size when many redirects stack notifications.
const maxFlashes = 5

// Flash is a one-time notification shown on the next rendered page.
type Flash struct {
	Type    string `json:"t"`
	Message string `json:"m"`
}

// AddFlash queues a notification for the next page the browser renders.
// Flashes already carried by the request and not yet consumed are kept.
// Only the last AddFlash of a single response takes effect.
func AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	flashes := append(readFlashes(r), Flash{Type: kind, Message: message})
	if len(flashes) > maxFlashes {
		flashes = flashes[len(flashes)-maxFlashes:]
	}
	writeFlashes(w, flashes)
}

// PopFlashes returns and clears the notifications carried by the request.
func PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := readFlashes(r)
	if len(flashes) == 0 {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return flashes
}

func readFlashes(r *http.Request) []Flash {
	c, err := r.Cookie(FlashCookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}

func writeFlashes(w http.ResponseWriter, flashes []Flash) {
	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}
