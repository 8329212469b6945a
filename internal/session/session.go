// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session keeps signed-in users in Valkey. The browser holds only
// an opaque id in the cs_session cookie; the payload lives under
// cs:sess:<id>, and every user has a set cs:user-sess:<uuid> indexing their
// live sessions so a password change can sign out the other devices.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the browser cookie carrying the session id.
	CookieName = "cs_session"

	// DefaultTTL bounds a sign-in. Updates keep the original expiry.
	DefaultTTL = 7 * 24 * time.Hour

	idBytes = 32
)

// ErrNoSession is returned by Update when the request carries no session cookie.
var ErrNoSession = errors.New("no session cookie")

// Data is what a signed-in request knows about its user. Roles are never
// cached here.
type Data struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// Store creates, loads and revokes sessions.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore returns a Store on client. secure sets the Secure cookie flag.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{client: client, ttl: DefaultTTL, secure: secure}
}

func sessionKey(id string) string { return "cs:sess:" + id }

func userKey(userID uuid.UUID) string { return "cs:user-sess:" + userID.String() }

// Create signs data.UserID in on a fresh id and writes the cookie.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	buf := make([]byte, idBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}
	id := hex.EncodeToString(buf)

	data.CreatedAt = time.Now().UTC()
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, sessionKey(id), payload, s.ttl)
		p.SAdd(ctx, userKey(data.UserID), id)
		p.Expire(ctx, userKey(data.UserID), s.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	s.writeCookie(w, id, int(s.ttl.Seconds()))
	return id, nil
}

// Get loads the session named by the request cookie. A missing cookie or
// an expired session yields nil, nil.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	id := cookieID(r)
	if id == "" {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("load session: %w", err)
	}

	data := new(Data)
	if err := json.Unmarshal(payload, data); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return data, nil
}

// Update rewrites the payload of the current session in place.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	id := cookieID(r)
	if id == "" {
		return ErrNoSession
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.SetArgs(ctx, sessionKey(id), payload, redis.SetArgs{KeepTTL: true, Mode: "XX"}).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// Destroy signs the current request out and expires the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id := cookieID(r)
	if id == "" {
		return nil
	}

	if data, err := s.Get(ctx, r); err == nil && data != nil {
		s.client.SRem(ctx, userKey(data.UserID), id)
	}
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.writeCookie(w, "", -1)
	return nil
}

// RevokeOthers deletes every session of userID except the one the request
// is using. It returns how many were removed.
func (s *Store) RevokeOthers(ctx context.Context, r *http.Request, userID uuid.UUID) (int, error) {
	keep := cookieID(r)

	ids, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	var revoked []string
	for _, id := range ids {
		if id != keep {
			revoked = append(revoked, id)
		}
	}
	if len(revoked) == 0 {
		return 0, nil
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, id := range revoked {
			p.Del(ctx, sessionKey(id))
			p.SRem(ctx, userKey(userID), id)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("revoke sessions: %w", err)
	}
	return len(revoked), nil
}

func (s *Store) writeCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func cookieID(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
