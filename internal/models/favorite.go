// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite joins a profile to a listing they saved.
type Favorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CarID     uuid.UUID `json:"car_id"`
	CreatedAt time.Time `json:"created_at"`

	// Listing is the joined car row.
	Listing Listing `json:"car"`
}

// Message is a note sent between two profiles about a listing.
type Message struct {
	ID         uuid.UUID `json:"id"`
	CarID      uuid.UUID `json:"car_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	ReceiverID uuid.UUID `json:"receiver_id"`
	Body       string    `json:"message"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`

	// Virtual fields populated by MessageStore.ListForUser.
	CarTitle     string     `json:"car_title,omitempty"`
	CarImages    StringList `json:"car_images,omitempty"`
	SenderName   string     `json:"sender_name,omitempty"`
	ReceiverName string     `json:"receiver_name,omitempty"`
}

// IsIncoming reports whether userID is the receiver.
func (m *Message) IsIncoming(userID uuid.UUID) bool {
	return m.ReceiverID == userID
}

// Counterpart returns the other participant from userID's point of view.
func (m *Message) Counterpart(userID uuid.UUID) uuid.UUID {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// Stats holds the admin dashboard counters.
type Stats struct {
	Cars      int `json:"cars"`
	Users     int `json:"users"`
	Favorites int `json:"favorites"`
}
