// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"carsouq/internal/models"
)

// MessageStore manages messages between users about a listing.
type MessageStore struct {
	db *sql.DB
}

// NewMessageStore creates a new MessageStore.
func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{db: db}
}

// Send inserts a message and fills in its generated fields.
func (s *MessageStore) Send(ctx context.Context, m *models.Message) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO messages (car_id, sender_id, receiver_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, read, created_at
	`, m.CarID, m.SenderID, m.ReceiverID, m.Body).Scan(&m.ID, &m.Read, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// ListForUser returns messages the user sent or received, newest first,
// with the listing title and both participants' names.
func (s *MessageStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.car_id, m.sender_id, m.receiver_id, m.message, m.read, m.created_at,
		       COALESCE(c.title, ''), COALESCE(c.images, '[]'::jsonb),
		       COALESCE(sp.full_name, ''), COALESCE(rp.full_name, '')
		FROM messages m
		LEFT JOIN cars c ON c.id = m.car_id
		LEFT JOIN profiles sp ON sp.id = m.sender_id
		LEFT JOIN profiles rp ON rp.id = m.receiver_id
		WHERE m.sender_id = $1 OR m.receiver_id = $1
		ORDER BY m.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(
			&m.ID, &m.CarID, &m.SenderID, &m.ReceiverID, &m.Body, &m.Read, &m.CreatedAt,
			&m.CarTitle, &m.CarImages, &m.SenderName, &m.ReceiverName,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// FindByID retrieves a message. Returns nil if not found.
func (s *MessageStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var m models.Message
	err := s.db.QueryRowContext(ctx, `
		SELECT id, car_id, sender_id, receiver_id, message, read, created_at
		FROM messages WHERE id = $1
	`, id).Scan(&m.ID, &m.CarID, &m.SenderID, &m.ReceiverID, &m.Body, &m.Read, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find message: %w", err)
	}
	return &m, nil
}

// MarkRead flags a message as read. Only the receiver may do so; any other
// caller gets ErrNotFound.
func (s *MessageStore) MarkRead(ctx context.Context, id, receiverID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE messages SET read = TRUE WHERE id = $1 AND receiver_id = $2
	`, id, receiverID)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}
	return expectAffected(res, "mark message read")
}

// CountUnread returns how many messages addressed to userID are unread.
func (s *MessageStore) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND read = FALSE
	`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return n, nil
}

// InConversation reports whether a and b have already exchanged a message
// about carID, in either direction.
func (s *MessageStore) InConversation(ctx context.Context, carID, a, b uuid.UUID) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM messages
			WHERE car_id = $1
			  AND ((sender_id = $2 AND receiver_id = $3) OR (sender_id = $3 AND receiver_id = $2))
		)
	`, carID, a, b).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check conversation: %w", err)
	}
	return ok, nil
}
