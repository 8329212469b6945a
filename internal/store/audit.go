// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// audit.go records admin moderation actions (status changes, featuring,
// deletions, role changes) for later review.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// AuditStore handles the audit_log table.
type AuditStore struct {
	db *sql.DB
}

// NewAuditStore creates a new AuditStore.
func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

// Log records an admin action. Failures are logged and swallowed; auditing
// never blocks the action it describes.
func (s *AuditStore) Log(ctx context.Context, actorID uuid.UUID, entityType string, entityID uuid.UUID, action string) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (actor_id, entity_type, entity_id, action)
		VALUES ($1, $2, $3, $4)
	`, actorID, entityType, entityID, action)
	if err != nil {
		slog.Warn("failed to write audit log",
			"actor_id", actorID,
			"entity_type", entityType,
			"entity_id", entityID,
			"action", action,
			"error", err,
		)
		return
	}
	slog.Debug("audit logged",
		"entity_type", entityType,
		"entity_id", entityID,
		"action", action,
	)
}

// AuditEntry is a single audit_log row.
type AuditEntry struct {
	ID         uuid.UUID
	ActorID    uuid.NullUUID
	EntityType string
	EntityID   uuid.NullUUID
	Action     string
	CreatedAt  time.Time
}

// Recent returns the most recent audit entries, newest first.
func (s *AuditStore) Recent(ctx context.Context, limit int) ([]AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor_id, entity_type, entity_id, action, created_at
		FROM audit_log
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.EntityType, &e.EntityID, &e.Action, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
