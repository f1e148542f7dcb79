// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache_log.go records invalidation events in the database for audit and
// debugging: which article or author mutation cleared caches and which
// static pages it touched. Each write is best-effort and never fails the
// triggering mutation.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CacheLogStore handles invalidation audit log operations.
type CacheLogStore struct {
	db *sql.DB
}

// NewCacheLogStore creates a new CacheLogStore.
func NewCacheLogStore(db *sql.DB) *CacheLogStore {
	return &CacheLogStore{db: db}
}

// Log records an invalidation event. pagesInvalidated lists the static
// paths the mutation regenerated, empty when only the response cache was
// cleared.
func (s *CacheLogStore) Log(entityType string, entityID uuid.UUID, action string, pagesInvalidated []string) {
	_, err := s.db.Exec(`
		INSERT INTO invalidation_log (entity_type, entity_id, action, pages)
		VALUES ($1, $2, $3, $4)
	`, entityType, entityID, action, strings.Join(pagesInvalidated, ","))
	if err != nil {
		// Log but don't fail, audit logging is best-effort.
		slog.Warn("failed to log invalidation",
			"entity_type", entityType,
			"entity_id", entityID,
			"action", action,
			"error", err,
		)
		return
	}
	slog.Debug("invalidation logged",
		"entity_type", entityType,
		"entity_id", entityID,
		"action", action,
		"pages", len(pagesInvalidated),
	)
}

// RecentEntries returns the most recent invalidation events for
// debugging. Limited to the specified count.
func (s *CacheLogStore) RecentEntries(limit int) ([]CacheLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, entity_type, entity_id, action, pages, invalidated_at
		FROM invalidation_log
		ORDER BY invalidated_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query invalidation log: %w", err)
	}
	defer rows.Close()

	var entries []CacheLogEntry
	for rows.Next() {
		var e CacheLogEntry
		var pages string
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &pages, &e.InvalidatedAt); err != nil {
			return nil, fmt.Errorf("scan invalidation log: %w", err)
		}
		if pages != "" {
			e.Pages = strings.Split(pages, ",")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CacheLogEntry represents a single invalidation event.
type CacheLogEntry struct {
	ID            int64
	EntityType    string
	EntityID      uuid.UUID
	Action        string
	Pages         []string
	InvalidatedAt time.Time
}
