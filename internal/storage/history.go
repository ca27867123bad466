// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed = errors.New("history database is closed")
)

// =============================================================================
// SCHEMA
// =============================================================================

const historySchema = `
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
) WITHOUT ROWID;

-- Terminal download events, newest first by created_at
CREATE TABLE IF NOT EXISTS download_events (
    id TEXT PRIMARY KEY,            -- event uuid
    download_id TEXT NOT NULL,      -- daemon unique id
    event TEXT NOT NULL,            -- completed | deleted
    downloaded INTEGER NOT NULL DEFAULT 0,
    total INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL     -- unix milliseconds
);

CREATE INDEX IF NOT EXISTS idx_events_download_id ON download_events(download_id);
CREATE INDEX IF NOT EXISTS idx_events_created_at ON download_events(created_at);

INSERT OR IGNORE INTO metadata (key, value) VALUES ('schema_version', '1');
`

// Event kinds stored in download_events.event.
const (
	EventCompleted = "completed"
	EventDeleted   = "deleted"
)

// =============================================================================
// HISTORY STORE
// =============================================================================

// Event is one terminal download event.
type Event struct {
	ID         string
	DownloadID string
	Event      string
	Downloaded int64
	Total      int64
	CreatedAt  time.Time
}

// History is a local record of finished and deleted downloads, kept in a
// SQLite database. The daemon forgets deleted downloads; this is the only
// place that remembers them.
type History struct {
	db   *sql.DB
	keep int
}

// OpenHistory opens (creating if needed) the history database at path.
// keep bounds how many events are retained; 0 means unlimited.
func OpenHistory(path string, keep int) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// SQLite supports one writer at a time; a single pooled connection
	// sidesteps SQLITE_BUSY entirely.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &History{db: db, keep: keep}, nil
}

// Close closes the database.
func (h *History) Close() error {
	if h.db == nil {
		return ErrClosed
	}
	err := h.db.Close()
	h.db = nil
	return err
}

// =============================================================================
// RECORDING
// =============================================================================

// RecordCompleted records that a download finished with the given byte
// counts.
func (h *History) RecordCompleted(id string, downloaded, total int64) error {
	return h.record(EventCompleted, id, downloaded, total)
}

// RecordDeleted records that a model was deleted from the daemon.
func (h *History) RecordDeleted(id string) error {
	return h.record(EventDeleted, id, 0, 0)
}

func (h *History) record(event, downloadID string, downloaded, total int64) error {
	if h.db == nil {
		return ErrClosed
	}

	_, err := h.db.Exec(
		`INSERT INTO download_events (id, download_id, event, downloaded, total, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), downloadID, event, downloaded, total, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to record %s event: %w", event, err)
	}
	return h.prune()
}

// prune drops the oldest events beyond the retention bound.
func (h *History) prune() error {
	if h.keep <= 0 {
		return nil
	}
	_, err := h.db.Exec(
		`DELETE FROM download_events WHERE id NOT IN (
		     SELECT id FROM download_events ORDER BY created_at DESC, id LIMIT ?
		 )`, h.keep)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	return nil
}

// =============================================================================
// QUERIES
// =============================================================================

// Recent returns up to limit events, newest first.
func (h *History) Recent(limit int) ([]Event, error) {
	if h.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := h.db.Query(
		`SELECT id, download_id, event, downloaded, total, created_at
		 FROM download_events ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ForDownload returns every recorded event for one download id, newest
// first.
func (h *History) ForDownload(downloadID string) ([]Event, error) {
	if h.db == nil {
		return nil, ErrClosed
	}

	rows, err := h.db.Query(
		`SELECT id, download_id, event, downloaded, total, created_at
		 FROM download_events WHERE download_id = ?
		 ORDER BY created_at DESC, id`, downloadID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Count returns the number of stored events.
func (h *History) Count() (int, error) {
	if h.db == nil {
		return 0, ErrClosed
	}
	var n int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM download_events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var out []Event
	for rows.Next() {
		var ev Event
		var createdMilli int64
		if err := rows.Scan(&ev.ID, &ev.DownloadID, &ev.Event, &ev.Downloaded, &ev.Total, &createdMilli); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.CreatedAt = time.UnixMilli(createdMilli)
		out = append(out, ev)
	}
	return out, rows.Err()
}
