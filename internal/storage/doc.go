// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local download history for hubrun.
//
// The hub daemon forgets a download once its model is deleted; this package
// keeps a durable record of completed and deleted downloads in a SQLite
// database so the TUI and CLI can show what happened in the past.
//
// # Key Types
//
//   - History: SQLite-backed event store
//   - Event: one completed or deleted download
//
// # Usage
//
// Open the store and record events:
//
//	h, err := storage.OpenHistory(path, 500)
//	err = h.RecordCompleted("org/Model-Q4", 1_200_000_000, 1_200_000_000)
//
// Query it:
//
//	events, err := h.Recent(50)
//	events, err := h.ForDownload("org/Model-Q4")
//
// # Storage Location
//
// The database lives at ~/.hubrun/history.db by default.
package storage
