// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package hubview provides the download manager view for the TUI.
//
// This file defines all Bubble Tea message types used by the download
// view. Messages are organized into the following categories:
//   - Refresh: download table fetches and the periodic redraw tick
//   - Daemon: health check results
//   - Commands: pause/resume/cancel/delete completions
//   - Add flow: catalog lookups and start results
//
// All message types follow Bubble Tea conventions and are immutable.
package hubview

import (
	"time"

	"github.com/jeranaias/hubrun-tui/internal/catalog"
)

// =============================================================================
// REFRESH MESSAGES
// =============================================================================

// RefreshedMsg reports the outcome of a download table refresh. The table
// itself lives in the tracker; this just triggers a redraw.
type RefreshedMsg struct {
	Err error
}

// TickMsg drives the periodic refresh-and-redraw cycle while the view is
// visible.
type TickMsg struct {
	Time time.Time
}

// =============================================================================
// DAEMON MESSAGES
// =============================================================================

// DaemonStatusMsg reports whether the hub daemon answered a health check.
type DaemonStatusMsg struct {
	Up  bool
	Err error
}

// =============================================================================
// COMMAND MESSAGES
// =============================================================================

// CommandDoneMsg reports completion of a pause, resume, cancel, or delete
// command.
type CommandDoneMsg struct {
	Op  string // "pause", "resume", "cancel", "delete"
	ID  string
	Err error
}

// =============================================================================
// ADD FLOW MESSAGES
// =============================================================================

// CatalogResolvedMsg delivers the catalog's view of a model the user asked
// to add.
type CatalogResolvedMsg struct {
	Model *catalog.Model
	Quant string // requested quantization filter, "" for all files
	Err   error
}

// StartDoneMsg reports the outcome of a start request. ID is the resolved
// identifier the daemon tracks the download under.
type StartDoneMsg struct {
	ID  string
	Err error
}
