// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package hub provides the HTTP client for communicating with the local
// model-hub daemon.
package hub

import (
	"strings"
	"time"
)

// =============================================================================
// DOWNLOAD STATUS
// =============================================================================

// Status is the daemon-owned state of a download. The client never invents a
// status; it only mirrors what the daemon reports.
type Status string

const (
	// StatusDownloading indicates bytes are actively being fetched.
	StatusDownloading Status = "downloading"

	// StatusPaused indicates the download is suspended and resumable.
	StatusPaused Status = "paused"

	// StatusError indicates the daemon hit a failure for this download.
	StatusError Status = "error"

	// StatusReady indicates all files are on disk and verified.
	StatusReady Status = "ready"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsActive reports whether the record belongs in the active view.
// Paused and errored downloads count as active alongside downloading ones;
// the overlap with the dedicated paused/error views is intentional.
func (s Status) IsActive() bool {
	return s == StatusDownloading || s == StatusPaused || s == StatusError
}

// IsTerminal reports whether the daemon will make no further progress on
// this record without a new command.
func (s Status) IsTerminal() bool {
	return s == StatusReady || s == StatusError
}

// =============================================================================
// DOWNLOAD RECORD
// =============================================================================

// DownloadRecord is the daemon-reported state for one identifier.
type DownloadRecord struct {
	// ID is the stable unique identifier for the download. When decoding the
	// full list it is filled from the map key if the body omits it.
	ID string `json:"id"`

	// ModelID is the original catalog identifier, when the daemon knows it.
	ModelID string `json:"model_id,omitempty"`

	// Downloaded and Total are byte counts. Total may be 0 before the daemon
	// has determined the download size.
	Downloaded int64 `json:"downloaded"`
	Total      int64 `json:"total"`

	// Status is owned by the daemon.
	Status Status `json:"status"`

	// Percentage is the daemon-reported completion percentage (0-100).
	Percentage float64 `json:"percentage"`

	// CreatedAt and UpdatedAt are optional daemon timestamps.
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// EffectivePercentage returns the daemon-reported percentage, or one derived
// from the byte counts when the daemon did not supply it.
func (r DownloadRecord) EffectivePercentage() float64 {
	if r.Percentage > 0 {
		return r.Percentage
	}
	if r.Total > 0 {
		return float64(r.Downloaded) / float64(r.Total) * 100.0
	}
	return 0
}

// Fraction returns progress in the 0..1 range for UI consumption.
func (r DownloadRecord) Fraction() float64 {
	f := r.EffectivePercentage() / 100.0
	if f > 1 {
		f = 1
	}
	if f < 0 {
		f = 0
	}
	return f
}

// ShortID returns a compact display form of the identifier: the part after
// the first '/', or the whole identifier if it has none.
func (r DownloadRecord) ShortID() string {
	if i := strings.Index(r.ID, "/"); i >= 0 && i+1 < len(r.ID) {
		return r.ID[i+1:]
	}
	return r.ID
}

// =============================================================================
// REQUEST / RESPONSE TYPES
// =============================================================================

// StartDownloadRequest asks the daemon to begin downloading a model.
type StartDownloadRequest struct {
	ModelID   string   `json:"model_id"`
	ModelType string   `json:"model_type"`
	Files     []string `json:"files"`
}

// StartDownloadResponse is the immediate (non-streaming) reply to a start
// request. Exactly one of Status and Error is meaningful.
type StartDownloadResponse struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// CommandResponse is the reply shape shared by pause/resume/cancel/delete.
// The daemon frequently returns an empty body for these; both fields are
// optional.
type CommandResponse struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ProgressResponse reports byte progress for one identifier.
type ProgressResponse struct {
	Downloaded int64 `json:"downloaded"`
	Total      int64 `json:"total"`
}

// Complete reports whether the daemon has finished writing all bytes.
// A zero Total means the size is not yet known and the download cannot be
// considered complete.
func (p ProgressResponse) Complete() bool {
	return p.Total > 0 && p.Downloaded >= p.Total
}

// daemonError is the JSON error envelope the daemon uses on failures.
type daemonError struct {
	Error string `json:"error"`
}
