// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for hubrun.
//
// # Key Functions
//
// String Utilities:
//   - TruncateWidth: column-aware truncation with ellipsis (CJK safe)
//   - PadRight, StringWidth: column-aware padding and measurement
//   - FormatBytes, FormatProgress: human-readable byte counts
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Truncate long identifiers for a fixed-width column
//	display := util.TruncateWidth(downloadID, 40)
//
//	// Render progress for the status line
//	line := util.FormatProgress(downloaded, total)
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0600)
package util
