// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the hubrun TUI.
//
// Components are plain renderers: they hold styling and layout state but
// no download state of their own. The view hands them the tracker's
// snapshots each frame.
//
// # Key Types
//
//   - DownloadList: the download table, grouped by status with selection
//   - ProgressBar: fixed-width ASCII progress bar
//   - StatusBar: footer with daemon state, counts, and key hints
//   - ToastManager: non-blocking corner notifications
//   - Spinner: loading indicator for the initial fetch
//
// # Usage
//
//	list := components.NewDownloadList(theme, tracker)
//	fmt.Print(list.View(tracker.All()))
package components
