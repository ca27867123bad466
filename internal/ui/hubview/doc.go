// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package hubview provides the download manager view for the hubrun TUI.
//
// The view is a Bubble Tea model layered over the downloads tracker. It
// never talks to the daemon directly: key presses become tracker calls
// wrapped in tea.Cmd, and a periodic tick re-reads the download table so
// the screen converges on whatever the daemon reports.
//
// # Key Types
//
//   - Model: the Bubble Tea model (Init, Update, View)
//   - KeyMap: keyboard bindings with built-in help text
//   - State: loading, list, add prompt, delete confirmation
//
// # Usage
//
//	view := hubview.New(tracker, catalogClient, hubClient, theme, 2*time.Second)
//	p := tea.NewProgram(view, tea.WithAltScreen())
//	_, err := p.Run()
package hubview
