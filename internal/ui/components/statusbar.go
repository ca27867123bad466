// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/hubrun-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar renders the single-line footer: daemon state, download counts,
// and key hints.
type StatusBar struct {
	theme *styles.Theme
	width int

	daemonUp    bool
	downloading int
	paused      int
	failed      int
	ready       int
}

// NewStatusBar creates a new status bar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme, width: 80}
}

// SetWidth sets the bar width.
func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// SetDaemonUp records whether the hub daemon answered its last health check.
func (sb *StatusBar) SetDaemonUp(up bool) {
	sb.daemonUp = up
}

// SetCounts updates the per-status download counts.
func (sb *StatusBar) SetCounts(downloading, paused, failed, ready int) {
	sb.downloading = downloading
	sb.paused = paused
	sb.failed = failed
	sb.ready = ready
}

// View renders the status bar.
func (sb *StatusBar) View() string {
	var left string
	if sb.daemonUp {
		left = sb.theme.DaemonUp.Render("hubd up")
	} else {
		left = sb.theme.DaemonDown.Render("hubd down")
	}

	counts := fmt.Sprintf("  %d active  %d paused  %d failed  %d ready",
		sb.downloading, sb.paused, sb.failed, sb.ready)
	left += sb.theme.ListMeta.Render(counts)

	hints := sb.renderHints([][2]string{
		{"a", "add"},
		{"p", "pause"},
		{"r", "resume"},
		{"x", "cancel"},
		{"?", "help"},
		{"q", "quit"},
	})

	gap := sb.width - lipgloss.Width(left) - lipgloss.Width(hints) - 2
	if gap < 1 {
		gap = 1
	}

	return sb.theme.StatusBar.Width(sb.width).Render(left + strings.Repeat(" ", gap) + hints)
}

// renderHints renders "key desc" pairs separated by two spaces.
func (sb *StatusBar) renderHints(pairs [][2]string) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, sb.theme.ShortcutKey.Render(p[0])+" "+sb.theme.ShortcutDesc.Render(p[1]))
	}
	return strings.Join(parts, "  ")
}
