// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/hubrun-tui/internal/ui/styles"
)

// =============================================================================
// PROGRESS BAR COMPONENT
// =============================================================================

// ProgressBar renders a fixed-width ASCII progress bar.
type ProgressBar struct {
	theme *styles.Theme
	width int

	// ShowPercent appends "45.0%" after the bar.
	ShowPercent bool
}

// NewProgressBar creates a progress bar with the given inner width.
func NewProgressBar(theme *styles.Theme, width int) *ProgressBar {
	if width < 4 {
		width = 4
	}
	return &ProgressBar{
		theme:       theme,
		width:       width,
		ShowPercent: true,
	}
}

// SetWidth sets the inner width of the bar (excluding brackets).
func (pb *ProgressBar) SetWidth(width int) {
	if width < 4 {
		width = 4
	}
	pb.width = width
}

// View renders the bar for a fraction in the 0..1 range.
// Out-of-range fractions are clamped.
func (pb *ProgressBar) View(fraction float64) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	filled := int(fraction * float64(pb.width))
	if filled > pb.width {
		filled = pb.width
	}

	var b strings.Builder
	b.WriteString("[")
	if filled > 0 {
		segment := strings.Repeat("=", filled)
		// Arrow head while in flight, solid when full.
		if filled < pb.width {
			segment = segment[:filled-1] + ">"
		}
		b.WriteString(pb.theme.ProgressFilled.Render(segment))
	}
	if filled < pb.width {
		b.WriteString(pb.theme.ProgressEmpty.Render(strings.Repeat("-", pb.width-filled)))
	}
	b.WriteString("]")

	if pb.ShowPercent {
		b.WriteString(" ")
		b.WriteString(pb.theme.ProgressPercent.Render(fmt.Sprintf("%5.1f%%", fraction*100)))
	}

	return b.String()
}

// ViewIndeterminate renders a bar for a download whose total size is not
// yet known.
func (pb *ProgressBar) ViewIndeterminate() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(pb.theme.ProgressEmpty.Render(strings.Repeat("-", pb.width)))
	b.WriteString("]")
	if pb.ShowPercent {
		b.WriteString(" ")
		b.WriteString(pb.theme.ProgressPercent.Render("    ?"))
	}
	return b.String()
}
