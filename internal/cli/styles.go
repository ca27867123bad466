// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styling for all hubrun CLI commands.
//
// Every command renders through these styles so output stays consistent
// and color handling (TTY detection, NO_COLOR) lives in one place.
package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// init configures lipgloss color profile based on terminal capabilities.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle is used for command titles and headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	// SectionStyle is used for section headers within commands.
	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")). // White
			MarginTop(1)

	// LabelStyle is used for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Light gray
			Width(16)

	// ValueStyle is used for field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	// SuccessStyle is used for success messages.
	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")) // Green

	// ErrorStyle is used for error messages.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	// WarningStyle is used for warnings.
	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")) // Amber

	// DimStyle is used for hints and secondary text.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	// DownloadingStyle colors in-flight downloads.
	DownloadingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")) // Cyan

	// PausedStyle colors paused downloads.
	PausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Amber

	// ReadyStyle colors completed downloads.
	ReadyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // Green

	// FailedStyle colors failed downloads.
	FailedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // Red
)

// =============================================================================
// RENDER HELPERS
// =============================================================================

// RenderLabel renders a right-padded label for aligned key/value output.
func RenderLabel(label string, width int) string {
	return LabelStyle.Width(width).Render(label)
}

// RenderSeparator renders a horizontal rule of the given width.
func RenderSeparator(width int) string {
	if width <= 0 {
		width = 50
	}
	return DimStyle.Render(strings.Repeat("-", width))
}

// StatusStyleFor returns the style for a daemon download status string.
func StatusStyleFor(status string) lipgloss.Style {
	switch status {
	case "downloading":
		return DownloadingStyle
	case "paused":
		return PausedStyle
	case "ready":
		return ReadyStyle
	case "error":
		return FailedStyle
	default:
		return DimStyle
	}
}
