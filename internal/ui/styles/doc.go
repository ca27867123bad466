// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the hubrun TUI.
//
// All colors are lipgloss.AdaptiveColor pairs so the UI renders sensibly
// on both light and dark terminals without configuration. The Theme type
// bundles every style the views need; construct one at startup and pass
// it down.
//
// # Key Types
//
//   - Theme: all configured lipgloss styles for the application
//   - StatusIndicatorSet: ASCII shape indicators per download state
//
// # Usage
//
//	theme := styles.NewTheme()
//	row := theme.StatusStyle("downloading").Render("[>] org/Model-Q4")
//
// When the config pins a theme, bypass terminal detection:
//
//	theme := styles.NewThemeWithBackground(true) // dark
package styles
