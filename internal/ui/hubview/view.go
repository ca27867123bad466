// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package hubview provides the download manager view for the TUI.
package hubview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/hubrun-tui/internal/hub"
	"github.com/jeranaias/hubrun-tui/internal/ui/components"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the full screen.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch {
	case m.showHelp:
		b.WriteString(m.renderHelp())
	case m.state == StateLoading:
		b.WriteString(m.theme.Container.Render(m.spin.View()))
	case m.state == StateAdd:
		b.WriteString(m.renderAddPrompt())
	case m.state == StateConfirmDelete:
		b.WriteString(m.renderConfirmDelete())
	default:
		b.WriteString(m.theme.Container.Render(m.list.View(m.tracker.All())))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	out := b.String()

	if toasts := m.toasts.Active(); len(toasts) > 0 && m.width > 0 && m.height > 0 {
		// The toast stack overlays the bottom-right corner; rendering it
		// last keeps it on top visually without true compositing.
		out += "\n" + m.toastOverlay(toasts)
	}

	return out
}

// renderHeader renders the application title bar.
func (m *Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("hubrun")
	subtitle := m.theme.HeaderSubtitle.Render("  model downloads")
	return m.theme.Header.Width(max(m.width, 20)).Render(title + subtitle)
}

// renderStatusBar renders the footer with counts fed from the tracker.
func (m *Model) renderStatusBar() string {
	counts := map[hub.Status]int{}
	for _, rec := range m.tracker.All() {
		counts[rec.Status]++
	}
	m.statusBar.SetDaemonUp(m.daemonUp)
	m.statusBar.SetCounts(
		counts[hub.StatusDownloading],
		counts[hub.StatusPaused],
		counts[hub.StatusError],
		counts[hub.StatusReady],
	)
	return m.statusBar.View()
}

// renderAddPrompt renders the add-model input.
func (m *Model) renderAddPrompt() string {
	var b strings.Builder
	b.WriteString(m.theme.ListSection.Render("Add model"))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Container.Render(m.input.View()))
	b.WriteString("\n\n")
	b.WriteString(m.theme.ListMeta.Render("  Enter to download, Esc to cancel"))
	return b.String()
}

// renderConfirmDelete renders the delete confirmation prompt.
func (m *Model) renderConfirmDelete() string {
	box := m.theme.ErrorBox.Render(
		m.theme.ErrorTitle.Render("Delete "+m.pendingDelete+"?") + "\n" +
			m.theme.ErrorMessage.Render("This removes the model files from disk.") + "\n\n" +
			m.theme.ListMeta.Render("y/Enter to delete, n/Esc to keep"),
	)
	return m.theme.Container.Render(box)
}

// renderHelp renders the help overlay from the key map.
func (m *Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.HelpTitle.Render("Keyboard shortcuts"))
	b.WriteString("\n\n")

	for _, group := range m.keyMap.FullHelp() {
		for _, binding := range group {
			help := binding.Help()
			b.WriteString("  ")
			b.WriteString(m.theme.HelpKey.Render(padKey(help.Key, 10)))
			b.WriteString(" ")
			b.WriteString(m.theme.HelpDesc.Render(help.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.theme.ListMeta.Render("  press any key to close"))
	return m.theme.HelpBox.Render(b.String())
}

// toastOverlay renders the toast stack aligned to the right edge.
func (m *Model) toastOverlay(toasts []components.Toast) string {
	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, components.RenderToast(m.theme, t, m.width))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)
	return lipgloss.PlaceHorizontal(max(m.width, 1), lipgloss.Right, stack)
}

// padKey pads a key label to a fixed width for alignment.
func padKey(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
