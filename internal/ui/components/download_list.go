// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/hubrun-tui/internal/hub"
	"github.com/jeranaias/hubrun-tui/internal/ui/styles"
	"github.com/jeranaias/hubrun-tui/internal/util"
)

// =============================================================================
// DOWNLOAD LIST COMPONENT
// =============================================================================

// ProgressSource reports live byte progress for a download, when a poller
// has fresher numbers than the last full refresh.
type ProgressSource interface {
	Progress(id string) (hub.ProgressResponse, bool)
}

// DownloadList renders the daemon's download table grouped by status.
type DownloadList struct {
	theme    *styles.Theme
	progress ProgressSource
	bar      *ProgressBar
	width    int
	height   int

	selected int
	visible  []string
}

// NewDownloadList creates a new download list component.
func NewDownloadList(theme *styles.Theme, progress ProgressSource) *DownloadList {
	return &DownloadList{
		theme:    theme,
		progress: progress,
		bar:      NewProgressBar(theme, 20),
		width:    80,
	}
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// SetSize sets the component dimensions.
func (dl *DownloadList) SetSize(width, height int) {
	dl.width = width
	dl.height = height
	barWidth := 20
	if width < 70 {
		barWidth = 10
	}
	dl.bar.SetWidth(barWidth)
}

// =============================================================================
// SELECTION
// =============================================================================

// MoveUp moves the selection up one row.
func (dl *DownloadList) MoveUp() {
	if dl.selected > 0 {
		dl.selected--
	}
}

// MoveDown moves the selection down one row.
func (dl *DownloadList) MoveDown() {
	if dl.selected < len(dl.visible)-1 {
		dl.selected++
	}
}

// SelectedID returns the identifier of the selected row, or "" when the
// list is empty.
func (dl *DownloadList) SelectedID() string {
	if dl.selected >= 0 && dl.selected < len(dl.visible) {
		return dl.visible[dl.selected]
	}
	return ""
}

// =============================================================================
// RENDERING
// =============================================================================

// sectionOrder fixes the display order of status groups.
var sectionOrder = []struct {
	status hub.Status
	title  string
}{
	{hub.StatusDownloading, "Downloading"},
	{hub.StatusPaused, "Paused"},
	{hub.StatusError, "Failed"},
	{hub.StatusReady, "Ready"},
}

// View renders the download table. Records must already be sorted; the
// list preserves their order within each section and rebuilds the visible
// row index used for selection.
func (dl *DownloadList) View(records []hub.DownloadRecord) string {
	dl.visible = dl.visible[:0]

	if len(records) == 0 {
		return dl.theme.ListEmpty.Render("No downloads. Press 'a' to add a model.")
	}

	byStatus := make(map[hub.Status][]hub.DownloadRecord, 4)
	for _, rec := range records {
		byStatus[rec.Status] = append(byStatus[rec.Status], rec)
	}

	var b strings.Builder
	first := true
	for _, section := range sectionOrder {
		group := byStatus[section.status]
		if len(group) == 0 {
			continue
		}
		if !first {
			b.WriteString("\n")
		}
		first = false

		title := fmt.Sprintf("%s (%d)", section.title, len(group))
		b.WriteString(dl.theme.ListSection.Render(title))
		b.WriteString("\n")

		for _, rec := range group {
			row := dl.renderRow(rec)
			if len(dl.visible) == dl.selected {
				row = dl.theme.ListRowSelected.Render(row)
			} else {
				row = dl.theme.ListRow.Render(row)
			}
			dl.visible = append(dl.visible, rec.ID)
			b.WriteString(row)
			b.WriteString("\n")
		}
	}

	// Clamp the cursor when rows disappeared between refreshes.
	if dl.selected >= len(dl.visible) {
		dl.selected = len(dl.visible) - 1
	}
	if dl.selected < 0 {
		dl.selected = 0
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderRow renders a single download row.
func (dl *DownloadList) renderRow(rec hub.DownloadRecord) string {
	icon := dl.theme.StatusStyle(rec.Status.String()).Render(styles.StatusIcon(rec.Status.String()))

	idWidth := dl.width / 3
	if idWidth < 16 {
		idWidth = 16
	}
	id := dl.theme.ListID.Render(util.PadRight(util.TruncateWidth(rec.ID, idWidth), idWidth))

	switch rec.Status {
	case hub.StatusDownloading:
		downloaded, total := rec.Downloaded, rec.Total
		if dl.progress != nil {
			if prog, ok := dl.progress.Progress(rec.ID); ok {
				downloaded, total = prog.Downloaded, prog.Total
			}
		}
		var bar string
		if total > 0 {
			bar = dl.bar.View(float64(downloaded) / float64(total))
		} else {
			bar = dl.bar.ViewIndeterminate()
		}
		bytes := dl.theme.ListMeta.Render(util.FormatProgress(downloaded, total))
		return fmt.Sprintf("%s %s %s %s", icon, id, bar, bytes)

	case hub.StatusPaused:
		meta := dl.theme.ListMeta.Render(util.FormatProgress(rec.Downloaded, rec.Total))
		return fmt.Sprintf("%s %s %s", icon, id, meta)

	case hub.StatusError:
		return fmt.Sprintf("%s %s %s", icon, id, dl.theme.StatusError.Render("failed"))

	case hub.StatusReady:
		meta := dl.theme.ListMeta.Render(util.FormatBytes(rec.Total))
		return fmt.Sprintf("%s %s %s", icon, id, meta)

	default:
		return fmt.Sprintf("%s %s", icon, id)
	}
}
