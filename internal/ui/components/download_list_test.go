// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/hubrun-tui/internal/hub"
	"github.com/jeranaias/hubrun-tui/internal/ui/styles"
)

type fakeProgress struct {
	byID map[string]hub.ProgressResponse
}

func (f *fakeProgress) Progress(id string) (hub.ProgressResponse, bool) {
	p, ok := f.byID[id]
	return p, ok
}

func testRecords() []hub.DownloadRecord {
	return []hub.DownloadRecord{
		{ID: "a/ready-model", Status: hub.StatusReady, Downloaded: 100, Total: 100, Percentage: 100},
		{ID: "b/active-model", Status: hub.StatusDownloading, Downloaded: 50, Total: 100},
		{ID: "c/paused-model", Status: hub.StatusPaused, Downloaded: 25, Total: 100},
		{ID: "d/failed-model", Status: hub.StatusError},
	}
}

func TestDownloadListGroupsByStatus(t *testing.T) {
	dl := NewDownloadList(styles.NewThemeWithBackground(true), nil)
	out := dl.View(testRecords())

	require.Contains(t, out, "Downloading (1)")
	require.Contains(t, out, "Paused (1)")
	require.Contains(t, out, "Failed (1)")
	require.Contains(t, out, "Ready (1)")

	// Sections appear in fixed order regardless of input order.
	down := strings.Index(out, "Downloading")
	paused := strings.Index(out, "Paused")
	failed := strings.Index(out, "Failed")
	ready := strings.Index(out, "Ready")
	assert.Less(t, down, paused)
	assert.Less(t, paused, failed)
	assert.Less(t, failed, ready)
}

func TestDownloadListEmpty(t *testing.T) {
	dl := NewDownloadList(styles.NewThemeWithBackground(true), nil)
	out := dl.View(nil)
	assert.Contains(t, out, "No downloads")
	assert.Equal(t, "", dl.SelectedID())
}

func TestDownloadListSelection(t *testing.T) {
	dl := NewDownloadList(styles.NewThemeWithBackground(true), nil)
	dl.View(testRecords())

	// First visible row is the downloading one (section order, not input order).
	assert.Equal(t, "b/active-model", dl.SelectedID())

	dl.MoveDown()
	assert.Equal(t, "c/paused-model", dl.SelectedID())
	dl.MoveDown()
	assert.Equal(t, "d/failed-model", dl.SelectedID())
	dl.MoveDown()
	assert.Equal(t, "a/ready-model", dl.SelectedID())

	// Cannot move past the end.
	dl.MoveDown()
	assert.Equal(t, "a/ready-model", dl.SelectedID())

	dl.MoveUp()
	dl.MoveUp()
	dl.MoveUp()
	assert.Equal(t, "b/active-model", dl.SelectedID())
	dl.MoveUp()
	assert.Equal(t, "b/active-model", dl.SelectedID())
}

func TestDownloadListSelectionClampsWhenRowsVanish(t *testing.T) {
	dl := NewDownloadList(styles.NewThemeWithBackground(true), nil)
	dl.View(testRecords())
	dl.MoveDown()
	dl.MoveDown()
	dl.MoveDown()

	// Shrink to a single record; the cursor must land on it.
	dl.View([]hub.DownloadRecord{{ID: "only/one", Status: hub.StatusReady}})
	dl.View([]hub.DownloadRecord{{ID: "only/one", Status: hub.StatusReady}})
	assert.Equal(t, "only/one", dl.SelectedID())
}

func TestDownloadListUsesLiveProgress(t *testing.T) {
	src := &fakeProgress{byID: map[string]hub.ProgressResponse{
		"b/active-model": {Downloaded: 90, Total: 100},
	}}
	dl := NewDownloadList(styles.NewThemeWithBackground(true), src)
	out := dl.View(testRecords())

	// The poller's fresher numbers win over the stale table row.
	assert.Contains(t, out, "90.0%")
	assert.NotContains(t, out, "50.0%")
}

func TestDownloadListUnknownTotal(t *testing.T) {
	dl := NewDownloadList(styles.NewThemeWithBackground(true), nil)
	out := dl.View([]hub.DownloadRecord{
		{ID: "x/unsized", Status: hub.StatusDownloading, Downloaded: 1024, Total: 0},
	})
	// Indeterminate bar, plain byte count.
	assert.Contains(t, out, "1.0 KiB")
	assert.NotContains(t, out, "%")
}
