// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"path/filepath"
	"testing"
)

func openTestHistory(t *testing.T, keep int) *History {
	t.Helper()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "history.db"), keep)
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistoryRecordAndRecent(t *testing.T) {
	h := openTestHistory(t, 0)

	if err := h.RecordCompleted("org/a", 1000, 1000); err != nil {
		t.Fatalf("RecordCompleted: %v", err)
	}
	if err := h.RecordDeleted("org/b"); err != nil {
		t.Fatalf("RecordDeleted: %v", err)
	}

	events, err := h.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Newest first.
	if events[0].DownloadID != "org/b" || events[0].Event != EventDeleted {
		t.Errorf("newest event = %+v", events[0])
	}
	if events[1].DownloadID != "org/a" || events[1].Event != EventCompleted {
		t.Errorf("oldest event = %+v", events[1])
	}
	if events[1].Downloaded != 1000 || events[1].Total != 1000 {
		t.Errorf("byte counts not stored: %+v", events[1])
	}
	if events[0].ID == events[1].ID {
		t.Error("event ids must be unique")
	}
	if events[0].CreatedAt.IsZero() {
		t.Error("created_at must be set")
	}
}

func TestHistoryForDownload(t *testing.T) {
	h := openTestHistory(t, 0)

	_ = h.RecordCompleted("org/a", 10, 10)
	_ = h.RecordDeleted("org/a")
	_ = h.RecordCompleted("org/other", 5, 5)

	events, err := h.ForDownload("org/a")
	if err != nil {
		t.Fatalf("ForDownload: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events for org/a, got %d", len(events))
	}
	for _, ev := range events {
		if ev.DownloadID != "org/a" {
			t.Errorf("foreign event leaked in: %+v", ev)
		}
	}
}

func TestHistoryPrune(t *testing.T) {
	h := openTestHistory(t, 3)

	for i := 0; i < 6; i++ {
		if err := h.RecordDeleted("org/model"); err != nil {
			t.Fatalf("RecordDeleted: %v", err)
		}
	}

	n, err := h.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("retention bound not enforced: %d events kept", n)
	}
}

func TestHistoryClosed(t *testing.T) {
	h := openTestHistory(t, 0)
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := h.RecordDeleted("org/a"); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if _, err := h.Recent(1); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := h.Close(); err != ErrClosed {
		t.Errorf("double close should report ErrClosed, got %v", err)
	}
}

func TestHistoryReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	h, err := OpenHistory(path, 0)
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	_ = h.RecordCompleted("org/a", 1, 1)
	h.Close()

	h2, err := OpenHistory(path, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer h2.Close()

	events, err := h2.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("events should survive reopen, got %d", len(events))
	}
}
