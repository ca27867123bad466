// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package hubview provides the download manager view for the TUI.
//
// This file defines the Bubble Tea commands that bridge the view to the
// tracker and the catalog. Every network call happens inside a command,
// never inside Update.
package hubview

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/hubrun-tui/internal/catalog"
)

// commandTimeout bounds every daemon command issued from the UI.
const commandTimeout = 30 * time.Second

// tickCmd schedules the next refresh tick.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// refreshCmd re-reads the daemon's download table through the tracker.
func (m *Model) refreshCmd() tea.Cmd {
	tracker := m.tracker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return RefreshedMsg{Err: tracker.Refresh(ctx)}
	}
}

// checkDaemonCmd probes the daemon's health endpoint.
func (m *Model) checkDaemonCmd() tea.Cmd {
	health := m.health
	return func() tea.Msg {
		if health == nil {
			return DaemonStatusMsg{Up: true}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := health.CheckRunning(ctx)
		return DaemonStatusMsg{Up: err == nil, Err: err}
	}
}

// commandCmd runs one pause/resume/cancel/delete against the tracker.
func (m *Model) commandCmd(op, id string) tea.Cmd {
	tracker := m.tracker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		var err error
		switch op {
		case "pause":
			err = tracker.Pause(ctx, id)
		case "resume":
			err = tracker.Resume(ctx, id)
		case "cancel":
			err = tracker.Cancel(ctx, id)
		case "delete":
			err = tracker.Delete(ctx, id)
		}
		return CommandDoneMsg{Op: op, ID: id, Err: err}
	}
}

// resolveCatalogCmd looks up a model in the catalog before starting its
// download.
func (m *Model) resolveCatalogCmd(repoID, quant string) tea.Cmd {
	cat := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		model, err := cat.Model(ctx, repoID)
		if err != nil {
			return CatalogResolvedMsg{Err: err}
		}
		return CatalogResolvedMsg{Model: model, Quant: quant}
	}
}

// startDownloadCmd asks the daemon to begin downloading the chosen files.
func (m *Model) startDownloadCmd(model *catalog.Model, files []string) tea.Cmd {
	tracker := m.tracker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		id, err := tracker.Start(ctx, model.ID, model.ModelType(), files)
		return StartDoneMsg{ID: id, Err: err}
	}
}
