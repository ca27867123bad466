// hubrun TUI - a terminal dashboard for hubd model downloads.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/hubrun-tui/internal/catalog"
	"github.com/jeranaias/hubrun-tui/internal/cli"
	"github.com/jeranaias/hubrun-tui/internal/config"
	"github.com/jeranaias/hubrun-tui/internal/downloads"
	"github.com/jeranaias/hubrun-tui/internal/hub"
	"github.com/jeranaias/hubrun-tui/internal/storage"
	"github.com/jeranaias/hubrun-tui/internal/ui/hubview"
	"github.com/jeranaias/hubrun-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.2.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	cfg, err := config.Load()
	if err != nil {
		// A broken config file should not lock the user out; defaults apply
		// and the warning points at the file.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx := context.Background()

	switch cmd {
	case cli.CmdTUI:
		runTUI(cfg, args)
	case cli.CmdList:
		exitOn(cli.HandleList(ctx, args, newHubClient(cfg, args)))
	case cli.CmdStart:
		exitOn(cli.HandleStart(ctx, args, newHubClient(cfg, args), newCatalogClient(cfg)))
	case cli.CmdPause:
		exitOn(cli.HandlePause(ctx, args, newHubClient(cfg, args)))
	case cli.CmdResume:
		exitOn(cli.HandleResume(ctx, args, newHubClient(cfg, args)))
	case cli.CmdCancel:
		exitOn(cli.HandleCancel(ctx, args, newHubClient(cfg, args)))
	case cli.CmdDelete:
		exitOn(cli.HandleDelete(ctx, args, newHubClient(cfg, args)))
	case cli.CmdStatus:
		exitOn(cli.HandleStatus(ctx, args, newHubClient(cfg, args)))
	case cli.CmdHistory:
		runHistory(cfg, args)
	case cli.CmdFitness:
		exitOn(cli.HandleFitness(args))
	case cli.CmdConfig:
		exitOn(cli.HandleConfig(args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		runTUI(cfg, args)
	}
}

// exitOn prints a command error and exits non-zero.
func exitOn(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newHubClient builds a daemon client from config, with the --hub flag
// taking precedence over hub.base_url.
func newHubClient(cfg *config.Config, args cli.Args) *hub.Client {
	cc := hub.DefaultConfig()
	if cfg != nil {
		if cfg.Hub.BaseURL != "" {
			cc.BaseURL = cfg.Hub.BaseURL
		}
		if cfg.Hub.TimeoutSecs > 0 {
			cc.Timeout = time.Duration(cfg.Hub.TimeoutSecs) * time.Second
		}
	}
	if args.HubURL != "" {
		cc.BaseURL = args.HubURL
	}
	return hub.NewClientWithConfig(cc)
}

// newCatalogClient builds a catalog client from config.
func newCatalogClient(cfg *config.Config) *catalog.Client {
	if cfg != nil && cfg.Catalog.BaseURL != "" {
		return catalog.NewClientWithBaseURL(cfg.Catalog.BaseURL)
	}
	return catalog.NewClient()
}

// openHistory opens the download history store when enabled. A nil return
// with nil error means history is disabled.
func openHistory(cfg *config.Config) (*storage.History, error) {
	if cfg == nil || !cfg.History.Enabled {
		return nil, nil
	}
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	return storage.OpenHistory(path, cfg.History.Keep)
}

// runHistory handles the history command, which needs the local store
// rather than the daemon.
func runHistory(cfg *config.Config, args cli.Args) {
	hist, err := openHistory(cfg)
	if err != nil {
		exitOn(err)
	}
	if hist == nil {
		fmt.Fprintln(os.Stderr, "History is disabled. Enable it with: hubrun config set history.enabled true")
		os.Exit(1)
	}
	defer hist.Close()
	exitOn(cli.HandleHistory(args, hist))
}

// runTUI starts the dashboard.
func runTUI(cfg *config.Config, args cli.Args) {
	client := newHubClient(cfg, args)

	// Launch the daemon if configured to and it is not already up. Failure
	// is not fatal: the dashboard shows daemon state and recovers when it
	// comes back.
	if cfg == nil || cfg.Hub.Autostart {
		startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		_ = client.EnsureRunning(startCtx)
		cancel()
	}

	hist, err := openHistory(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history store unavailable: %v\n", err)
		hist = nil
	}
	if hist != nil {
		defer hist.Close()
	}

	interval := time.Second
	if cfg != nil && cfg.Poll.IntervalMS > 0 {
		interval = time.Duration(cfg.Poll.IntervalMS) * time.Millisecond
	}

	var recorder downloads.HistoryRecorder
	if hist != nil {
		recorder = hist
	}
	tracker := downloads.NewTrackerWithOptions(client, interval, recorder)
	defer tracker.Close()

	theme := themeFromConfig(cfg)
	m := hubview.New(tracker, newCatalogClient(cfg), client, theme, interval)

	// Reload the in-memory config when the file changes on disk. Edits to
	// connection or poll settings still need a restart; everything read
	// through config.Global() picks up immediately.
	if path, err := config.ConfigPathTOML(); err == nil {
		if w, werr := config.NewWatcher(path, 0, nil); werr == nil {
			if w.Watch() == nil {
				defer w.Close()
			}
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running hubrun: %v\n", err)
		os.Exit(1)
	}
}

// themeFromConfig resolves ui.theme into a concrete theme. "auto" (or
// anything unrecognized) defers to terminal background detection.
func themeFromConfig(cfg *config.Config) *styles.Theme {
	if cfg != nil {
		switch cfg.UI.Theme {
		case "dark":
			return styles.NewThemeWithBackground(true)
		case "light":
			return styles.NewThemeWithBackground(false)
		}
	}
	return styles.NewTheme()
}
