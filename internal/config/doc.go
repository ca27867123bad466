// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// hubrun.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - HubConfig: Daemon connection settings (URL, timeout, autostart)
//   - PollConfig: Progress polling cadence
//   - HistoryConfig: Local download history database
//   - Watcher: Live reload of the global config on file change
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (HUBRUN_*)
//   - ~/.hubrun/config.toml
//   - ~/.hubrun/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	baseURL := cfg.Hub.BaseURL
//	interval := time.Duration(cfg.Poll.IntervalMS) * time.Millisecond
package config
