// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package hub provides the HTTP client for communicating with the local
// model-hub daemon.
//
// The daemon owns all download state; this client is a thin, typed wrapper
// over its API. It never mutates state locally - it issues commands and
// reads back what the daemon reports.
//
// # Key Types
//
//   - Client: HTTP client for the daemon API
//   - DownloadRecord: daemon-reported state for one download
//   - Status: download status enumeration (downloading, paused, error, ready)
//   - ClientError: typed error with transport/daemon/decode categories
//
// # Usage
//
// Create a client and list downloads:
//
//	client := hub.NewClient()
//	if err := client.EnsureRunning(ctx); err != nil {
//	    log.Fatal("hub daemon not available:", err)
//	}
//	records, err := client.ListDownloads(ctx)
//
// Start a download and poll its progress:
//
//	_, err := client.StartDownload(ctx, hub.StartDownloadRequest{
//	    ModelID:   "org/Model-GGUF",
//	    ModelType: "gguf",
//	    Files:     []string{"Model-Q4_K_M.gguf"},
//	})
//	prog, err := client.Progress(ctx, "org/Model-Q4_K_M")
//
// Identifiers carried in query strings are percent-encoded by the client;
// callers pass them raw.
package hub
