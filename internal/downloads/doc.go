// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package downloads tracks model downloads against the local hub daemon.
//
// The daemon owns download state; this package mirrors it. A Tracker holds
// the last-fetched download table plus one background poller per in-flight
// download, and exposes the table as four views: ready, active, paused, and
// failed. Paused and failed downloads deliberately show up in the active
// view too.
//
// # Key Types
//
//   - Tracker: download table mirror, poller registry, and command front end
//   - HubClient: the daemon API surface the tracker consumes
//   - HistoryRecorder: optional sink for completed/deleted events
//
// # Identifier Resolution
//
// Quantized single-file downloads are tracked by the daemon under
// "{author}/{file-sans-extension}" rather than the repository model id;
// Resolve computes that identifier and MatchesIdentifier compares ids
// tolerantly when the daemon reports a longer or shorter form.
//
// # Usage
//
//	tracker := downloads.NewTracker(client)
//	defer tracker.Close()
//
//	id, err := tracker.Start(ctx, "org/Model-GGUF", "gguf", []string{"Model-Q4.gguf"})
//	if err != nil {
//	    // daemon rejected the request; no poller was started
//	}
//
//	// Later, from the UI loop:
//	_ = tracker.Refresh(ctx)
//	for _, rec := range tracker.Active() {
//	    fmt.Println(rec.ID, rec.EffectivePercentage())
//	}
//
// Progress is polled once per second by default. Completion (downloaded >=
// total, total known) stops the poller on the tick that observed it and
// triggers exactly one refresh.
package downloads
