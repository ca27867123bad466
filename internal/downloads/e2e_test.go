// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package downloads

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/hubrun-tui/internal/hub"
)

// fakeDaemon is a minimal in-memory stand-in for the hub daemon, serving
// just enough of its API for a full download lifecycle.
type fakeDaemon struct {
	mu       sync.Mutex
	id       string
	started  bool
	progress []hub.ProgressResponse
	step     int
	ready    bool
}

func (d *fakeDaemon) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/downloads/download_model", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		d.started = true
		d.mu.Unlock()
		json.NewEncoder(w).Encode(hub.StartDownloadResponse{Status: "started"})
	})

	mux.HandleFunc("/downloads/progress", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		prog := d.progress[d.step]
		if d.step < len(d.progress)-1 {
			d.step++
		}
		if prog.Complete() {
			d.ready = true
		}
		d.mu.Unlock()
		json.NewEncoder(w).Encode(prog)
	})

	mux.HandleFunc("/downloads/downloads", func(w http.ResponseWriter, r *http.Request) {
		d.mu.Lock()
		out := map[string]hub.DownloadRecord{}
		if d.started {
			rec := hub.DownloadRecord{ID: d.id, Status: hub.StatusDownloading}
			if d.ready {
				rec.Status = hub.StatusReady
				rec.Downloaded = 1000
				rec.Total = 1000
				rec.Percentage = 100.0
			}
			out[d.id] = rec
		}
		d.mu.Unlock()
		json.NewEncoder(w).Encode(out)
	})

	return mux
}

func TestDownloadLifecycleEndToEnd(t *testing.T) {
	daemon := &fakeDaemon{
		id: "org/f",
		progress: []hub.ProgressResponse{
			{Downloaded: 300, Total: 1000},
			{Downloaded: 700, Total: 1000},
			{Downloaded: 1000, Total: 1000},
		},
	}
	srv := httptest.NewServer(daemon.handler())
	defer srv.Close()

	client := hub.NewClientWithConfig(&hub.ClientConfig{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
	})
	tr := NewTrackerWithOptions(client, 10*time.Millisecond, nil)
	defer tr.Close()

	id, err := tr.Start(context.Background(), "org/M", "gguf", []string{"f.gguf"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if id != "org/f" {
		t.Fatalf("resolved id = %q, want %q", id, "org/f")
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		ready := tr.Ready()
		if len(ready) == 1 && ready[0].ID == "org/f" && !tr.Polling("org/f") {
			if pct := ready[0].EffectivePercentage(); pct != 100.0 {
				t.Fatalf("percentage = %v, want 100.0", pct)
			}
			if len(tr.Active()) != 0 {
				t.Fatalf("nothing should remain active, got %v", ids(tr.Active()))
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("download never became ready; active=%v ready=%v polling=%v",
		ids(tr.Active()), ids(tr.Ready()), tr.Polling("org/f"))
}
