// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package downloads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jeranaias/hubrun-tui/internal/hub"
)

// =============================================================================
// INTERFACES
// =============================================================================

// HubClient is the slice of the daemon API the tracker needs. *hub.Client
// satisfies it; tests substitute fakes.
type HubClient interface {
	StartDownload(ctx context.Context, req hub.StartDownloadRequest) (*hub.StartDownloadResponse, error)
	PauseDownload(ctx context.Context, uniqueID string) error
	ResumeDownload(ctx context.Context, uniqueID string) error
	CancelDownload(ctx context.Context, uniqueID string) error
	DeleteModel(ctx context.Context, uniqueID string) error
	Progress(ctx context.Context, uniqueID string) (*hub.ProgressResponse, error)
	ListDownloads(ctx context.Context) (map[string]hub.DownloadRecord, error)
}

// HistoryRecorder receives terminal download events. Recording is
// best-effort; the tracker ignores returned errors. Implementations must be
// safe for concurrent use.
type HistoryRecorder interface {
	RecordCompleted(id string, downloaded, total int64) error
	RecordDeleted(id string) error
}

// =============================================================================
// TRACKER
// =============================================================================

// Tracker mirrors the daemon's download table and keeps one progress poller
// per in-flight download.
//
// All state lives behind a single mutex; network calls always happen outside
// it. Poll results are applied only if the reporting poller is still the
// registered poller for its id, which makes a cancel racing an in-flight
// poll harmless.
type Tracker struct {
	client   HubClient
	interval time.Duration
	history  HistoryRecorder

	mu       sync.Mutex
	records  map[string]hub.DownloadRecord
	progress map[string]hub.ProgressResponse
	pollers  map[string]*poller
	lastErr  error
}

// NewTracker creates a tracker polling progress once per second.
func NewTracker(client HubClient) *Tracker {
	return NewTrackerWithOptions(client, time.Second, nil)
}

// NewTrackerWithOptions creates a tracker with a custom poll interval and an
// optional history recorder.
func NewTrackerWithOptions(client HubClient, interval time.Duration, history HistoryRecorder) *Tracker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Tracker{
		client:   client,
		interval: interval,
		history:  history,
		records:  make(map[string]hub.DownloadRecord),
		progress: make(map[string]hub.ProgressResponse),
		pollers:  make(map[string]*poller),
	}
}

// Close stops every poller. The tracker remains readable afterwards.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id := range t.pollers {
		t.stopPollerLocked(id)
	}
}

// =============================================================================
// REFRESH
// =============================================================================

// Refresh re-reads the daemon's download table and reconciles pollers with
// it: in-flight downloads get a poller if they lack one, finished ones lose
// theirs. Calling it again with nothing changed changes nothing.
//
// A failed fetch records the error and leaves the previous table in place.
func (t *Tracker) Refresh(ctx context.Context) error {
	records, err := t.client.ListDownloads(ctx)
	if err != nil {
		t.setLastError(err)
		return err
	}

	var completed []hub.DownloadRecord

	t.mu.Lock()
	for id, rec := range records {
		prev, ok := t.records[id]
		if ok && prev.Status != hub.StatusReady && rec.Status == hub.StatusReady {
			completed = append(completed, rec)
		}
	}
	t.records = records
	t.lastErr = nil

	for id, rec := range records {
		switch rec.Status {
		case hub.StatusDownloading:
			t.ensurePollerLocked(id)
		case hub.StatusReady:
			t.stopPollerLocked(id)
		}
	}
	for id := range t.pollers {
		if _, ok := records[id]; !ok {
			t.stopPollerLocked(id)
		}
	}
	for id := range t.progress {
		if _, ok := records[id]; !ok {
			delete(t.progress, id)
		}
	}
	t.mu.Unlock()

	if t.history != nil {
		for _, rec := range completed {
			_ = t.history.RecordCompleted(rec.ID, rec.Downloaded, rec.Total)
		}
	}

	return nil
}

// =============================================================================
// COMMANDS
// =============================================================================

// Start asks the daemon to download a model and begins tracking it under the
// resolved identifier, which is returned either way. A daemon-reported
// failure is surfaced as the error and no poller starts.
func (t *Tracker) Start(ctx context.Context, modelID, modelType string, files []string) (string, error) {
	id := Resolve(modelID, modelType, files)

	_, err := t.client.StartDownload(ctx, hub.StartDownloadRequest{
		ModelID:   modelID,
		ModelType: modelType,
		Files:     files,
	})
	if err != nil {
		t.setLastError(err)
		return id, err
	}

	t.mu.Lock()
	t.ensurePollerLocked(id)
	t.mu.Unlock()

	_ = t.Refresh(ctx)
	return id, nil
}

// Pause stops the poller and asks the daemon to pause the download. The
// poller stops whether or not the daemon accepts the command.
func (t *Tracker) Pause(ctx context.Context, id string) error {
	t.mu.Lock()
	t.stopPollerLocked(id)
	t.mu.Unlock()

	err := t.client.PauseDownload(ctx, id)
	if err != nil {
		t.setLastError(err)
	}
	_ = t.Refresh(ctx)
	return err
}

// Resume asks the daemon to resume a paused download and restarts polling.
// The poller starts whether or not the daemon accepts the command; the next
// refresh sorts out any disagreement.
func (t *Tracker) Resume(ctx context.Context, id string) error {
	t.mu.Lock()
	t.ensurePollerLocked(id)
	t.mu.Unlock()

	err := t.client.ResumeDownload(ctx, id)
	if err != nil {
		t.setLastError(err)
	}
	_ = t.Refresh(ctx)
	return err
}

// Cancel stops the poller and asks the daemon to abort the download.
func (t *Tracker) Cancel(ctx context.Context, id string) error {
	t.mu.Lock()
	t.stopPollerLocked(id)
	t.mu.Unlock()

	err := t.client.CancelDownload(ctx, id)
	if err != nil {
		t.setLastError(err)
	}
	_ = t.Refresh(ctx)
	return err
}

// Delete stops the poller and asks the daemon to remove the model.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	t.stopPollerLocked(id)
	t.mu.Unlock()

	err := t.client.DeleteModel(ctx, id)
	if err != nil {
		t.setLastError(err)
	} else if t.history != nil {
		_ = t.history.RecordDeleted(id)
	}
	_ = t.Refresh(ctx)
	return err
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Ready returns downloads the daemon reports fully downloaded, sorted by id.
func (t *Tracker) Ready() []hub.DownloadRecord {
	return t.filtered(func(r hub.DownloadRecord) bool { return r.Status == hub.StatusReady })
}

// Active returns downloads needing attention: in flight, paused, or errored.
// Paused and errored records appear here as well as in their own lists so a
// view of "everything not done" needs only this call.
func (t *Tracker) Active() []hub.DownloadRecord {
	return t.filtered(func(r hub.DownloadRecord) bool { return r.Status.IsActive() })
}

// Paused returns paused downloads, sorted by id.
func (t *Tracker) Paused() []hub.DownloadRecord {
	return t.filtered(func(r hub.DownloadRecord) bool { return r.Status == hub.StatusPaused })
}

// Failed returns errored downloads, sorted by id.
func (t *Tracker) Failed() []hub.DownloadRecord {
	return t.filtered(func(r hub.DownloadRecord) bool { return r.Status == hub.StatusError })
}

// All returns every known download, sorted by id.
func (t *Tracker) All() []hub.DownloadRecord {
	return t.filtered(func(hub.DownloadRecord) bool { return true })
}

func (t *Tracker) filtered(keep func(hub.DownloadRecord) bool) []hub.DownloadRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]hub.DownloadRecord, 0, len(t.records))
	for _, rec := range t.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Record returns the daemon record for an identifier. When there is no
// exact entry it falls back to containment matching, since the daemon may
// track the download under a longer or shorter form of the id.
func (t *Tracker) Record(id string) (hub.DownloadRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rec, ok := t.records[id]; ok {
		return rec, true
	}
	for rid, rec := range t.records {
		if MatchesIdentifier(rid, id) {
			return rec, true
		}
	}
	return hub.DownloadRecord{}, false
}

// Progress returns the latest polled byte progress for an identifier.
func (t *Tracker) Progress(id string) (hub.ProgressResponse, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prog, ok := t.progress[id]
	return prog, ok
}

// Polling reports whether a poller is currently registered for the id.
func (t *Tracker) Polling(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.pollers[id]
	return ok
}

// LastError returns the most recent command or refresh failure. A
// successful refresh clears it.
func (t *Tracker) LastError() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

// =============================================================================
// INTERNAL
// =============================================================================

// applyProgress folds one poll result into the table. Results from a poller
// that is no longer registered for its id are discarded outright; a cancel
// that raced an in-flight poll therefore leaves no trace. Returns whether
// the poller should stop and whether it owes a refresh.
func (t *Tracker) applyProgress(p *poller, prog *hub.ProgressResponse) (done, refresh bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pollers[p.id] != p {
		return true, false
	}

	t.progress[p.id] = *prog

	if rec, ok := t.records[p.id]; ok {
		rec.Downloaded = prog.Downloaded
		rec.Total = prog.Total
		if prog.Total > 0 {
			rec.Percentage = float64(prog.Downloaded) / float64(prog.Total) * 100
		}
		t.records[p.id] = rec
	}

	if prog.Complete() {
		delete(t.pollers, p.id)
		p.markCompleted()
		return true, true
	}
	return false, false
}

// ensurePollerLocked registers and starts a poller for the id unless one is
// already registered. Callers hold t.mu.
func (t *Tracker) ensurePollerLocked(id string) {
	if _, ok := t.pollers[id]; ok {
		return
	}
	p := newPoller(id, t)
	t.pollers[id] = p
	p.start(context.Background(), t.interval)
}

// stopPollerLocked deregisters and stops the poller for the id, if any.
// Callers hold t.mu.
func (t *Tracker) stopPollerLocked(id string) {
	p, ok := t.pollers[id]
	if !ok {
		return
	}
	delete(t.pollers, id)
	p.stop()
}

func (t *Tracker) setLastError(err error) {
	t.mu.Lock()
	t.lastErr = err
	t.mu.Unlock()
}
