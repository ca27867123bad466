// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package downloads

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/hubrun-tui/internal/hub"
)

// =============================================================================
// FAKE DAEMON CLIENT
// =============================================================================

type fakeHub struct {
	mu sync.Mutex

	listResp  map[string]hub.DownloadRecord
	listErr   error
	listCalls int

	progQueue []hub.ProgressResponse // consumed in order; the last entry repeats
	progErr   error
	progCalls int

	startErr error
	cmdErr   error
	commands []string
}

func (f *fakeHub) StartDownload(ctx context.Context, req hub.StartDownloadRequest) (*hub.StartDownloadResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, "start "+req.ModelID)
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &hub.StartDownloadResponse{Status: "started"}, nil
}

func (f *fakeHub) command(name, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commands = append(f.commands, name+" "+id)
	return f.cmdErr
}

func (f *fakeHub) PauseDownload(ctx context.Context, id string) error {
	return f.command("pause", id)
}

func (f *fakeHub) ResumeDownload(ctx context.Context, id string) error {
	return f.command("resume", id)
}

func (f *fakeHub) CancelDownload(ctx context.Context, id string) error {
	return f.command("cancel", id)
}

func (f *fakeHub) DeleteModel(ctx context.Context, id string) error {
	return f.command("delete", id)
}

func (f *fakeHub) Progress(ctx context.Context, id string) (*hub.ProgressResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progCalls++
	if f.progErr != nil {
		return nil, f.progErr
	}
	if len(f.progQueue) == 0 {
		return &hub.ProgressResponse{}, nil
	}
	prog := f.progQueue[0]
	if len(f.progQueue) > 1 {
		f.progQueue = f.progQueue[1:]
	}
	return &prog, nil
}

func (f *fakeHub) ListDownloads(ctx context.Context) (map[string]hub.DownloadRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make(map[string]hub.DownloadRecord, len(f.listResp))
	for id, rec := range f.listResp {
		out[id] = rec
	}
	return out, nil
}

func (f *fakeHub) setList(records map[string]hub.DownloadRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listResp = records
}

func (f *fakeHub) listCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

// newTestTracker uses an interval long enough that background pollers never
// tick on their own during a test.
func newTestTracker(f *fakeHub) *Tracker {
	return NewTrackerWithOptions(f, time.Hour, nil)
}

func records(ids ...string) []string {
	return ids
}

func ids(recs []hub.DownloadRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// =============================================================================
// REFRESH
// =============================================================================

func TestRefreshCategorizes(t *testing.T) {
	f := &fakeHub{
		listResp: map[string]hub.DownloadRecord{
			"org/ready":  {ID: "org/ready", Status: hub.StatusReady},
			"org/dl":     {ID: "org/dl", Status: hub.StatusDownloading},
			"org/paused": {ID: "org/paused", Status: hub.StatusPaused},
			"org/failed": {ID: "org/failed", Status: hub.StatusError},
		},
	}
	tr := newTestTracker(f)
	defer tr.Close()

	if err := tr.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if got := ids(tr.Ready()); !equalIDs(got, records("org/ready")) {
		t.Errorf("Ready = %v", got)
	}
	if got := ids(tr.Active()); !equalIDs(got, records("org/dl", "org/failed", "org/paused")) {
		t.Errorf("Active = %v", got)
	}
	if got := ids(tr.Paused()); !equalIDs(got, records("org/paused")) {
		t.Errorf("Paused = %v", got)
	}
	if got := ids(tr.Failed()); !equalIDs(got, records("org/failed")) {
		t.Errorf("Failed = %v", got)
	}

	// Paused and failed also live in the active view.
	if len(tr.Active()) != 3 {
		t.Errorf("expected paused and failed to overlap into Active, got %v", ids(tr.Active()))
	}
	if !tr.Polling("org/dl") {
		t.Error("downloading record should have a poller")
	}
	if tr.Polling("org/paused") || tr.Polling("org/ready") {
		t.Error("only in-flight downloads get pollers")
	}
}

func TestRefreshSortsAscending(t *testing.T) {
	f := &fakeHub{
		listResp: map[string]hub.DownloadRecord{
			"b/x": {ID: "b/x", Status: hub.StatusReady},
			"a/y": {ID: "a/y", Status: hub.StatusReady},
			"c/z": {ID: "c/z", Status: hub.StatusReady},
		},
	}
	tr := newTestTracker(f)
	defer tr.Close()

	if err := tr.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	want := records("a/y", "b/x", "c/z")
	if got := ids(tr.Ready()); !equalIDs(got, want) {
		t.Errorf("Ready = %v, want %v", got, want)
	}
}

func TestRefreshIdempotent(t *testing.T) {
	f := &fakeHub{
		listResp: map[string]hub.DownloadRecord{
			"org/dl": {ID: "org/dl", Status: hub.StatusDownloading},
		},
	}
	tr := newTestTracker(f)
	defer tr.Close()

	for i := 0; i < 3; i++ {
		if err := tr.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh %d: %v", i, err)
		}
	}

	tr.mu.Lock()
	pollerCount := len(tr.pollers)
	tr.mu.Unlock()
	if pollerCount != 1 {
		t.Errorf("repeated refresh grew the registry to %d pollers", pollerCount)
	}
	if got := ids(tr.Active()); !equalIDs(got, records("org/dl")) {
		t.Errorf("Active = %v", got)
	}
}

func TestRefreshFailureKeepsState(t *testing.T) {
	f := &fakeHub{
		listResp: map[string]hub.DownloadRecord{
			"org/ready": {ID: "org/ready", Status: hub.StatusReady},
		},
	}
	tr := newTestTracker(f)
	defer tr.Close()

	if err := tr.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	f.mu.Lock()
	f.listErr = errors.New("daemon went away")
	f.mu.Unlock()

	if err := tr.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh failure")
	}
	if got := ids(tr.Ready()); !equalIDs(got, records("org/ready")) {
		t.Errorf("failed refresh should leave lists untouched, got %v", got)
	}
	if tr.LastError() == nil {
		t.Error("failure should be held in LastError")
	}

	f.mu.Lock()
	f.listErr = nil
	f.mu.Unlock()

	if err := tr.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh after recovery: %v", err)
	}
	if tr.LastError() != nil {
		t.Error("successful refresh should clear LastError")
	}
}

func TestRefreshStopsPollersForGoneDownloads(t *testing.T) {
	f := &fakeHub{
		listResp: map[string]hub.DownloadRecord{
			"org/dl": {ID: "org/dl", Status: hub.StatusDownloading},
		},
	}
	tr := newTestTracker(f)
	defer tr.Close()

	if err := tr.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !tr.Polling("org/dl") {
		t.Fatal("expected poller")
	}

	f.setList(map[string]hub.DownloadRecord{})
	if err := tr.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if tr.Polling("org/dl") {
		t.Error("poller should be gone once the daemon forgets the download")
	}
	if _, ok := tr.Progress("org/dl"); ok {
		t.Error("progress overlay should be dropped with the record")
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

func TestStartResolvesAndPolls(t *testing.T) {
	f := &fakeHub{
		listResp: map[string]hub.DownloadRecord{
			"org/f": {ID: "org/f", Status: hub.StatusDownloading},
		},
	}
	tr := newTestTracker(f)
	defer tr.Close()

	id, err := tr.Start(context.Background(), "org/M", "gguf", []string{"f.gguf"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if id != "org/f" {
		t.Errorf("resolved id = %q, want %q", id, "org/f")
	}
	if !tr.Polling(id) {
		t.Error("start should register a poller")
	}
	if f.listCount() != 1 {
		t.Errorf("start should refresh once, saw %d", f.listCount())
	}
}

func TestStartDaemonErrorNoPoller(t *testing.T) {
	f := &fakeHub{startErr: &hub.ClientError{Type: hub.ErrTypeDaemon, Message: "no space left"}}
	tr := newTestTracker(f)
	defer tr.Close()

	id, err := tr.Start(context.Background(), "org/M", "gguf", []string{"f.gguf"})
	if err == nil {
		t.Fatal("expected daemon error")
	}
	if err.Error() != "no space left" {
		t.Errorf("daemon message not surfaced: %q", err.Error())
	}
	if tr.Polling(id) {
		t.Error("rejected start must not leave a poller behind")
	}
	if f.listCount() != 0 {
		t.Errorf("rejected start should not refresh, saw %d", f.listCount())
	}
	if tr.LastError() == nil {
		t.Error("daemon error should be held in LastError")
	}
}

func TestPauseStopsPollerEvenOnCommandFailure(t *testing.T) {
	f := &fakeHub{
		listResp: map[string]hub.DownloadRecord{
			"org/dl": {ID: "org/dl", Status: hub.StatusPaused},
		},
		cmdErr: errors.New("daemon busy"),
	}
	tr := newTestTracker(f)
	defer tr.Close()

	tr.mu.Lock()
	tr.ensurePollerLocked("org/dl")
	tr.mu.Unlock()

	if err := tr.Pause(context.Background(), "org/dl"); err == nil {
		t.Fatal("expected command error")
	}
	if tr.Polling("org/dl") {
		t.Error("pause must stop the poller even when the command fails")
	}
	if f.listCount() != 1 {
		t.Errorf("pause should still refresh once, saw %d", f.listCount())
	}
}

func TestResumeStartsPollerEvenOnCommandFailure(t *testing.T) {
	f := &fakeHub{
		listResp: map[string]hub.DownloadRecord{
			"org/dl": {ID: "org/dl", Status: hub.StatusDownloading},
		},
		cmdErr: errors.New("daemon busy"),
	}
	tr := newTestTracker(f)
	defer tr.Close()

	if err := tr.Resume(context.Background(), "org/dl"); err == nil {
		t.Fatal("expected command error")
	}
	if !tr.Polling("org/dl") {
		t.Error("resume starts the poller regardless of the command outcome")
	}
}

func TestCancelStopsPoller(t *testing.T) {
	f := &fakeHub{listResp: map[string]hub.DownloadRecord{}}
	tr := newTestTracker(f)
	defer tr.Close()

	tr.mu.Lock()
	tr.ensurePollerLocked("org/dl")
	tr.mu.Unlock()

	if err := tr.Cancel(context.Background(), "org/dl"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if tr.Polling("org/dl") {
		t.Error("cancel must stop the poller")
	}
}

func TestDeleteRecordsHistory(t *testing.T) {
	f := &fakeHub{listResp: map[string]hub.DownloadRecord{}}
	h := &fakeHistory{}
	tr := NewTrackerWithOptions(f, time.Hour, h)
	defer tr.Close()

	if err := tr.Delete(context.Background(), "org/old"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := h.deleted(); len(got) != 1 || got[0] != "org/old" {
		t.Errorf("deleted events = %v", got)
	}
}

// =============================================================================
// POLL TICKS
// =============================================================================

// registerIdlePoller wires a poller into the registry without starting its
// loop, so tests can drive ticks by hand.
func registerIdlePoller(tr *Tracker, id string) *poller {
	p := newPoller(id, tr)
	tr.mu.Lock()
	tr.pollers[id] = p
	tr.mu.Unlock()
	return p
}

func TestTickUpdatesProgress(t *testing.T) {
	f := &fakeHub{
		listResp: map[string]hub.DownloadRecord{
			"org/dl": {ID: "org/dl", Status: hub.StatusDownloading},
		},
		progQueue: []hub.ProgressResponse{{Downloaded: 300, Total: 1000}},
	}
	tr := newTestTracker(f)
	defer tr.Close()
	if err := tr.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	tr.mu.Lock()
	p := tr.pollers["org/dl"]
	tr.mu.Unlock()

	if done := p.tick(context.Background()); done {
		t.Fatal("incomplete progress should not end the loop")
	}
	prog, ok := tr.Progress("org/dl")
	if !ok || prog.Downloaded != 300 || prog.Total != 1000 {
		t.Errorf("progress = %+v, ok=%v", prog, ok)
	}
	rec, _ := tr.Record("org/dl")
	if rec.EffectivePercentage() != 30.0 {
		t.Errorf("percentage = %v, want 30", rec.EffectivePercentage())
	}
}

func TestTickFailureIsSkipped(t *testing.T) {
	f := &fakeHub{progErr: errors.New("transient")}
	tr := newTestTracker(f)
	defer tr.Close()

	p := registerIdlePoller(tr, "org/dl")
	if done := p.tick(context.Background()); done {
		t.Error("a failed fetch must not end the loop")
	}
	if _, ok := tr.Progress("org/dl"); ok {
		t.Error("a failed fetch must not touch the table")
	}
	if f.listCount() != 0 {
		t.Error("a failed fetch must not trigger a refresh")
	}
}

func TestCompletionStopsSameTickWithOneRefresh(t *testing.T) {
	f := &fakeHub{
		listResp: map[string]hub.DownloadRecord{
			"org/dl": {ID: "org/dl", Status: hub.StatusReady, Downloaded: 1000, Total: 1000},
		},
		progQueue: []hub.ProgressResponse{{Downloaded: 1000, Total: 1000}},
	}
	tr := newTestTracker(f)
	defer tr.Close()

	tr.mu.Lock()
	tr.records["org/dl"] = hub.DownloadRecord{ID: "org/dl", Status: hub.StatusDownloading}
	tr.mu.Unlock()
	p := registerIdlePoller(tr, "org/dl")

	if done := p.tick(context.Background()); !done {
		t.Fatal("completion must end the loop on the observing tick")
	}
	if p.currentState() != pollCompleted {
		t.Errorf("poller state = %v, want completed", p.currentState())
	}
	if tr.Polling("org/dl") {
		t.Error("completed poller must be deregistered")
	}
	if f.listCount() != 1 {
		t.Errorf("completion owes exactly one refresh, saw %d", f.listCount())
	}
	if got := ids(tr.Ready()); !equalIDs(got, records("org/dl")) {
		t.Errorf("Ready = %v", got)
	}
}

// Recording completion cancels the poller's own context. The refresh owed on
// that same tick must still reach the daemon.
func TestCompletionRefreshOutlivesPollerContext(t *testing.T) {
	f := &fakeHub{
		listResp: map[string]hub.DownloadRecord{
			"org/dl": {ID: "org/dl", Status: hub.StatusReady, Downloaded: 1000, Total: 1000},
		},
		progQueue: []hub.ProgressResponse{{Downloaded: 1000, Total: 1000}},
	}
	tr := newTestTracker(f)
	defer tr.Close()

	p := registerIdlePoller(tr, "org/dl")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.mu.Lock()
	p.state = pollActive
	p.cancel = cancel
	p.mu.Unlock()

	if done := p.tick(ctx); !done {
		t.Fatal("completion must end the loop on the observing tick")
	}
	if ctx.Err() == nil {
		t.Fatal("recording completion should have cancelled the poller context")
	}
	if f.listCount() != 1 {
		t.Errorf("completion owes exactly one successful refresh, saw %d", f.listCount())
	}
	if tr.LastError() != nil {
		t.Errorf("completion refresh failed: %v", tr.LastError())
	}
	if got := ids(tr.Ready()); !equalIDs(got, records("org/dl")) {
		t.Errorf("Ready = %v", got)
	}
}

func TestUnknownTotalNeverCompletes(t *testing.T) {
	f := &fakeHub{progQueue: []hub.ProgressResponse{{Downloaded: 500, Total: 0}}}
	tr := newTestTracker(f)
	defer tr.Close()

	p := registerIdlePoller(tr, "org/dl")
	if done := p.tick(context.Background()); done {
		t.Error("zero total must not count as complete")
	}
	if f.listCount() != 0 {
		t.Error("no completion, no refresh")
	}
}

func TestCancelDiscardsStaleTick(t *testing.T) {
	f := &fakeHub{
		listResp:  map[string]hub.DownloadRecord{},
		progQueue: []hub.ProgressResponse{{Downloaded: 300, Total: 1000}},
	}
	tr := newTestTracker(f)
	defer tr.Close()

	p := registerIdlePoller(tr, "org/dl")

	// Cancel lands between the poller's fetch and its result application.
	if err := tr.Cancel(context.Background(), "org/dl"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	before := f.listCount()

	if done := p.tick(context.Background()); !done {
		t.Error("a deregistered poller must stop on its next tick")
	}
	if _, ok := tr.Progress("org/dl"); ok {
		t.Error("stale result must be discarded, not applied")
	}
	if f.listCount() != before {
		t.Error("stale result must not trigger a refresh")
	}
	if p.currentState() == pollCompleted {
		t.Error("a cancelled poller must not report completion")
	}
}

func TestReplacementPollerIgnoresOldOne(t *testing.T) {
	f := &fakeHub{
		listResp:  map[string]hub.DownloadRecord{},
		progQueue: []hub.ProgressResponse{{Downloaded: 1000, Total: 1000}},
	}
	tr := newTestTracker(f)
	defer tr.Close()

	old := registerIdlePoller(tr, "org/dl")
	replacement := registerIdlePoller(tr, "org/dl")

	if done := old.tick(context.Background()); !done {
		t.Error("superseded poller must stop")
	}
	if f.listCount() != 0 {
		t.Error("superseded poller must not refresh")
	}
	tr.mu.Lock()
	current := tr.pollers["org/dl"]
	tr.mu.Unlock()
	if current != replacement {
		t.Error("replacement poller must stay registered")
	}
}

// =============================================================================
// HISTORY
// =============================================================================

type fakeHistory struct {
	mu        sync.Mutex
	completes []string
	deletes   []string
}

func (h *fakeHistory) RecordCompleted(id string, downloaded, total int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completes = append(h.completes, id)
	return nil
}

func (h *fakeHistory) RecordDeleted(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deletes = append(h.deletes, id)
	return nil
}

func (h *fakeHistory) completed() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.completes...)
}

func (h *fakeHistory) deleted() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.deletes...)
}

func TestRefreshRecordsCompletionOnce(t *testing.T) {
	f := &fakeHub{
		listResp: map[string]hub.DownloadRecord{
			"org/dl": {ID: "org/dl", Status: hub.StatusDownloading},
		},
	}
	h := &fakeHistory{}
	tr := NewTrackerWithOptions(f, time.Hour, h)
	defer tr.Close()

	if err := tr.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	f.setList(map[string]hub.DownloadRecord{
		"org/dl": {ID: "org/dl", Status: hub.StatusReady, Downloaded: 1000, Total: 1000},
	})
	for i := 0; i < 2; i++ {
		if err := tr.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh: %v", err)
		}
	}

	if got := h.completed(); len(got) != 1 || got[0] != "org/dl" {
		t.Errorf("completion should be recorded exactly once, got %v", got)
	}
}
