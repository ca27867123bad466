// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package downloads

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// POLLER STATE
// =============================================================================

// pollState tracks the lifecycle of a single poller.
type pollState int

const (
	pollIdle pollState = iota
	pollActive
	pollCompleted
	pollCancelled
)

// completionRefreshTimeout bounds the refresh a poller owes on its final
// tick, which runs after the poller's own context is gone.
const completionRefreshTimeout = 30 * time.Second

func (s pollState) String() string {
	switch s {
	case pollIdle:
		return "idle"
	case pollActive:
		return "active"
	case pollCompleted:
		return "completed"
	case pollCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// =============================================================================
// POLLER
// =============================================================================

// poller watches byte progress for one download on a fixed interval. It does
// not own any download state; every result is handed to the tracker, which
// decides whether the result still matters.
type poller struct {
	id      string
	tracker *Tracker

	done chan struct{}

	mu     sync.Mutex
	state  pollState
	cancel context.CancelFunc
}

func newPoller(id string, t *Tracker) *poller {
	return &poller{
		id:      id,
		tracker: t,
		done:    make(chan struct{}),
	}
}

// start launches the poll loop. The loop lives until the download completes
// or stop is called; the parent context bounds the whole tracker lifetime,
// not a single request.
func (p *poller) start(parent context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(parent)

	p.mu.Lock()
	p.state = pollActive
	p.cancel = cancel
	p.mu.Unlock()

	go p.run(ctx, interval)
}

func (p *poller) run(ctx context.Context, interval time.Duration) {
	defer close(p.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if p.tick(ctx) {
				return
			}
		}
	}
}

// tick performs one progress fetch and folds the result into the tracker.
// Returns true when the loop should exit.
//
// A failed fetch is skipped entirely; the next tick tries again. When the
// tracker reports completion, the owed refresh happens here, on this same
// tick, before the loop exits.
func (p *poller) tick(ctx context.Context) bool {
	prog, err := p.tracker.client.Progress(ctx, p.id)
	if err != nil {
		return false
	}

	done, refresh := p.tracker.applyProgress(p, prog)
	if refresh {
		// Recording completion cancels this poller's context, so the owed
		// refresh runs on its own deadline. Refresh records its own failure
		// in the tracker.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), completionRefreshTimeout)
		_ = p.tracker.Refresh(rctx)
		cancel()
	}
	return done
}

// stop ends the poll loop. Safe to call more than once and from any
// goroutine. A poller that already completed keeps its completed state.
func (p *poller) stop() {
	p.mu.Lock()
	if p.state == pollActive {
		p.state = pollCancelled
	}
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (p *poller) markCompleted() {
	p.mu.Lock()
	p.state = pollCompleted
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (p *poller) currentState() pollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
