package storage

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"finanzas/internal/core"
)

// DefaultDebounceWindow coalesces the save bursts produced by rapid
// successive mutations.
const DefaultDebounceWindow = 200 * time.Millisecond

// Debounced wraps a Store with write-behind semantics: Save records the
// snapshot and returns immediately, and the newest pending snapshot is
// written once the window elapses without further saves. Mutation callers
// therefore never block on I/O and never see a save failure; failures are
// logged and the snapshot is retried by the next save.
type Debounced struct {
	mu      sync.Mutex
	inner   Store
	window  time.Duration
	timer   *time.Timer
	pending *core.Snapshot
	closed  bool
}

func NewDebounced(inner Store, window time.Duration) *Debounced {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debounced{inner: inner, window: window}
}

func (d *Debounced) Load(ctx context.Context) (core.Snapshot, error) {
	d.mu.Lock()
	if d.pending != nil {
		snap := d.pending.Clone()
		d.mu.Unlock()
		return snap, nil
	}
	d.mu.Unlock()
	return d.inner.Load(ctx)
}

func (d *Debounced) Save(_ context.Context, snap core.Snapshot) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return &core.PersistenceError{Op: "save", Err: errStoreClosed}
	}

	clone := snap.Clone()
	d.pending = &clone
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flushPending)
	return nil
}

// Flush writes any pending snapshot immediately. Used on shutdown and by
// callers that need durability before returning (import, export).
func (d *Debounced) Flush(ctx context.Context) error {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	snap := d.pending
	d.pending = nil
	d.mu.Unlock()

	if snap == nil {
		return nil
	}
	return d.inner.Save(ctx, *snap)
}

func (d *Debounced) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	if err := d.Flush(context.Background()); err != nil {
		slog.Error("Final flush failed", "error", err)
	}
	return d.inner.Close()
}

func (d *Debounced) flushPending() {
	d.mu.Lock()
	snap := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	if snap == nil {
		return
	}
	if err := d.inner.Save(context.Background(), *snap); err != nil {
		// Non-fatal: keep the snapshot pending so the next save retries it.
		slog.Error("Debounced save failed", "error", err)
		d.mu.Lock()
		if d.pending == nil && !d.closed {
			d.pending = snap
		}
		d.mu.Unlock()
	}
}

var errStoreClosed = &closedError{}

type closedError struct{}

func (*closedError) Error() string { return "store closed" }
