package services

import (
	"context"
	"log/slog"
	"sync"

	"finanzas/internal/core"
	"finanzas/internal/storage"
)

// state is the single in-memory owner of the snapshot, shared by the ledger
// and the scheduler. Every mutation happens under the mutex and is followed
// by a persist of the whole snapshot.
type state struct {
	mu    sync.Mutex
	store storage.Store
	snap  core.Snapshot
}

// Open loads the snapshot from the store and wires the ledger and scheduler
// around the shared state. A load failure is logged and the services start
// from empty defaults; the store stays attached so later saves still work.
func Open(ctx context.Context, store storage.Store) (*Ledger, *Scheduler) {
	st := &state{store: store}

	snap, err := store.Load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Snapshot load failed, starting empty", "error", err)
	} else {
		st.snap = snap
	}

	return &Ledger{st: st}, &Scheduler{st: st}
}

// persist writes the current snapshot. Callers hold the mutex. Save failures
// are logged, never propagated: mutations have already been applied in memory
// and the store retries on the next write.
func (st *state) persist(ctx context.Context) {
	if err := st.store.Save(ctx, st.snap); err != nil {
		slog.ErrorContext(ctx, "Snapshot save failed", "error", err)
	}
}
