// Package storage persists ledger snapshots. Backends implement the Store
// contract; Debounced wraps any backend with write-behind coalescing for
// bursty save callers.
package storage

import (
	"context"

	"finanzas/internal/core"
)

// Store loads and saves whole ledger snapshots. Save is idempotent and
// last-write-wins; Load on a fresh backend returns an empty snapshot, not an
// error.
type Store interface {
	Load(ctx context.Context) (core.Snapshot, error)
	Save(ctx context.Context, snap core.Snapshot) error
	Close() error
}
