package storage

import (
	"context"
	"testing"

	"finanzas/internal/core"
)

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	snap := core.Snapshot{
		Transactions: []core.Transaction{{ID: "a", Description: "original"}},
	}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the caller's slice must not leak into the store.
	snap.Transactions[0].Description = "mutated"

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Transactions[0].Description != "original" {
		t.Errorf("store aliased caller slice: %q", got.Transactions[0].Description)
	}

	// And mutating the loaded copy must not leak back either.
	got.Transactions[0].Description = "mutated again"
	again, _ := s.Load(ctx)
	if again.Transactions[0].Description != "original" {
		t.Errorf("load returned aliased slice: %q", again.Transactions[0].Description)
	}
}

func TestMemoryStoreEmptyLoad(t *testing.T) {
	s := NewMemoryStore()
	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(snap.Transactions) != 0 || len(snap.RecurringPayments) != 0 || snap.SavingsGoalCents != 0 {
		t.Errorf("fresh store should be empty, got %+v", snap)
	}
}
