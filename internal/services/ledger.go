package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finanzas/internal/core"
)

// Ledger owns the transaction list, the savings goal and the single edit
// session. All methods are safe for concurrent use.
type Ledger struct {
	st        *state
	editingID string // guarded by st.mu; empty when no edit is in progress
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Kind      core.Kind
	Category  string
	YearMonth string // "2006-01"
}

// Add validates the input and appends a new transaction.
func (l *Ledger) Add(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	tx, err := in.Validate()
	if err != nil {
		return core.Transaction{}, err
	}

	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return l.addLocked(ctx, tx), nil
}

func (l *Ledger) addLocked(ctx context.Context, tx core.Transaction) core.Transaction {
	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now().UTC()
	l.st.snap.Transactions = append(l.st.snap.Transactions, tx)
	l.st.persist(ctx)
	return tx
}

// Update validates the input and replaces the identified transaction in
// place, keeping its position in the list.
func (l *Ledger) Update(ctx context.Context, id string, in core.TransactionInput) (core.Transaction, error) {
	tx, err := in.Validate()
	if err != nil {
		return core.Transaction{}, err
	}

	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return l.updateLocked(ctx, id, tx)
}

func (l *Ledger) updateLocked(ctx context.Context, id string, tx core.Transaction) (core.Transaction, error) {
	for i, existing := range l.st.snap.Transactions {
		if existing.ID != id {
			continue
		}
		tx.ID = id
		tx.CreatedAt = time.Now().UTC()
		l.st.snap.Transactions[i] = tx
		if l.editingID == id {
			l.editingID = ""
		}
		l.st.persist(ctx)
		return tx, nil
	}
	return core.Transaction{}, &core.NotFoundError{Kind: "transaction", ID: id}
}

// Delete removes a transaction. Deleting an id that does not exist is a
// no-op, and deleting the transaction under edit clears the edit session.
func (l *Ledger) Delete(ctx context.Context, id string) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	for i, existing := range l.st.snap.Transactions {
		if existing.ID != id {
			continue
		}
		l.st.snap.Transactions = append(
			l.st.snap.Transactions[:i], l.st.snap.Transactions[i+1:]...)
		if l.editingID == id {
			l.editingID = ""
		}
		l.st.persist(ctx)
		return
	}
}

// Get returns a transaction by id.
func (l *Ledger) Get(id string) (core.Transaction, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	for _, tx := range l.st.snap.Transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, &core.NotFoundError{Kind: "transaction", ID: id}
}

// List returns the transactions matching the filter, newest date first.
// Transactions sharing a date keep their insertion order.
func (l *Ledger) List(f Filter) []core.Transaction {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()

	out := make([]core.Transaction, 0, len(l.st.snap.Transactions))
	for _, tx := range l.st.snap.Transactions {
		if f.Kind != "" && tx.Kind != f.Kind {
			continue
		}
		if f.Category != "" && tx.Category != f.Category {
			continue
		}
		if f.YearMonth != "" && tx.Date.YearMonth() != f.YearMonth {
			continue
		}
		out = append(out, tx)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Date.Before(out[i].Date)
	})
	return out
}

// BeginEdit loads a transaction into the edit session. Starting a new edit
// replaces any edit already in progress.
func (l *Ledger) BeginEdit(id string) (core.Transaction, error) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	for _, tx := range l.st.snap.Transactions {
		if tx.ID == id {
			l.editingID = id
			return tx, nil
		}
	}
	return core.Transaction{}, &core.NotFoundError{Kind: "transaction", ID: id}
}

// CancelEdit discards the edit session without touching any transaction.
func (l *Ledger) CancelEdit() {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	l.editingID = ""
}

// EditingID reports the transaction currently under edit, if any.
func (l *Ledger) EditingID() (string, bool) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return l.editingID, l.editingID != ""
}

// Submit is the single entry point for the transaction form: while an edit
// session is open it updates that transaction and closes the session,
// otherwise it adds a new one. The session is resolved and the mutation
// applied under one critical section, so concurrent submits cannot both
// claim the same session.
func (l *Ledger) Submit(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	tx, err := in.Validate()
	if err != nil {
		return core.Transaction{}, err
	}

	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	if l.editingID != "" {
		return l.updateLocked(ctx, l.editingID, tx)
	}
	return l.addLocked(ctx, tx), nil
}

// SetSavingsGoal parses and stores the savings goal. A zero amount clears
// the goal.
func (l *Ledger) SetSavingsGoal(ctx context.Context, amount string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(amount)
	if err != nil {
		if !isZeroAmount(amount) {
			verr := core.NewValidationError()
			verr.Add("savingsGoal", "must be a non-negative decimal")
			return core.Money{}, verr
		}
		cents = 0
	}

	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	l.st.snap.SavingsGoalCents = cents
	l.st.persist(ctx)
	return core.Money{Cents: cents}, nil
}

// isZeroAmount reports whether amount is a well-formed decimal equal to
// zero, which the amount parser rejects but the goal treats as "no goal".
func isZeroAmount(amount string) bool {
	s := strings.ReplaceAll(strings.TrimSpace(amount), ",", ".")
	d, err := decimal.NewFromString(s)
	return err == nil && d.IsZero()
}

// ClearSavingsGoal resets the goal to unset.
func (l *Ledger) ClearSavingsGoal(ctx context.Context) {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	l.st.snap.SavingsGoalCents = 0
	l.st.persist(ctx)
}

// SavingsGoal returns the configured goal; zero means unset.
func (l *Ledger) SavingsGoal() core.Money {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return core.Money{Cents: l.st.snap.SavingsGoalCents}
}

// Snapshot returns a deep copy of the full state, for export and analytics.
func (l *Ledger) Snapshot() core.Snapshot {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()
	return l.st.snap.Clone()
}

// ReplaceAll swaps in an imported snapshot, discarding all previous state
// including any edit session, and flushes it to durable storage before
// returning.
func (l *Ledger) ReplaceAll(ctx context.Context, snap core.Snapshot) error {
	l.st.mu.Lock()
	defer l.st.mu.Unlock()

	l.st.snap = snap.Clone()
	l.editingID = ""
	l.st.persist(ctx)

	if f, ok := l.st.store.(interface{ Flush(context.Context) error }); ok {
		if err := f.Flush(ctx); err != nil {
			return err
		}
	}
	return nil
}
