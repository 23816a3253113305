package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"finanzas/internal/core"

	_ "modernc.org/sqlite"
)

const savingsGoalKey = "savings_goal_cents"

// SQLiteStore persists snapshots to a local SQLite database. Save replaces
// the stored snapshot inside a single transaction so a crash never leaves a
// half-written state.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (core.Snapshot, error) {
	var snap core.Snapshot

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, description, amount_cents, category, tx_date, method, created_at
		FROM transactions ORDER BY position`)
	if err != nil {
		return core.Snapshot{}, &core.PersistenceError{Op: "load transactions", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tx                    core.Transaction
			kind, txDate, created string
		)
		if err := rows.Scan(&tx.ID, &kind, &tx.Description, &tx.Amount.Cents,
			&tx.Category, &txDate, &tx.Method, &created); err != nil {
			return core.Snapshot{}, &core.PersistenceError{Op: "scan transaction", Err: err}
		}
		tx.Kind = core.Kind(kind)
		if tx.Date, err = core.ParseDate(txDate); err != nil {
			return core.Snapshot{}, &core.PersistenceError{Op: "decode transaction date", Err: err}
		}
		if tx.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return core.Snapshot{}, &core.PersistenceError{Op: "decode transaction timestamp", Err: err}
		}
		snap.Transactions = append(snap.Transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return core.Snapshot{}, &core.PersistenceError{Op: "load transactions", Err: err}
	}

	prows, err := s.db.QueryContext(ctx, `
		SELECT id, description, amount_cents, frequency, biweekly_mode, next_due
		FROM recurring_payments ORDER BY position`)
	if err != nil {
		return core.Snapshot{}, &core.PersistenceError{Op: "load recurring payments", Err: err}
	}
	defer prows.Close()

	for prows.Next() {
		var (
			p               core.RecurringPayment
			freq, mode, due string
		)
		if err := prows.Scan(&p.ID, &p.Description, &p.Amount.Cents, &freq, &mode, &due); err != nil {
			return core.Snapshot{}, &core.PersistenceError{Op: "scan recurring payment", Err: err}
		}
		p.Frequency = core.Frequency(freq)
		p.BiweeklyMode = core.BiweeklyMode(mode)
		if p.NextDue, err = core.ParseDate(due); err != nil {
			return core.Snapshot{}, &core.PersistenceError{Op: "decode due date", Err: err}
		}
		snap.RecurringPayments = append(snap.RecurringPayments, p)
	}
	if err := prows.Err(); err != nil {
		return core.Snapshot{}, &core.PersistenceError{Op: "load recurring payments", Err: err}
	}

	var goal string
	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, savingsGoalKey).Scan(&goal)
	switch {
	case err == sql.ErrNoRows:
		// first run, goal stays zero
	case err != nil:
		return core.Snapshot{}, &core.PersistenceError{Op: "load savings goal", Err: err}
	default:
		cents, err := strconv.ParseInt(goal, 10, 64)
		if err != nil {
			return core.Snapshot{}, &core.PersistenceError{Op: "decode savings goal", Err: err}
		}
		snap.SavingsGoalCents = cents
	}

	slog.InfoContext(ctx, "Snapshot loaded from SQLite",
		"transactions", len(snap.Transactions),
		"recurring_payments", len(snap.RecurringPayments),
		"savings_goal_cents", snap.SavingsGoalCents)

	return snap, nil
}

func (s *SQLiteStore) Save(ctx context.Context, snap core.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &core.PersistenceError{Op: "begin save", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return &core.PersistenceError{Op: "clear transactions", Err: err}
	}
	for i, t := range snap.Transactions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, kind, description, amount_cents, category, tx_date, method, created_at, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, string(t.Kind), t.Description, t.Amount.Cents, t.Category,
			t.Date.String(), t.Method, t.CreatedAt.UTC().Format(time.RFC3339), i); err != nil {
			return &core.PersistenceError{Op: "insert transaction", Err: err}
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recurring_payments`); err != nil {
		return &core.PersistenceError{Op: "clear recurring payments", Err: err}
	}
	for i, p := range snap.RecurringPayments {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recurring_payments (id, description, amount_cents, frequency, biweekly_mode, next_due, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Description, p.Amount.Cents, string(p.Frequency),
			string(p.BiweeklyMode), p.NextDue.String(), i); err != nil {
			return &core.PersistenceError{Op: "insert recurring payment", Err: err}
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		savingsGoalKey, strconv.FormatInt(snap.SavingsGoalCents, 10)); err != nil {
		return &core.PersistenceError{Op: "save savings goal", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &core.PersistenceError{Op: "commit save", Err: err}
	}

	slog.DebugContext(ctx, "Snapshot saved to SQLite",
		"transactions", len(snap.Transactions),
		"recurring_payments", len(snap.RecurringPayments))

	return nil
}
