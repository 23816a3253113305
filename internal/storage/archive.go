package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finanzas/internal/core"
)

// ArchiveVersion tags exported documents so future schema changes stay
// detectable.
const ArchiveVersion = "1.0"

// ImportValidationError reports a malformed import document. The import is
// aborted with no partial apply.
type ImportValidationError struct {
	Reason string
	Err    error
}

func (e *ImportValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid import document: %s: %v", e.Reason, e.Err)
	}
	return "invalid import document: " + e.Reason
}

func (e *ImportValidationError) Unwrap() error {
	return e.Err
}

type archiveTransaction struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
	Method      string      `json:"method"`
	CreatedAt   time.Time   `json:"createdAt"`
}

type archivePayment struct {
	ID           string      `json:"id"`
	Description  string      `json:"description"`
	Amount       json.Number `json:"amount"`
	Frequency    string      `json:"frequency"`
	BiweeklyMode string      `json:"biweeklyMode,omitempty"`
	NextDue      string      `json:"nextDue"`
}

type archiveSummary struct {
	TotalIncome       json.Number `json:"totalIncome"`
	TotalExpenses     json.Number `json:"totalExpenses"`
	TotalTransactions int         `json:"totalTransactions"`
}

type archiveDocument struct {
	Transactions      []archiveTransaction `json:"transactions"`
	RecurringPayments []archivePayment     `json:"recurringPayments"`
	SavingsGoal       json.Number          `json:"savingsGoal"`
	ExportDate        time.Time            `json:"exportDate"`
	Version           string               `json:"version"`
	Summary           archiveSummary       `json:"summary"`
}

// ExportArchive serializes a snapshot into the versioned backup document.
func ExportArchive(snap core.Snapshot, now time.Time) ([]byte, error) {
	doc := archiveDocument{
		Transactions:      make([]archiveTransaction, 0, len(snap.Transactions)),
		RecurringPayments: make([]archivePayment, 0, len(snap.RecurringPayments)),
		SavingsGoal:       centsToNumber(snap.SavingsGoalCents),
		ExportDate:        now.UTC(),
		Version:           ArchiveVersion,
	}

	var incomeCents, expenseCents int64
	for _, t := range snap.Transactions {
		switch t.Kind {
		case core.Income:
			incomeCents += t.Amount.Cents
		case core.Expense:
			expenseCents += t.Amount.Cents
		}
		doc.Transactions = append(doc.Transactions, archiveTransaction{
			ID:          t.ID,
			Type:        string(t.Kind),
			Description: t.Description,
			Amount:      centsToNumber(t.Amount.Cents),
			Category:    t.Category,
			Date:        t.Date.String(),
			Method:      t.Method,
			CreatedAt:   t.CreatedAt.UTC(),
		})
	}
	for _, p := range snap.RecurringPayments {
		doc.RecurringPayments = append(doc.RecurringPayments, archivePayment{
			ID:           p.ID,
			Description:  p.Description,
			Amount:       centsToNumber(p.Amount.Cents),
			Frequency:    string(p.Frequency),
			BiweeklyMode: string(p.BiweeklyMode),
			NextDue:      p.NextDue.String(),
		})
	}
	doc.Summary = archiveSummary{
		TotalIncome:       centsToNumber(incomeCents),
		TotalExpenses:     centsToNumber(expenseCents),
		TotalTransactions: len(snap.Transactions),
	}

	return json.MarshalIndent(doc, "", "  ")
}

// ImportArchive validates a backup document and converts it into a snapshot.
// The document must carry a `transactions` array; any malformed record aborts
// the whole import so the caller's state stays untouched.
func ImportArchive(data []byte) (core.Snapshot, error) {
	var probe struct {
		Transactions json.RawMessage `json:"transactions"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return core.Snapshot{}, &ImportValidationError{Reason: "not a JSON document", Err: err}
	}
	if len(probe.Transactions) == 0 || string(probe.Transactions) == "null" {
		return core.Snapshot{}, &ImportValidationError{Reason: "transactions field is missing"}
	}
	if probe.Transactions[0] != '[' {
		return core.Snapshot{}, &ImportValidationError{Reason: "transactions field is not an array"}
	}

	var doc archiveDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return core.Snapshot{}, &ImportValidationError{Reason: "malformed document", Err: err}
	}

	var snap core.Snapshot
	for i, at := range doc.Transactions {
		tx, err := importTransaction(at)
		if err != nil {
			return core.Snapshot{}, &ImportValidationError{
				Reason: fmt.Sprintf("transaction %d (%s)", i, at.ID), Err: err,
			}
		}
		snap.Transactions = append(snap.Transactions, tx)
	}
	for i, ap := range doc.RecurringPayments {
		p, err := importPayment(ap)
		if err != nil {
			return core.Snapshot{}, &ImportValidationError{
				Reason: fmt.Sprintf("recurring payment %d (%s)", i, ap.ID), Err: err,
			}
		}
		snap.RecurringPayments = append(snap.RecurringPayments, p)
	}

	if doc.SavingsGoal != "" {
		goal, err := numberToCents(doc.SavingsGoal)
		if err != nil || goal < 0 {
			return core.Snapshot{}, &ImportValidationError{Reason: "savings goal", Err: err}
		}
		snap.SavingsGoalCents = goal
	}

	return snap, nil
}

func importTransaction(at archiveTransaction) (core.Transaction, error) {
	kind := core.Kind(at.Type)
	if !kind.Valid() {
		return core.Transaction{}, fmt.Errorf("unknown type %q", at.Type)
	}
	if at.ID == "" {
		return core.Transaction{}, fmt.Errorf("missing id")
	}
	if at.Description == "" {
		return core.Transaction{}, fmt.Errorf("missing description")
	}
	cents, err := numberToCents(at.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount: %w", err)
	}
	if cents <= 0 {
		return core.Transaction{}, fmt.Errorf("amount must be positive")
	}
	date, err := core.ParseDate(at.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:          at.ID,
		Kind:        kind,
		Description: at.Description,
		Amount:      core.Money{Cents: cents},
		Category:    at.Category,
		Date:        date,
		Method:      at.Method,
		CreatedAt:   at.CreatedAt,
	}, nil
}

func importPayment(ap archivePayment) (core.RecurringPayment, error) {
	freq := core.Frequency(ap.Frequency)
	if !freq.Valid() {
		return core.RecurringPayment{}, fmt.Errorf("unknown frequency %q", ap.Frequency)
	}
	if ap.ID == "" {
		return core.RecurringPayment{}, fmt.Errorf("missing id")
	}
	cents, err := numberToCents(ap.Amount)
	if err != nil {
		return core.RecurringPayment{}, fmt.Errorf("amount: %w", err)
	}
	if cents <= 0 {
		return core.RecurringPayment{}, fmt.Errorf("amount must be positive")
	}
	due, err := core.ParseDate(ap.NextDue)
	if err != nil {
		return core.RecurringPayment{}, err
	}
	mode := core.BiweeklyMode(ap.BiweeklyMode)
	if freq == core.Biweekly {
		if mode == "" {
			mode = core.BiweeklySmartMode
		} else if !mode.Valid() {
			return core.RecurringPayment{}, fmt.Errorf("unknown biweekly mode %q", ap.BiweeklyMode)
		}
	} else {
		mode = ""
	}
	return core.RecurringPayment{
		ID:           ap.ID,
		Description:  ap.Description,
		Amount:       core.Money{Cents: cents},
		Frequency:    freq,
		BiweeklyMode: mode,
		NextDue:      due,
	}, nil
}

func centsToNumber(cents int64) json.Number {
	return json.Number(decimal.New(cents, -2).String())
}

func numberToCents(n json.Number) (int64, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return 0, err
	}
	return core.CentsFromDecimal(d), nil
}
