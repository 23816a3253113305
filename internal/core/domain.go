package core

import (
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

const (
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
	Yearly   Frequency = "yearly"
)

const (
	BiweeklySmartMode BiweeklyMode = "smart"
	BiweeklyExactMode BiweeklyMode = "exact"
)

// Defaults applied when a recurring payment is converted into a transaction.
const (
	RecurringCategory = "servicios"
	RecurringMethod   = "transferencia"
)

type (
	Kind         string
	Frequency    string
	BiweeklyMode string

	Transaction struct {
		ID          string
		Kind        Kind
		Description string
		Amount      Money
		Category    string
		Date        Date
		Method      string
		CreatedAt   time.Time
	}

	RecurringPayment struct {
		ID           string
		Description  string
		Amount       Money
		Frequency    Frequency
		BiweeklyMode BiweeklyMode // meaningful only when Frequency == Biweekly
		NextDue      Date
	}

	// Snapshot is the unit of persistence: everything the ledger owns.
	Snapshot struct {
		Transactions      []Transaction
		RecurringPayments []RecurringPayment
		SavingsGoalCents  int64
	}
)

// KnownCategories lists the category tags the forms offer. Validation accepts
// any non-empty tag; the list exists for UI consumers.
var KnownCategories = []string{
	"salario", "freelance", "inversion", "negocio",
	"alimentacion", "restaurante", "transporte", "vivienda", "alquiler",
	"salud", "quimica", "tecnica", "prestamo", "entretenimiento",
	"educacion", "ropa", "servicios", "luz", "agua", "internet", "otro",
}

// KnownMethods lists the payment method tags the forms offer.
var KnownMethods = []string{"efectivo", "tarjeta", "transferencia", "cheque"}

func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

func (f Frequency) Valid() bool {
	switch f {
	case Weekly, Biweekly, Monthly, Yearly:
		return true
	}
	return false
}

func (m BiweeklyMode) Valid() bool {
	return m == BiweeklySmartMode || m == BiweeklyExactMode
}

// TransactionInput carries the mutable fields of a transaction as submitted by
// a form. Amount arrives as a decimal string and is parsed during validation.
type TransactionInput struct {
	Kind        Kind
	Description string
	Amount      string
	Category    string
	Date        string
	Method      string
}

// Validate checks every field and returns a *ValidationError listing all
// invalid ones, so callers can surface field-level detail in one pass.
func (in TransactionInput) Validate() (Transaction, error) {
	verr := NewValidationError()

	if !in.Kind.Valid() {
		verr.Add("kind", "must be income or expense")
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		verr.Add("description", "cannot be empty")
	} else if len(desc) > 200 {
		verr.Add("description", "too long (max 200 characters)")
	}

	cents, err := ParseDecimalToCents(in.Amount)
	if err != nil {
		verr.Add("amount", "must be a positive decimal")
	}

	if strings.TrimSpace(in.Category) == "" {
		verr.Add("category", "cannot be empty")
	}
	if strings.TrimSpace(in.Method) == "" {
		verr.Add("method", "cannot be empty")
	}

	date, err := ParseDate(strings.TrimSpace(in.Date))
	if err != nil {
		verr.Add("date", "must be a valid YYYY-MM-DD date")
	}

	if err := verr.OrNil(); err != nil {
		return Transaction{}, err
	}

	return Transaction{
		Kind:        in.Kind,
		Description: desc,
		Amount:      Money{Cents: cents},
		Category:    strings.TrimSpace(in.Category),
		Date:        date,
		Method:      strings.TrimSpace(in.Method),
	}, nil
}

// RecurringInput carries the fields of a new recurring payment.
type RecurringInput struct {
	Description  string
	Amount       string
	Frequency    Frequency
	BiweeklyMode BiweeklyMode // optional; defaults to smart for biweekly
}

func (in RecurringInput) Validate() (RecurringPayment, error) {
	verr := NewValidationError()

	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		verr.Add("description", "cannot be empty")
	} else if len(desc) > 200 {
		verr.Add("description", "too long (max 200 characters)")
	}

	cents, err := ParseDecimalToCents(in.Amount)
	if err != nil {
		verr.Add("amount", "must be a positive decimal")
	}

	if !in.Frequency.Valid() {
		verr.Add("frequency", "must be weekly, biweekly, monthly or yearly")
	}

	mode := in.BiweeklyMode
	if in.Frequency == Biweekly {
		if mode == "" {
			mode = BiweeklySmartMode
		} else if !mode.Valid() {
			verr.Add("biweeklyMode", "must be smart or exact")
		}
	} else {
		mode = ""
	}

	if err := verr.OrNil(); err != nil {
		return RecurringPayment{}, err
	}

	return RecurringPayment{
		Description:  desc,
		Amount:       Money{Cents: cents},
		Frequency:    in.Frequency,
		BiweeklyMode: mode,
	}, nil
}

// Clone returns a deep copy of the snapshot so readers never alias the slices
// owned by the ledger.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{SavingsGoalCents: s.SavingsGoalCents}
	if len(s.Transactions) > 0 {
		out.Transactions = make([]Transaction, len(s.Transactions))
		copy(out.Transactions, s.Transactions)
	}
	if len(s.RecurringPayments) > 0 {
		out.RecurringPayments = make([]RecurringPayment, len(s.RecurringPayments))
		copy(out.RecurringPayments, s.RecurringPayments)
	}
	return out
}
