package core

import (
	"errors"
	"testing"
)

func validTransactionInput() TransactionInput {
	return TransactionInput{
		Kind:        Expense,
		Description: "Rent",
		Amount:      "400",
		Category:    "vivienda",
		Date:        "2025-01-02",
		Method:      "transferencia",
	}
}

func TestTransactionInputValidate(t *testing.T) {
	tx, err := validTransactionInput().Validate()
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if tx.Amount.Cents != 40000 {
		t.Errorf("amount = %d cents, want 40000", tx.Amount.Cents)
	}
	if tx.Date.String() != "2025-01-02" {
		t.Errorf("date = %s, want 2025-01-02", tx.Date)
	}
}

func TestTransactionInputValidateCollectsAllFields(t *testing.T) {
	in := TransactionInput{
		Kind:        Kind("transfer"),
		Description: "  ",
		Amount:      "-3",
		Category:    "",
		Date:        "2025-02-30",
		Method:      "",
	}
	_, err := in.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	for _, field := range []string{"kind", "description", "amount", "category", "date", "method"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Errorf("missing validation detail for %q", field)
		}
	}
}

func TestTransactionInputValidateSingleField(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*TransactionInput)
		field  string
	}{
		{"empty description", func(in *TransactionInput) { in.Description = "" }, "description"},
		{"zero amount", func(in *TransactionInput) { in.Amount = "0" }, "amount"},
		{"bad date", func(in *TransactionInput) { in.Date = "01/02/2025" }, "date"},
		{"empty category", func(in *TransactionInput) { in.Category = " " }, "category"},
		{"empty method", func(in *TransactionInput) { in.Method = "" }, "method"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validTransactionInput()
			tc.mutate(&in)
			_, err := in.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(verr.Fields) != 1 {
				t.Fatalf("expected exactly one field, got %v", verr.Fields)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Errorf("expected field %q in %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestRecurringInputValidate(t *testing.T) {
	rp, err := RecurringInput{Description: "Netflix", Amount: "9.99", Frequency: Monthly}.Validate()
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if rp.BiweeklyMode != "" {
		t.Errorf("mode = %q, want empty for monthly", rp.BiweeklyMode)
	}

	rp, err = RecurringInput{Description: "Gym", Amount: "30", Frequency: Biweekly}.Validate()
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if rp.BiweeklyMode != BiweeklySmartMode {
		t.Errorf("mode = %q, want smart default", rp.BiweeklyMode)
	}

	if _, err := (RecurringInput{Description: "x", Amount: "1", Frequency: "daily"}).Validate(); err == nil {
		t.Fatal("expected error for unknown frequency")
	}
	if _, err := (RecurringInput{Description: "x", Amount: "1", Frequency: Biweekly, BiweeklyMode: "loose"}).Validate(); err == nil {
		t.Fatal("expected error for unknown biweekly mode")
	}
}

func TestParseDateRejectsImpossibleDates(t *testing.T) {
	for _, s := range []string{"2025-02-30", "2025-13-01", "2025-00-10", "not-a-date", "2025-1-5"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) expected error", s)
		}
	}
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("leap day should parse: %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Errorf("round trip = %s", d)
	}
}

func TestSnapshotClone(t *testing.T) {
	s := Snapshot{
		Transactions:     []Transaction{{ID: "a"}},
		SavingsGoalCents: 500,
	}
	c := s.Clone()
	c.Transactions[0].ID = "b"
	if s.Transactions[0].ID != "a" {
		t.Fatal("Clone must not alias the transactions slice")
	}
}
