package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"finanzas/internal/core"
)

func addTx(t *testing.T, ledger *Ledger, kind core.Kind, desc, amount, category, date string) {
	t.Helper()
	_, err := ledger.Add(context.Background(), core.TransactionInput{
		Kind: kind, Description: desc, Amount: amount,
		Category: category, Date: date, Method: "tarjeta",
	})
	if err != nil {
		t.Fatalf("add %s: %v", desc, err)
	}
}

func TestAnalyticsTotals(t *testing.T) {
	ledger, _ := newTestServices(t)
	a := NewAnalytics(ledger)

	addTx(t, ledger, core.Income, "Salario", "1000", "salario", "2025-03-01")
	addTx(t, ledger, core.Expense, "Alquiler", "400", "alquiler", "2025-03-02")

	totals := a.Totals()
	if totals.Income.Cents != 100000 {
		t.Errorf("income = %d cents, want 100000", totals.Income.Cents)
	}
	if totals.Expenses.Cents != 40000 {
		t.Errorf("expenses = %d cents, want 40000", totals.Expenses.Cents)
	}
	if totals.Balance.Cents != 60000 {
		t.Errorf("balance = %d cents, want 60000", totals.Balance.Cents)
	}
}

func TestAnalyticsTotalsEmpty(t *testing.T) {
	ledger, _ := newTestServices(t)
	totals := NewAnalytics(ledger).Totals()
	if totals.Income.Cents != 0 || totals.Expenses.Cents != 0 || totals.Balance.Cents != 0 {
		t.Errorf("empty ledger totals = %+v", totals)
	}
}

func TestAnalyticsMonthly(t *testing.T) {
	ledger, _ := newTestServices(t)
	a := NewAnalytics(ledger)

	addTx(t, ledger, core.Income, "Salario", "1000", "salario", "2025-03-01")
	addTx(t, ledger, core.Expense, "Alquiler", "400", "alquiler", "2025-03-02")
	addTx(t, ledger, core.Expense, "Cafe", "20", "alimentacion", "2025-03-05")
	addTx(t, ledger, core.Expense, "Otro mes", "999", "otro", "2025-04-01")

	// Reporting on a past month: average over the full month length.
	report := a.Monthly("2025-03", core.NewDate(2025, 5, 20))

	if report.Income.Cents != 100000 {
		t.Errorf("income = %d, want 100000", report.Income.Cents)
	}
	if report.Expenses.Cents != 42000 {
		t.Errorf("expenses = %d, want 42000", report.Expenses.Cents)
	}
	if report.TransactionCount != 3 {
		t.Errorf("count = %d, want 3", report.TransactionCount)
	}
	if report.TopExpenseCategory != "alquiler" {
		t.Errorf("top category = %q, want alquiler", report.TopExpenseCategory)
	}
	// 420 / 31 days = 13.55
	if want := decimal.RequireFromString("13.55"); !report.DailyAverage.Equal(want) {
		t.Errorf("daily average = %s, want %s", report.DailyAverage, want)
	}
}

func TestAnalyticsMonthlyCurrentMonthAveragesOverElapsedDays(t *testing.T) {
	ledger, _ := newTestServices(t)
	a := NewAnalytics(ledger)

	addTx(t, ledger, core.Expense, "Cafe", "100", "alimentacion", "2025-03-02")

	report := a.Monthly("2025-03", core.NewDate(2025, 3, 10))

	// 100 / 10 elapsed days = 10
	if want := decimal.RequireFromString("10"); !report.DailyAverage.Equal(want) {
		t.Errorf("daily average = %s, want %s", report.DailyAverage, want)
	}
}

func TestTopExpenseCategoryTieBreak(t *testing.T) {
	ledger, _ := newTestServices(t)
	a := NewAnalytics(ledger)

	addTx(t, ledger, core.Expense, "Cafe", "50", "alimentacion", "2025-03-01")
	addTx(t, ledger, core.Expense, "Bus", "50", "transporte", "2025-03-02")

	report := a.Monthly("2025-03", core.NewDate(2025, 4, 1))
	if report.TopExpenseCategory != "alimentacion" {
		t.Errorf("tie should go to first-seen category, got %q", report.TopExpenseCategory)
	}
}

func TestAnalyticsByCategory(t *testing.T) {
	ledger, _ := newTestServices(t)
	a := NewAnalytics(ledger)

	addTx(t, ledger, core.Expense, "Alquiler", "400", "alquiler", "2025-03-01")
	addTx(t, ledger, core.Expense, "Cafe", "10", "alimentacion", "2025-03-02")
	addTx(t, ledger, core.Expense, "Cena", "30", "alimentacion", "2025-03-03")
	addTx(t, ledger, core.Income, "Salario", "1000", "salario", "2025-03-01")

	groups := a.ByCategory(core.Expense)
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Key != "alquiler" || groups[0].Total.Cents != 40000 || groups[0].Count != 1 {
		t.Errorf("groups[0] = %+v", groups[0])
	}
	if groups[1].Key != "alimentacion" || groups[1].Total.Cents != 4000 || groups[1].Count != 2 {
		t.Errorf("groups[1] = %+v", groups[1])
	}
}

func TestAnalyticsByMethod(t *testing.T) {
	ledger, _ := newTestServices(t)
	a := NewAnalytics(ledger)

	ctx := context.Background()
	ledger.Add(ctx, core.TransactionInput{
		Kind: core.Income, Description: "Salario", Amount: "1000",
		Category: "salario", Date: "2025-03-01", Method: "transferencia",
	})
	ledger.Add(ctx, core.TransactionInput{
		Kind: core.Expense, Description: "Cafe", Amount: "10",
		Category: "alimentacion", Date: "2025-03-02", Method: "tarjeta",
	})

	groups := a.ByMethod()
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Key != "transferencia" || groups[1].Key != "tarjeta" {
		t.Errorf("order = %s, %s", groups[0].Key, groups[1].Key)
	}
}

func TestAnalyticsSavingsProgress(t *testing.T) {
	tests := []struct {
		name        string
		goal        string
		income      string
		expense     string
		hasGoal     bool
		percent     string
		reachedGoal bool
	}{
		{"no goal", "", "1000", "400", false, "0", false},
		{"halfway", "1200", "1000", "400", true, "50", false},
		{"reached", "500", "1000", "400", true, "100", true},
		{"overshoot clamps display", "300", "1000", "400", true, "100", true},
		{"negative balance clamps to zero", "500", "100", "400", true, "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger, _ := newTestServices(t)
			a := NewAnalytics(ledger)
			ctx := context.Background()

			if tt.goal != "" {
				if _, err := ledger.SetSavingsGoal(ctx, tt.goal); err != nil {
					t.Fatalf("set goal: %v", err)
				}
			}
			addTx(t, ledger, core.Income, "Ingreso", tt.income, "salario", "2025-03-01")
			addTx(t, ledger, core.Expense, "Gasto", tt.expense, "otro", "2025-03-02")

			p := a.SavingsProgress(core.NewDate(2025, 3, 15))
			if p.HasGoal != tt.hasGoal {
				t.Errorf("hasGoal = %v, want %v", p.HasGoal, tt.hasGoal)
			}
			if want := decimal.RequireFromString(tt.percent); !p.Percent.Equal(want) {
				t.Errorf("percent = %s, want %s", p.Percent, want)
			}
			if p.ReachedGoal != tt.reachedGoal {
				t.Errorf("reachedGoal = %v, want %v", p.ReachedGoal, tt.reachedGoal)
			}
		})
	}
}

func TestSavingsProgressCountsOnlyCurrentMonth(t *testing.T) {
	ledger, _ := newTestServices(t)
	a := NewAnalytics(ledger)
	ctx := context.Background()

	if _, err := ledger.SetSavingsGoal(ctx, "100"); err != nil {
		t.Fatalf("set goal: %v", err)
	}
	addTx(t, ledger, core.Income, "Ingreso viejo", "1000", "salario", "2020-01-15")

	p := a.SavingsProgress(core.NewDate(2025, 3, 15))
	if p.Balance.Cents != 0 {
		t.Errorf("balance = %d cents, want 0 (income is from another month)", p.Balance.Cents)
	}
	if !p.Percent.Equal(decimal.Zero) {
		t.Errorf("percent = %s, want 0", p.Percent)
	}
	if p.ReachedGoal {
		t.Error("reachedGoal = true, want false")
	}

	addTx(t, ledger, core.Income, "Ingreso actual", "50", "salario", "2025-03-10")
	p = a.SavingsProgress(core.NewDate(2025, 3, 15))
	if want := decimal.RequireFromString("50"); !p.Percent.Equal(want) {
		t.Errorf("percent = %s, want 50", p.Percent)
	}
}

func TestTopExpenseDescriptionsNormalizes(t *testing.T) {
	ledger, _ := newTestServices(t)
	a := NewAnalytics(ledger)

	addTx(t, ledger, core.Expense, "CAFE", "10", "alimentacion", "2025-03-01")
	addTx(t, ledger, core.Expense, "cafe", "15", "alimentacion", "2025-03-02")
	addTx(t, ledger, core.Expense, "Alquiler", "400", "alquiler", "2025-03-03")
	addTx(t, ledger, core.Income, "Salario", "1000", "salario", "2025-03-01")

	top := a.TopExpenseDescriptions(0)
	if len(top) != 2 {
		t.Fatalf("top = %d entries, want 2", len(top))
	}
	if top[0].Key != "Alquiler" || top[0].Total.Cents != 40000 {
		t.Errorf("top[0] = %+v", top[0])
	}
	if top[1].Key != "Cafe" || top[1].Total.Cents != 2500 || top[1].Count != 2 {
		t.Errorf("top[1] = %+v, want merged Cafe entry", top[1])
	}
}

func TestTopExpenseDescriptionsLimit(t *testing.T) {
	ledger, _ := newTestServices(t)
	a := NewAnalytics(ledger)

	addTx(t, ledger, core.Expense, "A", "30", "otro", "2025-03-01")
	addTx(t, ledger, core.Expense, "B", "20", "otro", "2025-03-01")
	addTx(t, ledger, core.Expense, "C", "10", "otro", "2025-03-01")

	top := a.TopExpenseDescriptions(2)
	if len(top) != 2 {
		t.Fatalf("top = %d entries, want 2", len(top))
	}
	if top[0].Key != "A" || top[1].Key != "B" {
		t.Errorf("order = %s, %s", top[0].Key, top[1].Key)
	}
}

func TestNormalizeDescription(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CAFE", "Cafe"},
		{"cafe", "Cafe"},
		{"  cafe con leche  ", "Cafe con leche"},
		{"", ""},
		{"ñoquis", "Ñoquis"},
	}
	for _, tt := range tests {
		if got := NormalizeDescription(tt.in); got != tt.want {
			t.Errorf("NormalizeDescription(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
