package services

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"finanzas/internal/core"
)

// DefaultTopDescriptions bounds the frequent-expense report.
const DefaultTopDescriptions = 10

// Totals is the whole-ledger balance sheet.
type Totals struct {
	Income   core.Money
	Expenses core.Money
	Balance  core.Money
}

// MonthlyReport summarizes a single calendar month.
type MonthlyReport struct {
	YearMonth          string
	Income             core.Money
	Expenses           core.Money
	Balance            core.Money
	TransactionCount   int
	TopExpenseCategory string // empty when the month has no expenses
	DailyAverage       decimal.Decimal
}

// GroupTotal is one aggregation bucket (category or payment method).
type GroupTotal struct {
	Key   string
	Total core.Money
	Count int
}

// SavingsProgress reports how far the current month's balance is toward the
// goal.
type SavingsProgress struct {
	HasGoal     bool
	Goal        core.Money
	Balance     core.Money      // balance of the month being measured
	Percent     decimal.Decimal // clamped to [0, 100]
	ReachedGoal bool
}

// Analytics derives reports from the ledger. Every report recomputes from
// the current snapshot, so results always agree with the transaction list.
type Analytics struct {
	ledger *Ledger
}

func NewAnalytics(ledger *Ledger) *Analytics {
	return &Analytics{ledger: ledger}
}

// Totals sums income and expenses over the whole ledger.
func (a *Analytics) Totals() Totals {
	return computeTotals(a.ledger.Snapshot().Transactions)
}

func computeTotals(txs []core.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Kind {
		case core.Income:
			t.Income.Cents += tx.Amount.Cents
		case core.Expense:
			t.Expenses.Cents += tx.Amount.Cents
		}
	}
	t.Balance.Cents = t.Income.Cents - t.Expenses.Cents
	return t
}

// Monthly reports on one YYYY-MM month. The daily average divides the month's
// expenses by the days elapsed so far when reporting on the current month,
// and by the full month length otherwise.
func (a *Analytics) Monthly(yearMonth string, today core.Date) MonthlyReport {
	report := MonthlyReport{YearMonth: yearMonth}

	monthTxs := monthTransactions(a.ledger.Snapshot().Transactions, yearMonth)

	totals := computeTotals(monthTxs)
	report.Income = totals.Income
	report.Expenses = totals.Expenses
	report.Balance = totals.Balance
	report.TransactionCount = len(monthTxs)
	report.TopExpenseCategory = topExpenseCategory(monthTxs)

	divisor := daysElapsed(yearMonth, today)
	if divisor > 0 {
		report.DailyAverage = report.Expenses.Decimal().
			Div(decimal.NewFromInt(int64(divisor))).Round(2)
	}
	return report
}

func monthTransactions(txs []core.Transaction, yearMonth string) []core.Transaction {
	var out []core.Transaction
	for _, tx := range txs {
		if tx.Date.YearMonth() == yearMonth {
			out = append(out, tx)
		}
	}
	return out
}

// topExpenseCategory returns the expense category with the highest total.
// Ties go to the category seen first.
func topExpenseCategory(txs []core.Transaction) string {
	totals := make(map[string]int64)
	var order []string
	for _, tx := range txs {
		if tx.Kind != core.Expense {
			continue
		}
		if _, seen := totals[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		totals[tx.Category] += tx.Amount.Cents
	}

	var top string
	var best int64
	for _, cat := range order {
		if totals[cat] > best {
			top, best = cat, totals[cat]
		}
	}
	return top
}

// daysElapsed returns the day count to average over: days into the month if
// it is the current one, its full length otherwise, 0 for unparseable input.
func daysElapsed(yearMonth string, today core.Date) int {
	first, err := core.ParseDate(yearMonth + "-01")
	if err != nil {
		return 0
	}
	if today.YearMonth() == yearMonth {
		return today.Day()
	}
	return core.DaysInMonth(first.Year(), int(first.Month()))
}

// ByCategory aggregates transactions of one kind per category, largest
// totals first. Ties keep first-seen order.
func (a *Analytics) ByCategory(kind core.Kind) []GroupTotal {
	return groupBy(a.ledger.Snapshot().Transactions, func(tx core.Transaction) (string, bool) {
		return tx.Category, tx.Kind == kind
	})
}

// ByMethod aggregates all transactions per payment method, largest totals
// first.
func (a *Analytics) ByMethod() []GroupTotal {
	return groupBy(a.ledger.Snapshot().Transactions, func(tx core.Transaction) (string, bool) {
		return tx.Method, true
	})
}

func groupBy(txs []core.Transaction, key func(core.Transaction) (string, bool)) []GroupTotal {
	index := make(map[string]int)
	var groups []GroupTotal
	for _, tx := range txs {
		k, ok := key(tx)
		if !ok {
			continue
		}
		i, seen := index[k]
		if !seen {
			i = len(groups)
			index[k] = i
			groups = append(groups, GroupTotal{Key: k})
		}
		groups[i].Total.Cents += tx.Amount.Cents
		groups[i].Count++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Total.Cents > groups[j].Total.Cents
	})
	return groups
}

// SavingsProgress measures the balance of today's month against the savings
// goal. Only transactions dated in that month count, so income from earlier
// months never inflates the progress. Percent is clamped for display;
// ReachedGoal uses the unclamped value.
func (a *Analytics) SavingsProgress(today core.Date) SavingsProgress {
	snap := a.ledger.Snapshot()
	totals := computeTotals(monthTransactions(snap.Transactions, today.YearMonth()))

	progress := SavingsProgress{
		Goal:    core.Money{Cents: snap.SavingsGoalCents},
		Balance: totals.Balance,
	}
	if snap.SavingsGoalCents <= 0 {
		return progress
	}
	progress.HasGoal = true

	raw := totals.Balance.Decimal().
		Div(progress.Goal.Decimal()).
		Mul(decimal.NewFromInt(100)).Round(2)
	progress.ReachedGoal = raw.GreaterThanOrEqual(decimal.NewFromInt(100))

	switch {
	case raw.IsNegative():
		progress.Percent = decimal.Zero
	case raw.GreaterThan(decimal.NewFromInt(100)):
		progress.Percent = decimal.NewFromInt(100)
	default:
		progress.Percent = raw
	}
	return progress
}

// TopExpenseDescriptions groups expenses by normalized description and
// returns the costliest ones. Limit falls back to the default when zero or
// negative.
func (a *Analytics) TopExpenseDescriptions(limit int) []GroupTotal {
	if limit <= 0 {
		limit = DefaultTopDescriptions
	}

	groups := groupBy(a.ledger.Snapshot().Transactions, func(tx core.Transaction) (string, bool) {
		return NormalizeDescription(tx.Description), tx.Kind == core.Expense
	})
	if len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// NormalizeDescription canonicalizes free-form descriptions so "CAFE" and
// "cafe" count as the same expense: first letter upper, rest lower.
func NormalizeDescription(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
