package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"finanzas/internal/core"
)

// DueStatus classifies how close a recurring payment is to its due date.
type DueStatus string

const (
	StatusOverdue  DueStatus = "overdue"
	StatusDueToday DueStatus = "dueToday"
	StatusDueSoon  DueStatus = "dueSoon"
	StatusUpcoming DueStatus = "upcoming"
)

// AlertHorizonDays bounds which payments appear in the alert feed: everything
// due within a week, plus anything already overdue.
const AlertHorizonDays = 7

// PostponeDays is the default shift applied when a payment is pushed back.
const PostponeDays = 7

// Classification pairs a status with the signed distance to the due date.
type Classification struct {
	Status   DueStatus
	DaysDiff int // negative when overdue
}

// Alert is one entry of the alert feed.
type Alert struct {
	Payment core.RecurringPayment
	Classification
}

// Scheduler owns the recurring payments. All methods are safe for concurrent
// use and share state with the ledger, so a payment marked as paid and the
// transaction it produces persist atomically.
type Scheduler struct {
	st *state
}

// Add validates the input and registers a recurring payment. The first due
// date is computed from today, so a biweekly smart payment added on the 20th
// is first due on the 1st of next month.
func (s *Scheduler) Add(ctx context.Context, in core.RecurringInput, today core.Date) (core.RecurringPayment, error) {
	p, err := in.Validate()
	if err != nil {
		return core.RecurringPayment{}, err
	}

	computer, err := GetNextDueComputer(p.Frequency, p.BiweeklyMode)
	if err != nil {
		return core.RecurringPayment{}, err
	}
	p.ID = uuid.NewString()
	p.NextDue = computer.NextDue(today)

	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	s.st.snap.RecurringPayments = append(s.st.snap.RecurringPayments, p)
	s.st.persist(ctx)
	return p, nil
}

// Delete removes a recurring payment. Unknown ids are a no-op.
func (s *Scheduler) Delete(ctx context.Context, id string) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	for i, p := range s.st.snap.RecurringPayments {
		if p.ID != id {
			continue
		}
		s.st.snap.RecurringPayments = append(
			s.st.snap.RecurringPayments[:i], s.st.snap.RecurringPayments[i+1:]...)
		s.st.persist(ctx)
		return
	}
}

// Get returns a recurring payment by id.
func (s *Scheduler) Get(id string) (core.RecurringPayment, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	for _, p := range s.st.snap.RecurringPayments {
		if p.ID == id {
			return p, nil
		}
	}
	return core.RecurringPayment{}, &core.NotFoundError{Kind: "recurring payment", ID: id}
}

// List returns the recurring payments in insertion order.
func (s *Scheduler) List() []core.RecurringPayment {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	out := make([]core.RecurringPayment, len(s.st.snap.RecurringPayments))
	copy(out, s.st.snap.RecurringPayments)
	return out
}

// MarkAsPaid records the payment as settled: it synthesizes an expense dated
// today and advances the due date from the one that was just paid. Paying an
// overdue payment therefore catches up one period at a time.
func (s *Scheduler) MarkAsPaid(ctx context.Context, id string, today core.Date) (core.Transaction, error) {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	for i, p := range s.st.snap.RecurringPayments {
		if p.ID != id {
			continue
		}

		computer, err := GetNextDueComputer(p.Frequency, p.BiweeklyMode)
		if err != nil {
			return core.Transaction{}, err
		}

		tx := core.Transaction{
			ID:          uuid.NewString(),
			Kind:        core.Expense,
			Description: p.Description + " (Pago Recurrente)",
			Amount:      p.Amount,
			Category:    core.RecurringCategory,
			Date:        today,
			Method:      core.RecurringMethod,
			CreatedAt:   time.Now().UTC(),
		}

		s.st.snap.RecurringPayments[i].NextDue = computer.NextDue(p.NextDue)
		s.st.snap.Transactions = append(s.st.snap.Transactions, tx)
		s.st.persist(ctx)
		return tx, nil
	}
	return core.Transaction{}, &core.NotFoundError{Kind: "recurring payment", ID: id}
}

// Postpone shifts the due date forward by the given number of days, or by
// the default week when days is zero or negative.
func (s *Scheduler) Postpone(ctx context.Context, id string, days int) (core.RecurringPayment, error) {
	if days <= 0 {
		days = PostponeDays
	}

	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	for i, p := range s.st.snap.RecurringPayments {
		if p.ID != id {
			continue
		}
		s.st.snap.RecurringPayments[i].NextDue = p.NextDue.AddDays(days)
		s.st.persist(ctx)
		return s.st.snap.RecurringPayments[i], nil
	}
	return core.RecurringPayment{}, &core.NotFoundError{Kind: "recurring payment", ID: id}
}

// Classify buckets a payment relative to today.
func Classify(p core.RecurringPayment, today core.Date) Classification {
	diff := today.DaysUntil(p.NextDue)
	switch {
	case diff < 0:
		return Classification{Status: StatusOverdue, DaysDiff: diff}
	case diff == 0:
		return Classification{Status: StatusDueToday, DaysDiff: diff}
	case diff <= 3:
		return Classification{Status: StatusDueSoon, DaysDiff: diff}
	default:
		return Classification{Status: StatusUpcoming, DaysDiff: diff}
	}
}

// Alerts returns the payments needing attention within the horizon, overdue
// first and then by ascending distance to the due date. Payments with equal
// urgency keep their insertion order.
func (s *Scheduler) Alerts(today core.Date) []Alert {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()

	var alerts []Alert
	for _, p := range s.st.snap.RecurringPayments {
		c := Classify(p, today)
		if c.DaysDiff > AlertHorizonDays {
			continue
		}
		alerts = append(alerts, Alert{Payment: p, Classification: c})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		oi, oj := alerts[i].Status == StatusOverdue, alerts[j].Status == StatusOverdue
		if oi != oj {
			return oi
		}
		return alerts[i].DaysDiff < alerts[j].DaysDiff
	})
	return alerts
}
