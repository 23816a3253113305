package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
)

type capturePublisher struct {
	mu   sync.Mutex
	msgs []*amqp.PaymentAlertMessage
}

func (p *capturePublisher) PublishPaymentAlert(_ context.Context, msg *amqp.PaymentAlertMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *capturePublisher) published() []*amqp.PaymentAlertMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*amqp.PaymentAlertMessage(nil), p.msgs...)
}

func TestAlertMonitorCheckNow(t *testing.T) {
	_, scheduler := newTestServices(t)
	today := core.DateOf(time.Now())

	scheduler.st.mu.Lock()
	scheduler.st.snap.RecurringPayments = []core.RecurringPayment{
		{ID: "overdue", Description: "Luz", Amount: core.Money{Cents: 5000},
			Frequency: core.Monthly, NextDue: today.AddDays(-2)},
		{ID: "far-out", Description: "Seguro", Amount: core.Money{Cents: 9000},
			Frequency: core.Yearly, NextDue: today.AddDays(60)},
	}
	scheduler.st.mu.Unlock()

	pub := &capturePublisher{}
	monitor := NewAlertMonitor(scheduler, pub, time.Hour)

	if got := monitor.CheckNow(context.Background()); got != 1 {
		t.Errorf("published = %d, want 1", got)
	}

	msgs := pub.published()
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
	msg := msgs[0]
	if msg.PaymentID != "overdue" || msg.Status != string(StatusOverdue) || msg.DaysDiff != -2 {
		t.Errorf("message = %+v", msg)
	}
	if msg.AmountCents != 5000 {
		t.Errorf("amountCents = %d, want 5000", msg.AmountCents)
	}
}

func TestAlertMonitorWithoutPublisher(t *testing.T) {
	_, scheduler := newTestServices(t)
	monitor := NewAlertMonitor(scheduler, nil, time.Hour)

	if got := monitor.CheckNow(context.Background()); got != 0 {
		t.Errorf("published = %d, want 0", got)
	}
}

func TestAlertMonitorRunStopsOnCancel(t *testing.T) {
	_, scheduler := newTestServices(t)
	monitor := NewAlertMonitor(scheduler, &capturePublisher{}, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- monitor.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}
