package services

import (
	"context"
	"log/slog"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/core"
)

// AlertPublisher is the outbound side of the alert feed. *amqp.Client
// satisfies it; a nil client publishes nowhere.
type AlertPublisher interface {
	PublishPaymentAlert(ctx context.Context, msg *amqp.PaymentAlertMessage) error
}

// AlertMonitor periodically scans the scheduler and publishes an alert for
// every payment inside the horizon.
type AlertMonitor struct {
	scheduler *Scheduler
	publisher AlertPublisher
	interval  time.Duration
}

func NewAlertMonitor(scheduler *Scheduler, publisher AlertPublisher, interval time.Duration) *AlertMonitor {
	if interval <= 0 {
		interval = time.Hour
	}
	return &AlertMonitor{scheduler: scheduler, publisher: publisher, interval: interval}
}

// Run checks immediately, then on every tick until the context is cancelled.
func (m *AlertMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CheckNow(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Alert monitor stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			m.CheckNow(ctx)
		}
	}
}

// CheckNow publishes one message per payment currently in the alert feed.
// Publish failures are logged per payment and do not stop the sweep.
func (m *AlertMonitor) CheckNow(ctx context.Context) int {
	today := core.DateOf(time.Now())
	alerts := m.scheduler.Alerts(today)
	if m.publisher == nil {
		slog.DebugContext(ctx, "No alert publisher configured", "alerts", len(alerts))
		return 0
	}

	published := 0
	for _, a := range alerts {
		msg := amqp.NewPaymentAlertMessage(
			a.Payment.ID,
			a.Payment.Description,
			a.Payment.Amount.Cents,
			string(a.Status),
			a.DaysDiff,
			a.Payment.NextDue.String(),
		)
		if err := m.publisher.PublishPaymentAlert(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish payment alert",
				"payment_id", a.Payment.ID, "error", err)
			continue
		}
		published++
	}

	slog.InfoContext(ctx, "Alert sweep complete",
		"alerts", len(alerts), "published", published)
	return published
}
