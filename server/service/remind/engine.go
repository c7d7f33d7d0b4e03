// Package remind scans for due task and manual reminders and delivers
// them by email with at-most-once semantics.
package remind

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/magicailabs/magicai/plugin/email"
	"github.com/magicailabs/magicai/plugin/metrics"
	"github.com/magicailabs/magicai/store"
)

// Clock abstracts wall-clock reads so the due-window logic is testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the real time.
func SystemClock() Clock { return systemClock{} }

// reminderHour is the local hour a day-based task reminder becomes due.
const reminderHour = 9

type Engine struct {
	store   *store.Store
	sender  email.Sender
	metrics *metrics.Exporter
	clock   Clock

	cron *cron.Cron
}

func NewEngine(st *store.Store, sender email.Sender, m *metrics.Exporter, clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock()
	}
	return &Engine{
		store:   st,
		sender:  sender,
		metrics: m,
		clock:   clock,
	}
}

// Start schedules the scan on the given cron expression. Both deployed
// cadences work: every-minute scans and a single daily run; the due-window
// checks make the cadence a latency knob, not a correctness one.
func (e *Engine) Start(spec string) error {
	e.cron = cron.New()
	_, err := e.cron.AddFunc(spec, func() {
		e.Scan(context.Background())
	})
	if err != nil {
		return errors.Wrapf(err, "invalid reminder cron expression %q", spec)
	}
	e.cron.Start()
	slog.Info("reminder engine started", "cron", spec)
	return nil
}

func (e *Engine) Stop() {
	if e.cron != nil {
		<-e.cron.Stop().Done()
	}
}

// Scan runs one pass over task and manual reminders. Item failures are
// logged and compensated; they never abort the pass.
func (e *Engine) Scan(ctx context.Context) {
	now := e.clock.Now()
	e.scanCardReminders(ctx, now)
	e.scanManualReminders(ctx, now)
}

func (e *Engine) scanCardReminders(ctx context.Context, now time.Time) {
	pending, err := e.store.ListPendingCardReminders(ctx)
	if err != nil {
		slog.Error("failed to list pending card reminders", "error", err)
		return
	}

	for _, item := range pending {
		if !cardReminderDue(item.Card, now) {
			continue
		}
		e.deliverCardReminder(ctx, item)
	}
}

// cardReminderDue applies the due window: the reminder date is the due
// date minus the configured lead days, normalized to 09:00 local, and the
// window closes at the due date itself.
func cardReminderDue(card *store.Card, now time.Time) bool {
	if card.DueTs == 0 {
		return false
	}
	due := time.Unix(card.DueTs, 0).In(now.Location())
	start := due.AddDate(0, 0, -int(card.ReminderDaysBefore))
	start = time.Date(start.Year(), start.Month(), start.Day(), reminderHour, 0, 0, 0, now.Location())
	return !now.Before(start) && now.Before(due)
}

// deliverCardReminder runs the two-phase send: claim PENDING -> SENDING,
// deliver, then settle to SENT or compensate back to PENDING. A concurrent
// tick loses the claim and skips the item.
func (e *Engine) deliverCardReminder(ctx context.Context, item *store.CardReminder) {
	claimed, err := e.store.TransitionCardReminder(ctx, item.Card.ID, store.ReminderPending, store.ReminderSending)
	if err != nil {
		slog.Error("failed to claim card reminder", "card", item.Card.UID, "error", err)
		return
	}
	if !claimed {
		return
	}

	subject, body := renderCardEmail(item)
	if e.sender.Send(item.Email, subject, body) {
		if _, err := e.store.TransitionCardReminder(ctx, item.Card.ID, store.ReminderSending, store.ReminderSent); err != nil {
			slog.Error("failed to settle card reminder", "card", item.Card.UID, "error", err)
		}
		e.metrics.CountReminderSent("card")
		slog.Info("card reminder sent", "card", item.Card.UID, "to", item.Email)
		return
	}

	// Compensate so a later tick retries. A crash right here leaves the
	// card in SENDING: undelivered but never double-sent.
	if _, err := e.store.TransitionCardReminder(ctx, item.Card.ID, store.ReminderSending, store.ReminderPending); err != nil {
		slog.Error("failed to compensate card reminder", "card", item.Card.UID, "error", err)
	}
	e.metrics.CountReminderFailure("card")
	slog.Warn("card reminder send failed, will retry", "card", item.Card.UID, "to", item.Email)
}

func (e *Engine) scanManualReminders(ctx context.Context, now time.Time) {
	due, err := e.store.ListDueReminderNotices(ctx, now.Unix())
	if err != nil {
		slog.Error("failed to list due reminders", "error", err)
		return
	}

	for _, item := range due {
		e.deliverManualReminder(ctx, item)
	}
}

func (e *Engine) deliverManualReminder(ctx context.Context, item *store.ReminderNotice) {
	claimed, err := e.store.TransitionReminder(ctx, item.Reminder.ID, store.ReminderPending, store.ReminderSending)
	if err != nil {
		slog.Error("failed to claim reminder", "reminder", item.Reminder.UID, "error", err)
		return
	}
	if !claimed {
		return
	}

	subject, body := renderReminderEmail(item)
	if e.sender.Send(item.Email, subject, body) {
		if _, err := e.store.TransitionReminder(ctx, item.Reminder.ID, store.ReminderSending, store.ReminderSent); err != nil {
			slog.Error("failed to settle reminder", "reminder", item.Reminder.UID, "error", err)
		}
		e.metrics.CountReminderSent("manual")
		slog.Info("reminder sent", "reminder", item.Reminder.UID, "to", item.Email)
		return
	}

	if _, err := e.store.TransitionReminder(ctx, item.Reminder.ID, store.ReminderSending, store.ReminderPending); err != nil {
		slog.Error("failed to compensate reminder", "reminder", item.Reminder.UID, "error", err)
	}
	e.metrics.CountReminderFailure("manual")
	slog.Warn("reminder send failed, will retry", "reminder", item.Reminder.UID, "to", item.Email)
}
