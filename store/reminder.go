package store

import "context"

// ReminderState is the two-phase delivery state of a reminder. The engine
// claims an item with PENDING -> SENDING before attempting delivery, then
// settles SENDING -> SENT on success or SENDING -> PENDING on failure.
// A crash between the claim and the settle leaves a false negative (marked
// but undelivered), never a duplicate send.
type ReminderState string

const (
	ReminderPending ReminderState = "PENDING"
	ReminderSending ReminderState = "SENDING"
	ReminderSent    ReminderState = "SENT"
)

// Reminder is a manual, user-scheduled notification.
type Reminder struct {
	UID         string
	Title       string
	Description string
	State       ReminderState
	TriggerTs   int64
	CreatedTs   int64
	ID          int32
	UserID      int32
}

type FindReminder struct {
	ID     *int32
	UID    *string
	UserID *int32
	State  *ReminderState
	// TriggerBefore limits to reminders due at or before the timestamp.
	TriggerBefore *int64
	// TriggerAfter limits to reminders due strictly after the timestamp.
	TriggerAfter *int64
}

// CardReminder is the joined view the reminder scan works on: the card
// plus everything needed to address and phrase the email.
type CardReminder struct {
	Card        *Card
	ProjectName string
	SectionName string
	UserName    string
	Email       string
	Language    Language
}

// ReminderNotice is the joined view for manual reminders.
type ReminderNotice struct {
	Reminder *Reminder
	UserName string
	Email    string
	Language Language
}

func (s *Store) CreateReminder(ctx context.Context, create *Reminder) (*Reminder, error) {
	return s.driver.CreateReminder(ctx, create)
}

func (s *Store) ListReminders(ctx context.Context, find *FindReminder) ([]*Reminder, error) {
	return s.driver.ListReminders(ctx, find)
}

func (s *Store) DeleteReminder(ctx context.Context, id, userID int32) error {
	return s.driver.DeleteReminder(ctx, id, userID)
}

// ListPendingCardReminders returns cards with reminders enabled, state
// PENDING and a due date set, joined with owner details.
func (s *Store) ListPendingCardReminders(ctx context.Context) ([]*CardReminder, error) {
	return s.driver.ListPendingCardReminders(ctx)
}

// ListDueReminderNotices returns manual reminders due at or before now in
// state PENDING, joined with owner details.
func (s *Store) ListDueReminderNotices(ctx context.Context, now int64) ([]*ReminderNotice, error) {
	return s.driver.ListDueReminderNotices(ctx, now)
}

// TransitionCardReminder atomically moves a card's reminder state from
// `from` to `to`. It reports false when the card was not in `from`, which
// means another tick claimed it first.
func (s *Store) TransitionCardReminder(ctx context.Context, cardID int32, from, to ReminderState) (bool, error) {
	return s.driver.TransitionCardReminder(ctx, cardID, from, to)
}

// TransitionReminder is the manual-reminder counterpart of
// TransitionCardReminder.
func (s *Store) TransitionReminder(ctx context.Context, reminderID int32, from, to ReminderState) (bool, error) {
	return s.driver.TransitionReminder(ctx, reminderID, from, to)
}
