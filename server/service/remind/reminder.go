package remind

import (
	"context"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/magicailabs/magicai/store"
)

// ErrNotFound marks a missing or foreign-owned reminder.
var ErrNotFound = errors.New("not found")

// CreateReminder schedules a manual reminder for the user.
func (e *Engine) CreateReminder(ctx context.Context, userID int32, title, description string, triggerTs int64) (*store.Reminder, error) {
	if title == "" {
		return nil, errors.New("reminder title required")
	}
	if triggerTs <= 0 {
		return nil, errors.New("reminder trigger time required")
	}
	return e.store.CreateReminder(ctx, &store.Reminder{
		UID:         shortuuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		TriggerTs:   triggerTs,
		State:       store.ReminderPending,
		CreatedTs:   e.clock.Now().Unix(),
	})
}

// ListReminders returns the user's manual reminders ordered by trigger
// time.
func (e *Engine) ListReminders(ctx context.Context, userID int32) ([]*store.Reminder, error) {
	return e.store.ListReminders(ctx, &store.FindReminder{UserID: &userID})
}

// DeleteReminder removes an owned reminder by UID.
func (e *Engine) DeleteReminder(ctx context.Context, userID int32, reminderUID string) error {
	reminders, err := e.store.ListReminders(ctx, &store.FindReminder{UID: &reminderUID, UserID: &userID})
	if err != nil {
		return err
	}
	if len(reminders) == 0 {
		return ErrNotFound
	}
	return e.store.DeleteReminder(ctx, reminders[0].ID, userID)
}
