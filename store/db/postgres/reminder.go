package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/magicailabs/magicai/store"
)

func (d *DB) CreateReminder(ctx context.Context, create *store.Reminder) (*store.Reminder, error) {
	stmt := `INSERT INTO reminder (uid, user_id, title, description, trigger_ts, state, created_ts)
		VALUES (` + placeholders(7) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.UserID, create.Title, create.Description,
		create.TriggerTs, create.State, create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	return create, nil
}

func (d *DB) ListReminders(ctx context.Context, find *store.FindReminder) ([]*store.Reminder, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *find.UserID)
	}
	if find.State != nil {
		where, args = append(where, "state = "+placeholder(len(args)+1)), append(args, *find.State)
	}
	if find.TriggerBefore != nil {
		where, args = append(where, "trigger_ts <= "+placeholder(len(args)+1)), append(args, *find.TriggerBefore)
	}
	if find.TriggerAfter != nil {
		where, args = append(where, "trigger_ts > "+placeholder(len(args)+1)), append(args, *find.TriggerAfter)
	}

	query := `
		SELECT id, uid, user_id, title, description, trigger_ts, state, created_ts
		FROM reminder
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY trigger_ts ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Reminder, 0)
	for rows.Next() {
		r := &store.Reminder{}
		if err := rows.Scan(&r.ID, &r.UID, &r.UserID, &r.Title, &r.Description, &r.TriggerTs, &r.State, &r.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}
	return list, nil
}

func (d *DB) DeleteReminder(ctx context.Context, id, userID int32) error {
	result, err := d.db.ExecContext(ctx,
		`DELETE FROM reminder WHERE id = `+placeholder(1)+` AND user_id = `+placeholder(2),
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("reminder not found")
	}
	return nil
}

func (d *DB) ListPendingCardReminders(ctx context.Context) ([]*store.CardReminder, error) {
	query := `
		SELECT c.id, c.uid, c.section_id, c.title, c.description, c.priority, c.position,
			c.due_ts, c.reminder_enabled, c.reminder_days_before, c.reminder_state, c.created_ts,
			p.name, s.name, u.full_name, u.email, u.notification_email, u.language
		FROM card c
		JOIN section s ON s.id = c.section_id
		JOIN project p ON p.id = s.project_id
		JOIN "user" u ON u.id = p.user_id
		WHERE c.reminder_enabled AND c.due_ts > 0 AND c.reminder_state = ` + placeholder(1)

	rows, err := d.db.QueryContext(ctx, query, store.ReminderPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending card reminders: %w", err)
	}
	defer rows.Close()

	list := make([]*store.CardReminder, 0)
	for rows.Next() {
		card := &store.Card{}
		cr := &store.CardReminder{Card: card}
		var email, notifyEmail string
		if err := rows.Scan(
			&card.ID, &card.UID, &card.SectionID, &card.Title, &card.Description, &card.Priority,
			&card.Position, &card.DueTs, &card.ReminderEnabled, &card.ReminderDaysBefore,
			&card.ReminderState, &card.CreatedTs,
			&cr.ProjectName, &cr.SectionName, &cr.UserName, &email, &notifyEmail, &cr.Language,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card reminder: %w", err)
		}
		cr.Email = email
		if notifyEmail != "" {
			cr.Email = notifyEmail
		}
		list = append(list, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card reminders: %w", err)
	}
	return list, nil
}

func (d *DB) ListDueReminderNotices(ctx context.Context, now int64) ([]*store.ReminderNotice, error) {
	query := `
		SELECT r.id, r.uid, r.user_id, r.title, r.description, r.trigger_ts, r.state, r.created_ts,
			u.full_name, u.email, u.notification_email, u.language
		FROM reminder r
		JOIN "user" u ON u.id = r.user_id
		WHERE r.state = ` + placeholder(1) + ` AND r.trigger_ts <= ` + placeholder(2)

	rows, err := d.db.QueryContext(ctx, query, store.ReminderPending, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}
	defer rows.Close()

	list := make([]*store.ReminderNotice, 0)
	for rows.Next() {
		r := &store.Reminder{}
		notice := &store.ReminderNotice{Reminder: r}
		var email, notifyEmail string
		if err := rows.Scan(
			&r.ID, &r.UID, &r.UserID, &r.Title, &r.Description, &r.TriggerTs, &r.State, &r.CreatedTs,
			&notice.UserName, &email, &notifyEmail, &notice.Language,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminder notice: %w", err)
		}
		notice.Email = email
		if notifyEmail != "" {
			notice.Email = notifyEmail
		}
		list = append(list, notice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminder notices: %w", err)
	}
	return list, nil
}

func (d *DB) TransitionCardReminder(ctx context.Context, cardID int32, from, to store.ReminderState) (bool, error) {
	result, err := d.db.ExecContext(ctx,
		`UPDATE card SET reminder_state = `+placeholder(1)+
			` WHERE id = `+placeholder(2)+` AND reminder_state = `+placeholder(3),
		to, cardID, from,
	)
	if err != nil {
		return false, fmt.Errorf("failed to transition card reminder: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows > 0, nil
}

func (d *DB) TransitionReminder(ctx context.Context, reminderID int32, from, to store.ReminderState) (bool, error) {
	result, err := d.db.ExecContext(ctx,
		`UPDATE reminder SET state = `+placeholder(1)+
			` WHERE id = `+placeholder(2)+` AND state = `+placeholder(3),
		to, reminderID, from,
	)
	if err != nil {
		return false, fmt.Errorf("failed to transition reminder: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return rows > 0, nil
}
