package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/magicailabs/magicai/store"
)

func (d *DB) CreateProject(ctx context.Context, create *store.Project) (*store.Project, error) {
	stmt := `INSERT INTO project (uid, user_id, name, created_ts)
		VALUES (` + placeholders(4) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.UserID, create.Name, create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return create, nil
}

func (d *DB) ListProjects(ctx context.Context, find *store.FindProject) ([]*store.Project, error) {
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

	query := `
		SELECT id, uid, user_id, name, created_ts
		FROM project
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Project, 0)
	for rows.Next() {
		p := &store.Project{}
		if err := rows.Scan(&p.ID, &p.UID, &p.UserID, &p.Name, &p.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	return list, nil
}

func (d *DB) DeleteProject(ctx context.Context, id int32) error {
	// Sections, cards cascade.
	result, err := d.db.ExecContext(ctx, `DELETE FROM project WHERE id = `+placeholder(1), id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("project not found")
	}
	return nil
}

func (d *DB) CreateSection(ctx context.Context, create *store.Section) (*store.Section, error) {
	stmt := `INSERT INTO section (uid, project_id, name, position, created_ts)
		VALUES (` + placeholders(5) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.ProjectID, create.Name, create.Position, create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create section: %w", err)
	}
	return create, nil
}

func (d *DB) ListSections(ctx context.Context, find *store.FindSection) ([]*store.Section, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.ProjectID != nil {
		where, args = append(where, "project_id = "+placeholder(len(args)+1)), append(args, *find.ProjectID)
	}

	query := `
		SELECT id, uid, project_id, name, position, created_ts
		FROM section
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY position ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Section, 0)
	for rows.Next() {
		s := &store.Section{}
		if err := rows.Scan(&s.ID, &s.UID, &s.ProjectID, &s.Name, &s.Position, &s.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sections: %w", err)
	}
	return list, nil
}

func (d *DB) UpdateSection(ctx context.Context, update *store.UpdateSection) (*store.Section, error) {
	set, args := []string{}, []any{}

	if update.Name != nil {
		set, args = append(set, "name = "+placeholder(len(args)+1)), append(args, *update.Name)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, update.ID)
	stmt := `UPDATE section SET ` + strings.Join(set, ", ") +
		` WHERE id = ` + placeholder(len(args)) +
		` RETURNING id, uid, project_id, name, position, created_ts`

	section := &store.Section{}
	err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&section.ID, &section.UID, &section.ProjectID, &section.Name, &section.Position, &section.CreatedTs,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("section not found")
		}
		return nil, fmt.Errorf("failed to update section: %w", err)
	}
	return section, nil
}

func (d *DB) DeleteSection(ctx context.Context, id int32, renumber []store.PositionWrite) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM section WHERE id = `+placeholder(1), id)
		if err != nil {
			return fmt.Errorf("failed to delete section: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("section not found")
		}
		return applyPositions(ctx, tx, "section", renumber)
	})
}

func (d *DB) ApplySectionOrder(ctx context.Context, projectID int32, writes []store.PositionWrite) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		return applyScopedPositions(ctx, tx, "section", "project_id", projectID, writes)
	})
}

func (d *DB) CreateCard(ctx context.Context, create *store.Card) (*store.Card, error) {
	fields := []string{
		"uid", "section_id", "title", "description", "priority", "position",
		"due_ts", "reminder_enabled", "reminder_days_before", "reminder_state", "created_ts",
	}
	args := []any{
		create.UID, create.SectionID, create.Title, create.Description, create.Priority, create.Position,
		create.DueTs, create.ReminderEnabled, create.ReminderDaysBefore, create.ReminderState, create.CreatedTs,
	}

	stmt := `INSERT INTO card (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}
	return create, nil
}

func (d *DB) ListCards(ctx context.Context, find *store.FindCard) ([]*store.Card, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.SectionID != nil {
		where, args = append(where, "section_id = "+placeholder(len(args)+1)), append(args, *find.SectionID)
	}

	query := `
		SELECT id, uid, section_id, title, description, priority, position,
			due_ts, reminder_enabled, reminder_days_before, reminder_state, created_ts
		FROM card
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY position ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cards: %w", err)
	}
	return list, nil
}

func scanCard(rows *sql.Rows) (*store.Card, error) {
	card := &store.Card{}
	if err := rows.Scan(
		&card.ID, &card.UID, &card.SectionID, &card.Title, &card.Description, &card.Priority,
		&card.Position, &card.DueTs, &card.ReminderEnabled, &card.ReminderDaysBefore,
		&card.ReminderState, &card.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to scan card: %w", err)
	}
	return card, nil
}

func (d *DB) UpdateCard(ctx context.Context, update *store.UpdateCard) (*store.Card, error) {
	set, args := []string{}, []any{}

	if update.Title != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *update.Title)
	}
	if update.Description != nil {
		set, args = append(set, "description = "+placeholder(len(args)+1)), append(args, *update.Description)
	}
	if update.Priority != nil {
		set, args = append(set, "priority = "+placeholder(len(args)+1)), append(args, *update.Priority)
	}
	if update.DueTs != nil {
		set, args = append(set, "due_ts = "+placeholder(len(args)+1)), append(args, *update.DueTs)
	}
	if update.ReminderEnabled != nil {
		set, args = append(set, "reminder_enabled = "+placeholder(len(args)+1)), append(args, *update.ReminderEnabled)
	}
	if update.ReminderDaysBefore != nil {
		set, args = append(set, "reminder_days_before = "+placeholder(len(args)+1)), append(args, *update.ReminderDaysBefore)
	}
	if update.ResetReminder {
		set, args = append(set, "reminder_state = "+placeholder(len(args)+1)), append(args, store.ReminderPending)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, update.ID)
	stmt := `UPDATE card SET ` + strings.Join(set, ", ") +
		` WHERE id = ` + placeholder(len(args)) +
		` RETURNING id, uid, section_id, title, description, priority, position,
			due_ts, reminder_enabled, reminder_days_before, reminder_state, created_ts`

	card := &store.Card{}
	err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&card.ID, &card.UID, &card.SectionID, &card.Title, &card.Description, &card.Priority,
		&card.Position, &card.DueTs, &card.ReminderEnabled, &card.ReminderDaysBefore,
		&card.ReminderState, &card.CreatedTs,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("card not found")
		}
		return nil, fmt.Errorf("failed to update card: %w", err)
	}
	return card, nil
}

func (d *DB) DeleteCard(ctx context.Context, id int32, renumber []store.PositionWrite) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM card WHERE id = `+placeholder(1), id)
		if err != nil {
			return fmt.Errorf("failed to delete card: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("card not found")
		}
		return applyPositions(ctx, tx, "card", renumber)
	})
}

func (d *DB) MoveCard(ctx context.Context, move *store.CardMove) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		if err := applyPositions(ctx, tx, "card", move.Shifts); err != nil {
			return err
		}
		stmt := `UPDATE card SET section_id = ` + placeholder(1) + `, position = ` + placeholder(2) +
			` WHERE id = ` + placeholder(3)
		result, err := tx.ExecContext(ctx, stmt, move.TargetSectionID, move.Position, move.CardID)
		if err != nil {
			return fmt.Errorf("failed to move card: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("card not found")
		}
		return nil
	})
}

func (d *DB) ApplyCardOrder(ctx context.Context, sectionID int32, writes []store.PositionWrite) error {
	return d.inTx(ctx, func(tx *sql.Tx) error {
		return applyScopedPositions(ctx, tx, "card", "section_id", sectionID, writes)
	})
}

// applyPositions writes a batch of position updates within an open
// transaction.
func applyPositions(ctx context.Context, tx *sql.Tx, table string, writes []store.PositionWrite) error {
	for _, w := range writes {
		stmt := `UPDATE ` + table + ` SET position = ` + placeholder(1) + ` WHERE id = ` + placeholder(2)
		if _, err := tx.ExecContext(ctx, stmt, w.Position, w.ID); err != nil {
			return fmt.Errorf("failed to update %s position: %w", table, err)
		}
	}
	return nil
}

// applyScopedPositions is applyPositions with a parent guard so a stray ID
// cannot renumber a row outside the target scope.
func applyScopedPositions(ctx context.Context, tx *sql.Tx, table, parentColumn string, parentID int32, writes []store.PositionWrite) error {
	for _, w := range writes {
		stmt := `UPDATE ` + table + ` SET position = ` + placeholder(1) +
			` WHERE id = ` + placeholder(2) + ` AND ` + parentColumn + ` = ` + placeholder(3)
		result, err := tx.ExecContext(ctx, stmt, w.Position, w.ID, parentID)
		if err != nil {
			return fmt.Errorf("failed to update %s position: %w", table, err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return fmt.Errorf("%s %d not in %s %d", table, w.ID, parentColumn, parentID)
		}
	}
	return nil
}
