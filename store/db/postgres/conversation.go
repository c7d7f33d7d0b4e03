package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/magicailabs/magicai/store"
)

func (d *DB) CreateConversation(ctx context.Context, create *store.Conversation) (*store.Conversation, error) {
	fields := []string{"uid", "user_id", "agent_id", "title", "message_count", "last_message_ts", "created_ts"}
	args := []any{create.UID, create.UserID, create.AgentID, create.Title, create.MessageCount, create.LastMessageTs, create.CreatedTs}

	stmt := `INSERT INTO conversation (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return create, nil
}

func (d *DB) ListConversations(ctx context.Context, find *store.FindConversation) ([]*store.Conversation, error) {
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
	if find.AgentID != nil {
		where, args = append(where, "agent_id = "+placeholder(len(args)+1)), append(args, *find.AgentID)
	}

	order := "created_ts DESC"
	if find.OrderByCreatedAsc {
		order = "created_ts ASC"
	}

	query := `
		SELECT id, uid, user_id, agent_id, title, message_count, last_message_ts, created_ts
		FROM conversation
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY ` + order
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d", *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Conversation, 0)
	for rows.Next() {
		c := &store.Conversation{}
		if err := rows.Scan(&c.ID, &c.UID, &c.UserID, &c.AgentID, &c.Title, &c.MessageCount, &c.LastMessageTs, &c.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversations: %w", err)
	}
	return list, nil
}

func (d *DB) UpdateConversation(ctx context.Context, update *store.UpdateConversation) (*store.Conversation, error) {
	set, args := []string{}, []any{}

	if update.Title != nil {
		set, args = append(set, "title = "+placeholder(len(args)+1)), append(args, *update.Title)
	}
	if update.LastMessageTs != nil {
		set, args = append(set, "last_message_ts = "+placeholder(len(args)+1)), append(args, *update.LastMessageTs)
	}
	if update.MessageCountDelta != 0 {
		set, args = append(set, "message_count = message_count + "+placeholder(len(args)+1)), append(args, update.MessageCountDelta)
	}

	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, update.ID)
	stmt := `UPDATE conversation SET ` + strings.Join(set, ", ") +
		` WHERE id = ` + placeholder(len(args)) +
		` RETURNING id, uid, user_id, agent_id, title, message_count, last_message_ts, created_ts`

	result := &store.Conversation{}
	err := d.db.QueryRowContext(ctx, stmt, args...).Scan(
		&result.ID, &result.UID, &result.UserID, &result.AgentID, &result.Title,
		&result.MessageCount, &result.LastMessageTs, &result.CreatedTs,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("conversation not found")
		}
		return nil, fmt.Errorf("failed to update conversation: %w", err)
	}
	return result, nil
}

func (d *DB) DeleteConversation(ctx context.Context, delete *store.DeleteConversation) error {
	// Messages and media cascade.
	result, err := d.db.ExecContext(ctx, `DELETE FROM conversation WHERE id = `+placeholder(1), delete.ID)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("conversation not found")
	}
	return nil
}

func (d *DB) CountConversations(ctx context.Context, userID, agentID int32) (int32, error) {
	var count int32
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM conversation WHERE user_id = `+placeholder(1)+` AND agent_id = `+placeholder(2),
		userID, agentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count conversations: %w", err)
	}
	return count, nil
}
