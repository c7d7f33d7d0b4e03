package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/magicailabs/magicai/store"
)

func (d *DB) CreateMessage(ctx context.Context, create *store.Message) (*store.Message, error) {
	fields := []string{"uid", "conversation_id", "role", "content", "tokens_used", "created_ts"}
	args := []any{create.UID, create.ConversationID, create.Role, create.Content, create.TokensUsed, create.CreatedTs}

	stmt := `INSERT INTO message (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return create, nil
}

func (d *DB) ListMessages(ctx context.Context, find *store.FindMessage) ([]*store.Message, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "m.id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "m.uid = "+placeholder(len(args)+1)), append(args, *find.UID)
	}
	if find.ConversationID != nil {
		where, args = append(where, "m.conversation_id = "+placeholder(len(args)+1)), append(args, *find.ConversationID)
	}

	order := "m.created_ts ASC, m.id ASC"
	if find.OrderDesc {
		order = "m.created_ts DESC, m.id DESC"
	}

	query := `
		SELECT m.id, m.uid, m.conversation_id, m.role, m.content, m.tokens_used, m.created_ts,
			md.id, md.uid, md.mime_type
		FROM message m
		LEFT JOIN message_media md ON md.message_id = m.id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY ` + order
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d", *find.Limit)
		if find.Offset != nil {
			query += fmt.Sprintf(" OFFSET %d", *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Message, 0)
	for rows.Next() {
		m := &store.Message{}
		var mediaID sql.NullInt32
		var mediaUID, mediaMime sql.NullString
		if err := rows.Scan(&m.ID, &m.UID, &m.ConversationID, &m.Role, &m.Content, &m.TokensUsed, &m.CreatedTs,
			&mediaID, &mediaUID, &mediaMime); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if mediaID.Valid {
			// Blob omitted on list reads; fetched by GetMedia on demand.
			m.Media = &store.Media{
				ID:        mediaID.Int32,
				UID:       mediaUID.String,
				MessageID: m.ID,
				MimeType:  mediaMime.String,
			}
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return list, nil
}

func (d *DB) CountMessages(ctx context.Context, conversationID int32) (int32, error) {
	var count int32
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM message WHERE conversation_id = `+placeholder(1), conversationID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

func (d *DB) CountUserMessages(ctx context.Context, userID int32) (int32, error) {
	var count int32
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM message m
		JOIN conversation c ON c.id = m.conversation_id
		WHERE c.user_id = `+placeholder(1)+` AND m.role = `+placeholder(2),
		userID, store.RoleUser,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count user messages: %w", err)
	}
	return count, nil
}

// FinishExchange writes the assistant message, optional media and the
// conversation metadata update in one transaction.
func (d *DB) FinishExchange(ctx context.Context, complete *store.CompleteExchange) (*store.Message, error) {
	msg := complete.Message
	err := d.inTx(ctx, func(tx *sql.Tx) error {
		stmt := `INSERT INTO message (uid, conversation_id, role, content, tokens_used, created_ts)
			VALUES (` + placeholders(6) + `) RETURNING id`
		if err := tx.QueryRowContext(ctx, stmt,
			msg.UID, msg.ConversationID, msg.Role, msg.Content, msg.TokensUsed, msg.CreatedTs,
		).Scan(&msg.ID); err != nil {
			return fmt.Errorf("failed to create assistant message: %w", err)
		}

		if complete.Media != nil {
			media := complete.Media
			media.MessageID = msg.ID
			stmt := `INSERT INTO message_media (uid, message_id, mime_type, blob, thumbnail, created_ts)
				VALUES (` + placeholders(6) + `) RETURNING id`
			if err := tx.QueryRowContext(ctx, stmt,
				media.UID, media.MessageID, media.MimeType, media.Blob, media.Thumbnail, media.CreatedTs,
			).Scan(&media.ID); err != nil {
				return fmt.Errorf("failed to create media: %w", err)
			}
			msg.Media = media
		}

		set := []string{
			"message_count = message_count + " + placeholder(1),
			"last_message_ts = " + placeholder(2),
		}
		args := []any{complete.MessageCountDelta, complete.LastMessageTs}
		if complete.Title != nil {
			set = append(set, "title = "+placeholder(len(args)+1))
			args = append(args, *complete.Title)
		}
		args = append(args, complete.ConversationID)
		stmt = `UPDATE conversation SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("failed to update conversation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (d *DB) GetMedia(ctx context.Context, find *store.FindMedia) (*store.Media, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "md.id = "+placeholder(len(args)+1)), append(args, *find.ID)
	}
	if find.MessageID != nil {
		where, args = append(where, "md.message_id = "+placeholder(len(args)+1)), append(args, *find.MessageID)
	}
	if find.MessageUID != nil {
		where, args = append(where, "m.uid = "+placeholder(len(args)+1)), append(args, *find.MessageUID)
	}

	query := `
		SELECT md.id, md.uid, md.message_id, md.mime_type, md.blob, md.thumbnail, md.created_ts
		FROM message_media md
		JOIN message m ON m.id = md.message_id
		WHERE ` + strings.Join(where, " AND ")

	media := &store.Media{}
	err := d.db.QueryRowContext(ctx, query, args...).Scan(
		&media.ID, &media.UID, &media.MessageID, &media.MimeType, &media.Blob, &media.Thumbnail, &media.CreatedTs,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get media: %w", err)
	}
	return media, nil
}
