package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/magicailabs/magicai/store"
)

func (d *DB) GetUser(ctx context.Context, find *store.FindUser) (*store.User, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "u.id = ?"), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "u.uid = ?"), append(args, *find.UID)
	}
	if find.Email != nil {
		where, args = append(where, "u.email = ?"), append(args, *find.Email)
	}

	query := `
		SELECT
			u.id, u.uid, u.email, u.notification_email, u.full_name, u.language, u.created_ts,
			s.id, s.name, s.max_conversations_per_agent, s.max_messages_per_conversation
		FROM user u
		LEFT JOIN subscription_type s ON s.id = u.subscription_type_id
		WHERE ` + strings.Join(where, " AND ")

	user := &store.User{}
	var subID sql.NullInt32
	var subName sql.NullString
	var subConvs, subMsgs sql.NullInt32
	err := d.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.UID, &user.Email, &user.NotificationEmail, &user.FullName, &user.Language, &user.CreatedTs,
		&subID, &subName, &subConvs, &subMsgs,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if subID.Valid {
		user.Subscription = &store.SubscriptionType{
			ID:                         subID.Int32,
			Name:                       subName.String,
			MaxConversationsPerAgent:   subConvs.Int32,
			MaxMessagesPerConversation: subMsgs.Int32,
		}
	}

	return user, nil
}
