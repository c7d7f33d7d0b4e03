package chat

import (
	"context"
	"strings"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/magicailabs/magicai/store"
)

// SendMessage runs one full exchange: ownership check, usage limits,
// duplicate guard, user-message persistence, one dispatch branch, and the
// conversation metadata update. The user message survives a provider
// failure; only pre-persistence rejections leave no trace.
func (s *Service) SendMessage(ctx context.Context, userID int32, conversationUID, content string) (*store.Message, *store.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, errors.New("message content required")
	}

	conversation, err := s.store.GetConversation(ctx, &store.FindConversation{UID: &conversationUID})
	if err != nil {
		return nil, nil, err
	}
	if conversation == nil || conversation.UserID != userID {
		return nil, nil, ErrNotFound
	}

	user, err := s.store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrNotFound
	}

	if err := s.checkLimits(ctx, user, conversation); err != nil {
		return nil, nil, err
	}
	if err := s.checkDuplicate(ctx, conversation.ID, content); err != nil {
		return nil, nil, err
	}

	agent, err := s.store.GetAgent(ctx, &store.FindAgent{ID: &conversation.AgentID})
	if err != nil {
		return nil, nil, err
	}
	if agent == nil {
		return nil, nil, errors.Errorf("agent %d not found for conversation %s", conversation.AgentID, conversationUID)
	}

	userMessage, err := s.store.CreateMessage(ctx, &store.Message{
		UID:            shortuuid.New(),
		ConversationID: conversation.ID,
		Role:           store.RoleUser,
		Content:        content,
		CreatedTs:      s.now().Unix(),
	})
	if err != nil {
		return nil, nil, err
	}

	assistant, err := s.dispatch(ctx, conversation, agent, userMessage)
	if err != nil {
		// Plain-chat provider failures surface; the user message stays.
		return userMessage, nil, err
	}
	return userMessage, assistant, nil
}

// ListMessages returns a page of the conversation's messages in
// chronological order after verifying ownership.
func (s *Service) ListMessages(ctx context.Context, userID int32, conversationUID string, limit, offset int) ([]*store.Message, error) {
	conversation, err := s.store.GetConversation(ctx, &store.FindConversation{UID: &conversationUID})
	if err != nil {
		return nil, err
	}
	if conversation == nil || conversation.UserID != userID {
		return nil, ErrNotFound
	}

	find := &store.FindMessage{ConversationID: &conversation.ID}
	if limit > 0 {
		find.Limit = &limit
		if offset > 0 {
			find.Offset = &offset
		}
	}
	return s.store.ListMessages(ctx, find)
}

// GetMedia resolves a generated media blob by its message UID, walking
// the ownership chain message -> conversation -> user.
func (s *Service) GetMedia(ctx context.Context, userID int32, messageUID string) (*store.Media, error) {
	messages, err := s.store.ListMessages(ctx, &store.FindMessage{UID: &messageUID})
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, ErrNotFound
	}

	conversation, err := s.store.GetConversation(ctx, &store.FindConversation{ID: &messages[0].ConversationID})
	if err != nil {
		return nil, err
	}
	if conversation == nil || conversation.UserID != userID {
		return nil, ErrNotFound
	}

	media, err := s.store.GetMedia(ctx, &store.FindMedia{MessageUID: &messageUID})
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, ErrNotFound
	}
	return media, nil
}
