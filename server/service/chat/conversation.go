package chat

import (
	"context"
	"fmt"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/magicailabs/magicai/store"
)

// CreateConversationResult is either a created conversation or a quota
// confirmation request; exactly one side is populated.
type CreateConversationResult struct {
	Conversation *store.Conversation

	// RequiresConfirmation is set when the per-agent quota is reached and
	// the caller did not confirm eviction. Nothing was created.
	RequiresConfirmation bool
	Warning              string
	OldestConversation   *store.Conversation
}

// CreateConversation opens a conversation with an agent, enforcing the
// per-agent quota. At the cap, the caller must confirm eviction of the
// oldest conversation before the new one is created.
func (s *Service) CreateConversation(ctx context.Context, userID int32, agentUID, title string, confirmDelete bool) (*CreateConversationResult, error) {
	user, err := s.store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	active := true
	agent, err := s.store.GetAgent(ctx, &store.FindAgent{UID: &agentUID, IsActive: &active})
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, ErrNotFound
	}

	count, err := s.store.CountConversations(ctx, userID, agent.ID)
	if err != nil {
		return nil, err
	}

	quota := user.MaxConversationsPerAgent()
	if count >= quota {
		oldest, err := s.oldestConversation(ctx, userID, agent.ID)
		if err != nil {
			return nil, err
		}
		if !confirmDelete {
			return &CreateConversationResult{
				RequiresConfirmation: true,
				Warning: fmt.Sprintf(
					"Has alcanzado el límite de %d conversaciones para este agente. Confirma para eliminar la más antigua.", quota),
				OldestConversation: oldest,
			}, nil
		}
		if oldest != nil {
			if err := s.store.DeleteConversation(ctx, &store.DeleteConversation{ID: oldest.ID}); err != nil {
				return nil, err
			}
		}
	}

	conversation, err := s.store.CreateConversation(ctx, &store.Conversation{
		UID:       shortuuid.New(),
		UserID:    userID,
		AgentID:   agent.ID,
		Title:     title,
		CreatedTs: s.now().Unix(),
	})
	if err != nil {
		return nil, err
	}
	return &CreateConversationResult{Conversation: conversation}, nil
}

func (s *Service) oldestConversation(ctx context.Context, userID, agentID int32) (*store.Conversation, error) {
	limit := 1
	conversations, err := s.store.ListConversations(ctx, &store.FindConversation{
		UserID:            &userID,
		AgentID:           &agentID,
		OrderByCreatedAsc: true,
		Limit:             &limit,
	})
	if err != nil {
		return nil, err
	}
	if len(conversations) == 0 {
		return nil, nil
	}
	return conversations[0], nil
}

// ListConversations returns the user's conversations, newest first,
// optionally filtered by agent.
func (s *Service) ListConversations(ctx context.Context, userID int32, agentUID string) ([]*store.Conversation, error) {
	find := &store.FindConversation{UserID: &userID}
	if agentUID != "" {
		agent, err := s.store.GetAgent(ctx, &store.FindAgent{UID: &agentUID})
		if err != nil {
			return nil, err
		}
		if agent == nil {
			return nil, ErrNotFound
		}
		find.AgentID = &agent.ID
	}
	return s.store.ListConversations(ctx, find)
}

// GetConversation returns one owned conversation.
func (s *Service) GetConversation(ctx context.Context, userID int32, conversationUID string) (*store.Conversation, error) {
	conversation, err := s.store.GetConversation(ctx, &store.FindConversation{UID: &conversationUID})
	if err != nil {
		return nil, err
	}
	if conversation == nil || conversation.UserID != userID {
		return nil, ErrNotFound
	}
	return conversation, nil
}

// DeleteConversation removes an owned conversation; messages and media
// cascade.
func (s *Service) DeleteConversation(ctx context.Context, userID int32, conversationUID string) error {
	conversation, err := s.GetConversation(ctx, userID, conversationUID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteConversation(ctx, &store.DeleteConversation{ID: conversation.ID}); err != nil {
		return errors.Wrap(err, "failed to delete conversation")
	}
	return nil
}
