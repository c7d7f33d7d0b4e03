package store

import "context"

// Conversation groups the message exchange between one user and one agent.
// Invariant: MessageCount equals the number of persisted messages belonging
// to the conversation; every completed turn increments it by two.
type Conversation struct {
	UID           string
	Title         string
	CreatedTs     int64
	LastMessageTs int64
	ID            int32
	UserID        int32
	AgentID       int32
	MessageCount  int32
}

type FindConversation struct {
	ID      *int32
	UID     *string
	UserID  *int32
	AgentID *int32
	// OrderByCreatedAsc lists oldest first; used for quota eviction.
	OrderByCreatedAsc bool
	Limit             *int
}

type UpdateConversation struct {
	Title         *string
	LastMessageTs *int64
	// MessageCountDelta is added to the running counter.
	MessageCountDelta int32
	ID                int32
}

type DeleteConversation struct {
	ID int32
}

func (s *Store) CreateConversation(ctx context.Context, create *Conversation) (*Conversation, error) {
	return s.driver.CreateConversation(ctx, create)
}

func (s *Store) ListConversations(ctx context.Context, find *FindConversation) ([]*Conversation, error) {
	return s.driver.ListConversations(ctx, find)
}

func (s *Store) GetConversation(ctx context.Context, find *FindConversation) (*Conversation, error) {
	conversations, err := s.driver.ListConversations(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(conversations) == 0 {
		return nil, nil
	}
	return conversations[0], nil
}

func (s *Store) UpdateConversation(ctx context.Context, update *UpdateConversation) (*Conversation, error) {
	return s.driver.UpdateConversation(ctx, update)
}

func (s *Store) DeleteConversation(ctx context.Context, delete *DeleteConversation) error {
	return s.driver.DeleteConversation(ctx, delete)
}

func (s *Store) CountConversations(ctx context.Context, userID, agentID int32) (int32, error) {
	return s.driver.CountConversations(ctx, userID, agentID)
}
