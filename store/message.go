package store

import "context"

// Role tags who authored a message.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAssistant Role = "ASSISTANT"
)

// Message is one turn half in a conversation. Immutable once created,
// except for the single controlled amendment where a generated-media
// reference is appended to the content (done atomically at creation time
// by ExchangeResult writes).
type Message struct {
	Media          *Media // 1:1, nil for plain messages
	UID            string
	Content        string
	Role           Role
	CreatedTs      int64
	ID             int32
	ConversationID int32
	TokensUsed     *int32
}

// Media is the binary payload generated for a message. Created at most
// once and never reassigned.
type Media struct {
	UID       string
	MimeType  string
	Blob      []byte
	Thumbnail []byte // images only, nil otherwise
	CreatedTs int64
	ID        int32
	MessageID int32
}

type FindMessage struct {
	ID             *int32
	UID            *string
	ConversationID *int32
	Limit          *int
	Offset         *int
	// OrderDesc lists newest first. Default order is chronological.
	OrderDesc bool
}

type FindMedia struct {
	ID         *int32
	MessageID  *int32
	MessageUID *string
}

// CompleteExchange persists an assistant message, its optional media, and
// the owning conversation's metadata update as one transaction. A crash
// cannot leave an orphaned media row or a miscounted conversation.
type CompleteExchange struct {
	Message           *Message
	Media             *Media // nil for text-only replies
	ConversationID    int32
	MessageCountDelta int32
	LastMessageTs     int64
	Title             *string // set only on the conversation's first exchange
}

func (s *Store) CreateMessage(ctx context.Context, create *Message) (*Message, error) {
	return s.driver.CreateMessage(ctx, create)
}

func (s *Store) ListMessages(ctx context.Context, find *FindMessage) ([]*Message, error) {
	return s.driver.ListMessages(ctx, find)
}

// GetLatestMessage returns the most recently created message of a
// conversation, or nil when the conversation is empty.
func (s *Store) GetLatestMessage(ctx context.Context, conversationID int32) (*Message, error) {
	limit := 1
	messages, err := s.driver.ListMessages(ctx, &FindMessage{
		ConversationID: &conversationID,
		OrderDesc:      true,
		Limit:          &limit,
	})
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}
	return messages[0], nil
}

func (s *Store) CountMessages(ctx context.Context, conversationID int32) (int32, error) {
	return s.driver.CountMessages(ctx, conversationID)
}

// CountUserMessages counts historical USER-role messages across all of the
// user's conversations. Read by the global usage gate.
func (s *Store) CountUserMessages(ctx context.Context, userID int32) (int32, error) {
	return s.driver.CountUserMessages(ctx, userID)
}

func (s *Store) FinishExchange(ctx context.Context, complete *CompleteExchange) (*Message, error) {
	return s.driver.FinishExchange(ctx, complete)
}

func (s *Store) GetMedia(ctx context.Context, find *FindMedia) (*Media, error) {
	return s.driver.GetMedia(ctx, find)
}
