package store

import (
	"context"
	"database/sql"

	"github.com/magicailabs/magicai/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// Driver is the database abstraction implemented per backend. Every method
// that must appear atomic to concurrent requests (card/section renumbering,
// tool-branch exchange completion) executes inside one transaction in the
// implementing driver.
type Driver interface {
	GetDB() *sql.DB
	Close() error
	IsInitialized(ctx context.Context) (bool, error)

	// Users
	GetUser(ctx context.Context, find *FindUser) (*User, error)

	// Agents
	ListAgents(ctx context.Context, find *FindAgent) ([]*Agent, error)
	UpsertAgentEmbedding(ctx context.Context, agentID int32, embedding []float32) error
	SearchAgentsByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*Agent, error)

	// Conversations
	CreateConversation(ctx context.Context, create *Conversation) (*Conversation, error)
	ListConversations(ctx context.Context, find *FindConversation) ([]*Conversation, error)
	UpdateConversation(ctx context.Context, update *UpdateConversation) (*Conversation, error)
	DeleteConversation(ctx context.Context, delete *DeleteConversation) error
	CountConversations(ctx context.Context, userID, agentID int32) (int32, error)

	// Messages and media
	CreateMessage(ctx context.Context, create *Message) (*Message, error)
	ListMessages(ctx context.Context, find *FindMessage) ([]*Message, error)
	CountMessages(ctx context.Context, conversationID int32) (int32, error)
	CountUserMessages(ctx context.Context, userID int32) (int32, error)
	FinishExchange(ctx context.Context, complete *CompleteExchange) (*Message, error)
	GetMedia(ctx context.Context, find *FindMedia) (*Media, error)

	// Kanban boards
	CreateProject(ctx context.Context, create *Project) (*Project, error)
	ListProjects(ctx context.Context, find *FindProject) ([]*Project, error)
	DeleteProject(ctx context.Context, id int32) error
	CreateSection(ctx context.Context, create *Section) (*Section, error)
	ListSections(ctx context.Context, find *FindSection) ([]*Section, error)
	UpdateSection(ctx context.Context, update *UpdateSection) (*Section, error)
	DeleteSection(ctx context.Context, id int32, renumber []PositionWrite) error
	ApplySectionOrder(ctx context.Context, projectID int32, writes []PositionWrite) error
	CreateCard(ctx context.Context, create *Card) (*Card, error)
	ListCards(ctx context.Context, find *FindCard) ([]*Card, error)
	UpdateCard(ctx context.Context, update *UpdateCard) (*Card, error)
	DeleteCard(ctx context.Context, id int32, renumber []PositionWrite) error
	MoveCard(ctx context.Context, move *CardMove) error
	ApplyCardOrder(ctx context.Context, sectionID int32, writes []PositionWrite) error

	// Reminders
	CreateReminder(ctx context.Context, create *Reminder) (*Reminder, error)
	ListReminders(ctx context.Context, find *FindReminder) ([]*Reminder, error)
	DeleteReminder(ctx context.Context, id, userID int32) error
	ListPendingCardReminders(ctx context.Context) ([]*CardReminder, error)
	ListDueReminderNotices(ctx context.Context, now int64) ([]*ReminderNotice, error)
	TransitionCardReminder(ctx context.Context, cardID int32, from, to ReminderState) (bool, error)
	TransitionReminder(ctx context.Context, reminderID int32, from, to ReminderState) (bool, error)
}
