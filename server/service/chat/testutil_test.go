package chat

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/magicailabs/magicai/ai"
	"github.com/magicailabs/magicai/internal/profile"
	"github.com/magicailabs/magicai/plugin/metrics"
	"github.com/magicailabs/magicai/store"
)

// fakeDriver is an in-memory store.Driver covering what the chat service
// touches. Board and reminder methods are not served here.
type fakeDriver struct {
	mu sync.Mutex

	users         map[int32]*store.User
	agents        map[int32]*store.Agent
	conversations map[int32]*store.Conversation
	messages      []*store.Message
	media         map[int32]*store.Media

	nextID int32
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		users:         make(map[int32]*store.User),
		agents:        make(map[int32]*store.Agent),
		conversations: make(map[int32]*store.Conversation),
		media:         make(map[int32]*store.Media),
		nextID:        1,
	}
}

func (d *fakeDriver) id() int32 {
	id := d.nextID
	d.nextID++
	return id
}

func (d *fakeDriver) GetDB() *sql.DB { return nil }
func (d *fakeDriver) Close() error   { return nil }
func (d *fakeDriver) IsInitialized(ctx context.Context) (bool, error) {
	return true, nil
}

func (d *fakeDriver) GetUser(ctx context.Context, find *store.FindUser) (*store.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if find.ID != nil && u.ID != *find.ID {
			continue
		}
		return u, nil
	}
	return nil, nil
}

func (d *fakeDriver) ListAgents(ctx context.Context, find *store.FindAgent) ([]*store.Agent, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := make([]*store.Agent, 0)
	for _, a := range d.agents {
		if find.ID != nil && a.ID != *find.ID {
			continue
		}
		if find.UID != nil && a.UID != *find.UID {
			continue
		}
		if find.IsActive != nil && a.IsActive != *find.IsActive {
			continue
		}
		list = append(list, a)
	}
	return list, nil
}

func (d *fakeDriver) UpsertAgentEmbedding(ctx context.Context, agentID int32, embedding []float32) error {
	return errors.New("not implemented")
}

func (d *fakeDriver) SearchAgentsByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*store.Agent, error) {
	return nil, errors.New("not implemented")
}

func (d *fakeDriver) CreateConversation(ctx context.Context, create *store.Conversation) (*store.Conversation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.id()
	d.conversations[create.ID] = create
	return create, nil
}

func (d *fakeDriver) ListConversations(ctx context.Context, find *store.FindConversation) ([]*store.Conversation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := make([]*store.Conversation, 0)
	for _, c := range d.conversations {
		if find.ID != nil && c.ID != *find.ID {
			continue
		}
		if find.UID != nil && c.UID != *find.UID {
			continue
		}
		if find.UserID != nil && c.UserID != *find.UserID {
			continue
		}
		if find.AgentID != nil && c.AgentID != *find.AgentID {
			continue
		}
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		if find.OrderByCreatedAsc {
			return list[i].CreatedTs < list[j].CreatedTs
		}
		return list[i].CreatedTs > list[j].CreatedTs
	})
	if find.Limit != nil && len(list) > *find.Limit {
		list = list[:*find.Limit]
	}
	return list, nil
}

func (d *fakeDriver) UpdateConversation(ctx context.Context, update *store.UpdateConversation) (*store.Conversation, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.conversations[update.ID]
	if !ok {
		return nil, errors.New("conversation not found")
	}
	if update.Title != nil {
		c.Title = *update.Title
	}
	if update.LastMessageTs != nil {
		c.LastMessageTs = *update.LastMessageTs
	}
	c.MessageCount += update.MessageCountDelta
	return c, nil
}

func (d *fakeDriver) DeleteConversation(ctx context.Context, del *store.DeleteConversation) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.conversations[del.ID]; !ok {
		return errors.New("conversation not found")
	}
	delete(d.conversations, del.ID)
	kept := d.messages[:0]
	for _, m := range d.messages {
		if m.ConversationID != del.ID {
			kept = append(kept, m)
		}
	}
	d.messages = kept
	return nil
}

func (d *fakeDriver) CountConversations(ctx context.Context, userID, agentID int32) (int32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var count int32
	for _, c := range d.conversations {
		if c.UserID == userID && c.AgentID == agentID {
			count++
		}
	}
	return count, nil
}

func (d *fakeDriver) CreateMessage(ctx context.Context, create *store.Message) (*store.Message, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.id()
	d.messages = append(d.messages, create)
	return create, nil
}

func (d *fakeDriver) ListMessages(ctx context.Context, find *store.FindMessage) ([]*store.Message, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := make([]*store.Message, 0)
	for _, m := range d.messages {
		if find.ID != nil && m.ID != *find.ID {
			continue
		}
		if find.UID != nil && m.UID != *find.UID {
			continue
		}
		if find.ConversationID != nil && m.ConversationID != *find.ConversationID {
			continue
		}
		list = append(list, m)
	}
	sort.Slice(list, func(i, j int) bool {
		if find.OrderDesc {
			if list[i].CreatedTs != list[j].CreatedTs {
				return list[i].CreatedTs > list[j].CreatedTs
			}
			return list[i].ID > list[j].ID
		}
		if list[i].CreatedTs != list[j].CreatedTs {
			return list[i].CreatedTs < list[j].CreatedTs
		}
		return list[i].ID < list[j].ID
	})
	if find.Offset != nil && *find.Offset < len(list) {
		list = list[*find.Offset:]
	}
	if find.Limit != nil && len(list) > *find.Limit {
		list = list[:*find.Limit]
	}
	return list, nil
}

func (d *fakeDriver) CountMessages(ctx context.Context, conversationID int32) (int32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var count int32
	for _, m := range d.messages {
		if m.ConversationID == conversationID {
			count++
		}
	}
	return count, nil
}

func (d *fakeDriver) CountUserMessages(ctx context.Context, userID int32) (int32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var count int32
	for _, m := range d.messages {
		if m.Role != store.RoleUser {
			continue
		}
		c, ok := d.conversations[m.ConversationID]
		if ok && c.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (d *fakeDriver) FinishExchange(ctx context.Context, complete *store.CompleteExchange) (*store.Message, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	msg := complete.Message
	msg.ID = d.id()
	d.messages = append(d.messages, msg)

	if complete.Media != nil {
		media := complete.Media
		media.ID = d.id()
		media.MessageID = msg.ID
		d.media[media.MessageID] = media
		msg.Media = media
	}

	c, ok := d.conversations[complete.ConversationID]
	if !ok {
		return nil, errors.New("conversation not found")
	}
	c.MessageCount += complete.MessageCountDelta
	c.LastMessageTs = complete.LastMessageTs
	if complete.Title != nil {
		c.Title = *complete.Title
	}
	return msg, nil
}

func (d *fakeDriver) GetMedia(ctx context.Context, find *store.FindMedia) (*store.Media, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if find.MessageUID != nil {
		for _, m := range d.messages {
			if m.UID == *find.MessageUID {
				return d.media[m.ID], nil
			}
		}
		return nil, nil
	}
	if find.MessageID != nil {
		return d.media[*find.MessageID], nil
	}
	return nil, nil
}

// Boards and reminders are out of scope for the chat fake.

func (d *fakeDriver) CreateProject(ctx context.Context, create *store.Project) (*store.Project, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) ListProjects(ctx context.Context, find *store.FindProject) ([]*store.Project, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) DeleteProject(ctx context.Context, id int32) error {
	return errors.New("not implemented")
}
func (d *fakeDriver) CreateSection(ctx context.Context, create *store.Section) (*store.Section, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) ListSections(ctx context.Context, find *store.FindSection) ([]*store.Section, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) UpdateSection(ctx context.Context, update *store.UpdateSection) (*store.Section, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) DeleteSection(ctx context.Context, id int32, renumber []store.PositionWrite) error {
	return errors.New("not implemented")
}
func (d *fakeDriver) ApplySectionOrder(ctx context.Context, projectID int32, writes []store.PositionWrite) error {
	return errors.New("not implemented")
}
func (d *fakeDriver) CreateCard(ctx context.Context, create *store.Card) (*store.Card, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) ListCards(ctx context.Context, find *store.FindCard) ([]*store.Card, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) UpdateCard(ctx context.Context, update *store.UpdateCard) (*store.Card, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) DeleteCard(ctx context.Context, id int32, renumber []store.PositionWrite) error {
	return errors.New("not implemented")
}
func (d *fakeDriver) MoveCard(ctx context.Context, move *store.CardMove) error {
	return errors.New("not implemented")
}
func (d *fakeDriver) ApplyCardOrder(ctx context.Context, sectionID int32, writes []store.PositionWrite) error {
	return errors.New("not implemented")
}
func (d *fakeDriver) CreateReminder(ctx context.Context, create *store.Reminder) (*store.Reminder, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) ListReminders(ctx context.Context, find *store.FindReminder) ([]*store.Reminder, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) DeleteReminder(ctx context.Context, id, userID int32) error {
	return errors.New("not implemented")
}
func (d *fakeDriver) ListPendingCardReminders(ctx context.Context) ([]*store.CardReminder, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) ListDueReminderNotices(ctx context.Context, now int64) ([]*store.ReminderNotice, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) TransitionCardReminder(ctx context.Context, cardID int32, from, to store.ReminderState) (bool, error) {
	return false, errors.New("not implemented")
}
func (d *fakeDriver) TransitionReminder(ctx context.Context, reminderID int32, from, to store.ReminderState) (bool, error) {
	return false, errors.New("not implemented")
}

// fakeProvider returns canned results and records the calls it receives.
type fakeProvider struct {
	chatResult  *ai.ChatResult
	chatErr     error
	imageResult *ai.Generation
	imageErr    error
	videoResult *ai.Generation
	videoErr    error

	chatCalls  int
	imageCalls int
	videoCalls int

	lastMessages []ai.Message
	lastPrompt   string
}

func (p *fakeProvider) Chat(ctx context.Context, model string, messages []ai.Message) (*ai.ChatResult, error) {
	p.chatCalls++
	p.lastMessages = messages
	return p.chatResult, p.chatErr
}

func (p *fakeProvider) GenerateImage(ctx context.Context, model string, messages []ai.Message) (*ai.Generation, error) {
	p.imageCalls++
	p.lastMessages = messages
	return p.imageResult, p.imageErr
}

func (p *fakeProvider) GenerateVideo(ctx context.Context, model string, prompt string) (*ai.Generation, error) {
	p.videoCalls++
	p.lastPrompt = prompt
	return p.videoResult, p.videoErr
}

func newTestService(driver *fakeDriver, provider ai.Provider) *Service {
	p := &profile.Profile{GlobalMessageLimit: 30}
	registry := ai.NewRegistry()
	registry.Register(string(store.ProviderOpenAI), provider)
	registry.Register(string(store.ProviderGemini), provider)
	return NewService(store.New(driver, p), registry, p, metrics.NewExporter())
}
