package remind

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/magicailabs/magicai/internal/profile"
	"github.com/magicailabs/magicai/plugin/metrics"
	"github.com/magicailabs/magicai/store"
)

// fixedClock returns a settable instant.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

// fakeSender records outgoing emails and fails on demand.
type fakeSender struct {
	mu     sync.Mutex
	sent   []sentEmail
	failTo map[string]bool
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

func newFakeSender() *fakeSender {
	return &fakeSender{failTo: make(map[string]bool)}
}

func (s *fakeSender) Send(to, subject, htmlBody string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTo[to] {
		return false
	}
	s.sent = append(s.sent, sentEmail{to: to, subject: subject, body: htmlBody})
	return true
}

// fakeDriver is an in-memory store.Driver covering the reminder surface.
type fakeDriver struct {
	mu sync.Mutex

	cardItems []*store.CardReminder
	reminders map[int32]*store.ReminderNotice

	nextID int32
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		reminders: make(map[int32]*store.ReminderNotice),
		nextID:    1,
	}
}

func (d *fakeDriver) GetDB() *sql.DB { return nil }
func (d *fakeDriver) Close() error   { return nil }
func (d *fakeDriver) IsInitialized(ctx context.Context) (bool, error) {
	return true, nil
}

func (d *fakeDriver) CreateReminder(ctx context.Context, create *store.Reminder) (*store.Reminder, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.nextID
	d.nextID++
	d.reminders[create.ID] = &store.ReminderNotice{
		Reminder: create,
		UserName: "Ana",
		Email:    "ana@example.com",
		Language: store.LanguageES,
	}
	return create, nil
}

func (d *fakeDriver) ListReminders(ctx context.Context, find *store.FindReminder) ([]*store.Reminder, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := make([]*store.Reminder, 0)
	for _, n := range d.reminders {
		r := n.Reminder
		if find.ID != nil && r.ID != *find.ID {
			continue
		}
		if find.UID != nil && r.UID != *find.UID {
			continue
		}
		if find.UserID != nil && r.UserID != *find.UserID {
			continue
		}
		list = append(list, r)
	}
	return list, nil
}

func (d *fakeDriver) DeleteReminder(ctx context.Context, id, userID int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.reminders[id]
	if !ok || n.Reminder.UserID != userID {
		return errors.New("reminder not found")
	}
	delete(d.reminders, id)
	return nil
}

func (d *fakeDriver) ListPendingCardReminders(ctx context.Context) ([]*store.CardReminder, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := make([]*store.CardReminder, 0)
	for _, item := range d.cardItems {
		c := item.Card
		if c.ReminderEnabled && c.DueTs > 0 && c.ReminderState == store.ReminderPending {
			list = append(list, item)
		}
	}
	return list, nil
}

func (d *fakeDriver) ListDueReminderNotices(ctx context.Context, now int64) ([]*store.ReminderNotice, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := make([]*store.ReminderNotice, 0)
	for _, n := range d.reminders {
		if n.Reminder.State == store.ReminderPending && n.Reminder.TriggerTs <= now {
			list = append(list, n)
		}
	}
	return list, nil
}

func (d *fakeDriver) TransitionCardReminder(ctx context.Context, cardID int32, from, to store.ReminderState) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, item := range d.cardItems {
		if item.Card.ID == cardID {
			if item.Card.ReminderState != from {
				return false, nil
			}
			item.Card.ReminderState = to
			return true, nil
		}
	}
	return false, nil
}

func (d *fakeDriver) TransitionReminder(ctx context.Context, reminderID int32, from, to store.ReminderState) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.reminders[reminderID]
	if !ok || n.Reminder.State != from {
		return false, nil
	}
	n.Reminder.State = to
	return true, nil
}

// The rest of the driver surface is unused by the reminder engine.

func (d *fakeDriver) GetUser(ctx context.Context, find *store.FindUser) (*store.User, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) ListAgents(ctx context.Context, find *store.FindAgent) ([]*store.Agent, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) UpsertAgentEmbedding(ctx context.Context, agentID int32, embedding []float32) error {
	return errors.New("not implemented")
}
func (d *fakeDriver) SearchAgentsByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*store.Agent, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) CreateConversation(ctx context.Context, create *store.Conversation) (*store.Conversation, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) ListConversations(ctx context.Context, find *store.FindConversation) ([]*store.Conversation, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) UpdateConversation(ctx context.Context, update *store.UpdateConversation) (*store.Conversation, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) DeleteConversation(ctx context.Context, del *store.DeleteConversation) error {
	return errors.New("not implemented")
}
func (d *fakeDriver) CountConversations(ctx context.Context, userID, agentID int32) (int32, error) {
	return 0, errors.New("not implemented")
}
func (d *fakeDriver) CreateMessage(ctx context.Context, create *store.Message) (*store.Message, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) ListMessages(ctx context.Context, find *store.FindMessage) ([]*store.Message, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) CountMessages(ctx context.Context, conversationID int32) (int32, error) {
	return 0, errors.New("not implemented")
}
func (d *fakeDriver) CountUserMessages(ctx context.Context, userID int32) (int32, error) {
	return 0, errors.New("not implemented")
}
func (d *fakeDriver) FinishExchange(ctx context.Context, complete *store.CompleteExchange) (*store.Message, error) {
	return nil, errors.New("not implemented")
}
func (d *fakeDriver) GetMedia(ctx context.Context, find *store.FindMedia) (*store.Media, error) {
	return nil, errors.New("not implemented")
}
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

func newTestEngine(driver *fakeDriver, sender *fakeSender, clock Clock) *Engine {
	return NewEngine(store.New(driver, &profile.Profile{}), sender, metrics.NewExporter(), clock)
}
