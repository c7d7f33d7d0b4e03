package board

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/magicailabs/magicai/store"
)

// fakeDriver is an in-memory store.Driver covering the board surface.
type fakeDriver struct {
	mu sync.Mutex

	projects map[int32]*store.Project
	sections map[int32]*store.Section
	cards    map[int32]*store.Card

	nextID int32
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		projects: make(map[int32]*store.Project),
		sections: make(map[int32]*store.Section),
		cards:    make(map[int32]*store.Card),
		nextID:   1,
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

func (d *fakeDriver) CreateProject(ctx context.Context, create *store.Project) (*store.Project, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.id()
	d.projects[create.ID] = create
	return create, nil
}

func (d *fakeDriver) ListProjects(ctx context.Context, find *store.FindProject) ([]*store.Project, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := make([]*store.Project, 0)
	for _, p := range d.projects {
		if find.ID != nil && p.ID != *find.ID {
			continue
		}
		if find.UID != nil && p.UID != *find.UID {
			continue
		}
		if find.UserID != nil && p.UserID != *find.UserID {
			continue
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedTs < list[j].CreatedTs })
	return list, nil
}

func (d *fakeDriver) DeleteProject(ctx context.Context, id int32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.projects[id]; !ok {
		return errors.New("project not found")
	}
	delete(d.projects, id)
	for sid, section := range d.sections {
		if section.ProjectID == id {
			for cid, card := range d.cards {
				if card.SectionID == sid {
					delete(d.cards, cid)
				}
			}
			delete(d.sections, sid)
		}
	}
	return nil
}

func (d *fakeDriver) CreateSection(ctx context.Context, create *store.Section) (*store.Section, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.id()
	d.sections[create.ID] = create
	return create, nil
}

func (d *fakeDriver) ListSections(ctx context.Context, find *store.FindSection) ([]*store.Section, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := make([]*store.Section, 0)
	for _, s := range d.sections {
		if find.ID != nil && s.ID != *find.ID {
			continue
		}
		if find.UID != nil && s.UID != *find.UID {
			continue
		}
		if find.ProjectID != nil && s.ProjectID != *find.ProjectID {
			continue
		}
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Position < list[j].Position })
	return list, nil
}

func (d *fakeDriver) UpdateSection(ctx context.Context, update *store.UpdateSection) (*store.Section, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.sections[update.ID]
	if !ok {
		return nil, errors.New("section not found")
	}
	if update.Name != nil {
		s.Name = *update.Name
	}
	return s, nil
}

func (d *fakeDriver) DeleteSection(ctx context.Context, id int32, renumber []store.PositionWrite) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.sections[id]; !ok {
		return errors.New("section not found")
	}
	for cid, card := range d.cards {
		if card.SectionID == id {
			delete(d.cards, cid)
		}
	}
	delete(d.sections, id)
	for _, w := range renumber {
		if s, ok := d.sections[w.ID]; ok {
			s.Position = w.Position
		}
	}
	return nil
}

func (d *fakeDriver) ApplySectionOrder(ctx context.Context, projectID int32, writes []store.PositionWrite) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, w := range writes {
		s, ok := d.sections[w.ID]
		if !ok || s.ProjectID != projectID {
			return errors.Errorf("section %d not in project %d", w.ID, projectID)
		}
		s.Position = w.Position
	}
	return nil
}

func (d *fakeDriver) CreateCard(ctx context.Context, create *store.Card) (*store.Card, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.id()
	d.cards[create.ID] = create
	return create, nil
}

func (d *fakeDriver) ListCards(ctx context.Context, find *store.FindCard) ([]*store.Card, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	list := make([]*store.Card, 0)
	for _, c := range d.cards {
		if find.ID != nil && c.ID != *find.ID {
			continue
		}
		if find.UID != nil && c.UID != *find.UID {
			continue
		}
		if find.SectionID != nil && c.SectionID != *find.SectionID {
			continue
		}
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Position < list[j].Position })
	return list, nil
}

func (d *fakeDriver) UpdateCard(ctx context.Context, update *store.UpdateCard) (*store.Card, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.cards[update.ID]
	if !ok {
		return nil, errors.New("card not found")
	}
	if update.Title != nil {
		c.Title = *update.Title
	}
	if update.Description != nil {
		c.Description = *update.Description
	}
	if update.Priority != nil {
		c.Priority = *update.Priority
	}
	if update.DueTs != nil {
		c.DueTs = *update.DueTs
	}
	if update.ReminderEnabled != nil {
		c.ReminderEnabled = *update.ReminderEnabled
	}
	if update.ReminderDaysBefore != nil {
		c.ReminderDaysBefore = *update.ReminderDaysBefore
	}
	if update.ResetReminder {
		c.ReminderState = store.ReminderPending
	}
	return c, nil
}

func (d *fakeDriver) DeleteCard(ctx context.Context, id int32, renumber []store.PositionWrite) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.cards[id]; !ok {
		return errors.New("card not found")
	}
	delete(d.cards, id)
	for _, w := range renumber {
		if c, ok := d.cards[w.ID]; ok {
			c.Position = w.Position
		}
	}
	return nil
}

func (d *fakeDriver) MoveCard(ctx context.Context, move *store.CardMove) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.cards[move.CardID]
	if !ok {
		return errors.New("card not found")
	}
	for _, w := range move.Shifts {
		if shifted, ok := d.cards[w.ID]; ok {
			shifted.Position = w.Position
		}
	}
	c.SectionID = move.TargetSectionID
	c.Position = move.Position
	return nil
}

func (d *fakeDriver) ApplyCardOrder(ctx context.Context, sectionID int32, writes []store.PositionWrite) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, w := range writes {
		c, ok := d.cards[w.ID]
		if !ok || c.SectionID != sectionID {
			return errors.Errorf("card %d not in section %d", w.ID, sectionID)
		}
		c.Position = w.Position
	}
	return nil
}

// The rest of the driver surface is unused by the board service.

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
