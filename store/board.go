package store

import "context"

// Priority orders cards by urgency.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Project is the root of the kanban ownership chain
// (Card -> Section -> Project -> User).
type Project struct {
	UID       string
	Name      string
	CreatedTs int64
	ID        int32
	UserID    int32
}

// Section is an ordered column inside a project. Position is a dense
// zero-based rank scoped to the project: the set of positions is always a
// contiguous 0..n-1 permutation between operations.
type Section struct {
	UID       string
	Name      string
	CreatedTs int64
	ID        int32
	ProjectID int32
	Position  int32
}

// Card is an ordered task inside a section. Position carries the same
// contiguity invariant, scoped to the section.
type Card struct {
	UID         string
	Title       string
	Description string
	Priority    Priority
	// DueTs is zero when the card has no due date.
	DueTs              int64
	CreatedTs          int64
	ID                 int32
	SectionID          int32
	Position           int32
	ReminderDaysBefore int32
	ReminderEnabled    bool
	ReminderState      ReminderState
}

type FindProject struct {
	ID     *int32
	UID    *string
	UserID *int32
}

type FindSection struct {
	ID        *int32
	UID       *string
	ProjectID *int32
}

type FindCard struct {
	ID        *int32
	UID       *string
	SectionID *int32
}

type UpdateSection struct {
	Name *string
	ID   int32
}

type UpdateCard struct {
	Title              *string
	Description        *string
	Priority           *Priority
	DueTs              *int64
	ReminderEnabled    *bool
	ReminderDaysBefore *int32
	// ResetReminder moves the reminder state back to PENDING, used when
	// due date or reminder settings change.
	ResetReminder bool
	ID            int32
}

// PositionWrite is one persisted position update produced by the ordering
// planner. Drivers apply a batch of writes inside a single transaction.
type PositionWrite struct {
	ID       int32
	Position int32
}

// CardMove re-homes one card. Shifts covers the gap-close writes in the
// source section and the slot-open writes in the target section; the moved
// card itself takes TargetSectionID/Position. Applied as one transaction.
type CardMove struct {
	Shifts          []PositionWrite
	CardID          int32
	TargetSectionID int32
	Position        int32
}

func (s *Store) CreateProject(ctx context.Context, create *Project) (*Project, error) {
	return s.driver.CreateProject(ctx, create)
}

func (s *Store) ListProjects(ctx context.Context, find *FindProject) ([]*Project, error) {
	return s.driver.ListProjects(ctx, find)
}

func (s *Store) GetProject(ctx context.Context, find *FindProject) (*Project, error) {
	projects, err := s.driver.ListProjects(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, nil
	}
	return projects[0], nil
}

func (s *Store) DeleteProject(ctx context.Context, id int32) error {
	return s.driver.DeleteProject(ctx, id)
}

func (s *Store) CreateSection(ctx context.Context, create *Section) (*Section, error) {
	return s.driver.CreateSection(ctx, create)
}

func (s *Store) ListSections(ctx context.Context, find *FindSection) ([]*Section, error) {
	return s.driver.ListSections(ctx, find)
}

func (s *Store) GetSection(ctx context.Context, find *FindSection) (*Section, error) {
	sections, err := s.driver.ListSections(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, nil
	}
	return sections[0], nil
}

func (s *Store) UpdateSection(ctx context.Context, update *UpdateSection) (*Section, error) {
	return s.driver.UpdateSection(ctx, update)
}

// DeleteSection removes a section and renumbers its project's remaining
// sections in the same transaction.
func (s *Store) DeleteSection(ctx context.Context, id int32, renumber []PositionWrite) error {
	return s.driver.DeleteSection(ctx, id, renumber)
}

// ApplySectionOrder writes an explicit position permutation for a
// project's sections as one transaction. Gap correctness is the caller's
// responsibility: the writes must be a complete permutation of the
// project's sections.
func (s *Store) ApplySectionOrder(ctx context.Context, projectID int32, writes []PositionWrite) error {
	return s.driver.ApplySectionOrder(ctx, projectID, writes)
}

func (s *Store) CreateCard(ctx context.Context, create *Card) (*Card, error) {
	return s.driver.CreateCard(ctx, create)
}

func (s *Store) ListCards(ctx context.Context, find *FindCard) ([]*Card, error) {
	return s.driver.ListCards(ctx, find)
}

func (s *Store) GetCard(ctx context.Context, find *FindCard) (*Card, error) {
	cards, err := s.driver.ListCards(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, nil
	}
	return cards[0], nil
}

func (s *Store) UpdateCard(ctx context.Context, update *UpdateCard) (*Card, error) {
	return s.driver.UpdateCard(ctx, update)
}

// DeleteCard removes a card and renumbers its section's remaining cards in
// the same transaction.
func (s *Store) DeleteCard(ctx context.Context, id int32, renumber []PositionWrite) error {
	return s.driver.DeleteCard(ctx, id, renumber)
}

// MoveCard applies a same-section reorder or a cross-section move as one
// transaction. Any failure rolls back every shift.
func (s *Store) MoveCard(ctx context.Context, move *CardMove) error {
	return s.driver.MoveCard(ctx, move)
}

// ApplyCardOrder writes an explicit position permutation for a section's
// cards as one transaction. See ApplySectionOrder for the caller contract.
func (s *Store) ApplyCardOrder(ctx context.Context, sectionID int32, writes []PositionWrite) error {
	return s.driver.ApplyCardOrder(ctx, sectionID, writes)
}
