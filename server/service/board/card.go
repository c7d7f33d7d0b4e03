package board

import (
	"context"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/magicailabs/magicai/internal/ordering"
	"github.com/magicailabs/magicai/store"
)

// CreateCard appends a card at the end of the section.
type CreateCard struct {
	Title              string
	Description        string
	Priority           store.Priority
	DueTs              int64
	ReminderEnabled    bool
	ReminderDaysBefore int32
}

func (s *Service) CreateCard(ctx context.Context, userID int32, sectionUID string, create *CreateCard) (*store.Card, error) {
	section, err := s.getSection(ctx, userID, sectionUID)
	if err != nil {
		return nil, err
	}
	siblings, err := s.store.ListCards(ctx, &store.FindCard{SectionID: &section.ID})
	if err != nil {
		return nil, err
	}

	priority := create.Priority
	if priority == "" {
		priority = store.PriorityMedium
	}
	return s.store.CreateCard(ctx, &store.Card{
		UID:                shortuuid.New(),
		SectionID:          section.ID,
		Title:              create.Title,
		Description:        create.Description,
		Priority:           priority,
		Position:           int32(len(siblings)),
		DueTs:              create.DueTs,
		ReminderEnabled:    create.ReminderEnabled,
		ReminderDaysBefore: create.ReminderDaysBefore,
		ReminderState:      store.ReminderPending,
		CreatedTs:          s.now().Unix(),
	})
}

func (s *Service) ListCards(ctx context.Context, userID int32, sectionUID string) ([]*store.Card, error) {
	section, err := s.getSection(ctx, userID, sectionUID)
	if err != nil {
		return nil, err
	}
	return s.store.ListCards(ctx, &store.FindCard{SectionID: &section.ID})
}

// UpdateCard patches card fields. Changing the due date or any reminder
// setting resets the reminder state to PENDING so the next scan
// re-evaluates the card.
func (s *Service) UpdateCard(ctx context.Context, userID int32, cardUID string, update *store.UpdateCard) (*store.Card, error) {
	card, _, err := s.getCard(ctx, userID, cardUID)
	if err != nil {
		return nil, err
	}
	update.ID = card.ID
	update.ResetReminder = update.DueTs != nil || update.ReminderEnabled != nil || update.ReminderDaysBefore != nil
	return s.store.UpdateCard(ctx, update)
}

// DeleteCard removes the card and renumbers the section's remaining cards
// in the same transaction.
func (s *Service) DeleteCard(ctx context.Context, userID int32, cardUID string) error {
	card, _, err := s.getCard(ctx, userID, cardUID)
	if err != nil {
		return err
	}
	siblings, err := s.store.ListCards(ctx, &store.FindCard{SectionID: &card.SectionID})
	if err != nil {
		return err
	}

	remaining := make([]ordering.Member, 0, len(siblings)-1)
	for _, sibling := range siblings {
		if sibling.ID != card.ID {
			remaining = append(remaining, ordering.Member{ID: sibling.ID, Position: sibling.Position})
		}
	}
	plan := ordering.Normalize(remaining)
	return s.store.DeleteCard(ctx, card.ID, toPositionWrites(plan))
}

// MoveCard re-homes a card inside its section or across sections of the
// same project. All position shifts land in one transaction.
func (s *Service) MoveCard(ctx context.Context, userID int32, cardUID, targetSectionUID string, newPosition int32) error {
	card, sourceSection, err := s.getCard(ctx, userID, cardUID)
	if err != nil {
		return err
	}
	targetSection, err := s.getSection(ctx, userID, targetSectionUID)
	if err != nil {
		return err
	}
	if targetSection.ProjectID != sourceSection.ProjectID {
		return errors.New("cannot move a card across projects")
	}

	sourceCards, err := s.store.ListCards(ctx, &store.FindCard{SectionID: &sourceSection.ID})
	if err != nil {
		return err
	}

	if targetSection.ID == sourceSection.ID {
		plan, err := ordering.Reorder(cardMembers(sourceCards), card.ID, newPosition)
		if err != nil {
			return err
		}
		if len(plan) == 0 {
			return nil
		}
		// The moved card's own write doubles as the section/position update.
		return s.store.MoveCard(ctx, moveFromPlan(plan, card.ID, targetSection.ID))
	}

	targetCards, err := s.store.ListCards(ctx, &store.FindCard{SectionID: &targetSection.ID})
	if err != nil {
		return err
	}

	extract, err := ordering.Extract(cardMembers(sourceCards), card.ID)
	if err != nil {
		return err
	}
	insert, position := ordering.Insert(cardMembers(targetCards), newPosition)

	shifts := toPositionWrites(extract)
	shifts = append(shifts, toPositionWrites(insert)...)
	return s.store.MoveCard(ctx, &store.CardMove{
		Shifts:          shifts,
		CardID:          card.ID,
		TargetSectionID: targetSection.ID,
		Position:        position,
	})
}

// moveFromPlan splits a same-section reorder plan into sibling shifts and
// the moved card's own write.
func moveFromPlan(plan ordering.Plan, cardID, sectionID int32) *store.CardMove {
	move := &store.CardMove{CardID: cardID, TargetSectionID: sectionID}
	for _, w := range plan {
		if w.ID == cardID {
			move.Position = w.Position
			continue
		}
		move.Shifts = append(move.Shifts, store.PositionWrite{ID: w.ID, Position: w.Position})
	}
	return move
}

// ReorderCards applies a caller-supplied permutation of the section's
// cards; the list must name every card exactly once.
func (s *Service) ReorderCards(ctx context.Context, userID int32, sectionUID string, cardUIDs []string) error {
	section, err := s.getSection(ctx, userID, sectionUID)
	if err != nil {
		return err
	}
	cards, err := s.store.ListCards(ctx, &store.FindCard{SectionID: &section.ID})
	if err != nil {
		return err
	}
	if len(cardUIDs) != len(cards) {
		return errors.Errorf("reorder must name all %d cards, got %d", len(cards), len(cardUIDs))
	}

	byUID := make(map[string]*store.Card, len(cards))
	for _, card := range cards {
		byUID[card.UID] = card
	}

	writes := make([]store.PositionWrite, 0, len(cardUIDs))
	seen := make(map[string]bool, len(cardUIDs))
	for i, uid := range cardUIDs {
		card, ok := byUID[uid]
		if !ok || seen[uid] {
			return errors.Errorf("invalid card permutation at index %d", i)
		}
		seen[uid] = true
		writes = append(writes, store.PositionWrite{ID: card.ID, Position: int32(i)})
	}
	return s.store.ApplyCardOrder(ctx, section.ID, writes)
}
