// Package board manages kanban projects, sections and cards, keeping the
// position ranks inside every parent dense through all mutations.
package board

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/magicailabs/magicai/internal/ordering"
	"github.com/magicailabs/magicai/store"
)

// ErrNotFound marks a missing or foreign-owned board resource.
var ErrNotFound = errors.New("not found")

type Service struct {
	store *store.Store

	now func() time.Time
}

func NewService(st *store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

// ownership chain: Card -> Section -> Project -> User. Every entry point
// resolves the chain before touching anything.

func (s *Service) getProject(ctx context.Context, userID int32, projectUID string) (*store.Project, error) {
	project, err := s.store.GetProject(ctx, &store.FindProject{UID: &projectUID})
	if err != nil {
		return nil, err
	}
	if project == nil || project.UserID != userID {
		return nil, ErrNotFound
	}
	return project, nil
}

func (s *Service) getSection(ctx context.Context, userID int32, sectionUID string) (*store.Section, error) {
	section, err := s.store.GetSection(ctx, &store.FindSection{UID: &sectionUID})
	if err != nil {
		return nil, err
	}
	if section == nil {
		return nil, ErrNotFound
	}
	project, err := s.store.GetProject(ctx, &store.FindProject{ID: &section.ProjectID})
	if err != nil {
		return nil, err
	}
	if project == nil || project.UserID != userID {
		return nil, ErrNotFound
	}
	return section, nil
}

func (s *Service) getCard(ctx context.Context, userID int32, cardUID string) (*store.Card, *store.Section, error) {
	card, err := s.store.GetCard(ctx, &store.FindCard{UID: &cardUID})
	if err != nil {
		return nil, nil, err
	}
	if card == nil {
		return nil, nil, ErrNotFound
	}
	section, err := s.store.GetSection(ctx, &store.FindSection{ID: &card.SectionID})
	if err != nil {
		return nil, nil, err
	}
	if section == nil {
		return nil, nil, ErrNotFound
	}
	project, err := s.store.GetProject(ctx, &store.FindProject{ID: &section.ProjectID})
	if err != nil {
		return nil, nil, err
	}
	if project == nil || project.UserID != userID {
		return nil, nil, ErrNotFound
	}
	return card, section, nil
}

func sectionMembers(sections []*store.Section) []ordering.Member {
	members := make([]ordering.Member, 0, len(sections))
	for _, section := range sections {
		members = append(members, ordering.Member{ID: section.ID, Position: section.Position})
	}
	return members
}

func cardMembers(cards []*store.Card) []ordering.Member {
	members := make([]ordering.Member, 0, len(cards))
	for _, card := range cards {
		members = append(members, ordering.Member{ID: card.ID, Position: card.Position})
	}
	return members
}

func toPositionWrites(plan ordering.Plan) []store.PositionWrite {
	writes := make([]store.PositionWrite, 0, len(plan))
	for _, w := range plan {
		writes = append(writes, store.PositionWrite{ID: w.ID, Position: w.Position})
	}
	return writes
}
