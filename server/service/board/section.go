package board

import (
	"context"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/magicailabs/magicai/internal/ordering"
	"github.com/magicailabs/magicai/store"
)

// CreateSection appends a section at the end of the project.
func (s *Service) CreateSection(ctx context.Context, userID int32, projectUID, name string) (*store.Section, error) {
	project, err := s.getProject(ctx, userID, projectUID)
	if err != nil {
		return nil, err
	}
	siblings, err := s.store.ListSections(ctx, &store.FindSection{ProjectID: &project.ID})
	if err != nil {
		return nil, err
	}
	return s.store.CreateSection(ctx, &store.Section{
		UID:       shortuuid.New(),
		ProjectID: project.ID,
		Name:      name,
		Position:  int32(len(siblings)),
		CreatedTs: s.now().Unix(),
	})
}

func (s *Service) ListSections(ctx context.Context, userID int32, projectUID string) ([]*store.Section, error) {
	project, err := s.getProject(ctx, userID, projectUID)
	if err != nil {
		return nil, err
	}
	return s.store.ListSections(ctx, &store.FindSection{ProjectID: &project.ID})
}

func (s *Service) RenameSection(ctx context.Context, userID int32, sectionUID, name string) (*store.Section, error) {
	section, err := s.getSection(ctx, userID, sectionUID)
	if err != nil {
		return nil, err
	}
	return s.store.UpdateSection(ctx, &store.UpdateSection{ID: section.ID, Name: &name})
}

// DeleteSection removes the section with its cards and renumbers the
// remaining siblings in the same transaction.
func (s *Service) DeleteSection(ctx context.Context, userID int32, sectionUID string) error {
	section, err := s.getSection(ctx, userID, sectionUID)
	if err != nil {
		return err
	}
	siblings, err := s.store.ListSections(ctx, &store.FindSection{ProjectID: &section.ProjectID})
	if err != nil {
		return err
	}

	remaining := make([]ordering.Member, 0, len(siblings)-1)
	for _, sibling := range siblings {
		if sibling.ID != section.ID {
			remaining = append(remaining, ordering.Member{ID: sibling.ID, Position: sibling.Position})
		}
	}
	plan := ordering.Normalize(remaining)
	return s.store.DeleteSection(ctx, section.ID, toPositionWrites(plan))
}

// MoveSection moves a section to a new rank within its project.
func (s *Service) MoveSection(ctx context.Context, userID int32, sectionUID string, newPosition int32) error {
	section, err := s.getSection(ctx, userID, sectionUID)
	if err != nil {
		return err
	}
	siblings, err := s.store.ListSections(ctx, &store.FindSection{ProjectID: &section.ProjectID})
	if err != nil {
		return err
	}

	plan, err := ordering.Reorder(sectionMembers(siblings), section.ID, newPosition)
	if err != nil {
		return err
	}
	if len(plan) == 0 {
		return nil
	}
	return s.store.ApplySectionOrder(ctx, section.ProjectID, toPositionWrites(plan))
}

// ReorderSections applies a caller-supplied permutation of the project's
// sections. The list must name every section exactly once; its order
// becomes the new ranking.
func (s *Service) ReorderSections(ctx context.Context, userID int32, projectUID string, sectionUIDs []string) error {
	project, err := s.getProject(ctx, userID, projectUID)
	if err != nil {
		return err
	}
	sections, err := s.store.ListSections(ctx, &store.FindSection{ProjectID: &project.ID})
	if err != nil {
		return err
	}
	if len(sectionUIDs) != len(sections) {
		return errors.Errorf("reorder must name all %d sections, got %d", len(sections), len(sectionUIDs))
	}

	byUID := make(map[string]*store.Section, len(sections))
	for _, section := range sections {
		byUID[section.UID] = section
	}

	writes := make([]store.PositionWrite, 0, len(sectionUIDs))
	seen := make(map[string]bool, len(sectionUIDs))
	for i, uid := range sectionUIDs {
		section, ok := byUID[uid]
		if !ok || seen[uid] {
			return errors.Errorf("invalid section permutation at index %d", i)
		}
		seen[uid] = true
		writes = append(writes, store.PositionWrite{ID: section.ID, Position: int32(i)})
	}
	return s.store.ApplySectionOrder(ctx, project.ID, writes)
}
