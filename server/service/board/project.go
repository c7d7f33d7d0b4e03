package board

import (
	"context"

	"github.com/lithammer/shortuuid/v4"

	"github.com/magicailabs/magicai/store"
)

func (s *Service) CreateProject(ctx context.Context, userID int32, name string) (*store.Project, error) {
	return s.store.CreateProject(ctx, &store.Project{
		UID:       shortuuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedTs: s.now().Unix(),
	})
}

func (s *Service) ListProjects(ctx context.Context, userID int32) ([]*store.Project, error) {
	return s.store.ListProjects(ctx, &store.FindProject{UserID: &userID})
}

func (s *Service) GetProject(ctx context.Context, userID int32, projectUID string) (*store.Project, error) {
	return s.getProject(ctx, userID, projectUID)
}

func (s *Service) DeleteProject(ctx context.Context, userID int32, projectUID string) error {
	project, err := s.getProject(ctx, userID, projectUID)
	if err != nil {
		return err
	}
	return s.store.DeleteProject(ctx, project.ID)
}
