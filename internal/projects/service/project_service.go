package service

import (
	"context"

	"github.com/tidytask/tidytask-backend/internal/apperr"
	"github.com/tidytask/tidytask-backend/internal/projects/domain"
)

// ProjectRepository is the persistence capability the service needs.
// Owner-scoped lookups report absence as (nil, nil), not as an error.
type ProjectRepository interface {
	FindByIDAndUser(ctx context.Context, id, userID int64) (*domain.Project, error)
	FindAllByUser(ctx context.Context, userID int64) ([]domain.Project, error)
	Create(ctx context.Context, p *domain.Project) (*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) (*domain.Project, error)
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

// CreateInput carries the caller-supplied fields for a new project.
type CreateInput struct {
	Name        string
	Description *string
	Color       string
}

// UpdateInput carries partial-update fields; nil means "leave unchanged".
type UpdateInput struct {
	Name        *string
	Description *string
	Color       *string
}

// ProjectService enforces ownership on every read and write: a project id
// paired with the wrong user behaves exactly like a missing project.
type ProjectService struct {
	repo ProjectRepository
}

func NewProjectService(repo ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

func (s *ProjectService) Create(ctx context.Context, in CreateInput, userID int64) (*domain.Project, error) {
	p, err := domain.New(in.Name, userID, in.Description, in.Color)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, p)
}

func (s *ProjectService) FindAllByUser(ctx context.Context, userID int64) ([]domain.Project, error) {
	return s.repo.FindAllByUser(ctx, userID)
}

// FindOne returns not-found both for an absent project and for someone
// else's project, so existence never leaks across tenants.
func (s *ProjectService) FindOne(ctx context.Context, id, userID int64) (*domain.Project, error) {
	p, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFoundf("project not found")
	}
	return p, nil
}

// Update loads the owned project first, then merges the partial input
// through the domain model, so fields omitted by the caller keep their
// stored values.
func (s *ProjectService) Update(ctx context.Context, id int64, in UpdateInput, userID int64) (*domain.Project, error) {
	existing, err := s.FindOne(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	updated, err := existing.Update(in.Name, in.Description, in.Color)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, updated)
}

func (s *ProjectService) Remove(ctx context.Context, id, userID int64) error {
	if _, err := s.FindOne(ctx, id, userID); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFoundf("project not found")
	}
	return nil
}
