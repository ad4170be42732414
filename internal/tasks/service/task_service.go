package service

import (
	"context"
	"time"

	"github.com/tidytask/tidytask-backend/internal/apperr"
	projdomain "github.com/tidytask/tidytask-backend/internal/projects/domain"
	"github.com/tidytask/tidytask-backend/internal/tasks/domain"
)

// TaskRepository is the persistence capability the service needs.
// Owner-scoped lookups report absence as (nil, nil), not as an error.
type TaskRepository interface {
	FindByIDAndUser(ctx context.Context, id, userID int64) (*domain.Task, error)
	FindAllByUser(ctx context.Context, userID int64) ([]domain.Task, error)
	FindAllByProjectAndUser(ctx context.Context, projectID, userID int64) ([]domain.Task, error)
	Create(ctx context.Context, t *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id, userID int64) (bool, error)
}

// ProjectFinder is the slice of the project service used for the
// cross-entity ownership check: any project id a task points at must
// belong to the same user.
type ProjectFinder interface {
	FindOne(ctx context.Context, id, userID int64) (*projdomain.Project, error)
}

// CreateInput carries the caller-supplied fields for a new task.
type CreateInput struct {
	Title       string
	Description *string
	Status      domain.Status
	Priority    domain.Priority
	DueDate     *time.Time
	ProjectID   int64
}

// UpdateInput carries partial-update fields; nil means "leave unchanged".
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.Status
	Priority    *domain.Priority
	DueDate     *time.Time
	ProjectID   *int64
}

// TaskService enforces ownership on every read and write, and verifies
// project ownership whenever a task is attached or re-attached to one.
type TaskService struct {
	repo     TaskRepository
	projects ProjectFinder
}

func NewTaskService(repo TaskRepository, projects ProjectFinder) *TaskService {
	return &TaskService{repo: repo, projects: projects}
}

// Create verifies the target project belongs to the user before building
// the task; attaching a task to another user's project fails as not found.
func (s *TaskService) Create(ctx context.Context, in CreateInput, userID int64) (*domain.Task, error) {
	if _, err := s.projects.FindOne(ctx, in.ProjectID, userID); err != nil {
		return nil, err
	}

	t, err := domain.New(in.Title, in.ProjectID, userID, in.Description, in.Status, in.Priority, in.DueDate)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, t)
}

func (s *TaskService) FindAllByUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	return s.repo.FindAllByUser(ctx, userID)
}

// FindAllByProject verifies project ownership before returning any task.
func (s *TaskService) FindAllByProject(ctx context.Context, projectID, userID int64) ([]domain.Task, error) {
	if _, err := s.projects.FindOne(ctx, projectID, userID); err != nil {
		return nil, err
	}
	return s.repo.FindAllByProjectAndUser(ctx, projectID, userID)
}

// FindOne returns not-found both for an absent task and for someone else's
// task, so existence never leaks across tenants.
func (s *TaskService) FindOne(ctx context.Context, id, userID int64) (*domain.Task, error) {
	t, err := s.repo.FindByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFoundf("task not found")
	}
	return t, nil
}

// Update loads the owned task first, then merges the partial input through
// the domain model. Re-pointing the task at a different project re-verifies
// that project's ownership.
func (s *TaskService) Update(ctx context.Context, id int64, in UpdateInput, userID int64) (*domain.Task, error) {
	existing, err := s.FindOne(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.ProjectID != nil {
		if _, err := s.projects.FindOne(ctx, *in.ProjectID, userID); err != nil {
			return nil, err
		}
	}

	updated, err := existing.Update(in.Title, in.Description, in.Status, in.Priority, in.DueDate, in.ProjectID)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, updated)
}

func (s *TaskService) Remove(ctx context.Context, id, userID int64) error {
	if _, err := s.FindOne(ctx, id, userID); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFoundf("task not found")
	}
	return nil
}
