package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidytask/tidytask-backend/internal/apperr"
	projdomain "github.com/tidytask/tidytask-backend/internal/projects/domain"
	"github.com/tidytask/tidytask-backend/internal/tasks/domain"
)

// fakeTaskRepo mirrors the SQL adapter's owner scoping in memory.
type fakeTaskRepo struct {
	nextID int64
	tasks  map[int64]*domain.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{nextID: 1, tasks: make(map[int64]*domain.Task)}
}

func (f *fakeTaskRepo) FindByIDAndUser(_ context.Context, id, userID int64) (*domain.Task, error) {
	t, ok := f.tasks[id]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTaskRepo) FindAllByUser(_ context.Context, userID int64) ([]domain.Task, error) {
	out := make([]domain.Task, 0)
	for _, t := range f.tasks {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) FindAllByProjectAndUser(_ context.Context, projectID, userID int64) ([]domain.Task, error) {
	out := make([]domain.Task, 0)
	for _, t := range f.tasks {
		if t.ProjectID == projectID && t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Create(_ context.Context, t *domain.Task) (*domain.Task, error) {
	if !t.IsNew() {
		return nil, apperr.Conflictf("cannot create task that already has an id")
	}
	cp := *t
	cp.ID = f.nextID
	f.nextID++
	f.tasks[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, t *domain.Task) (*domain.Task, error) {
	existing, ok := f.tasks[t.ID]
	if !ok || existing.UserID != t.UserID {
		return nil, apperr.NotFoundf("task not found")
	}
	cp := *t
	f.tasks[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, id, userID int64) (bool, error) {
	t, ok := f.tasks[id]
	if !ok || t.UserID != userID {
		return false, nil
	}
	delete(f.tasks, id)
	return true, nil
}

// fakeProjectFinder owns a fixed (projectID → userID) table.
type fakeProjectFinder struct {
	owners map[int64]int64
}

func (f *fakeProjectFinder) FindOne(_ context.Context, id, userID int64) (*projdomain.Project, error) {
	owner, ok := f.owners[id]
	if !ok || owner != userID {
		return nil, apperr.NotFoundf("project not found")
	}
	return &projdomain.Project{ID: id, Name: "Launch", Color: projdomain.DefaultColor, UserID: owner}, nil
}

func setupTaskService() (*TaskService, *fakeTaskRepo, *fakeProjectFinder) {
	repo := newFakeTaskRepo()
	projects := &fakeProjectFinder{owners: map[int64]int64{10: 1, 20: 2}}
	return NewTaskService(repo, projects), repo, projects
}

func TestTaskServiceCreate(t *testing.T) {
	svc, _, _ := setupTaskService()

	t.Run("creates task in own project", func(t *testing.T) {
		task, err := svc.Create(context.Background(), CreateInput{
			Title:     "Write spec",
			Status:    domain.StatusTodo,
			Priority:  domain.PriorityMedium,
			ProjectID: 10,
		}, 1)
		require.NoError(t, err)
		assert.False(t, task.IsNew())
		assert.Equal(t, int64(10), task.ProjectID)
		assert.Equal(t, int64(1), task.UserID)
	})

	t.Run("rejects another user's project as not found", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateInput{
			Title:     "Write spec",
			ProjectID: 10,
		}, 2)
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("propagates validation failure", func(t *testing.T) {
		_, err := svc.Create(context.Background(), CreateInput{Title: " ", ProjectID: 10}, 1)
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestTaskServiceFindAllByProject(t *testing.T) {
	svc, _, _ := setupTaskService()

	_, err := svc.Create(context.Background(), CreateInput{Title: "a", ProjectID: 10}, 1)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInput{Title: "b", ProjectID: 10}, 1)
	require.NoError(t, err)

	t.Run("lists own project's tasks", func(t *testing.T) {
		items, err := svc.FindAllByProject(context.Background(), 10, 1)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("denies listing another user's project", func(t *testing.T) {
		_, err := svc.FindAllByProject(context.Background(), 10, 2)
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	svc, _, projects := setupTaskService()

	created, err := svc.Create(context.Background(), CreateInput{Title: "Write spec", ProjectID: 10}, 1)
	require.NoError(t, err)

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		status := domain.StatusInProgress
		updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Status: &status}, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, updated.Status)
		assert.Equal(t, "Write spec", updated.Title)
		assert.Equal(t, created.Priority, updated.Priority)
	})

	t.Run("re-pointing to another user's project is not found", func(t *testing.T) {
		foreign := int64(20)
		_, err := svc.Update(context.Background(), created.ID, UpdateInput{ProjectID: &foreign}, 1)
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("re-pointing to an owned project succeeds", func(t *testing.T) {
		projects.owners[11] = 1
		target := int64(11)
		updated, err := svc.Update(context.Background(), created.ID, UpdateInput{ProjectID: &target}, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(11), updated.ProjectID)
	})

	t.Run("past due date is accepted on update", func(t *testing.T) {
		yesterday := time.Now().Add(-24 * time.Hour)
		updated, err := svc.Update(context.Background(), created.ID, UpdateInput{DueDate: &yesterday}, 1)
		require.NoError(t, err)
		require.NotNil(t, updated.DueDate)
		assert.True(t, updated.IsOverdue())
	})

	t.Run("wrong user is not found", func(t *testing.T) {
		title := "hijack"
		_, err := svc.Update(context.Background(), created.ID, UpdateInput{Title: &title}, 2)
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestTaskServiceRemove(t *testing.T) {
	svc, _, _ := setupTaskService()

	created, err := svc.Create(context.Background(), CreateInput{Title: "Write spec", ProjectID: 10}, 1)
	require.NoError(t, err)

	t.Run("wrong user is not found", func(t *testing.T) {
		err := svc.Remove(context.Background(), created.ID, 2)
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("owner can remove", func(t *testing.T) {
		require.NoError(t, svc.Remove(context.Background(), created.ID, 1))

		_, err := svc.FindOne(context.Background(), created.ID, 1)
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))
	})
}
