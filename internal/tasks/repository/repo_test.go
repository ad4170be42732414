package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidytask/tidytask-backend/internal/apperr"
	"github.com/tidytask/tidytask-backend/internal/tasks/domain"
)

var taskCols = []string{
	"id", "title", "description", "status", "priority",
	"due_date", "project_id", "user_id", "created_at", "updated_at",
}

func setupTaskRepo(t *testing.T) (*TaskRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewTaskRepository(mock), mock
}

func TestTaskRepositoryCreate(t *testing.T) {
	repo, mock := setupTaskRepo(t)

	t.Run("round-trips business fields", func(t *testing.T) {
		due := time.Now().Add(48 * time.Hour)
		task, err := domain.New("Write spec", 10, 1, nil, domain.StatusTodo, domain.PriorityMedium, &due)
		require.NoError(t, err)

		now := time.Now()
		mock.ExpectQuery(`INSERT INTO tasks`).
			WithArgs("Write spec", (*string)(nil), domain.StatusTodo, domain.PriorityMedium, &due, int64(10), int64(1)).
			WillReturnRows(pgxmock.NewRows(taskCols).
				AddRow(int64(3), "Write spec", nil, domain.StatusTodo, domain.PriorityMedium, &due, int64(10), int64(1), now, now))

		out, err := repo.Create(context.Background(), task)
		require.NoError(t, err)
		assert.Equal(t, int64(3), out.ID)
		assert.Equal(t, task.Title, out.Title)
		assert.Equal(t, task.Status, out.Status)
		assert.Equal(t, task.Priority, out.Priority)
		assert.Equal(t, task.ProjectID, out.ProjectID)
		assert.Equal(t, task.UserID, out.UserID)
		require.NotNil(t, out.DueDate)
		assert.True(t, out.DueDate.Equal(due))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects entity that already has an id", func(t *testing.T) {
		task, err := domain.New("Write spec", 10, 1, nil, "", "", nil)
		require.NoError(t, err)
		task.ID = 3

		_, err = repo.Create(context.Background(), task)
		require.Error(t, err)
		assert.True(t, apperr.IsConflict(err))
	})
}

func TestTaskRepositoryFindAllByProjectAndUser(t *testing.T) {
	repo, mock := setupTaskRepo(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM tasks`).
		WithArgs(int64(10), int64(1)).
		WillReturnRows(pgxmock.NewRows(taskCols).
			AddRow(int64(1), "a", nil, domain.StatusTodo, domain.PriorityMedium, nil, int64(10), int64(1), now, now).
			AddRow(int64(2), "b", nil, domain.StatusCompleted, domain.PriorityHigh, nil, int64(10), int64(1), now, now))

	items, err := repo.FindAllByProjectAndUser(context.Background(), 10, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Title)
	assert.Equal(t, domain.StatusCompleted, items[1].Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepositoryUpdate(t *testing.T) {
	repo, mock := setupTaskRepo(t)

	t.Run("zero matched rows is not found", func(t *testing.T) {
		task := &domain.Task{
			ID: 3, Title: "Write spec", Status: domain.StatusTodo,
			Priority: domain.PriorityMedium, ProjectID: 10, UserID: 2,
		}

		mock.ExpectQuery(`UPDATE tasks`).
			WithArgs(int64(3), int64(2), "Write spec", (*string)(nil), domain.StatusTodo, domain.PriorityMedium, (*time.Time)(nil), int64(10)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.Update(context.Background(), task)
		require.Error(t, err)
		assert.True(t, apperr.IsNotFound(err))

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTaskRepositoryCountOverdue(t *testing.T) {
	repo, mock := setupTaskRepo(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT count\(\*\) FROM tasks`).
		WithArgs(now).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(4)))

	n, err := repo.CountOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	require.NoError(t, mock.ExpectationsWereMet())
}
