package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tidytask/tidytask-backend/internal/apperr"
	"github.com/tidytask/tidytask-backend/internal/tasks/domain"
)

const uniqueViolation = "23505"

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ DB = (*pgxpool.Pool)(nil)

const taskColumns = "id, title, description, status, priority, due_date, project_id, user_id, created_at, updated_at"

// TaskRepository persists tasks. Every scoped query filters by user_id in
// SQL so application bugs cannot leak another tenant's rows.
type TaskRepository struct {
	db DB
}

func NewTaskRepository(db DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	const q = `
SELECT ` + taskColumns + `
FROM tasks
WHERE id = $1;
`
	return r.scanOne(r.db.QueryRow(ctx, q, id), "find task by id")
}

// FindByIDAndUser returns (nil, nil) when no task matches the pair.
func (r *TaskRepository) FindByIDAndUser(ctx context.Context, id, userID int64) (*domain.Task, error) {
	const q = `
SELECT ` + taskColumns + `
FROM tasks
WHERE id = $1 AND user_id = $2;
`
	return r.scanOne(r.db.QueryRow(ctx, q, id, userID), "find task by id and user")
}

func (r *TaskRepository) FindAllByUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	const q = `
SELECT ` + taskColumns + `
FROM tasks
WHERE user_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, apperr.Storage("list tasks", err)
	}
	return r.collect(rows)
}

func (r *TaskRepository) FindAllByProjectAndUser(ctx context.Context, projectID, userID int64) ([]domain.Task, error) {
	const q = `
SELECT ` + taskColumns + `
FROM tasks
WHERE project_id = $1 AND user_id = $2
ORDER BY created_at DESC;
`
	rows, err := r.db.Query(ctx, q, projectID, userID)
	if err != nil {
		return nil, apperr.Storage("list tasks by project", err)
	}
	return r.collect(rows)
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	if !t.IsNew() {
		return nil, apperr.Conflictf("cannot create task that already has an id")
	}

	const q = `
INSERT INTO tasks (title, description, status, priority, due_date, project_id, user_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + taskColumns + `;
`
	out, err := r.scanOne(
		r.db.QueryRow(ctx, q, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.ProjectID, t.UserID),
		"create task",
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.Conflictf("task already exists")
		}
		return nil, err
	}
	return out, nil
}

// Update writes the task back, scoped by owner. Zero matched rows means the
// id/owner pair does not exist and surfaces as not found.
func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	if t.IsNew() {
		return nil, apperr.Validationf("cannot update task without an id")
	}

	const q = `
UPDATE tasks
SET title = $3, description = $4, status = $5, priority = $6, due_date = $7, project_id = $8, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + taskColumns + `;
`
	var out domain.Task
	err := r.db.QueryRow(ctx, q, t.ID, t.UserID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.ProjectID).
		Scan(&out.ID, &out.Title, &out.Description, &out.Status, &out.Priority, &out.DueDate, &out.ProjectID, &out.UserID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("task not found")
		}
		return nil, apperr.Storage("update task", err)
	}
	return &out, nil
}

// Delete removes the task for the given owner and reports whether a row was
// deleted.
func (r *TaskRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	const q = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2;
`
	ct, err := r.db.Exec(ctx, q, id, userID)
	if err != nil {
		return false, apperr.Storage("delete task", err)
	}
	return ct.RowsAffected() > 0, nil
}

// CountOverdue counts unfinished tasks whose due date has elapsed, across
// all users. Feeds the nightly sweep log line.
func (r *TaskRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	const q = `
SELECT count(*)
FROM tasks
WHERE due_date IS NOT NULL AND due_date < $1 AND status <> 'completed';
`
	var n int64
	if err := r.db.QueryRow(ctx, q, now).Scan(&n); err != nil {
		return 0, apperr.Storage("count overdue tasks", err)
	}
	return n, nil
}

func (r *TaskRepository) collect(rows pgx.Rows) ([]domain.Task, error) {
	defer rows.Close()

	out := make([]domain.Task, 0, 16)
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &t.ProjectID, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, apperr.Storage("scan task", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("list tasks", err)
	}
	return out, nil
}

func (r *TaskRepository) scanOne(row pgx.Row, op string) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &t.ProjectID, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Storage(op, err)
	}
	return &t, nil
}
