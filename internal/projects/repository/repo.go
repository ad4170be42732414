package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tidytask/tidytask-backend/internal/apperr"
	"github.com/tidytask/tidytask-backend/internal/projects/domain"
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

// ProjectRepository persists projects. Every scoped query filters by
// user_id in SQL so application bugs cannot leak another tenant's rows.
type ProjectRepository struct {
	db DB
}

func NewProjectRepository(db DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*domain.Project, error) {
	const q = `
SELECT id, name, description, color, user_id, created_at, updated_at
FROM projects
WHERE id = $1;
`
	return r.scanOne(r.db.QueryRow(ctx, q, id), "find project by id")
}

// FindByIDAndUser returns (nil, nil) when no project matches the pair;
// absence and "exists but not yours" are indistinguishable on purpose.
func (r *ProjectRepository) FindByIDAndUser(ctx context.Context, id, userID int64) (*domain.Project, error) {
	const q = `
SELECT id, name, description, color, user_id, created_at, updated_at
FROM projects
WHERE id = $1 AND user_id = $2;
`
	return r.scanOne(r.db.QueryRow(ctx, q, id, userID), "find project by id and user")
}

func (r *ProjectRepository) FindAllByUser(ctx context.Context, userID int64) ([]domain.Project, error) {
	const q = `
SELECT id, name, description, color, user_id, created_at, updated_at
FROM projects
WHERE user_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.db.Query(ctx, q, userID)
	if err != nil {
		return nil, apperr.Storage("list projects", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, apperr.Storage("scan project", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("list projects", err)
	}
	return out, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	if !p.IsNew() {
		return nil, apperr.Conflictf("cannot create project that already has an id")
	}

	const q = `
INSERT INTO projects (name, description, color, user_id)
VALUES ($1, $2, $3, $4)
RETURNING id, name, description, color, user_id, created_at, updated_at;
`
	out, err := r.scanOne(r.db.QueryRow(ctx, q, p.Name, p.Description, p.Color, p.UserID), "create project")
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.Conflictf("project already exists")
		}
		return nil, err
	}
	return out, nil
}

// Update writes the project back, scoped by owner. Zero matched rows means
// the id/owner pair does not exist and surfaces as not found.
func (r *ProjectRepository) Update(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	if p.IsNew() {
		return nil, apperr.Validationf("cannot update project without an id")
	}

	const q = `
UPDATE projects
SET name = $3, description = $4, color = $5, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING id, name, description, color, user_id, created_at, updated_at;
`
	var out domain.Project
	err := r.db.QueryRow(ctx, q, p.ID, p.UserID, p.Name, p.Description, p.Color).
		Scan(&out.ID, &out.Name, &out.Description, &out.Color, &out.UserID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFoundf("project not found")
		}
		return nil, apperr.Storage("update project", err)
	}
	return &out, nil
}

// Delete removes the project for the given owner and reports whether a row
// was deleted. Owned tasks go with it via the FK cascade.
func (r *ProjectRepository) Delete(ctx context.Context, id, userID int64) (bool, error) {
	const q = `
DELETE FROM projects
WHERE id = $1 AND user_id = $2;
`
	ct, err := r.db.Exec(ctx, q, id, userID)
	if err != nil {
		return false, apperr.Storage("delete project", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *ProjectRepository) scanOne(row pgx.Row, op string) (*domain.Project, error) {
	var p domain.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Color, &p.UserID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Storage(op, err)
	}
	return &p, nil
}
