package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tidytask/tidytask-backend/internal/apperr"
	"github.com/tidytask/tidytask-backend/internal/users/domain"
)

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ DB = (*pgxpool.Pool)(nil)

// UserRepository persists users. Lookups that find nothing return (nil, nil);
// absence is a result, not an error, and the service decides what it means.
type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `
SELECT id, external_id, name, created_at, updated_at
FROM users
WHERE id = $1;
`
	var u domain.User
	err := r.db.QueryRow(ctx, q, id).
		Scan(&u.ID, &u.ExternalID, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Storage("find user by id", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	const q = `
SELECT id, external_id, name, created_at, updated_at
FROM users
WHERE external_id = $1;
`
	var u domain.User
	err := r.db.QueryRow(ctx, q, externalID).
		Scan(&u.ID, &u.ExternalID, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Storage("find user by external id", err)
	}
	return &u, nil
}

// Create inserts an unsaved user. A duplicate external_id surfaces as a
// conflict so the service can re-fetch after a lost first-login race.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if !u.IsNew() {
		return nil, apperr.Conflictf("cannot create user that already has an id")
	}

	const q = `
INSERT INTO users (external_id, name)
VALUES ($1, $2)
RETURNING id, external_id, name, created_at, updated_at;
`
	var out domain.User
	err := r.db.QueryRow(ctx, q, u.ExternalID, u.Name).
		Scan(&out.ID, &out.ExternalID, &out.Name, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperr.Conflictf("user with external id already exists")
		}
		return nil, apperr.Storage("create user", err)
	}
	return &out, nil
}
