package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidytask/tidytask-backend/internal/apperr"
	"github.com/tidytask/tidytask-backend/internal/users/domain"
)

var userCols = []string{"id", "external_id", "name", "created_at", "updated_at"}

func setupUserRepo(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewUserRepository(mock), mock
}

func TestUserRepositoryFindByExternalID(t *testing.T) {
	repo, mock := setupUserRepo(t)

	t.Run("returns matching user", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`SELECT id, external_id, name, created_at, updated_at FROM users`).
			WithArgs("gh-123").
			WillReturnRows(pgxmock.NewRows(userCols).
				AddRow(int64(1), "gh-123", nil, now, now))

		u, err := repo.FindByExternalID(context.Background(), "gh-123")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, int64(1), u.ID)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent row is nil, not an error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, external_id, name, created_at, updated_at FROM users`).
			WithArgs("gh-999").
			WillReturnError(pgx.ErrNoRows)

		u, err := repo.FindByExternalID(context.Background(), "gh-999")
		require.NoError(t, err)
		assert.Nil(t, u)
	})
}

func TestUserRepositoryCreate(t *testing.T) {
	repo, mock := setupUserRepo(t)

	t.Run("inserts and returns assigned id", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("gh-123", (*string)(nil)).
			WillReturnRows(pgxmock.NewRows(userCols).
				AddRow(int64(1), "gh-123", nil, now, now))

		out, err := repo.Create(context.Background(), domain.New("gh-123", nil))
		require.NoError(t, err)
		assert.Equal(t, int64(1), out.ID)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation surfaces as conflict", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("gh-123", (*string)(nil)).
			WillReturnError(&pgconn.PgError{Code: uniqueViolation})

		_, err := repo.Create(context.Background(), domain.New("gh-123", nil))
		require.Error(t, err)
		assert.True(t, apperr.IsConflict(err))
	})

	t.Run("rejects entity that already has an id", func(t *testing.T) {
		u := domain.New("gh-123", nil)
		u.ID = 9

		_, err := repo.Create(context.Background(), u)
		require.Error(t, err)
		assert.True(t, apperr.IsConflict(err))
	})
}
