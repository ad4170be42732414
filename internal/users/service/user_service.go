package service

import (
	"context"

	"github.com/tidytask/tidytask-backend/internal/apperr"
	"github.com/tidytask/tidytask-backend/internal/users/domain"
)

// UserRepository is the persistence capability the service needs.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
}

// UserService handles user identity. Users are created on first login and
// never deleted or mutated afterwards.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFoundf("user not found")
	}
	return u, nil
}

// FindOrCreate is idempotent: a second call with the same external id
// returns the already-persisted user. Concurrent first logins may race on
// the insert; the unique index on external_id turns the loser into a
// conflict, which is resolved by re-fetching.
func (s *UserService) FindOrCreate(ctx context.Context, externalID string, name *string) (*domain.User, error) {
	if externalID == "" {
		return nil, apperr.Validationf("external id is required")
	}

	existing, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	created, err := s.repo.Create(ctx, domain.New(externalID, name))
	if err == nil {
		return created, nil
	}
	if !apperr.IsConflict(err) {
		return nil, err
	}

	// Lost the first-login race; the row exists now.
	existing, ferr := s.repo.FindByExternalID(ctx, externalID)
	if ferr != nil {
		return nil, ferr
	}
	if existing == nil {
		return nil, err
	}
	return existing, nil
}
