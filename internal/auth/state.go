package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	stateKeyPrefix = "oauth:state:"
	stateTTL       = 10 * time.Minute
)

// StateStore issues and consumes single-use OAuth state nonces. Nonces live
// in Redis with a TTL so an abandoned handshake expires on its own.
type StateStore struct {
	rdb *redis.Client
}

func NewStateStore(rdb *redis.Client) *StateStore {
	return &StateStore{rdb: rdb}
}

// Issue stores a fresh nonce and returns it.
func (s *StateStore) Issue(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.rdb.Set(ctx, stateKeyPrefix+state, "1", stateTTL).Err(); err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}
	return state, nil
}

// Consume atomically checks and deletes the nonce, so a state can only be
// redeemed once. Returns false for unknown or expired states.
func (s *StateStore) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}

	err := s.rdb.GetDel(ctx, stateKeyPrefix+state).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consume oauth state: %w", err)
	}
	return true, nil
}
