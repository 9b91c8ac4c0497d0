package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers which task a create request produced.
// Key format: idem:<board_id>:<key>
type IdempotencyStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewIdempotencyStore(client redis.UniversalClient) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

func (s *IdempotencyStore) Lookup(ctx context.Context, boardID, key string) (string, bool, error) {
	taskID, err := s.client.Get(ctx, idempotencyKey(boardID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return taskID, true, nil
}

// Remember stores taskID under key unless the key is already taken.
func (s *IdempotencyStore) Remember(ctx context.Context, boardID, key, taskID string) error {
	if err := s.client.SetNX(ctx, idempotencyKey(boardID, key), taskID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func idempotencyKey(boardID, key string) string {
	return fmt.Sprintf("idem:%s:%s", boardID, key)
}
