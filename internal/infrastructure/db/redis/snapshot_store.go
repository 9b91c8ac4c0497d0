package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

// SnapshotStore caches whole board snapshots as JSON.
// Key format: board:<board_id>:state
type SnapshotStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewSnapshotStore returns a store whose entries expire after ttl; zero keeps
// them forever.
func NewSnapshotStore(client redis.UniversalClient, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{client: client, ttl: ttl}
}

func (s *SnapshotStore) Load(ctx context.Context, boardID string) (*domain.Board, error) {
	raw, err := s.client.Get(ctx, snapshotKey(boardID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("board %q: %w", boardID, domain.ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return decodeSnapshot(raw)
}

func (s *SnapshotStore) Save(ctx context.Context, b *domain.Board) error {
	raw, err := encodeSnapshot(b)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, snapshotKey(b.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func snapshotKey(boardID string) string {
	return fmt.Sprintf("board:%s:state", boardID)
}

func encodeSnapshot(b *domain.Board) ([]byte, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return raw, nil
}

// decodeSnapshot rejects anything that does not look like a board so the
// caller can fall back to seed data.
func decodeSnapshot(raw []byte) (*domain.Board, error) {
	var b domain.Board
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSnapshotCorrupt, err)
	}
	if b.Tasks == nil || b.Columns == nil || len(b.ColumnOrder) == 0 {
		return nil, fmt.Errorf("%w: missing tasks, columns or column order", domain.ErrSnapshotCorrupt)
	}
	return &b, nil
}
