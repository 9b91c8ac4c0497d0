// Package memory holds process-local stand-ins for the Redis and MongoDB
// backed stores, used when those are not configured and in tests.
package memory

import (
	"context"
	"sync"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

// SnapshotStore keeps the latest snapshot of every board in a map.
// Snapshots are immutable, so sharing the pointer is safe.
type SnapshotStore struct {
	mu     sync.RWMutex
	boards map[string]*domain.Board
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{boards: make(map[string]*domain.Board)}
}

func (s *SnapshotStore) Load(_ context.Context, boardID string) (*domain.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.boards[boardID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return b, nil
}

func (s *SnapshotStore) Save(_ context.Context, board *domain.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards[board.ID] = board
	return nil
}

// IdempotencyStore remembers create keys for the lifetime of the process.
type IdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]string
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{keys: make(map[string]string)}
}

func (s *IdempotencyStore) Lookup(_ context.Context, boardID, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	taskID, ok := s.keys[boardID+"/"+key]
	return taskID, ok, nil
}

// Remember keeps the first task recorded for a key, like SETNX.
func (s *IdempotencyStore) Remember(_ context.Context, boardID, key, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := boardID + "/" + key
	if _, ok := s.keys[k]; !ok {
		s.keys[k] = taskID
	}
	return nil
}
