package ports

import (
	"context"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

// SnapshotStore is the opaque key-value cache for board snapshots. It is not
// a source of truth: a missing or unreadable entry is replaced by seed data.
type SnapshotStore interface {
	// Load returns domain.ErrSnapshotNotFound when nothing is stored and
	// domain.ErrSnapshotCorrupt when the stored value cannot be decoded.
	Load(ctx context.Context, boardID string) (*domain.Board, error)
	Save(ctx context.Context, board *domain.Board) error
}

// IdempotencyStore remembers which task a create request's idempotency key
// produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, boardID, key string) (taskID string, found bool, err error)
	Remember(ctx context.Context, boardID, key, taskID string) error
}

// AuditRepository persists the outcome of every resolved intent.
type AuditRepository interface {
	InsertMutation(ctx context.Context, record *domain.MutationRecord) error
}

// EventPublisher notifies subscribers of accepted board changes.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.BoardEvent) error
}
