package memory

import (
	"context"
	"sync"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

// AuditLog keeps the most recent mutation records per board in memory.
type AuditLog struct {
	mu       sync.RWMutex
	capacity int
	records  map[string][]domain.MutationRecord
}

// NewAuditLog keeps at most capacity records per board; older ones are
// dropped. capacity <= 0 means 1000.
func NewAuditLog(capacity int) *AuditLog {
	if capacity <= 0 {
		capacity = 1000
	}
	return &AuditLog{capacity: capacity, records: make(map[string][]domain.MutationRecord)}
}

func (a *AuditLog) InsertMutation(_ context.Context, record *domain.MutationRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	recs := append(a.records[record.BoardID], *record)
	if len(recs) > a.capacity {
		recs = append([]domain.MutationRecord(nil), recs[len(recs)-a.capacity:]...)
	}
	a.records[record.BoardID] = recs
	return nil
}

// ListByBoard returns the latest records of a board, newest first.
func (a *AuditLog) ListByBoard(_ context.Context, boardID string, limit int64) ([]domain.MutationRecord, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	recs := a.records[boardID]
	n := int64(len(recs))
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]domain.MutationRecord, 0, n)
	for i := len(recs) - 1; i >= 0 && int64(len(out)) < n; i-- {
		out = append(out, recs[i])
	}
	return out, nil
}
