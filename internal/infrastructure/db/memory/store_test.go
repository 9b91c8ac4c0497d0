package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

func TestSnapshotStore_LoadSave(t *testing.T) {
	s := NewSnapshotStore()
	ctx := context.Background()

	if _, err := s.Load(ctx, domain.DefaultBoardID); !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}

	board := domain.SeedBoard(domain.DefaultBoardID)
	if err := s.Save(ctx, board); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx, board.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != board {
		t.Fatalf("expected the saved snapshot back")
	}
}

func TestIdempotencyStore_FirstWriteWins(t *testing.T) {
	s := NewIdempotencyStore()
	ctx := context.Background()

	if _, found, _ := s.Lookup(ctx, "main", "k1"); found {
		t.Fatalf("expected miss on empty store")
	}
	_ = s.Remember(ctx, "main", "k1", "task-a")
	_ = s.Remember(ctx, "main", "k1", "task-b")

	taskID, found, err := s.Lookup(ctx, "main", "k1")
	if err != nil || !found || taskID != "task-a" {
		t.Fatalf("expected task-a, got %q found=%v err=%v", taskID, found, err)
	}
	if _, found, _ := s.Lookup(ctx, "ops", "k1"); found {
		t.Fatalf("keys must be scoped per board")
	}
}

func TestAuditLog_NewestFirstWithCapacity(t *testing.T) {
	a := NewAuditLog(3)
	ctx := context.Background()
	for v := int64(1); v <= 5; v++ {
		_ = a.InsertMutation(ctx, &domain.MutationRecord{BoardID: "main", Version: v, Outcome: domain.OutcomeApplied})
	}
	_ = a.InsertMutation(ctx, &domain.MutationRecord{BoardID: "ops", Version: 1})

	recs, err := a.ListByBoard(ctx, "main", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 3 || recs[0].Version != 5 || recs[2].Version != 3 {
		t.Fatalf("unexpected records: %+v", recs)
	}

	recs, _ = a.ListByBoard(ctx, "main", 1)
	if len(recs) != 1 || recs[0].Version != 5 {
		t.Fatalf("expected only the newest record, got %+v", recs)
	}
	if recs, _ := a.ListByBoard(ctx, "none", 10); len(recs) != 0 {
		t.Fatalf("expected no records for unknown board, got %+v", recs)
	}
}
