package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/ports"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/service"
)

type memStore struct {
	mu     sync.Mutex
	boards map[string]*domain.Board
}

func (m *memStore) Load(_ context.Context, id string) (*domain.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.boards[id]; ok {
		return b, nil
	}
	return nil, domain.ErrSnapshotNotFound
}

func (m *memStore) Save(_ context.Context, b *domain.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boards[b.ID] = b
	return nil
}

// overlapDetector fails when two intents for the same board run at once.
type overlapDetector struct {
	ports.BoardService
	active  sync.Map
	overlap atomic.Bool
	calls   atomic.Int64
}

func (o *overlapDetector) DragEnd(_ context.Context, in ports.DragEndInput) (*ports.MutationResult, error) {
	o.calls.Add(1)
	if _, busy := o.active.LoadOrStore(in.BoardID, struct{}{}); busy {
		o.overlap.Store(true)
	}
	time.Sleep(time.Millisecond)
	o.active.Delete(in.BoardID)
	return &ports.MutationResult{Outcome: domain.OutcomeUnchanged}, nil
}

func TestDispatcher_SerializesPerBoard(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := &overlapDetector{}
	d := NewDispatcher(4, svc, zerolog.Nop())
	d.Start(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			boardID := fmt.Sprintf("board-%d", i%3)
			if _, err := d.DragEnd(ctx, ports.DragEndInput{BoardID: boardID}); err != nil {
				t.Errorf("drag end: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if svc.overlap.Load() {
		t.Fatalf("two intents for the same board ran concurrently")
	}
	if svc.calls.Load() != 40 {
		t.Fatalf("expected 40 calls, got %d", svc.calls.Load())
	}
}

func TestDispatcher_ConcurrentCreatesAllApply(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := service.NewBoardService(&memStore{boards: map[string]*domain.Board{}}, nil,
		service.NewStaticDirectory(domain.SeedUsers()), zerolog.Nop())
	d := NewDispatcher(2, svc, zerolog.Nop())
	d.Start(ctx)

	actor := domain.User{ID: "2", Name: "John Employee", Role: domain.RoleEmployee}
	const n = 25
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := d.CreateTask(ctx, ports.CreateTaskInput{
				BoardID:  domain.DefaultBoardID,
				Actor:    actor,
				ColumnID: "todo",
				Draft:    domain.TaskDraft{Title: fmt.Sprintf("task %d", i), Description: "load"},
			})
			if err != nil || !res.Applied() {
				t.Errorf("create %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	view, err := d.GetBoard(ctx, ports.GetBoardInput{BoardID: domain.DefaultBoardID, Actor: actor})
	if err != nil {
		t.Fatalf("get board: %v", err)
	}
	if view.Board.Version != n {
		t.Fatalf("expected version %d, got %d", n, view.Board.Version)
	}
	if got := len(view.Board.Columns["todo"].TaskIDs); got != 3+n {
		t.Fatalf("expected %d tasks in todo, got %d", 3+n, got)
	}
}

func TestDispatcher_Stopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(1, &overlapDetector{}, zerolog.Nop())
	d.Start(ctx)
	cancel()
	<-d.Done()

	_, err := d.DragEnd(context.Background(), ports.DragEndInput{BoardID: "main"})
	if !errors.Is(err, ErrDispatcherStopped) {
		t.Fatalf("expected ErrDispatcherStopped, got %v", err)
	}
}

func TestDispatcher_CancelledCaller(t *testing.T) {
	d := NewDispatcher(1, &overlapDetector{}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	// Not started: the job is buffered but never picked up.
	if _, err := d.DragEnd(ctx, ports.DragEndInput{BoardID: "main"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(0, nil, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	for _, id := range []string{"main", "ops", "board-42"} {
		first := d.shardIndex(id)
		if first < 0 || first >= defaultWorkers {
			t.Fatalf("shard index out of range: %d", first)
		}
		if d.shardIndex(id) != first {
			t.Fatalf("shard index for %q is not stable", id)
		}
	}
}
