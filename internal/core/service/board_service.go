package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Ritesh-201/rbac-and-forms/internal/api/metrics"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/board"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/ports"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/rbac"
)

// SeedFunc builds the initial snapshot of a board that has no usable cache entry.
type SeedFunc func(boardID string) *domain.Board

// BoardOption customises a BoardService.
type BoardOption func(*BoardService)

// WithSeed replaces the built-in demo board.
func WithSeed(seed SeedFunc) BoardOption {
	return func(s *BoardService) { s.seed = seed }
}

// WithBoards sets the board ids the service serves. Intents for any other
// id fail with domain.ErrBoardNotFound. The default is DefaultBoardID only.
func WithBoards(ids ...string) BoardOption {
	return func(s *BoardService) {
		s.known = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			s.known[id] = struct{}{}
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) BoardOption {
	return func(s *BoardService) { s.now = now }
}

// WithIDGenerator replaces the task id generator.
func WithIDGenerator(newID func() string) BoardOption {
	return func(s *BoardService) { s.newID = newID }
}

// WithIdempotency enables idempotency keys on create.
func WithIdempotency(store ports.IdempotencyStore) BoardOption {
	return func(s *BoardService) { s.idem = store }
}

// WithEvents publishes accepted changes.
func WithEvents(pub ports.EventPublisher) BoardOption {
	return func(s *BoardService) { s.events = pub }
}

// WithStrictInvariants makes an invariant violation panic instead of being
// reported as an error. Meant for development builds.
func WithStrictInvariants(strict bool) BoardOption {
	return func(s *BoardService) { s.strict = strict }
}

// BoardService is the mutation driver: it authorizes intents, runs the board
// transitions and swaps the held snapshot. Read-modify-write cycles on the
// same board are not serialized here; callers route mutations through a
// single writer per board.
type BoardService struct {
	store     ports.SnapshotStore
	audit     ports.AuditRepository
	directory ports.UserDirectory
	idem      ports.IdempotencyStore
	events    ports.EventPublisher
	seed      SeedFunc
	known     map[string]struct{}
	now       func() time.Time
	newID     func() string
	strict    bool
	log       zerolog.Logger

	mu     sync.RWMutex
	boards map[string]*domain.Board
}

// NewBoardService returns a BoardService. audit and directory may be nil.
func NewBoardService(
	store ports.SnapshotStore,
	audit ports.AuditRepository,
	directory ports.UserDirectory,
	log zerolog.Logger,
	opts ...BoardOption,
) *BoardService {
	s := &BoardService{
		store:     store,
		audit:     audit,
		directory: directory,
		seed:      domain.SeedBoard,
		known:     map[string]struct{}{domain.DefaultBoardID: {}},
		now:       time.Now,
		newID:     newTaskID,
		log:       log,
		boards:    make(map[string]*domain.Board),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetBoard returns the current snapshot with per-task affordances for the actor.
func (s *BoardService) GetBoard(ctx context.Context, in ports.GetBoardInput) (*ports.BoardView, error) {
	rules := rbac.For(in.Actor.Role)
	if rules.Cannot(rbac.ActionRead, rbac.SubjectBoard) {
		return nil, fmt.Errorf("get board: %w", domain.ErrForbidden)
	}

	b, err := s.snapshot(ctx, in.BoardID)
	if err != nil {
		return nil, err
	}
	view := &ports.BoardView{
		Board:         b,
		Affordances:   make(map[string]ports.TaskAffordance, len(b.Tasks)),
		CanCreate:     rules.Can(rbac.ActionCreate, rbac.SubjectTask),
		CanUpdateAny:  rules.Can(rbac.ActionUpdate, rbac.SubjectTask),
		CanManageTeam: rules.Can(rbac.ActionManage, rbac.SubjectUser),
		ReadOnly:      in.Actor.Role == domain.RoleGuest,
	}
	for id, task := range b.Tasks {
		view.Affordances[id] = ports.TaskAffordance{
			CanMove: rbac.CanMoveTask(task, in.Actor),
			CanEdit: rules.Can(rbac.ActionUpdate, rbac.SubjectTask) && rbac.CanEditTask(task, in.Actor),
			IsOwn:   rbac.IsOwnTask(task, in.Actor),
		}
	}
	return view, nil
}

// DragEnd resolves a dropped task. Drops outside a column or onto the
// task's own slot leave the snapshot untouched; drops by users who may not
// move the task are denied.
func (s *BoardService) DragEnd(ctx context.Context, in ports.DragEndInput) (*ports.MutationResult, error) {
	defer observe(domain.MutationMove, time.Now())

	b, err := s.snapshot(ctx, in.BoardID)
	if err != nil {
		return nil, err
	}
	if in.Destination == nil {
		return s.unchanged(ctx, domain.MutationMove, b, in.Actor, in.TaskID, "dropped outside a column"), nil
	}
	if in.Destination.ColumnID == in.Source.ColumnID && in.Destination.Index == in.Source.Index {
		return s.unchanged(ctx, domain.MutationMove, b, in.Actor, in.TaskID, "dropped on its own position"), nil
	}

	task, ok := b.Tasks[in.TaskID]
	if !ok {
		return nil, s.invalid(domain.MutationMove, fmt.Errorf("drag end %q: %w", in.TaskID, domain.ErrTaskNotFound))
	}
	src, ok := b.Columns[in.Source.ColumnID]
	if !ok {
		return nil, s.invalid(domain.MutationMove, fmt.Errorf("drag end from %q: %w", in.Source.ColumnID, domain.ErrColumnNotFound))
	}
	if in.Source.Index < 0 || in.Source.Index >= len(src.TaskIDs) || src.TaskIDs[in.Source.Index] != in.TaskID {
		col, idx, _ := b.Locate(in.TaskID)
		return nil, s.invalid(domain.MutationMove, fmt.Errorf("drag end %q reported at %s[%d], now at %s[%d]: %w",
			in.TaskID, in.Source.ColumnID, in.Source.Index, col, idx, domain.ErrStaleIntent))
	}

	if !rbac.CanMoveTask(task, in.Actor) {
		return s.denied(ctx, domain.MutationMove, b, in.Actor, in.TaskID), nil
	}

	next, err := board.Move(b, in.Source.ColumnID, in.Source.Index, in.Destination.ColumnID, in.Destination.Index)
	if err != nil {
		return nil, s.invalid(domain.MutationMove, fmt.Errorf("drag end: %w", err))
	}
	if err := s.commit(ctx, b, next, domain.MutationMove, in.Actor, in.TaskID); err != nil {
		return nil, err
	}

	moved := next.Tasks[in.TaskID]
	return &ports.MutationResult{Outcome: domain.OutcomeApplied, Board: next, Task: &moved}, nil
}

// CreateTask adds a task to a column. Only the role-level create permission
// is checked; creating a task for someone else is allowed.
func (s *BoardService) CreateTask(ctx context.Context, in ports.CreateTaskInput) (*ports.MutationResult, error) {
	defer observe(domain.MutationCreate, time.Now())

	b, err := s.snapshot(ctx, in.BoardID)
	if err != nil {
		return nil, err
	}
	if rbac.For(in.Actor.Role).Cannot(rbac.ActionCreate, rbac.SubjectTask) {
		return s.denied(ctx, domain.MutationCreate, b, in.Actor, ""), nil
	}
	if _, ok := b.Columns[in.ColumnID]; !ok {
		return nil, s.invalid(domain.MutationCreate, fmt.Errorf("create task in %q: %w", in.ColumnID, domain.ErrColumnNotFound))
	}

	if replay := s.replay(ctx, b, in); replay != nil {
		return replay, nil
	}

	draft, err := s.completeDraft(ctx, in.Actor, in.Draft)
	if err != nil {
		return nil, s.invalid(domain.MutationCreate, fmt.Errorf("create task: %w", err))
	}

	next, task, err := board.Create(b, in.ColumnID, s.newID(), draft, s.now())
	if err != nil {
		return nil, s.invalid(domain.MutationCreate, fmt.Errorf("create task: %w", err))
	}
	if err := s.commit(ctx, b, next, domain.MutationCreate, in.Actor, task.ID); err != nil {
		return nil, err
	}

	if in.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, in.BoardID, in.IdempotencyKey, task.ID); err != nil {
			s.log.Warn().Err(err).Str("board_id", in.BoardID).Str("task_id", task.ID).Msg("failed to store idempotency key")
		}
	}

	return &ports.MutationResult{Outcome: domain.OutcomeApplied, Board: next, Task: &task}, nil
}

// EditTask applies a partial update to a task the actor may edit.
func (s *BoardService) EditTask(ctx context.Context, in ports.EditTaskInput) (*ports.MutationResult, error) {
	defer observe(domain.MutationEdit, time.Now())

	b, err := s.snapshot(ctx, in.BoardID)
	if err != nil {
		return nil, err
	}
	task, ok := b.Tasks[in.TaskID]
	if !ok {
		return nil, s.invalid(domain.MutationEdit, fmt.Errorf("edit task %q: %w", in.TaskID, domain.ErrTaskNotFound))
	}
	if rbac.For(in.Actor.Role).Cannot(rbac.ActionUpdate, rbac.SubjectTask) || !rbac.CanEditTask(task, in.Actor) {
		return s.denied(ctx, domain.MutationEdit, b, in.Actor, in.TaskID), nil
	}

	patch := in.Patch
	reassign := patch.AssignedTo != nil && *patch.AssignedTo != task.AssignedTo
	if reassign && !rbac.CanReassignTask(in.Actor) {
		return s.denied(ctx, domain.MutationEdit, b, in.Actor, in.TaskID), nil
	}
	if reassign && patch.AssignedToName == nil {
		name, err := s.assigneeName(ctx, *patch.AssignedTo)
		if err != nil {
			return nil, s.invalid(domain.MutationEdit, fmt.Errorf("edit task %q: %w", in.TaskID, err))
		}
		patch.AssignedToName = &name
	}

	next, updated, err := board.Update(b, in.TaskID, patch)
	if err != nil {
		return nil, s.invalid(domain.MutationEdit, fmt.Errorf("edit task: %w", err))
	}
	if next == b {
		return s.unchanged(ctx, domain.MutationEdit, b, in.Actor, in.TaskID, "no field changed"), nil
	}
	if err := s.commit(ctx, b, next, domain.MutationEdit, in.Actor, in.TaskID); err != nil {
		return nil, err
	}
	return &ports.MutationResult{Outcome: domain.OutcomeApplied, Board: next, Task: &updated}, nil
}

// snapshot returns the held snapshot of boardID, loading it from the cache
// or the seed on first access. Unknown ids are never loaded or held.
func (s *BoardService) snapshot(ctx context.Context, boardID string) (*domain.Board, error) {
	if _, ok := s.known[boardID]; !ok {
		return nil, fmt.Errorf("board %q: %w", boardID, domain.ErrBoardNotFound)
	}

	s.mu.RLock()
	b, ok := s.boards[boardID]
	s.mu.RUnlock()
	if ok {
		return b, nil
	}

	b = s.load(ctx, boardID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.boards[boardID]; ok {
		return existing, nil
	}
	s.boards[boardID] = b
	return b, nil
}

func (s *BoardService) load(ctx context.Context, boardID string) *domain.Board {
	log := s.log.With().Str("board_id", boardID).Logger()

	cached, err := s.store.Load(ctx, boardID)
	switch {
	case err == nil:
		if verr := board.CheckInvariants(cached); verr != nil {
			log.Warn().Err(verr).Msg("cached snapshot is inconsistent, starting from seed")
			metrics.SnapshotFallbacksTotal.WithLabelValues("inconsistent").Inc()
			break
		}
		cached.ID = boardID
		log.Debug().Int64("version", cached.Version).Msg("snapshot restored from cache")
		return cached
	case errors.Is(err, domain.ErrSnapshotNotFound):
		log.Debug().Msg("no cached snapshot, starting from seed")
		metrics.SnapshotFallbacksTotal.WithLabelValues("missing").Inc()
	case errors.Is(err, domain.ErrSnapshotCorrupt):
		log.Warn().Err(err).Msg("cached snapshot is corrupt, starting from seed")
		metrics.SnapshotFallbacksTotal.WithLabelValues("corrupt").Inc()
	default:
		log.Warn().Err(err).Msg("snapshot cache unavailable, starting from seed")
		metrics.SnapshotStoreErrorsTotal.WithLabelValues("load").Inc()
		metrics.SnapshotFallbacksTotal.WithLabelValues("unavailable").Inc()
	}
	return s.seed(boardID)
}

// commit checks next and swaps it in for prev. The cache write, audit entry
// and event are best effort.
func (s *BoardService) commit(ctx context.Context, prev, next *domain.Board, kind domain.MutationKind, actor domain.User, taskID string) error {
	if err := board.CheckInvariants(next); err != nil {
		metrics.InvariantViolationsTotal.Inc()
		s.log.Error().Err(err).
			Str("board_id", prev.ID).
			Str("kind", string(kind)).
			Str("task_id", taskID).
			Msg("transition discarded")
		if s.strict {
			panic(err)
		}
		return fmt.Errorf("commit %s: %w", kind, err)
	}
	next.UpdatedAt = s.now().UTC()

	s.mu.Lock()
	if s.boards[prev.ID] != prev {
		s.mu.Unlock()
		return fmt.Errorf("commit %s: %w", kind, domain.ErrConflict)
	}
	s.boards[prev.ID] = next
	s.mu.Unlock()

	if err := s.store.Save(ctx, next); err != nil {
		metrics.SnapshotStoreErrorsTotal.WithLabelValues("save").Inc()
		s.log.Warn().Err(err).Str("board_id", next.ID).Int64("version", next.Version).Msg("failed to cache snapshot")
	}

	s.record(ctx, kind, next, actor, taskID, domain.OutcomeApplied)
	s.publish(ctx, kind, next, actor, taskID)

	s.log.Info().
		Str("board_id", next.ID).
		Str("kind", string(kind)).
		Str("task_id", taskID).
		Str("user_id", actor.ID).
		Str("role", string(actor.Role)).
		Int64("version", next.Version).
		Msg("board updated")
	return nil
}

func (s *BoardService) denied(ctx context.Context, kind domain.MutationKind, b *domain.Board, actor domain.User, taskID string) *ports.MutationResult {
	s.record(ctx, kind, b, actor, taskID, domain.OutcomeDenied)
	s.log.Debug().
		Str("board_id", b.ID).
		Str("kind", string(kind)).
		Str("task_id", taskID).
		Str("user_id", actor.ID).
		Str("role", string(actor.Role)).
		Msg("intent denied")
	return &ports.MutationResult{Outcome: domain.OutcomeDenied, Reason: "not permitted for this user", Board: b}
}

func (s *BoardService) unchanged(ctx context.Context, kind domain.MutationKind, b *domain.Board, actor domain.User, taskID, reason string) *ports.MutationResult {
	metrics.MutationsTotal.WithLabelValues(string(kind), string(domain.OutcomeUnchanged)).Inc()
	res := &ports.MutationResult{Outcome: domain.OutcomeUnchanged, Reason: reason, Board: b}
	if t, ok := b.Tasks[taskID]; ok {
		res.Task = &t
	}
	return res
}

func (s *BoardService) invalid(kind domain.MutationKind, err error) error {
	metrics.MutationErrorsTotal.WithLabelValues(string(kind)).Inc()
	s.log.Warn().Err(err).Str("kind", string(kind)).Msg("intent rejected")
	return err
}

func (s *BoardService) record(ctx context.Context, kind domain.MutationKind, b *domain.Board, actor domain.User, taskID string, outcome domain.Outcome) {
	metrics.MutationsTotal.WithLabelValues(string(kind), string(outcome)).Inc()
	if s.audit == nil {
		return
	}
	rec := &domain.MutationRecord{
		BoardID:   b.ID,
		Kind:      kind,
		TaskID:    taskID,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Outcome:   outcome,
		Version:   b.Version,
		At:        s.now().UTC(),
	}
	if err := s.audit.InsertMutation(ctx, rec); err != nil {
		s.log.Warn().Err(err).Str("board_id", b.ID).Msg("failed to insert audit record")
	}
}

func (s *BoardService) publish(ctx context.Context, kind domain.MutationKind, b *domain.Board, actor domain.User, taskID string) {
	if s.events == nil {
		return
	}
	evt := domain.BoardEvent{
		Type:    eventType(kind),
		BoardID: b.ID,
		TaskID:  taskID,
		Version: b.Version,
		ActorID: actor.ID,
		At:      b.UpdatedAt,
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.log.Warn().Err(err).Str("board_id", b.ID).Str("type", string(evt.Type)).Msg("failed to publish board event")
	}
}

// replay returns the result of an earlier create with the same idempotency
// key, or nil when the key is new.
func (s *BoardService) replay(ctx context.Context, b *domain.Board, in ports.CreateTaskInput) *ports.MutationResult {
	if in.IdempotencyKey == "" || s.idem == nil {
		return nil
	}
	taskID, found, err := s.idem.Lookup(ctx, in.BoardID, in.IdempotencyKey)
	if err != nil {
		s.log.Warn().Err(err).Str("board_id", in.BoardID).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !found {
		return nil
	}
	task, ok := b.Tasks[taskID]
	if !ok {
		return nil
	}
	s.log.Info().Str("idempotency_key", in.IdempotencyKey).Str("task_id", taskID).Msg("idempotent replay")
	metrics.MutationsTotal.WithLabelValues(string(domain.MutationCreate), string(domain.OutcomeUnchanged)).Inc()
	return &ports.MutationResult{Outcome: domain.OutcomeUnchanged, Reason: "already created", Board: b, Task: &task}
}

// completeDraft fills in the assignee. Employees default to themselves; an
// admin has to choose.
func (s *BoardService) completeDraft(ctx context.Context, actor domain.User, draft domain.TaskDraft) (domain.TaskDraft, error) {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Description = strings.TrimSpace(draft.Description)
	if draft.Title == "" || draft.Description == "" {
		return draft, fmt.Errorf("%w: title and description are required", domain.ErrValidation)
	}

	if draft.AssignedTo == "" {
		if actor.Role != domain.RoleEmployee {
			return draft, fmt.Errorf("%w: assignee is required", domain.ErrValidation)
		}
		draft.AssignedTo = actor.ID
		draft.AssignedToName = actor.Name
	}
	if draft.AssignedToName == "" {
		name, err := s.assigneeName(ctx, draft.AssignedTo)
		if err != nil {
			return draft, err
		}
		draft.AssignedToName = name
	}
	return draft, nil
}

func (s *BoardService) assigneeName(ctx context.Context, userID string) (string, error) {
	if s.directory == nil {
		return "", fmt.Errorf("%w: assignee name is required", domain.ErrValidation)
	}
	u, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", fmt.Errorf("%w: unknown assignee %q", domain.ErrValidation, userID)
		}
		return "", fmt.Errorf("resolve assignee: %w", err)
	}
	return u.Name, nil
}

func eventType(kind domain.MutationKind) domain.BoardEventType {
	switch kind {
	case domain.MutationCreate:
		return domain.EventTaskCreated
	case domain.MutationEdit:
		return domain.EventTaskUpdated
	default:
		return domain.EventTaskMoved
	}
}

func observe(kind domain.MutationKind, start time.Time) {
	metrics.MutationDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
}

// newTaskID returns "task-" followed by a UUIDv7, which embeds the creation
// time and is unique across processes.
func newTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return "task-" + id.String()
}
