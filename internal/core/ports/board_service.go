package ports

import (
	"context"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

// Position is a slot in a column.
type Position struct {
	ColumnID string
	Index    int
}

// DragEndInput is the drop of a dragged task. A nil Destination means the
// task was dropped outside any column.
type DragEndInput struct {
	BoardID     string
	Actor       domain.User
	TaskID      string
	Source      Position
	Destination *Position
}

// CreateTaskInput is a submitted create form.
type CreateTaskInput struct {
	BoardID        string
	Actor          domain.User
	ColumnID       string
	Draft          domain.TaskDraft
	IdempotencyKey string
}

// EditTaskInput is a submitted edit form.
type EditTaskInput struct {
	BoardID string
	Actor   domain.User
	TaskID  string
	Patch   domain.TaskPatch
}

// GetBoardInput requests the current snapshot as seen by Actor.
type GetBoardInput struct {
	BoardID string
	Actor   domain.User
}

// MutationResult reports how an intent was resolved. Board is the snapshot
// current after resolution, whether or not it changed.
type MutationResult struct {
	Outcome domain.Outcome
	Reason  string
	Board   *domain.Board
	Task    *domain.Task
}

// Applied reports whether a new snapshot replaced the previous one.
func (r *MutationResult) Applied() bool { return r.Outcome == domain.OutcomeApplied }

// TaskAffordance tells a renderer which controls to enable on a card.
type TaskAffordance struct {
	CanMove bool
	CanEdit bool
	IsOwn   bool
}

// BoardView is a snapshot plus everything needed to render it for one user.
type BoardView struct {
	Board         *domain.Board
	Affordances   map[string]TaskAffordance
	CanCreate     bool
	CanUpdateAny  bool
	CanManageTeam bool
	ReadOnly      bool
}

// BoardService resolves board intents. Mutations for one board must be
// delivered by a single writer; see queue.Dispatcher.
type BoardService interface {
	GetBoard(ctx context.Context, in GetBoardInput) (*BoardView, error)
	DragEnd(ctx context.Context, in DragEndInput) (*MutationResult, error)
	CreateTask(ctx context.Context, in CreateTaskInput) (*MutationResult, error)
	EditTask(ctx context.Context, in EditTaskInput) (*MutationResult, error)
}
