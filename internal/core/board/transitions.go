// Package board holds the pure transitions of the board state model. Every
// function takes a snapshot and returns either a successor snapshot or the
// input itself; the input is never modified.
package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

// Reorder moves the task at index from to index to inside one column.
// Dropping a task on its own position returns b itself.
func Reorder(b *domain.Board, columnID string, from, to int) (*domain.Board, error) {
	col, ok := b.Columns[columnID]
	if !ok {
		return b, fmt.Errorf("reorder %q: %w", columnID, domain.ErrColumnNotFound)
	}
	n := len(col.TaskIDs)
	if from < 0 || from >= n || to < 0 || to >= n {
		return b, fmt.Errorf("reorder %q from %d to %d (len %d): %w", columnID, from, to, n, domain.ErrIndexOutOfRange)
	}
	if from == to {
		return b, nil
	}

	id := col.TaskIDs[from]
	col.TaskIDs = insertAt(removeAt(col.TaskIDs, from), to, id)

	next := successor(b)
	next.Columns = cloneColumns(b.Columns)
	next.Columns[columnID] = col
	return next, nil
}

// Move takes the task at index from of column src and inserts it into column
// dst at index to, updating its status in the same step. to may equal the
// length of dst to append.
func Move(b *domain.Board, src string, from int, dst string, to int) (*domain.Board, error) {
	if src == dst {
		return Reorder(b, src, from, to)
	}

	srcCol, ok := b.Columns[src]
	if !ok {
		return b, fmt.Errorf("move from %q: %w", src, domain.ErrColumnNotFound)
	}
	dstCol, ok := b.Columns[dst]
	if !ok {
		return b, fmt.Errorf("move to %q: %w", dst, domain.ErrColumnNotFound)
	}
	if from < 0 || from >= len(srcCol.TaskIDs) {
		return b, fmt.Errorf("move from %q index %d: %w", src, from, domain.ErrIndexOutOfRange)
	}
	if to < 0 || to > len(dstCol.TaskIDs) {
		return b, fmt.Errorf("move to %q index %d: %w", dst, to, domain.ErrIndexOutOfRange)
	}

	taskID := srcCol.TaskIDs[from]
	task, ok := b.Tasks[taskID]
	if !ok {
		return b, fmt.Errorf("move %q: %w", taskID, domain.ErrTaskNotFound)
	}

	srcCol.TaskIDs = removeAt(srcCol.TaskIDs, from)
	dstCol.TaskIDs = insertAt(dstCol.TaskIDs, to, taskID)
	task.Status = domain.TaskStatus(dst)

	next := successor(b)
	next.Columns = cloneColumns(b.Columns)
	next.Columns[src] = srcCol
	next.Columns[dst] = dstCol
	next.Tasks = cloneTasks(b.Tasks)
	next.Tasks[taskID] = task
	return next, nil
}

// Create adds a task built from draft to the end of columnID. The task's
// status is the column id and CreatedAt is the UTC day of now.
func Create(b *domain.Board, columnID, id string, draft domain.TaskDraft, now time.Time) (*domain.Board, domain.Task, error) {
	col, ok := b.Columns[columnID]
	if !ok {
		return b, domain.Task{}, fmt.Errorf("create in %q: %w", columnID, domain.ErrColumnNotFound)
	}
	if id == "" {
		return b, domain.Task{}, fmt.Errorf("create: %w: empty task id", domain.ErrValidation)
	}
	if _, exists := b.Tasks[id]; exists {
		return b, domain.Task{}, fmt.Errorf("create %q: %w", id, domain.ErrDuplicateTask)
	}

	priority := draft.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	task := domain.Task{
		ID:             id,
		Title:          strings.TrimSpace(draft.Title),
		Description:    strings.TrimSpace(draft.Description),
		AssignedTo:     draft.AssignedTo,
		AssignedToName: draft.AssignedToName,
		Status:         domain.TaskStatus(columnID),
		Priority:       priority,
		CreatedAt:      now.UTC().Truncate(24 * time.Hour),
		Notes:          draft.Notes,
	}
	if draft.DueDate != nil {
		due := *draft.DueDate
		task.DueDate = &due
	}
	if err := task.Validate(); err != nil {
		return b, domain.Task{}, fmt.Errorf("create: %w", err)
	}

	col.TaskIDs = insertAt(col.TaskIDs, len(col.TaskIDs), id)

	next := successor(b)
	next.Columns = cloneColumns(b.Columns)
	next.Columns[columnID] = col
	next.Tasks = cloneTasks(b.Tasks)
	next.Tasks[id] = task
	return next, task, nil
}

// Update merges patch into the task. Column membership is authoritative for
// status, so a patch that would change the status is rejected. A patch that
// changes nothing returns b itself.
func Update(b *domain.Board, taskID string, patch domain.TaskPatch) (*domain.Board, domain.Task, error) {
	task, ok := b.Tasks[taskID]
	if !ok {
		return b, domain.Task{}, fmt.Errorf("update %q: %w", taskID, domain.ErrTaskNotFound)
	}
	if patch.Status != nil && *patch.Status != task.Status {
		return b, task, fmt.Errorf("update %q: %w", taskID, domain.ErrStatusImmutable)
	}

	updated := patch.Apply(task)
	if err := updated.Validate(); err != nil {
		return b, task, fmt.Errorf("update %q: %w", taskID, err)
	}
	if updated.Equal(task) {
		return b, task, nil
	}

	next := successor(b)
	next.Tasks = cloneTasks(b.Tasks)
	next.Tasks[taskID] = updated
	return next, updated, nil
}

func successor(b *domain.Board) *domain.Board {
	next := *b
	next.Version = b.Version + 1
	return &next
}

func cloneColumns(in map[string]domain.Column) map[string]domain.Column {
	out := make(map[string]domain.Column, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneTasks(in map[string]domain.Task) map[string]domain.Task {
	out := make(map[string]domain.Task, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}

// removeAt and insertAt always allocate; the source slice may be shared with
// older snapshots.
func removeAt(ids []string, i int) []string {
	out := make([]string, 0, len(ids)-1)
	out = append(out, ids[:i]...)
	return append(out, ids[i+1:]...)
}

func insertAt(ids []string, i int, id string) []string {
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:i]...)
	out = append(out, id)
	return append(out, ids[i:]...)
}
