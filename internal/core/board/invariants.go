package board

import (
	"fmt"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

// CheckInvariants verifies that columns and tasks agree: every column in the
// display order exists, each task id sits in exactly one column, every listed
// id resolves to a task whose status is that column, and no task is orphaned.
func CheckInvariants(b *domain.Board) error {
	if len(b.ColumnOrder) != len(b.Columns) {
		return fmt.Errorf("%w: column order lists %d columns, board has %d",
			domain.ErrInvariantViolation, len(b.ColumnOrder), len(b.Columns))
	}

	seen := make(map[string]string, len(b.Tasks))
	for _, colID := range b.ColumnOrder {
		col, ok := b.Columns[colID]
		if !ok {
			return fmt.Errorf("%w: column order references missing column %q", domain.ErrInvariantViolation, colID)
		}
		if col.ID != colID {
			return fmt.Errorf("%w: column %q is keyed as %q", domain.ErrInvariantViolation, col.ID, colID)
		}
		for _, id := range col.TaskIDs {
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("%w: task %q appears in %q and %q", domain.ErrInvariantViolation, id, prev, colID)
			}
			seen[id] = colID

			task, ok := b.Tasks[id]
			if !ok {
				return fmt.Errorf("%w: column %q references missing task %q", domain.ErrInvariantViolation, colID, id)
			}
			if task.ID != id {
				return fmt.Errorf("%w: task keyed %q has id %q", domain.ErrInvariantViolation, id, task.ID)
			}
			if string(task.Status) != colID {
				return fmt.Errorf("%w: task %q has status %q but sits in %q", domain.ErrInvariantViolation, id, task.Status, colID)
			}
		}
	}

	if len(seen) != len(b.Tasks) {
		for id := range b.Tasks {
			if _, ok := seen[id]; !ok {
				return fmt.Errorf("%w: task %q is in no column", domain.ErrInvariantViolation, id)
			}
		}
	}
	return nil
}
