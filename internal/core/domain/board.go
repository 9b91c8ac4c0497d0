package domain

import "time"

// Column is an ordered lane of tasks. Its id doubles as the status of every
// task it holds.
type Column struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	TaskIDs []string `json:"task_ids"`
}

// Board is one immutable snapshot of the board state. A snapshot is never
// modified once published; transitions build a successor instead.
type Board struct {
	ID          string            `json:"id"`
	Version     int64             `json:"version"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Tasks       map[string]Task   `json:"tasks"`
	Columns     map[string]Column `json:"columns"`
	ColumnOrder []string          `json:"column_order"`
}

// Locate returns the column id and index holding taskID.
func (b *Board) Locate(taskID string) (columnID string, index int, ok bool) {
	for _, colID := range b.ColumnOrder {
		for i, id := range b.Columns[colID].TaskIDs {
			if id == taskID {
				return colID, i, true
			}
		}
	}
	return "", -1, false
}

// ColumnTasks resolves the tasks of a column in display order.
func (b *Board) ColumnTasks(columnID string) []Task {
	col, ok := b.Columns[columnID]
	if !ok {
		return nil
	}
	out := make([]Task, 0, len(col.TaskIDs))
	for _, id := range col.TaskIDs {
		if t, ok := b.Tasks[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// WithID returns a copy of b registered under another board id. The maps are
// copied; column slices are shared, which is safe because snapshots never
// mutate them.
func (b *Board) WithID(id string) *Board {
	next := *b
	next.ID = id
	next.Tasks = make(map[string]Task, len(b.Tasks))
	for k, v := range b.Tasks {
		next.Tasks[k] = v
	}
	next.Columns = make(map[string]Column, len(b.Columns))
	for k, v := range b.Columns {
		next.Columns[k] = v
	}
	next.ColumnOrder = append([]string(nil), b.ColumnOrder...)
	return &next
}
