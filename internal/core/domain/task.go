package domain

import (
	"fmt"
	"strings"
	"time"
)

// TaskStatus mirrors the id of the column holding the task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "inprogress"
	StatusDone       TaskStatus = "done"
)

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a card on the board.
type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	AssignedTo     string     `json:"assigned_to"`
	AssignedToName string     `json:"assigned_to_name"`
	Status         TaskStatus `json:"status"`
	Priority       Priority   `json:"priority"`
	CreatedAt      time.Time  `json:"created_at"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// Equal compares two tasks field by field, including the due date value.
func (t Task) Equal(o Task) bool {
	if t.ID != o.ID || t.Title != o.Title || t.Description != o.Description ||
		t.AssignedTo != o.AssignedTo || t.AssignedToName != o.AssignedToName ||
		t.Status != o.Status || t.Priority != o.Priority || t.Notes != o.Notes ||
		!t.CreatedAt.Equal(o.CreatedAt) {
		return false
	}
	switch {
	case t.DueDate == nil && o.DueDate == nil:
		return true
	case t.DueDate == nil || o.DueDate == nil:
		return false
	default:
		return t.DueDate.Equal(*o.DueDate)
	}
}

// Validate checks the fields every stored task must carry.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(t.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if strings.TrimSpace(t.AssignedTo) == "" {
		return fmt.Errorf("%w: assignee is required", ErrValidation)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("%w: priority must be one of low, medium, high", ErrValidation)
	}
	return nil
}

// TaskDraft carries the user-supplied fields of a task that does not exist yet.
type TaskDraft struct {
	Title          string
	Description    string
	AssignedTo     string
	AssignedToName string
	Priority       Priority
	DueDate        *time.Time
	Notes          string
}

// TaskPatch is a partial update. Nil fields are left untouched.
// Status is accepted only so that an attempt to set it can be rejected.
type TaskPatch struct {
	Title          *string
	Description    *string
	AssignedTo     *string
	AssignedToName *string
	Priority       *Priority
	DueDate        *time.Time
	ClearDueDate   bool
	Notes          *string
	Status         *TaskStatus
}

// Apply returns t with the patch merged in. Status is never copied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.AssignedToName != nil {
		t.AssignedToName = *p.AssignedToName
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		due := *p.DueDate
		t.DueDate = &due
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	return t
}
