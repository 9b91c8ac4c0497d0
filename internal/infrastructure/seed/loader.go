// Package seed loads the initial board and user directory from a YAML file.
package seed

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/board"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

const dateLayout = "2006-01-02"

// File is the on-disk seed format. Columns are listed in display order and
// name their tasks in order; a task's status is the column it sits in.
// Every board in Boards starts from the same columns; an empty list serves
// the default board only.
type File struct {
	Boards  []string `yaml:"boards"`
	Users   []User   `yaml:"users"`
	Columns []Column `yaml:"columns"`
}

type User struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
	Email string `yaml:"email"`
}

type Column struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Tasks []Task `yaml:"tasks"`
}

type Task struct {
	ID             string `yaml:"id"`
	Title          string `yaml:"title"`
	Description    string `yaml:"description"`
	AssignedTo     string `yaml:"assigned_to"`
	AssignedToName string `yaml:"assigned_to_name"`
	Priority       string `yaml:"priority"`
	CreatedAt      string `yaml:"created_at"`
	DueDate        string `yaml:"due_date"`
	Notes          string `yaml:"notes"`
}

// Seed is a parsed seed file.
type Seed struct {
	Users    []domain.User
	BoardIDs []string
	board    *domain.Board
}

// Board returns a fresh snapshot for boardID. Every call returns a new copy.
func (s *Seed) Board(boardID string) *domain.Board {
	return s.board.WithID(boardID)
}

// Load reads and validates the seed file at path.
func Load(path string) (*Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a seed document. The resulting board must satisfy the board
// invariants.
func Parse(raw []byte) (*Seed, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	if len(f.Columns) == 0 {
		return nil, fmt.Errorf("seed: no columns")
	}

	boardIDs := []string{domain.DefaultBoardID}
	if len(f.Boards) > 0 {
		boardIDs = make([]string, 0, len(f.Boards))
		seen := make(map[string]bool, len(f.Boards))
		for _, id := range f.Boards {
			if id == "" || seen[id] {
				return nil, fmt.Errorf("seed board %q: %w: empty or repeated id", id, domain.ErrValidation)
			}
			seen[id] = true
			boardIDs = append(boardIDs, id)
		}
	}

	users := make([]domain.User, 0, len(f.Users))
	for _, u := range f.Users {
		role := domain.Role(u.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("seed user %q: %w", u.ID, domain.ErrInvalidRole)
		}
		users = append(users, domain.User{ID: u.ID, Name: u.Name, Role: role, Email: u.Email})
	}

	b := &domain.Board{
		Tasks:   make(map[string]domain.Task),
		Columns: make(map[string]domain.Column, len(f.Columns)),
	}
	for _, c := range f.Columns {
		col := domain.Column{ID: c.ID, Title: c.Title, TaskIDs: make([]string, 0, len(c.Tasks))}
		for _, t := range c.Tasks {
			task, err := t.toDomain(c.ID)
			if err != nil {
				return nil, err
			}
			if _, dup := b.Tasks[task.ID]; dup {
				return nil, fmt.Errorf("seed task %q: %w", task.ID, domain.ErrDuplicateTask)
			}
			b.Tasks[task.ID] = task
			col.TaskIDs = append(col.TaskIDs, task.ID)
		}
		b.Columns[c.ID] = col
		b.ColumnOrder = append(b.ColumnOrder, c.ID)
	}

	if err := board.CheckInvariants(b); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return &Seed{Users: users, BoardIDs: boardIDs, board: b}, nil
}

func (t Task) toDomain(columnID string) (domain.Task, error) {
	priority := domain.Priority(t.Priority)
	if priority == "" {
		priority = domain.PriorityMedium
	}
	task := domain.Task{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		AssignedTo:     t.AssignedTo,
		AssignedToName: t.AssignedToName,
		Status:         domain.TaskStatus(columnID),
		Priority:       priority,
		Notes:          t.Notes,
	}
	if t.CreatedAt != "" {
		created, err := time.Parse(dateLayout, t.CreatedAt)
		if err != nil {
			return domain.Task{}, fmt.Errorf("seed task %q created_at: %w", t.ID, err)
		}
		task.CreatedAt = created
	}
	if t.DueDate != "" {
		due, err := time.Parse(dateLayout, t.DueDate)
		if err != nil {
			return domain.Task{}, fmt.Errorf("seed task %q due_date: %w", t.ID, err)
		}
		task.DueDate = &due
	}
	if err := task.Validate(); err != nil {
		return domain.Task{}, fmt.Errorf("seed task %q: %w", t.ID, err)
	}
	return task, nil
}
