package seed

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

const sample = `
users:
  - {id: "1", name: Admin User, role: admin, email: admin@company.com}
  - {id: "2", name: John Employee, role: employee, email: john@company.com}
columns:
  - id: todo
    title: To Do
    tasks:
      - id: task-1
        title: Design User Interface
        description: Create wireframes
        assigned_to: "2"
        assigned_to_name: John Employee
        priority: high
        created_at: "2024-01-15"
        due_date: "2024-01-25"
  - id: done
    title: Done
    tasks: []
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(s.Users) != 2 || s.Users[1].Role != domain.RoleEmployee {
		t.Fatalf("unexpected users: %+v", s.Users)
	}

	b := s.Board("ops")
	if b.ID != "ops" || len(b.ColumnOrder) != 2 || b.ColumnOrder[0] != "todo" {
		t.Fatalf("unexpected board: %+v", b)
	}
	task := b.Tasks["task-1"]
	if task.Status != domain.StatusTodo || task.Priority != domain.PriorityHigh {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.DueDate == nil || !task.DueDate.Equal(time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected due date: %v", task.DueDate)
	}

	if len(s.BoardIDs) != 1 || s.BoardIDs[0] != domain.DefaultBoardID {
		t.Fatalf("expected only the default board, got %v", s.BoardIDs)
	}

	other := s.Board("ops")
	if other == b {
		t.Fatalf("expected a fresh snapshot per call")
	}
}

func TestParse_Boards(t *testing.T) {
	s, err := Parse([]byte("boards: [main, ops]\n" + sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(s.BoardIDs) != 2 || s.BoardIDs[1] != "ops" {
		t.Fatalf("unexpected board ids: %v", s.BoardIDs)
	}
	if _, err := Parse([]byte("boards: [main, main]\n" + sample)); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for repeated board ids, got %v", err)
	}
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want error
	}{
		"bad role": {`
users: [{id: "9", name: X, role: root}]
columns: [{id: todo, title: To Do}]`, domain.ErrInvalidRole},
		"duplicate task": {`
columns:
  - {id: todo, title: To Do, tasks: [{id: t1, title: a, description: b, assigned_to: "2"}]}
  - {id: done, title: Done, tasks: [{id: t1, title: a, description: b, assigned_to: "2"}]}`, domain.ErrDuplicateTask},
		"missing title": {`
columns:
  - {id: todo, title: To Do, tasks: [{id: t1, description: b, assigned_to: "2"}]}`, domain.ErrValidation},
	}
	for name, tc := range cases {
		if _, err := Parse([]byte(tc.doc)); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", name, tc.want, err)
		}
	}

	if _, err := Parse([]byte("columns: []")); err == nil {
		t.Fatalf("expected an error for a board without columns")
	}
	if _, err := Parse([]byte(`columns: [{id: todo, tasks: [{id: t1, title: a, description: b, assigned_to: "2", due_date: "25/01/2024"}]}]`)); err == nil {
		t.Fatalf("expected an error for a malformed date")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
