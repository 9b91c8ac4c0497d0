package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Ritesh-201/rbac-and-forms/internal/api/middleware"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/ports"
)

type stubBoardService struct {
	getFn    func(ctx context.Context, in ports.GetBoardInput) (*ports.BoardView, error)
	dragFn   func(ctx context.Context, in ports.DragEndInput) (*ports.MutationResult, error)
	createFn func(ctx context.Context, in ports.CreateTaskInput) (*ports.MutationResult, error)
	editFn   func(ctx context.Context, in ports.EditTaskInput) (*ports.MutationResult, error)
}

func (s *stubBoardService) GetBoard(ctx context.Context, in ports.GetBoardInput) (*ports.BoardView, error) {
	return s.getFn(ctx, in)
}

func (s *stubBoardService) DragEnd(ctx context.Context, in ports.DragEndInput) (*ports.MutationResult, error) {
	return s.dragFn(ctx, in)
}

func (s *stubBoardService) CreateTask(ctx context.Context, in ports.CreateTaskInput) (*ports.MutationResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubBoardService) EditTask(ctx context.Context, in ports.EditTaskInput) (*ports.MutationResult, error) {
	return s.editFn(ctx, in)
}

var john = domain.User{ID: "2", Name: "John Employee", Role: domain.RoleEmployee}

func newBoardContext(method, target, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("board_id")
	c.SetParamValues("main")
	if user != nil {
		c.Set(middleware.UserKey, *user)
		c.Set(middleware.RoleKey, string(user.Role))
	}
	return c, rec
}

func TestBoardHandler_Get(t *testing.T) {
	b := domain.SeedBoard("main")
	stub := &stubBoardService{
		getFn: func(_ context.Context, in ports.GetBoardInput) (*ports.BoardView, error) {
			if in.BoardID != "main" || in.Actor.ID != john.ID {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.BoardView{
				Board:       b,
				Affordances: map[string]ports.TaskAffordance{"task-1": {CanMove: true, CanEdit: true, IsOwn: true}},
				CanCreate:   true,
			}, nil
		},
	}
	c, rec := newBoardContext(http.MethodGet, "/v1/boards/main", "", &john)

	if err := NewBoardHandler(stub, nil).Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp boardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Columns) != 3 || resp.Columns[0].ID != "todo" || resp.Columns[2].ID != "done" {
		t.Fatalf("unexpected columns: %+v", resp.Columns)
	}
	first := resp.Columns[0].Tasks[0]
	if first.ID != "task-1" || !first.IsOwn || !first.CanMove || first.CreatedAt != "2024-01-15" {
		t.Fatalf("unexpected first task: %+v", first)
	}
	if first.DueDate == nil || *first.DueDate != "2024-01-25" {
		t.Fatalf("unexpected due date: %v", first.DueDate)
	}
	if resp.Columns[0].Tasks[1].CanMove {
		t.Fatalf("task-3 should not be movable by john")
	}
	if !resp.CanCreate || resp.Links.Moves != "/v1/boards/main/moves" {
		t.Fatalf("unexpected board flags: %+v", resp)
	}
}

func TestBoardHandler_RequiresUser(t *testing.T) {
	c, _ := newBoardContext(http.MethodGet, "/v1/boards/main", "", nil)

	err := NewBoardHandler(&stubBoardService{}, nil).Get(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestBoardHandler_Move(t *testing.T) {
	var got ports.DragEndInput
	stub := &stubBoardService{
		dragFn: func(_ context.Context, in ports.DragEndInput) (*ports.MutationResult, error) {
			got = in
			return &ports.MutationResult{Outcome: domain.OutcomeDenied, Reason: "not permitted for this user",
				Board: &domain.Board{Version: 3}}, nil
		},
	}
	body := `{"task_id":"task-3","source":{"column_id":"todo","index":1},"destination":{"column_id":"done","index":0}}`
	c, rec := newBoardContext(http.MethodPost, "/v1/boards/main/moves", body, &john)

	if err := NewBoardHandler(stub, nil).Move(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("denied moves are reported with 200, got %d", rec.Code)
	}
	if got.TaskID != "task-3" || got.Source.Index != 1 || got.Destination == nil || got.Destination.ColumnID != "done" {
		t.Fatalf("unexpected input: %+v", got)
	}

	var resp mutationResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Applied || resp.Outcome != "denied" || resp.Version != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestBoardHandler_Move_DropOutside(t *testing.T) {
	var got ports.DragEndInput
	stub := &stubBoardService{
		dragFn: func(_ context.Context, in ports.DragEndInput) (*ports.MutationResult, error) {
			got = in
			return &ports.MutationResult{Outcome: domain.OutcomeUnchanged, Board: &domain.Board{}}, nil
		},
	}
	c, _ := newBoardContext(http.MethodPost, "/v1/boards/main/moves",
		`{"task_id":"task-1","source":{"column_id":"todo","index":0}}`, &john)

	if err := NewBoardHandler(stub, nil).Move(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Destination != nil {
		t.Fatalf("expected no destination, got %+v", got.Destination)
	}
}

func TestBoardHandler_Move_Invalid(t *testing.T) {
	stub := &stubBoardService{
		dragFn: func(context.Context, ports.DragEndInput) (*ports.MutationResult, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	cases := map[string]struct {
		body string
		code int
	}{
		"malformed":      {`{"task_id":`, http.StatusBadRequest},
		"no task":        {`{"source":{"column_id":"todo","index":0}}`, http.StatusUnprocessableEntity},
		"negative index": {`{"task_id":"task-1","source":{"column_id":"todo","index":-1}}`, http.StatusUnprocessableEntity},
	}
	for name, tc := range cases {
		c, _ := newBoardContext(http.MethodPost, "/v1/boards/main/moves", tc.body, &john)
		err := NewBoardHandler(stub, nil).Move(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != tc.code {
			t.Fatalf("%s: expected %d, got %v", name, tc.code, err)
		}
	}
}

func TestBoardHandler_CreateTask(t *testing.T) {
	var got ports.CreateTaskInput
	stub := &stubBoardService{
		createFn: func(_ context.Context, in ports.CreateTaskInput) (*ports.MutationResult, error) {
			got = in
			task := domain.Task{ID: "task-9", Title: in.Draft.Title, Status: domain.StatusDone,
				Priority: domain.PriorityHigh, CreatedAt: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)}
			return &ports.MutationResult{Outcome: domain.OutcomeApplied, Board: &domain.Board{Version: 1}, Task: &task}, nil
		},
	}
	body := `{"column_id":"done","title":"Release notes","description":"Summarise","assigned_to":"4","priority":"high","due_date":"2024-03-01"}`
	c, rec := newBoardContext(http.MethodPost, "/v1/boards/main/tasks", body, &john)
	c.Request().Header.Set("Idempotency-Key", "abc")

	if err := NewBoardHandler(stub, nil).CreateTask(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.IdempotencyKey != "abc" || got.ColumnID != "done" || got.Draft.AssignedTo != "4" {
		t.Fatalf("unexpected input: %+v", got)
	}
	if got.Draft.DueDate == nil || !got.Draft.DueDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected due date: %v", got.Draft.DueDate)
	}

	var resp mutationResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Applied || resp.Task == nil || resp.Task.ID != "task-9" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestBoardHandler_CreateTask_Invalid(t *testing.T) {
	stub := &stubBoardService{
		createFn: func(context.Context, ports.CreateTaskInput) (*ports.MutationResult, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	for _, body := range []string{
		`{"column_id":"todo","description":"x"}`,
		`{"column_id":"todo","title":"x","description":"y","priority":"urgent"}`,
		`{"column_id":"todo","title":"x","description":"y","due_date":"01/03/2024"}`,
	} {
		c, _ := newBoardContext(http.MethodPost, "/v1/boards/main/tasks", body, &john)
		err := NewBoardHandler(stub, nil).CreateTask(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %v", body, err)
		}
	}
}

func TestBoardHandler_EditTask(t *testing.T) {
	var got ports.EditTaskInput
	stub := &stubBoardService{
		editFn: func(_ context.Context, in ports.EditTaskInput) (*ports.MutationResult, error) {
			got = in
			return &ports.MutationResult{Outcome: domain.OutcomeUnchanged, Board: &domain.Board{}}, nil
		},
	}
	c, rec := newBoardContext(http.MethodPatch, "/v1/boards/main/tasks/task-1",
		`{"title":"New title","due_date":"","status":"done"}`, &john)
	c.SetParamNames("board_id", "task_id")
	c.SetParamValues("main", "task-1")

	if err := NewBoardHandler(stub, nil).EditTask(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.TaskID != "task-1" || got.Patch.Title == nil || *got.Patch.Title != "New title" {
		t.Fatalf("unexpected patch: %+v", got)
	}
	if !got.Patch.ClearDueDate || got.Patch.Description != nil {
		t.Fatalf("expected due date cleared and description untouched: %+v", got.Patch)
	}
	if got.Patch.Status == nil || *got.Patch.Status != domain.StatusDone {
		t.Fatalf("expected status to be forwarded for rejection")
	}
}

func TestBoardHandler_EditTask_BadDate(t *testing.T) {
	c, _ := newBoardContext(http.MethodPatch, "/v1/boards/main/tasks/task-1", `{"due_date":"tomorrow"}`, &john)
	c.SetParamNames("board_id", "task_id")
	c.SetParamValues("main", "task-1")

	err := NewBoardHandler(&stubBoardService{}, nil).EditTask(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

type stubAuditLog struct {
	limit int64
}

func (s *stubAuditLog) ListByBoard(_ context.Context, boardID string, limit int64) ([]domain.MutationRecord, error) {
	s.limit = limit
	return []domain.MutationRecord{{BoardID: boardID, Kind: domain.MutationMove, TaskID: "task-1", ActorID: "3",
		ActorRole: domain.RoleGuest, Outcome: domain.OutcomeDenied, At: time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)}}, nil
}

func TestBoardHandler_History(t *testing.T) {
	admin := domain.User{ID: "1", Role: domain.RoleAdmin}
	audit := &stubAuditLog{}

	c, rec := newBoardContext(http.MethodGet, "/v1/boards/main/mutations?limit=9999", "", &admin)
	if err := NewBoardHandler(&stubBoardService{}, audit).History(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if audit.limit != maxHistoryLimit {
		t.Fatalf("expected limit to be capped at %d, got %d", maxHistoryLimit, audit.limit)
	}
	var resp historyResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Mutations) != 1 || resp.Mutations[0].Outcome != "denied" || resp.Mutations[0].At != "2024-02-03T10:00:00Z" {
		t.Fatalf("unexpected history: %+v", resp)
	}

	c, _ = newBoardContext(http.MethodGet, "/v1/boards/main/mutations", "", &admin)
	err := NewBoardHandler(&stubBoardService{}, nil).History(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without an audit log, got %v", err)
	}
}
