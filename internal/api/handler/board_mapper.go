package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/ports"
)

const dateLayout = "2006-01-02"

// --- Request → Service input ---

func toDragEndInput(req moveRequest, boardID string, actor domain.User) ports.DragEndInput {
	in := ports.DragEndInput{
		BoardID: boardID,
		Actor:   actor,
		TaskID:  req.TaskID,
		Source:  ports.Position{ColumnID: req.Source.ColumnID, Index: req.Source.Index},
	}
	if req.Destination != nil {
		in.Destination = &ports.Position{ColumnID: req.Destination.ColumnID, Index: req.Destination.Index}
	}
	return in
}

func toCreateInput(req createTaskRequest, boardID string, actor domain.User, idempotencyKey string) (ports.CreateTaskInput, error) {
	draft := domain.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Priority:    domain.Priority(req.Priority),
		Notes:       req.Notes,
	}
	if req.DueDate != "" {
		due, err := parseDate(req.DueDate)
		if err != nil {
			return ports.CreateTaskInput{}, err
		}
		draft.DueDate = &due
	}
	return ports.CreateTaskInput{
		BoardID:        boardID,
		Actor:          actor,
		ColumnID:       req.ColumnID,
		Draft:          draft,
		IdempotencyKey: idempotencyKey,
	}, nil
}

func toEditInput(req editTaskRequest, boardID, taskID string, actor domain.User) (ports.EditTaskInput, error) {
	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Notes:       req.Notes,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Status != nil {
		s := domain.TaskStatus(*req.Status)
		patch.Status = &s
	}
	if req.DueDate != nil {
		if strings.TrimSpace(*req.DueDate) == "" {
			patch.ClearDueDate = true
		} else {
			due, err := parseDate(*req.DueDate)
			if err != nil {
				return ports.EditTaskInput{}, err
			}
			patch.DueDate = &due
		}
	}
	return ports.EditTaskInput{BoardID: boardID, Actor: actor, TaskID: taskID, Patch: patch}, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: due_date must be a date in the form %s", domain.ErrValidation, dateLayout)
	}
	return t, nil
}

// --- Service result → HTTP response ---

func toTaskResponse(t domain.Task, a ports.TaskAffordance) taskResponse {
	resp := taskResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		AssignedTo:     t.AssignedTo,
		AssignedToName: t.AssignedToName,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		CreatedAt:      t.CreatedAt.UTC().Format(dateLayout),
		Notes:          t.Notes,
		CanMove:        a.CanMove,
		CanEdit:        a.CanEdit,
		IsOwn:          a.IsOwn,
	}
	if t.DueDate != nil {
		due := t.DueDate.UTC().Format(dateLayout)
		resp.DueDate = &due
	}
	return resp
}

func toBoardResponse(v *ports.BoardView) boardResponse {
	b := v.Board
	resp := boardResponse{
		ID:            b.ID,
		Version:       b.Version,
		Columns:       make([]columnResponse, 0, len(b.ColumnOrder)),
		CanCreate:     v.CanCreate,
		CanUpdateAny:  v.CanUpdateAny,
		CanManageTeam: v.CanManageTeam,
		ReadOnly:      v.ReadOnly,
		Links: boardLinks{
			Self:  "/v1/boards/" + b.ID,
			Moves: "/v1/boards/" + b.ID + "/moves",
			Tasks: "/v1/boards/" + b.ID + "/tasks",
		},
	}
	if !b.UpdatedAt.IsZero() {
		resp.UpdatedAt = b.UpdatedAt.UTC().Format(time.RFC3339)
	}
	for _, colID := range b.ColumnOrder {
		col := b.Columns[colID]
		cr := columnResponse{ID: col.ID, Title: col.Title, Tasks: make([]taskResponse, 0, len(col.TaskIDs))}
		for _, t := range b.ColumnTasks(colID) {
			cr.Tasks = append(cr.Tasks, toTaskResponse(t, v.Affordances[t.ID]))
		}
		resp.Columns = append(resp.Columns, cr)
	}
	return resp
}

// toMutationResponse renders a result. The task's affordances are not
// recomputed here; clients refetch the board for those.
func toMutationResponse(r *ports.MutationResult) mutationResponse {
	resp := mutationResponse{
		Applied: r.Applied(),
		Outcome: string(r.Outcome),
		Reason:  r.Reason,
	}
	if r.Board != nil {
		resp.Version = r.Board.Version
	}
	if r.Task != nil {
		t := toTaskResponse(*r.Task, ports.TaskAffordance{})
		resp.Task = &t
	}
	return resp
}

func toHistoryResponse(boardID string, records []domain.MutationRecord) historyResponse {
	resp := historyResponse{BoardID: boardID, Mutations: make([]mutationRecordResponse, 0, len(records))}
	for _, r := range records {
		resp.Mutations = append(resp.Mutations, mutationRecordResponse{
			Kind:      string(r.Kind),
			TaskID:    r.TaskID,
			ActorID:   r.ActorID,
			ActorRole: string(r.ActorRole),
			Outcome:   string(r.Outcome),
			Version:   r.Version,
			At:        r.At.UTC().Format(time.RFC3339),
		})
	}
	return resp
}
