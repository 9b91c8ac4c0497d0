package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/ports"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	defaultHistoryLimit  = 50
	maxHistoryLimit      = 500
)

// AuditLog is the read side of the mutation audit trail.
type AuditLog interface {
	ListByBoard(ctx context.Context, boardID string, limit int64) ([]domain.MutationRecord, error)
}

// BoardHandler handles HTTP requests for the task board.
type BoardHandler struct {
	boards ports.BoardService
	audit  AuditLog
}

// NewBoardHandler returns a BoardHandler. audit may be nil, in which case
// History answers 404.
func NewBoardHandler(boards ports.BoardService, audit AuditLog) *BoardHandler {
	return &BoardHandler{boards: boards, audit: audit}
}

// Get handles GET /v1/boards/:board_id.
//
// @Summary      Get the board as seen by the caller
// @Tags         boards
// @Produce      json
// @Security     BearerAuth
// @Param        board_id  path      string  true  "Board id (e.g. main)"
// @Success      200       {object}  boardResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Router       /v1/boards/{board_id} [get]
func (h *BoardHandler) Get(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	view, err := h.boards.GetBoard(c.Request().Context(), ports.GetBoardInput{BoardID: boardID(c), Actor: user})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBoardResponse(view))
}

// Move handles POST /v1/boards/:board_id/moves.
//
// @Summary      Drop a dragged task
// @Description  A drop by a user who may not move the task is ignored: the response has applied=false and outcome=denied.
// @Tags         boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        board_id  path      string       true  "Board id"
// @Param        body      body      moveRequest  true  "Drag end"
// @Success      200       {object}  mutationResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Failure      409       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /v1/boards/{board_id}/moves [post]
func (h *BoardHandler) Move(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req moveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.boards.DragEnd(c.Request().Context(), toDragEndInput(req, boardID(c), user))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMutationResponse(res))
}

// CreateTask handles POST /v1/boards/:board_id/tasks.
//
// @Summary      Create a task
// @Description  Employees may leave assigned_to empty to take the task themselves. Repeating a request with the same Idempotency-Key returns the task created the first time.
// @Tags         boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        board_id         path      string             true   "Board id"
// @Param        Idempotency-Key  header    string             false  "Client-generated key"
// @Param        body             body      createTaskRequest  true   "Task"
// @Success      201              {object}  mutationResponse
// @Success      200              {object}  mutationResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/boards/{board_id}/tasks [post]
func (h *BoardHandler) CreateTask(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	in, err := toCreateInput(req, boardID(c), user, c.Request().Header.Get(headerIdempotencyKey))
	if err != nil {
		return err
	}
	res, err := h.boards.CreateTask(c.Request().Context(), in)
	if err != nil {
		return err
	}

	status := http.StatusOK
	if res.Applied() {
		status = http.StatusCreated
	}
	return c.JSON(status, toMutationResponse(res))
}

// EditTask handles PATCH /v1/boards/:board_id/tasks/:task_id.
//
// @Summary      Edit a task
// @Description  Only the fields present are changed. Status follows the column and cannot be set here.
// @Tags         boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        board_id  path      string           true  "Board id"
// @Param        task_id   path      string           true  "Task id"
// @Param        body      body      editTaskRequest  true  "Changed fields"
// @Success      200       {object}  mutationResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Failure      422       {object}  errorResponse
// @Router       /v1/boards/{board_id}/tasks/{task_id} [patch]
func (h *BoardHandler) EditTask(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req editTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	in, err := toEditInput(req, boardID(c), c.Param("task_id"), user)
	if err != nil {
		return err
	}
	res, err := h.boards.EditTask(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMutationResponse(res))
}

// History handles GET /v1/boards/:board_id/mutations.
//
// @Summary      Audit trail of a board
// @Tags         boards
// @Produce      json
// @Security     BearerAuth
// @Param        board_id  path      string  true   "Board id"
// @Param        limit     query     int     false  "Maximum records (default 50, max 500)"
// @Success      200       {object}  historyResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /v1/boards/{board_id}/mutations [get]
func (h *BoardHandler) History(c echo.Context) error {
	if h.audit == nil {
		return echo.NewHTTPError(http.StatusNotFound, "audit trail is not enabled")
	}

	limit := int64(defaultHistoryLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = min(n, maxHistoryLimit)
	}

	id := boardID(c)
	records, err := h.audit.ListByBoard(c.Request().Context(), id, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHistoryResponse(id, records))
}
