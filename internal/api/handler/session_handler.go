package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/ports"
)

type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type switchRequest struct {
	Role       string `json:"role"        validate:"required,oneof=admin employee guest"`
	EmployeeID string `json:"employee_id" validate:"required_if=Role employee"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Switch issues a token for the chosen role. There is no password: the role
// switcher selects an identity, it does not prove one.
//
// @Summary      Switch role
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      switchRequest  true  "Role and, for employees, the employee id"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/session [post]
func (h *SessionHandler) Switch(c echo.Context) error {
	var req switchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	token, user, err := h.sessions.Switch(c.Request().Context(), ports.SwitchInput{
		Role:       req.Role,
		EmployeeID: req.EmployeeID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{Token: token, User: toUserResponse(*user)})
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Role: string(u.Role), Email: u.Email}
}
