package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/ports"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/rbac"
)

// DirectoryHandler serves the caller's permissions and the user directory.
type DirectoryHandler struct {
	directory ports.UserDirectory
}

func NewDirectoryHandler(directory ports.UserDirectory) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

type abilitiesResponse struct {
	User  userResponse      `json:"user"`
	Rules []rbac.Permission `json:"rules"`
}

type usersResponse struct {
	Users []userResponse `json:"users"`
}

// Abilities returns the full rule table evaluated for the caller's role.
//
// @Summary      Permissions of the current user
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  abilitiesResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/abilities [get]
func (h *DirectoryHandler) Abilities(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, abilitiesResponse{
		User:  toUserResponse(user),
		Rules: rbac.For(user.Role).Rules(),
	})
}

// Employees lists the users tasks can be assigned to.
//
// @Summary      List employees
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/employees [get]
func (h *DirectoryHandler) Employees(c echo.Context) error {
	return h.list(c, domain.RoleEmployee)
}

// Team lists every user. Admin only.
//
// @Summary      List the team
// @Tags         directory
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/team [get]
func (h *DirectoryHandler) Team(c echo.Context) error {
	return h.list(c, "")
}

func (h *DirectoryHandler) list(c echo.Context, role domain.Role) error {
	users, err := h.directory.List(c.Request().Context(), role)
	if err != nil {
		return err
	}
	resp := usersResponse{Users: make([]userResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, resp)
}
