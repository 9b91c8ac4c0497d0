package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ritesh-201/rbac-and-forms/internal/api/middleware"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

// ctxUser returns the actor injected by the Auth middleware. A missing user
// means the route was mounted without Auth; reject with 401 rather than act
// as an anonymous caller.
func ctxUser(c echo.Context) (domain.User, error) {
	user, ok := c.Get(middleware.UserKey).(domain.User)
	if !ok || user.ID == "" {
		return domain.User{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}

// boardID reads the :board_id path parameter, defaulting to the main board.
func boardID(c echo.Context) string {
	if id := c.Param("board_id"); id != "" {
		return id
	}
	return domain.DefaultBoardID
}
