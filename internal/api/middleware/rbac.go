package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/rbac"
)

// RBAC lets the request through only when the caller's role may perform
// action on subject. It guards whole routes; per-task ownership is decided
// by the board service.
func RBAC(action rbac.Action, subject rbac.Subject) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(RoleKey).(string)
			if rbac.For(domain.Role(role)).Cannot(action, subject) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
