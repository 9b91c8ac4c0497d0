package ports

import (
	"context"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

// SwitchInput selects the identity a session should assume. EmployeeID is
// only read for the employee role.
type SwitchInput struct {
	Role       string
	EmployeeID string
}

// SessionService issues identity tokens for the role switcher.
type SessionService interface {
	Switch(ctx context.Context, in SwitchInput) (string, *domain.User, error)
	Issue(user domain.User) (string, error)
}
