package ports

import (
	"context"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

// UserDirectory resolves the identities a session can assume.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// List returns users with the given role, or every user when role is empty.
	List(ctx context.Context, role domain.Role) ([]domain.User, error)
}
