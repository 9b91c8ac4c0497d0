package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

// StaticDirectory is an in-memory user directory, used when no database is
// configured and by the token command.
type StaticDirectory struct {
	users map[string]domain.User
}

func NewStaticDirectory(users []domain.User) *StaticDirectory {
	d := &StaticDirectory{users: make(map[string]domain.User, len(users))}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *StaticDirectory) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", id, domain.ErrUserNotFound)
	}
	return &u, nil
}

func (d *StaticDirectory) List(_ context.Context, role domain.Role) ([]domain.User, error) {
	out := make([]domain.User, 0, len(d.users))
	for _, u := range d.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return lessID(out[i].ID, out[j].ID) })
	return out, nil
}

// lessID orders numeric ids numerically and everything else lexically.
func lessID(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
