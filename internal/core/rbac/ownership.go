package rbac

import "github.com/Ritesh-201/rbac-and-forms/internal/core/domain"

// CanMoveTask reports whether user may drag task to another position.
func CanMoveTask(task domain.Task, user domain.User) bool {
	switch user.Role {
	case domain.RoleGuest:
		return false
	case domain.RoleAdmin:
		return true
	default:
		return task.AssignedTo == user.ID
	}
}

// CanEditTask reports whether user may change the fields of task. The rule is
// the same as CanMoveTask; the two are kept separate so they can diverge.
func CanEditTask(task domain.Task, user domain.User) bool {
	switch user.Role {
	case domain.RoleGuest:
		return false
	case domain.RoleAdmin:
		return true
	default:
		return task.AssignedTo == user.ID
	}
}

// IsOwnTask reports whether task is assigned to user.
func IsOwnTask(task domain.Task, user domain.User) bool {
	return task.AssignedTo == user.ID
}

// CanReassignTask reports whether user may change who a task is assigned to.
// Only the assignee picker of an admin offers other users.
func CanReassignTask(user domain.User) bool {
	return user.Role == domain.RoleAdmin
}
