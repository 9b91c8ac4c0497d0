// Package rbac decides what a user may do: RuleSet answers whether an action
// class is ever permitted for a role, and the ownership predicates answer
// whether it is permitted on one specific task.
package rbac

import "github.com/Ritesh-201/rbac-and-forms/internal/core/domain"

// Action is something a user may attempt.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
)

// Subject is the kind of resource an action applies to.
type Subject string

const (
	SubjectTask  Subject = "Task"
	SubjectUser  Subject = "User"
	SubjectBoard Subject = "Board"
	SubjectAll   Subject = "all"
)

// Actions and Subjects enumerate the closed domain the evaluator is total over.
var (
	Actions  = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionManage}
	Subjects = []Subject{SubjectTask, SubjectUser, SubjectBoard, SubjectAll}
)

type rule struct {
	action  Action
	subject Subject
}

// RuleSet is the evaluated permission table of one role.
type RuleSet struct {
	role      domain.Role
	manageAll bool
	allowed   map[rule]struct{}
	denied    map[rule]struct{}
}

// Permission is one row of a rendered rule table.
type Permission struct {
	Action  Action  `json:"action"`
	Subject Subject `json:"subject"`
	Allowed bool    `json:"allowed"`
}

// For evaluates the rules of role. Unknown roles get an empty rule set.
func For(role domain.Role) RuleSet {
	rs := RuleSet{
		role:    role,
		allowed: make(map[rule]struct{}),
		denied:  make(map[rule]struct{}),
	}

	switch role {
	case domain.RoleAdmin:
		rs.manageAll = true
	case domain.RoleEmployee:
		rs.allow(ActionRead, SubjectTask)
		rs.allow(ActionRead, SubjectBoard)
		// Ownership of the individual task is checked by CanEditTask/CanMoveTask.
		rs.allow(ActionUpdate, SubjectTask)
		rs.allow(ActionCreate, SubjectTask)
	case domain.RoleGuest:
		rs.allow(ActionRead, SubjectTask)
		rs.allow(ActionRead, SubjectBoard)
		rs.deny(ActionUpdate, SubjectTask)
		rs.deny(ActionCreate, SubjectTask)
		rs.deny(ActionDelete, SubjectTask)
	}
	return rs
}

// Role returns the role the rule set was built for.
func (rs RuleSet) Role() domain.Role { return rs.role }

// Can reports whether action on subject is permitted. The admin grant is
// checked before anything else and cannot be narrowed.
func (rs RuleSet) Can(action Action, subject Subject) bool {
	if rs.manageAll {
		return true
	}
	r := rule{action: action, subject: subject}
	if _, ok := rs.denied[r]; ok {
		return false
	}
	_, ok := rs.allowed[r]
	return ok
}

// Cannot is the negation of Can.
func (rs RuleSet) Cannot(action Action, subject Subject) bool {
	return !rs.Can(action, subject)
}

// Rules renders the full action × subject table.
func (rs RuleSet) Rules() []Permission {
	out := make([]Permission, 0, len(Actions)*len(Subjects))
	for _, s := range Subjects {
		for _, a := range Actions {
			out = append(out, Permission{Action: a, Subject: s, Allowed: rs.Can(a, s)})
		}
	}
	return out
}

func (rs RuleSet) allow(a Action, s Subject) { rs.allowed[rule{a, s}] = struct{}{} }
func (rs RuleSet) deny(a Action, s Subject)  { rs.denied[rule{a, s}] = struct{}{} }
