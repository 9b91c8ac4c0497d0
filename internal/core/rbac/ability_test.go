package rbac

import (
	"testing"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
)

func TestFor_AdminCanEverything(t *testing.T) {
	rs := For(domain.RoleAdmin)
	for _, a := range Actions {
		for _, s := range Subjects {
			if !rs.Can(a, s) {
				t.Fatalf("admin: expected can(%s, %s)", a, s)
			}
			if rs.Cannot(a, s) {
				t.Fatalf("admin: cannot(%s, %s) must be false", a, s)
			}
		}
	}
}

func TestFor_RuleTable(t *testing.T) {
	allowed := map[domain.Role]map[rule]bool{
		domain.RoleEmployee: {
			{ActionRead, SubjectTask}:   true,
			{ActionRead, SubjectBoard}:  true,
			{ActionUpdate, SubjectTask}: true,
			{ActionCreate, SubjectTask}: true,
		},
		domain.RoleGuest: {
			{ActionRead, SubjectTask}:  true,
			{ActionRead, SubjectBoard}: true,
		},
		domain.Role("auditor"): {},
	}

	for role, grants := range allowed {
		rs := For(role)
		for _, a := range Actions {
			for _, s := range Subjects {
				want := grants[rule{a, s}]
				if got := rs.Can(a, s); got != want {
					t.Errorf("%s: can(%s, %s) = %v, want %v", role, a, s, got, want)
				}
				if rs.Cannot(a, s) == rs.Can(a, s) {
					t.Errorf("%s: cannot(%s, %s) must negate can", role, a, s)
				}
			}
		}
	}
}

func TestFor_GuestExplicitDenials(t *testing.T) {
	rs := For(domain.RoleGuest)
	for _, a := range []Action{ActionUpdate, ActionCreate, ActionDelete} {
		if _, ok := rs.denied[rule{a, SubjectTask}]; !ok {
			t.Fatalf("guest: expected explicit denial of %s Task", a)
		}
		if rs.Can(a, SubjectTask) {
			t.Fatalf("guest: can(%s, Task) must be false", a)
		}
	}
}

func TestFor_EmployeeCannotManageTeam(t *testing.T) {
	if For(domain.RoleEmployee).Can(ActionManage, SubjectUser) {
		t.Fatal("employee must not manage users")
	}
	if !For(domain.RoleAdmin).Can(ActionManage, SubjectUser) {
		t.Fatal("admin must manage users")
	}
}

func TestRuleSet_Rules(t *testing.T) {
	rules := For(domain.RoleGuest).Rules()
	if len(rules) != len(Actions)*len(Subjects) {
		t.Fatalf("expected %d rows, got %d", len(Actions)*len(Subjects), len(rules))
	}
	allowed := 0
	for _, p := range rules {
		if p.Allowed {
			allowed++
			if p.Action != ActionRead {
				t.Fatalf("guest row unexpectedly allowed: %+v", p)
			}
		}
	}
	if allowed != 2 {
		t.Fatalf("guest: expected 2 allowed rows, got %d", allowed)
	}
}
