package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/ports"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/service"
)

type stubSessionService struct {
	switchFn func(ctx context.Context, in ports.SwitchInput) (string, *domain.User, error)
}

func (s *stubSessionService) Switch(ctx context.Context, in ports.SwitchInput) (string, *domain.User, error) {
	return s.switchFn(ctx, in)
}

func (s *stubSessionService) Issue(domain.User) (string, error) { return "", nil }

func TestSessionHandler_Switch(t *testing.T) {
	stub := &stubSessionService{
		switchFn: func(_ context.Context, in ports.SwitchInput) (string, *domain.User, error) {
			if in.Role != "employee" || in.EmployeeID != "4" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return "tok", &domain.User{ID: "4", Name: "Sarah Developer", Role: domain.RoleEmployee}, nil
		},
	}
	c, rec := postJSON("/v1/session", `{"role":"employee","employee_id":"4"}`)

	if err := NewSessionHandler(stub).Switch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "tok" || resp.User.Name != "Sarah Developer" || resp.User.Role != "employee" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSessionHandler_Switch_Validation(t *testing.T) {
	stub := &stubSessionService{
		switchFn: func(context.Context, ports.SwitchInput) (string, *domain.User, error) {
			t.Fatalf("service must not be called")
			return "", nil, nil
		},
	}
	for _, body := range []string{`{}`, `{"role":"root"}`, `{"role":"employee"}`} {
		c, _ := postJSON("/v1/session", body)
		expectStatus(t, NewSessionHandler(stub).Switch(c), http.StatusUnprocessableEntity)
	}

	c, _ := postJSON("/v1/session", `{"role":"guest"}`)
	stub.switchFn = func(context.Context, ports.SwitchInput) (string, *domain.User, error) {
		return "tok", &domain.User{ID: "3", Role: domain.RoleGuest}, nil
	}
	if err := NewSessionHandler(stub).Switch(c); err != nil {
		t.Fatalf("guest needs no employee id: %v", err)
	}
}

func TestDirectoryHandler(t *testing.T) {
	h := NewDirectoryHandler(service.NewStaticDirectory(domain.SeedUsers()))
	admin := domain.User{ID: "1", Name: "Admin User", Role: domain.RoleAdmin}

	c, rec := newBoardContext(http.MethodGet, "/v1/abilities", "", &admin)
	if err := h.Abilities(c); err != nil {
		t.Fatalf("abilities: %v", err)
	}
	var abilities struct {
		User  userResponse `json:"user"`
		Rules []struct {
			Action  string `json:"action"`
			Subject string `json:"subject"`
			Allowed bool   `json:"allowed"`
		} `json:"rules"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &abilities)
	if abilities.User.ID != "1" || len(abilities.Rules) == 0 {
		t.Fatalf("unexpected abilities: %+v", abilities)
	}
	for _, r := range abilities.Rules {
		if !r.Allowed {
			t.Fatalf("admin should be allowed everything, denied %s %s", r.Action, r.Subject)
		}
	}

	c, rec = newBoardContext(http.MethodGet, "/v1/employees", "", &admin)
	if err := h.Employees(c); err != nil {
		t.Fatalf("employees: %v", err)
	}
	var users usersResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &users)
	if len(users.Users) != 5 || users.Users[0].ID != "2" {
		t.Fatalf("unexpected employees: %+v", users)
	}

	c, rec = newBoardContext(http.MethodGet, "/v1/team", "", &admin)
	if err := h.Team(c); err != nil {
		t.Fatalf("team: %v", err)
	}
	users = usersResponse{}
	_ = json.Unmarshal(rec.Body.Bytes(), &users)
	if len(users.Users) != 7 {
		t.Fatalf("expected the whole team, got %d", len(users.Users))
	}

	c, _ = newBoardContext(http.MethodGet, "/v1/abilities", "", nil)
	expectStatus(t, h.Abilities(c), http.StatusUnauthorized)
}
