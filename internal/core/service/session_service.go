package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ritesh-201/rbac-and-forms/internal/core/domain"
	"github.com/Ritesh-201/rbac-and-forms/internal/core/ports"
)

// SessionService implements the role switcher. There are no credentials:
// choosing a role selects a fixed identity (or, for employees, one of the
// directory's employees) and signs a token for it.
type SessionService struct {
	directory ports.UserDirectory
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewSessionService(directory ports.UserDirectory, jwtSecret string, tokenTTL time.Duration) *SessionService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &SessionService{directory: directory, jwtSecret: jwtSecret, tokenTTL: tokenTTL, now: time.Now}
}

func (s *SessionService) Switch(ctx context.Context, in ports.SwitchInput) (string, *domain.User, error) {
	role := domain.Role(in.Role)
	if !role.Valid() {
		return "", nil, fmt.Errorf("switch to %q: %w", in.Role, domain.ErrInvalidRole)
	}

	var id string
	switch role {
	case domain.RoleAdmin:
		id = domain.AdminUserID
	case domain.RoleGuest:
		id = domain.GuestUserID
	default:
		if in.EmployeeID == "" {
			return "", nil, fmt.Errorf("%w: employee_id is required for the employee role", domain.ErrValidation)
		}
		id = in.EmployeeID
	}

	user, err := s.directory.FindByID(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if user.Role != role {
		return "", nil, fmt.Errorf("user %s is not an %s: %w", user.ID, role, domain.ErrInvalidRole)
	}

	token, err := s.Issue(*user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Issue signs a token carrying the user's identity. The auth middleware
// rebuilds the actor from these claims.
func (s *SessionService) Issue(user domain.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"role":  string(user.Role),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
