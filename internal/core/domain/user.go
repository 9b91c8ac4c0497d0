package domain

// Role names the permission profile of a user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleGuest    Role = "guest"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleGuest:
		return true
	}
	return false
}

// User models the actor behind a request. The role is fixed for the lifetime of
// a session; switching roles issues a different identity.
type User struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Role  Role   `json:"role" bson:"role"`
	Email string `json:"email" bson:"email"`
}
