package domain

import "time"

// Role is the coarse authorization level attached to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Grants returns the role set a user holding r is granted.
// ADMIN implies USER.
func (r Role) Grants() []Role {
	switch r {
	case RoleAdmin:
		return []Role{RoleAdmin, RoleUser}
	case RoleUser:
		return []Role{RoleUser}
	default:
		return nil
	}
}

// User models a registered account. Email is the unique login identifier.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
