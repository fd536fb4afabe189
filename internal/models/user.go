package models

import "time"

// Role is a user's privilege level: owner ⊃ admin ⊃ worker.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleWorker Role = "worker"
)

// Rank orders roles by privilege. Unknown roles rank 0.
func (r Role) Rank() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleAdmin:
		return 2
	case RoleWorker:
		return 1
	}
	return 0
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r.Rank() > 0 }

// User is a workshop staff member.
type User struct {
	Base
	Name      string     `gorm:"size:255;not null" json:"name"`
	Email     string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role      Role       `gorm:"size:20;not null;index" json:"role"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}
