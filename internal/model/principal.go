package model

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies which kind of principal an account belongs to.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// Principal is the unified view of an authenticated account, whichever
// table it lives in. Login, token validation and trash/untrash operate on
// principals so callers never probe the three stores in sequence.
type Principal struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Email     string     `json:"email" db:"email"`
	Name      string     `json:"name" db:"name"`
	Role      Role       `json:"role" db:"role"`
	Hash      string     `json:"-" db:"password_hash"`
	Active    bool       `json:"active" db:"active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	LastLogin *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
}
