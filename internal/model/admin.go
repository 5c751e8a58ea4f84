package model

// Admin represents an administrator account. Admins are provisioned by
// other admins with a generated temporary password rather than
// self-registering.
type Admin struct {
	Base
	Email             string  `json:"email" db:"email"`
	Name              string  `json:"name" db:"name"`
	PasswordHash      string  `json:"-" db:"password_hash"`
	Phone             *string `json:"phone,omitempty" db:"phone"`
	GeneratedPassword string  `json:"generated_password,omitempty" db:"generated_password"`
	Active            bool    `json:"active" db:"active"`
}

// CreateAdminRequest represents admin provisioning parameters
type CreateAdminRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}
