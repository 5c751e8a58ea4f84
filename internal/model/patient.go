package model

// Patient represents a registered patient account
type Patient struct {
	Base
	Email        string  `json:"email" db:"email"`
	Name         string  `json:"name" db:"name"`
	PasswordHash string  `json:"-" db:"password_hash"`
	Phone        *string `json:"phone,omitempty" db:"phone"`
	Photo        *string `json:"photo,omitempty" db:"photo"`
	Gender       *string `json:"gender,omitempty" db:"gender"`
	Active       bool    `json:"active" db:"active"`
}

// UpdatePatientRequest represents patient update parameters
type UpdatePatientRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Photo  *string `json:"photo"`
	Gender *string `json:"gender" binding:"omitempty,oneof=male female other"`
}
