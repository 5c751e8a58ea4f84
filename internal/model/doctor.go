package model

// Doctor represents a registered doctor account
type Doctor struct {
	Base
	Email          string   `json:"email" db:"email"`
	Name           string   `json:"name" db:"name"`
	PasswordHash   string   `json:"-" db:"password_hash"`
	Phone          *string  `json:"phone,omitempty" db:"phone"`
	Photo          *string  `json:"photo,omitempty" db:"photo"`
	Specialization *string  `json:"specialization,omitempty" db:"specialization"`
	Qualifications []string `json:"qualifications,omitempty" db:"-"`
	Bio            *string  `json:"bio,omitempty" db:"bio"`
	Active         bool     `json:"active" db:"active"`
}

// UpdateDoctorRequest represents doctor update parameters
type UpdateDoctorRequest struct {
	Name           *string  `json:"name"`
	Phone          *string  `json:"phone"`
	Photo          *string  `json:"photo"`
	Specialization *string  `json:"specialization"`
	Qualifications []string `json:"qualifications"`
	Bio            *string  `json:"bio" binding:"omitempty,max=50"`
}
