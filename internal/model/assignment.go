package model

import (
	"time"

	"github.com/google/uuid"
)

// Assignment status constants
const (
	AssignmentStatusActive    = "active"
	AssignmentStatusCompleted = "completed"
	AssignmentStatusCanceled  = "canceled"
)

// Assignment links a doctor to a patient under their care
type Assignment struct {
	Base
	DoctorID   uuid.UUID `json:"doctor_id" db:"doctor_id"`
	PatientID  uuid.UUID `json:"patient_id" db:"patient_id"`
	Status     string    `json:"status" db:"status"`
	AssignedAt time.Time `json:"assigned_at" db:"assigned_at"`

	// Populated on list endpoints, not stored on the row itself.
	Doctor  *Doctor  `json:"doctor,omitempty" db:"-"`
	Patient *Patient `json:"patient,omitempty" db:"-"`
}

// AssignDoctorRequest represents assignment creation parameters
type AssignDoctorRequest struct {
	DoctorID string `json:"doctor_id" binding:"required,uuid"`
}

// CancelAssignmentRequest represents assignment cancellation parameters
type CancelAssignmentRequest struct {
	DoctorID  string `json:"doctor_id" binding:"required,uuid"`
	PatientID string `json:"patient_id" binding:"required,uuid"`
}
