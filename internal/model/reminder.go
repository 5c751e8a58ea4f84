package model

import (
	"time"

	"github.com/google/uuid"
)

// ReminderStatus is the lifecycle state of a reminder. The only
// transition is pending -> completed, driven by patient check-in.
type ReminderStatus string

const (
	ReminderStatusPending   ReminderStatus = "pending"
	ReminderStatusCompleted ReminderStatus = "completed"
)

// Reminder is a single dated reminder task for a patient. DoctorID is nil
// for tasks appended by the missed-day extension, which are owned by the
// system rather than a submitting doctor.
type Reminder struct {
	Base
	PatientID uuid.UUID      `json:"patient_id" db:"patient_id"`
	DoctorID  *uuid.UUID     `json:"doctor_id,omitempty" db:"doctor_id"`
	Action    string         `json:"action" db:"action"`
	DueDate   time.Time      `json:"due_date" db:"due_date"`
	Status    ReminderStatus `json:"status" db:"status"`
}

// NotificationRequest is one outbound notification produced by a due-date
// scan, addressed to a patient.
type NotificationRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
	Message   string    `json:"message"`
}
