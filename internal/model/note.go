package model

import (
	"encoding/json"

	"github.com/google/uuid"
)

// PlanDirective is one recurring action extracted from a doctor note,
// scheduled by a free-text expression such as "5 days".
type PlanDirective struct {
	Action   string `json:"action"`
	Schedule string `json:"schedule"`
}

// CarePlan is the structured output of note extraction. Checklist entries
// are one-time instructions and are never scheduled; directives are
// expanded into dated reminders.
type CarePlan struct {
	Checklist []string        `json:"checklist"`
	Plan      []PlanDirective `json:"plan"`
}

// DoctorNote stores the encrypted note text alongside its extracted care
// plan. The note and the reminders derived from it are created together
// but live independently afterwards: superseding reminders never touches
// the stored note.
type DoctorNote struct {
	Base
	DoctorID      uuid.UUID       `json:"doctor_id" db:"doctor_id"`
	PatientID     uuid.UUID       `json:"patient_id" db:"patient_id"`
	EncryptedNote string          `json:"-" db:"encrypted_note"`
	ChecklistJSON json.RawMessage `json:"-" db:"checklist"`
	PlanJSON      json.RawMessage `json:"-" db:"plan"`

	// Decoded views; populated by the service layer.
	Note      string          `json:"note,omitempty" db:"-"`
	Checklist []string        `json:"checklist" db:"-"`
	Plan      []PlanDirective `json:"plan" db:"-"`
}

// SubmitNoteRequest represents note submission parameters
type SubmitNoteRequest struct {
	PatientID string `json:"patient_id" binding:"required,uuid"`
	Note      string `json:"note" binding:"required"`
}
