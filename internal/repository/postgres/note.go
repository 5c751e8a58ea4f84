package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
)

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) repository.NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *model.DoctorNote) error {
	query := `
		INSERT INTO doctor_notes (id, doctor_id, patient_id, encrypted_note, checklist, plan, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		note.ID,
		note.DoctorID,
		note.PatientID,
		note.EncryptedNote,
		note.ChecklistJSON,
		note.PlanJSON,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor note: %w", err)
	}
	return nil
}

func (r *noteRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorNote, error) {
	query := `SELECT * FROM doctor_notes WHERE doctor_id = $1 ORDER BY created_at DESC`
	var notes []*model.DoctorNote
	err := r.db.SelectContext(ctx, &notes, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes for doctor: %w", err)
	}
	return notes, nil
}

func (r *noteRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.DoctorNote, error) {
	query := `SELECT * FROM doctor_notes WHERE patient_id = $1 ORDER BY created_at DESC`
	var notes []*model.DoctorNote
	err := r.db.SelectContext(ctx, &notes, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes for patient: %w", err)
	}
	return notes, nil
}
