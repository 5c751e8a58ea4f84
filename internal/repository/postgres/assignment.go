package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	apperr "github.com/jwalitptl/hms-api/pkg/errors"
)

type assignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) repository.AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *model.Assignment) error {
	query := `
		INSERT INTO assignments (id, doctor_id, patient_id, status, assigned_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	now := time.Now()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		assignment.ID,
		assignment.DoctorID,
		assignment.PatientID,
		assignment.Status,
		assignment.AssignedAt,
		assignment.CreatedAt,
		assignment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

func (r *assignmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.GetContext(ctx, &assignment, `SELECT * FROM assignments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("assignment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &assignment, nil
}

// GetByPair returns the assignment for a doctor/patient pair, optionally
// filtered by status. An empty status matches any.
func (r *assignmentRepository) GetByPair(ctx context.Context, doctorID, patientID uuid.UUID, status string) (*model.Assignment, error) {
	query := `SELECT * FROM assignments WHERE doctor_id = $1 AND patient_id = $2`
	args := []interface{}{doctorID, patientID}
	if status != "" {
		query += ` AND status = $3`
		args = append(args, status)
	}
	query += ` LIMIT 1`

	var assignment model.Assignment
	err := r.db.GetContext(ctx, &assignment, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("assignment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &assignment, nil
}

func (r *assignmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE assignments SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update assignment status: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return apperr.NotFound("assignment", nil)
	}
	return nil
}

func (r *assignmentRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID, status string) ([]*model.Assignment, error) {
	query := `SELECT * FROM assignments WHERE doctor_id = $1`
	args := []interface{}{doctorID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	var assignments []*model.Assignment
	err := r.db.SelectContext(ctx, &assignments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments for doctor: %w", err)
	}
	return assignments, nil
}

func (r *assignmentRepository) ListForPatient(ctx context.Context, patientID uuid.UUID, status string) ([]*model.Assignment, error) {
	query := `SELECT * FROM assignments WHERE patient_id = $1`
	args := []interface{}{patientID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	var assignments []*model.Assignment
	err := r.db.SelectContext(ctx, &assignments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments for patient: %w", err)
	}
	return assignments, nil
}
