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

type reminderRepository struct {
	db *sqlx.DB
}

func NewReminderRepository(db *sqlx.DB) repository.ReminderRepository {
	return &reminderRepository{db: db}
}

// Supersede deletes every reminder the doctor owns for the patient and
// inserts the replacement set inside one transaction, so concurrent
// readers see the swap atomically. Tasks owned by other doctors for the
// same patient are untouched. An empty task set degenerates to a pure
// deletion.
func (r *reminderRepository) Supersede(ctx context.Context, doctorID, patientID uuid.UUID, tasks []*model.Reminder) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM reminders WHERE doctor_id = $1 AND patient_id = $2`,
		doctorID, patientID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete superseded reminders: %w", err)
	}

	query := `
		INSERT INTO reminders (id, patient_id, doctor_id, action, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	now := time.Now()
	for _, task := range tasks {
		task.CreatedAt = now
		task.UpdatedAt = now
		_, err = tx.ExecContext(ctx, query,
			task.ID,
			task.PatientID,
			task.DoctorID,
			task.Action,
			task.DueDate,
			task.Status,
			task.CreatedAt,
			task.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert reminder: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit supersession: %w", err)
	}
	return nil
}

func (r *reminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	query := `
		INSERT INTO reminders (id, patient_id, doctor_id, action, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	reminder.CreatedAt = time.Now()
	reminder.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		reminder.ID,
		reminder.PatientID,
		reminder.DoctorID,
		reminder.Action,
		reminder.DueDate,
		reminder.Status,
		reminder.CreatedAt,
		reminder.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (r *reminderRepository) Get(ctx context.Context, id uuid.UUID) (*model.Reminder, error) {
	var reminder model.Reminder
	err := r.db.GetContext(ctx, &reminder, `SELECT * FROM reminders WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("reminder", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return &reminder, nil
}

func (r *reminderRepository) FindPending(ctx context.Context, patientID uuid.UUID) ([]*model.Reminder, error) {
	query := `
		SELECT * FROM reminders
		WHERE patient_id = $1 AND status = $2
		ORDER BY due_date ASC
	`
	var reminders []*model.Reminder
	err := r.db.SelectContext(ctx, &reminders, query, patientID, model.ReminderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending reminders: %w", err)
	}
	return reminders, nil
}

// FindDueWindow returns pending reminders with a due date inside the
// inclusive [from, to] window.
func (r *reminderRepository) FindDueWindow(ctx context.Context, from, to time.Time) ([]*model.Reminder, error) {
	query := `
		SELECT * FROM reminders
		WHERE status = $1 AND due_date >= $2 AND due_date <= $3
		ORDER BY due_date ASC
	`
	var reminders []*model.Reminder
	err := r.db.SelectContext(ctx, &reminders, query, model.ReminderStatusPending, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to find due reminders: %w", err)
	}
	return reminders, nil
}

// MarkCompleted transitions a reminder to completed. Completing an
// already-completed reminder is a no-op, not an error; an unknown id is
// NotFound.
func (r *reminderRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reminders SET status = $1, updated_at = $2 WHERE id = $3`,
		model.ReminderStatusCompleted, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark reminder completed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return apperr.NotFound("reminder", nil)
	}
	return nil
}

func (r *reminderRepository) LatestByDueDate(ctx context.Context, patientID uuid.UUID) (*model.Reminder, error) {
	query := `
		SELECT * FROM reminders
		WHERE patient_id = $1
		ORDER BY due_date DESC
		LIMIT 1
	`
	var reminder model.Reminder
	err := r.db.GetContext(ctx, &reminder, query, patientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest reminder: %w", err)
	}
	return &reminder, nil
}
