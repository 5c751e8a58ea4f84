package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	apperr "github.com/jwalitptl/hms-api/pkg/errors"
)

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

// doctorRow mirrors the doctors table; qualifications are stored as a
// JSON array column.
type doctorRow struct {
	model.Doctor
	QualificationsJSON []byte `db:"qualifications"`
}

func (row *doctorRow) toModel() (*model.Doctor, error) {
	doctor := row.Doctor
	if len(row.QualificationsJSON) > 0 {
		if err := json.Unmarshal(row.QualificationsJSON, &doctor.Qualifications); err != nil {
			return nil, fmt.Errorf("failed to decode qualifications: %w", err)
		}
	}
	return &doctor, nil
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	quals, err := json.Marshal(doctor.Qualifications)
	if err != nil {
		return fmt.Errorf("failed to encode qualifications: %w", err)
	}

	query := `
		INSERT INTO doctors (id, email, name, password_hash, phone, photo, specialization, qualifications, bio, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	_, err = r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.Email,
		doctor.Name,
		doctor.PasswordHash,
		doctor.Phone,
		doctor.Photo,
		doctor.Specialization,
		quals,
		doctor.Bio,
		doctor.Active,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var row doctorRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM doctors WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("doctor", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return row.toModel()
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	var row doctorRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM doctors WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("doctor", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor by email: %w", err)
	}
	return row.toModel()
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	quals, err := json.Marshal(doctor.Qualifications)
	if err != nil {
		return fmt.Errorf("failed to encode qualifications: %w", err)
	}

	query := `
		UPDATE doctors
		SET name = $1, phone = $2, photo = $3, specialization = $4, qualifications = $5, bio = $6, updated_at = $7
		WHERE id = $8
	`
	_, err = r.db.ExecContext(ctx, query,
		doctor.Name, doctor.Phone, doctor.Photo, doctor.Specialization, quals, doctor.Bio, time.Now(), doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	var rows []*doctorRow
	err := r.db.SelectContext(ctx, &rows, `SELECT * FROM doctors ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	doctors := make([]*model.Doctor, 0, len(rows))
	for _, row := range rows {
		doctor, err := row.toModel()
		if err != nil {
			return nil, err
		}
		doctors = append(doctors, doctor)
	}
	return doctors, nil
}
