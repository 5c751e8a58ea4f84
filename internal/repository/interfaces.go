package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hms-api/internal/model"
)

// All repository interfaces in one file
type (
	// PatientRepository handles patient account storage
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByEmail(ctx context.Context, email string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		List(ctx context.Context) ([]*model.Patient, error)
	}

	// DoctorRepository handles doctor account storage
	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		List(ctx context.Context) ([]*model.Doctor, error)
	}

	// AdminRepository handles admin account storage
	AdminRepository interface {
		Create(ctx context.Context, admin *model.Admin) error
		Get(ctx context.Context, id uuid.UUID) (*model.Admin, error)
		GetByEmail(ctx context.Context, email string) (*model.Admin, error)
		UpdatePassword(ctx context.Context, id uuid.UUID, hash, generated string) error
	}

	// PrincipalRepository is the unified lookup across the three account
	// tables. GetByEmail and Get return whichever kind of account matches.
	PrincipalRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Principal, error)
		GetByEmail(ctx context.Context, email string) (*model.Principal, error)
		SetActive(ctx context.Context, id uuid.UUID, active bool) error
		SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error
		StoreResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error
		GetByResetToken(ctx context.Context, token string) (*model.Principal, error)
		ClearResetToken(ctx context.Context, id uuid.UUID) error
		RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	}

	// AssignmentRepository handles doctor-patient assignments
	AssignmentRepository interface {
		Create(ctx context.Context, assignment *model.Assignment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Assignment, error)
		GetByPair(ctx context.Context, doctorID, patientID uuid.UUID, status string) (*model.Assignment, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
		ListForDoctor(ctx context.Context, doctorID uuid.UUID, status string) ([]*model.Assignment, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID, status string) ([]*model.Assignment, error)
	}

	// NoteRepository handles encrypted doctor notes
	NoteRepository interface {
		Create(ctx context.Context, note *model.DoctorNote) error
		ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorNote, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.DoctorNote, error)
	}

	// ReminderRepository is the reminder task store. Supersede atomically
	// replaces every task a doctor owns for a patient; concurrent readers
	// observe either the old set or the new set, never a mix.
	ReminderRepository interface {
		Supersede(ctx context.Context, doctorID, patientID uuid.UUID, tasks []*model.Reminder) error
		Create(ctx context.Context, reminder *model.Reminder) error
		Get(ctx context.Context, id uuid.UUID) (*model.Reminder, error)
		FindPending(ctx context.Context, patientID uuid.UUID) ([]*model.Reminder, error)
		FindDueWindow(ctx context.Context, from, to time.Time) ([]*model.Reminder, error)
		MarkCompleted(ctx context.Context, id uuid.UUID) error
		LatestByDueDate(ctx context.Context, patientID uuid.UUID) (*model.Reminder, error)
	}
)
