package assignment

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	apperr "github.com/jwalitptl/hms-api/pkg/errors"
)

type Service struct {
	repo        repository.AssignmentRepository
	doctorRepo  repository.DoctorRepository
	patientRepo repository.PatientRepository
}

func NewService(
	repo repository.AssignmentRepository,
	doctorRepo repository.DoctorRepository,
	patientRepo repository.PatientRepository,
) *Service {
	return &Service{
		repo:        repo,
		doctorRepo:  doctorRepo,
		patientRepo: patientRepo,
	}
}

// Assign links a doctor to a patient. Duplicate assignments for the same
// pair are rejected whatever their status.
func (s *Service) Assign(ctx context.Context, doctorID, patientID uuid.UUID) (*model.Assignment, error) {
	if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
		return nil, err
	}
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByPair(ctx, doctorID, patientID, ""); err == nil {
		return nil, apperr.Conflict("patient is already assigned to this doctor", nil)
	} else if !apperr.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check existing assignment: %w", err)
	}

	assignment := &model.Assignment{
		Base:      model.Base{ID: uuid.New()},
		DoctorID:  doctorID,
		PatientID: patientID,
		Status:    model.AssignmentStatusActive,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// Unassign marks an assignment completed.
func (s *Service) Unassign(ctx context.Context, assignmentID uuid.UUID) (*model.Assignment, error) {
	assignment, err := s.repo.Get(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, assignmentID, model.AssignmentStatusCompleted); err != nil {
		return nil, err
	}
	assignment.Status = model.AssignmentStatusCompleted
	return assignment, nil
}

// Cancel cancels the active assignment for a doctor/patient pair.
func (s *Service) Cancel(ctx context.Context, doctorID, patientID uuid.UUID) error {
	assignment, err := s.repo.GetByPair(ctx, doctorID, patientID, model.AssignmentStatusActive)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound("active assignment", nil)
		}
		return err
	}
	return s.repo.UpdateStatus(ctx, assignment.ID, model.AssignmentStatusCanceled)
}

// PatientsOfDoctor returns assignments for a doctor with patient records
// attached.
func (s *Service) PatientsOfDoctor(ctx context.Context, doctorID uuid.UUID, activeOnly bool) ([]*model.Assignment, error) {
	status := ""
	if activeOnly {
		status = model.AssignmentStatusActive
	}

	assignments, err := s.repo.ListForDoctor(ctx, doctorID, status)
	if err != nil {
		return nil, err
	}

	for _, a := range assignments {
		patient, err := s.patientRepo.Get(ctx, a.PatientID)
		if err != nil {
			if apperr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		a.Patient = patient
	}
	return assignments, nil
}

// DoctorsOfPatient returns assignments for a patient with doctor records
// attached.
func (s *Service) DoctorsOfPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*model.Assignment, error) {
	status := ""
	if activeOnly {
		status = model.AssignmentStatusActive
	}

	assignments, err := s.repo.ListForPatient(ctx, patientID, status)
	if err != nil {
		return nil, err
	}

	for _, a := range assignments {
		doctor, err := s.doctorRepo.Get(ctx, a.DoctorID)
		if err != nil {
			if apperr.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		a.Doctor = doctor
	}
	return assignments, nil
}
