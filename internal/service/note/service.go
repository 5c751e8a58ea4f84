package note

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hms-api/internal/extractor"
	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	"github.com/jwalitptl/hms-api/internal/schedule"
	"github.com/jwalitptl/hms-api/pkg/clock"
	"github.com/jwalitptl/hms-api/pkg/metrics"
	"github.com/jwalitptl/hms-api/pkg/security"
)

// Superseder replaces a doctor's active reminder set for a patient.
type Superseder interface {
	Supersede(ctx context.Context, doctorID, patientID uuid.UUID, tasks []*model.Reminder) error
}

type Service struct {
	noteRepo    repository.NoteRepository
	patientRepo repository.PatientRepository
	reminders   Superseder
	extractor   extractor.PlanExtractor
	encryptor   security.Encryptor
	clock       clock.Clock
	metrics     *metrics.Metrics
}

func NewService(
	noteRepo repository.NoteRepository,
	patientRepo repository.PatientRepository,
	reminders Superseder,
	planExtractor extractor.PlanExtractor,
	encryptor security.Encryptor,
	clk clock.Clock,
	m *metrics.Metrics,
) *Service {
	return &Service{
		noteRepo:    noteRepo,
		patientRepo: patientRepo,
		reminders:   reminders,
		extractor:   planExtractor,
		encryptor:   encryptor,
		clock:       clk,
		metrics:     m,
	}
}

// SubmitNote encrypts and stores a doctor note, extracts its care plan
// and replaces the doctor's reminder schedule for the patient with the
// plan's expansion.
//
// The extraction call completes before any store mutation, so a slow
// collaborator never holds up concurrent check-ins or scans. An
// extraction failure degrades to an empty plan rather than rejecting the
// note; the submission still supersedes the doctor's prior schedule.
func (s *Service) SubmitNote(ctx context.Context, doctorID uuid.UUID, req *model.SubmitNoteRequest) (*model.DoctorNote, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("invalid patient id: %w", err)
	}
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, err
	}

	encrypted, err := s.encryptor.Encrypt(req.Note)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt note: %w", err)
	}

	start := time.Now()
	plan, err := s.extractor.Extract(ctx, req.Note)
	if s.metrics != nil {
		s.metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if !errors.Is(err, extractor.ErrExtraction) {
			return nil, fmt.Errorf("failed to process note: %w", err)
		}
		log.Warn().Err(err).Str("patient_id", req.PatientID).Msg("plan extraction failed, storing note with empty plan")
		if s.metrics != nil {
			s.metrics.ExtractionFailures.Inc()
		}
		plan = &model.CarePlan{Checklist: []string{}, Plan: []model.PlanDirective{}}
	}

	checklistJSON, err := json.Marshal(plan.Checklist)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checklist: %w", err)
	}
	planJSON, err := json.Marshal(plan.Plan)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}

	note := &model.DoctorNote{
		Base:          model.Base{ID: uuid.New()},
		DoctorID:      doctorID,
		PatientID:     patientID,
		EncryptedNote: encrypted,
		ChecklistJSON: checklistJSON,
		PlanJSON:      planJSON,
		Checklist:     plan.Checklist,
		Plan:          plan.Plan,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}

	tasks := schedule.ExpandPlan(plan, doctorID, patientID, s.clock.Now())
	if err := s.reminders.Supersede(ctx, doctorID, patientID, tasks); err != nil {
		return nil, fmt.Errorf("failed to schedule reminders: %w", err)
	}

	return note, nil
}

// ListForDoctor returns a doctor's notes with plaintext restored.
func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorNote, error) {
	notes, err := s.noteRepo.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return s.decryptAll(notes)
}

// ListForPatient returns the notes written about a patient with
// plaintext restored.
func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.DoctorNote, error) {
	notes, err := s.noteRepo.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return s.decryptAll(notes)
}

func (s *Service) decryptAll(notes []*model.DoctorNote) ([]*model.DoctorNote, error) {
	for _, note := range notes {
		plaintext, err := s.encryptor.Decrypt(note.EncryptedNote)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt note %s: %w", note.ID, err)
		}
		note.Note = plaintext

		if len(note.ChecklistJSON) > 0 {
			if err := json.Unmarshal(note.ChecklistJSON, &note.Checklist); err != nil {
				return nil, fmt.Errorf("failed to decode checklist for note %s: %w", note.ID, err)
			}
		}
		if len(note.PlanJSON) > 0 {
			if err := json.Unmarshal(note.PlanJSON, &note.Plan); err != nil {
				return nil, fmt.Errorf("failed to decode plan for note %s: %w", note.ID, err)
			}
		}
	}
	return notes, nil
}
