package reminder

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	"github.com/jwalitptl/hms-api/pkg/keymutex"
	"github.com/jwalitptl/hms-api/pkg/metrics"
)

// Service drives the reminder lifecycle: supersession on note submission,
// the pending -> completed transition on check-in, and the missed-day
// extension.
type Service struct {
	repo        repository.ReminderRepository
	patientLock *keymutex.KeyMutex
	pairLock    *keymutex.KeyMutex
	metrics     *metrics.Metrics
}

func NewService(repo repository.ReminderRepository, m *metrics.Metrics) *Service {
	return &Service{
		repo:        repo,
		patientLock: keymutex.New(),
		pairLock:    keymutex.New(),
		metrics:     m,
	}
}

// Supersede replaces every task the doctor owns for the patient with the
// given set. Calls for the same pair are serialized on top of the store's
// transactional swap.
func (s *Service) Supersede(ctx context.Context, doctorID, patientID uuid.UUID, tasks []*model.Reminder) error {
	key := doctorID.String() + "/" + patientID.String()
	s.pairLock.Lock(key)
	defer s.pairLock.Unlock(key)

	if err := s.repo.Supersede(ctx, doctorID, patientID, tasks); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RemindersScheduled.Add(float64(len(tasks)))
	}
	return nil
}

// CheckIn completes a reminder and applies the missed-day extension: if
// the patient's latest-due reminder is still pending after this check-in,
// one follow-up task is appended a day past it. The latest-due lookup is
// patient-global, not scoped to the checked-in task's doctor or action;
// that cross-doctor interaction is intentional and covered by tests.
//
// The read of the latest task and the conditional insert form a
// check-then-act sequence, so check-ins are serialized per patient.
func (s *Service) CheckIn(ctx context.Context, reminderID uuid.UUID) error {
	reminder, err := s.repo.Get(ctx, reminderID)
	if err != nil {
		return err
	}

	patientKey := reminder.PatientID.String()
	s.patientLock.Lock(patientKey)
	defer s.patientLock.Unlock(patientKey)

	if err := s.repo.MarkCompleted(ctx, reminderID); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RemindersCompleted.Inc()
	}

	latest, err := s.repo.LatestByDueDate(ctx, reminder.PatientID)
	if err != nil {
		return fmt.Errorf("failed to check for backlog: %w", err)
	}
	if latest == nil || latest.Status != model.ReminderStatusPending {
		return nil
	}

	extension := &model.Reminder{
		Base:      model.Base{ID: uuid.New()},
		PatientID: reminder.PatientID,
		Action:    reminder.Action,
		DueDate:   latest.DueDate.AddDate(0, 0, 1),
		Status:    model.ReminderStatusPending,
	}
	if err := s.repo.Create(ctx, extension); err != nil {
		return fmt.Errorf("failed to extend schedule: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RemindersExtended.Inc()
	}
	return nil
}

// ListPending returns a patient's pending reminders ordered by due date.
func (s *Service) ListPending(ctx context.Context, patientID uuid.UUID) ([]*model.Reminder, error) {
	return s.repo.FindPending(ctx, patientID)
}
