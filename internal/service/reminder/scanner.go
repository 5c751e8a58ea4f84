package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/repository"
	"github.com/jwalitptl/hms-api/pkg/clock"
	"github.com/jwalitptl/hms-api/pkg/metrics"
)

// Notifier delivers one reminder notification to a patient. Failures are
// non-fatal to the scan.
type Notifier interface {
	Notify(ctx context.Context, patientID string, message string) error
}

// Scanner walks pending reminders and notifies patients whose reminders
// fall due today or tomorrow. It performs no mutation and is safe to run
// concurrently with check-ins and note submissions.
type Scanner struct {
	repo     repository.ReminderRepository
	notifier Notifier
	metrics  *metrics.Metrics
}

func NewScanner(repo repository.ReminderRepository, notifier Notifier, m *metrics.Metrics) *Scanner {
	return &Scanner{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
	}
}

// Scan computes the notifications due at now. Message choice compares
// calendar days exactly rather than testing window membership, so a task
// on the window boundary still picks the right wording.
func (s *Scanner) Scan(ctx context.Context, now time.Time) ([]*model.NotificationRequest, error) {
	start := time.Now()
	today := clock.Midnight(now)
	tomorrow := today.AddDate(0, 0, 1)

	reminders, err := s.repo.FindDueWindow(ctx, today, tomorrow)
	if err != nil {
		return nil, fmt.Errorf("failed to scan due reminders: %w", err)
	}

	var requests []*model.NotificationRequest
	for _, reminder := range reminders {
		due := clock.Midnight(reminder.DueDate)
		var message, kind string
		switch {
		case due.Equal(today):
			message = fmt.Sprintf("Reminder for today: %s", reminder.Action)
			kind = "due_today"
		case due.Equal(tomorrow):
			message = fmt.Sprintf("Upcoming reminder: %s is due tomorrow", reminder.Action)
			kind = "due_tomorrow"
		default:
			continue
		}

		requests = append(requests, &model.NotificationRequest{
			PatientID: reminder.PatientID,
			Message:   message,
		})
		if s.metrics != nil {
			s.metrics.NotificationsEmitted.WithLabelValues(kind).Inc()
		}
	}

	if s.metrics != nil {
		s.metrics.ScansTotal.Inc()
		s.metrics.ScanDuration.Observe(time.Since(start).Seconds())
	}
	return requests, nil
}

// ScanAndNotify runs a scan and delivers the results best-effort; a
// failed delivery is logged and never blocks the rest of the batch.
func (s *Scanner) ScanAndNotify(ctx context.Context, now time.Time) error {
	requests, err := s.Scan(ctx, now)
	if err != nil {
		return err
	}

	for _, req := range requests {
		if err := s.notifier.Notify(ctx, req.PatientID.String(), req.Message); err != nil {
			log.Error().Err(err).Str("patient_id", req.PatientID.String()).Msg("failed to deliver reminder notification")
			if s.metrics != nil {
				s.metrics.NotificationsFailed.Inc()
			}
		}
	}
	return nil
}
