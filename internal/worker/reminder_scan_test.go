package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/service/reminder"
	"github.com/jwalitptl/hms-api/pkg/clock"
	"github.com/jwalitptl/hms-api/pkg/logger"
)

// dueWindowRepo serves a single due-today reminder to every scan.
type dueWindowRepo struct {
	patientID uuid.UUID
}

func (r *dueWindowRepo) FindDueWindow(_ context.Context, from, _ time.Time) ([]*model.Reminder, error) {
	return []*model.Reminder{{
		Base:      model.Base{ID: uuid.New()},
		PatientID: r.patientID,
		Action:    "take medication",
		DueDate:   from,
		Status:    model.ReminderStatusPending,
	}}, nil
}

func (r *dueWindowRepo) Supersede(context.Context, uuid.UUID, uuid.UUID, []*model.Reminder) error {
	return nil
}
func (r *dueWindowRepo) Create(context.Context, *model.Reminder) error { return nil }
func (r *dueWindowRepo) Get(context.Context, uuid.UUID) (*model.Reminder, error) {
	return nil, nil
}
func (r *dueWindowRepo) FindPending(context.Context, uuid.UUID) ([]*model.Reminder, error) {
	return nil, nil
}
func (r *dueWindowRepo) MarkCompleted(context.Context, uuid.UUID) error { return nil }
func (r *dueWindowRepo) LatestByDueDate(context.Context, uuid.UUID) (*model.Reminder, error) {
	return nil, nil
}

type countingNotifier struct {
	count atomic.Int64
}

func (n *countingNotifier) Notify(context.Context, string, string) error {
	n.count.Add(1)
	return nil
}

func TestWorkerScansImmediatelyAtStart(t *testing.T) {
	notifier := &countingNotifier{}
	scanner := reminder.NewScanner(&dueWindowRepo{patientID: uuid.New()}, notifier, nil)
	fixed := clock.Fixed(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	w := NewReminderScanWorker(scanner, fixed, time.Hour, logger.NewLogger(nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	// The first scan runs before any tick; the interval is an hour, so
	// any notification proves the at-boot run.
	assert.Eventually(t, func() bool {
		return notifier.count.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestWorkerTicksOnInterval(t *testing.T) {
	notifier := &countingNotifier{}
	scanner := reminder.NewScanner(&dueWindowRepo{patientID: uuid.New()}, notifier, nil)
	fixed := clock.Fixed(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	w := NewReminderScanWorker(scanner, fixed, 20*time.Millisecond, logger.NewLogger(nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return notifier.count.Load() >= 3
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
