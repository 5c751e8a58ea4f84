package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/pkg/metrics"
)

type recordingNotifier struct {
	sent   []string
	failOn string
}

func (n *recordingNotifier) Notify(_ context.Context, _ string, message string) error {
	if n.failOn != "" && message == n.failOn {
		return errors.New("broker down")
	}
	n.sent = append(n.sent, message)
	return nil
}

func TestScanMessageSelection(t *testing.T) {
	repo := newMemoryRepo()
	scanner := NewScanner(repo, nil, nil)
	ctx := context.Background()

	patientID := uuid.New()
	docID := uuid.New()
	require.NoError(t, repo.Create(ctx, task(patientID, &docID, "take medication", day(1), model.ReminderStatusPending)))
	require.NoError(t, repo.Create(ctx, task(patientID, &docID, "physio exercises", day(2), model.ReminderStatusPending)))
	require.NoError(t, repo.Create(ctx, task(patientID, &docID, "follow-up visit", day(3), model.ReminderStatusPending)))
	require.NoError(t, repo.Create(ctx, task(patientID, &docID, "done already", day(1), model.ReminderStatusCompleted)))

	// Now falls mid-day; the window still keys off calendar days.
	now := time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC)
	requests, err := scanner.Scan(ctx, now)
	require.NoError(t, err)
	require.Len(t, requests, 2)

	messages := []string{requests[0].Message, requests[1].Message}
	assert.Contains(t, messages, "Reminder for today: take medication")
	assert.Contains(t, messages, "Upcoming reminder: physio exercises is due tomorrow")
}

func TestScanEmptyWindow(t *testing.T) {
	repo := newMemoryRepo()
	scanner := NewScanner(repo, nil, nil)
	ctx := context.Background()

	patientID := uuid.New()
	docID := uuid.New()
	require.NoError(t, repo.Create(ctx, task(patientID, &docID, "far future", day(20), model.ReminderStatusPending)))

	requests, err := scanner.Scan(ctx, day(1))
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestScanAndNotifyContinuesPastFailures(t *testing.T) {
	repo := newMemoryRepo()
	notifier := &recordingNotifier{failOn: "Reminder for today: take medication"}
	scanner := NewScanner(repo, notifier, nil)
	ctx := context.Background()

	patientID := uuid.New()
	docID := uuid.New()
	require.NoError(t, repo.Create(ctx, task(patientID, &docID, "take medication", day(1), model.ReminderStatusPending)))
	require.NoError(t, repo.Create(ctx, task(patientID, &docID, "drink water", day(2), model.ReminderStatusPending)))

	require.NoError(t, scanner.ScanAndNotify(ctx, day(1)))
	assert.Equal(t, []string{"Upcoming reminder: drink water is due tomorrow"}, notifier.sent)
}

func TestScanIsReadOnly(t *testing.T) {
	repo := newMemoryRepo()
	scanner := NewScanner(repo, &recordingNotifier{}, nil)
	ctx := context.Background()

	patientID := uuid.New()
	docID := uuid.New()
	require.NoError(t, repo.Create(ctx, task(patientID, &docID, "take medication", day(1), model.ReminderStatusPending)))

	require.NoError(t, scanner.ScanAndNotify(ctx, day(1)))
	require.NoError(t, scanner.ScanAndNotify(ctx, day(1)))

	pending, err := repo.FindPending(ctx, patientID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, model.ReminderStatusPending, pending[0].Status, "scanning never mutates reminders")
}

func TestScanRecordsMetrics(t *testing.T) {
	repo := newMemoryRepo()
	m := metrics.New("scan_test")
	scanner := NewScanner(repo, &recordingNotifier{}, m)

	_, err := scanner.Scan(context.Background(), day(1))
	require.NoError(t, err)

	var duration dto.Metric
	require.NoError(t, m.ScanDuration.Write(&duration))
	assert.Equal(t, uint64(1), duration.GetHistogram().GetSampleCount(), "every scan observes its duration")
}
