package reminder

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms-api/internal/model"
	apperrors "github.com/jwalitptl/hms-api/pkg/errors"
)

// memoryRepo is an in-memory ReminderRepository with the same semantics
// as the postgres implementation.
type memoryRepo struct {
	mu        sync.Mutex
	reminders map[uuid.UUID]*model.Reminder
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{reminders: make(map[uuid.UUID]*model.Reminder)}
}

func (r *memoryRepo) Supersede(_ context.Context, doctorID, patientID uuid.UUID, tasks []*model.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rem := range r.reminders {
		if rem.PatientID == patientID && rem.DoctorID != nil && *rem.DoctorID == doctorID {
			delete(r.reminders, id)
		}
	}
	for _, t := range tasks {
		cp := *t
		r.reminders[t.ID] = &cp
	}
	return nil
}

func (r *memoryRepo) Create(_ context.Context, reminder *model.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *reminder
	r.reminders[reminder.ID] = &cp
	return nil
}

func (r *memoryRepo) Get(_ context.Context, id uuid.UUID) (*model.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.reminders[id]
	if !ok {
		return nil, apperrors.NotFound("reminder", nil)
	}
	cp := *rem
	return &cp, nil
}

func (r *memoryRepo) FindPending(_ context.Context, patientID uuid.UUID) ([]*model.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Reminder
	for _, rem := range r.reminders {
		if rem.PatientID == patientID && rem.Status == model.ReminderStatusPending {
			cp := *rem
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (r *memoryRepo) FindDueWindow(_ context.Context, from, to time.Time) ([]*model.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Reminder
	for _, rem := range r.reminders {
		if rem.Status != model.ReminderStatusPending {
			continue
		}
		if rem.DueDate.Before(from) || rem.DueDate.After(to) {
			continue
		}
		cp := *rem
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memoryRepo) MarkCompleted(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.reminders[id]
	if !ok {
		return apperrors.NotFound("reminder", nil)
	}
	rem.Status = model.ReminderStatusCompleted
	return nil
}

func (r *memoryRepo) LatestByDueDate(_ context.Context, patientID uuid.UUID) (*model.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest *model.Reminder
	for _, rem := range r.reminders {
		if rem.PatientID != patientID {
			continue
		}
		if latest == nil || rem.DueDate.After(latest.DueDate) {
			latest = rem
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func task(patientID uuid.UUID, doctorID *uuid.UUID, action string, due time.Time, status model.ReminderStatus) *model.Reminder {
	return &model.Reminder{
		Base:      model.Base{ID: uuid.New()},
		PatientID: patientID,
		DoctorID:  doctorID,
		Action:    action,
		DueDate:   due,
		Status:    status,
	}
}

func TestSupersedeReplacesOnlyTheDoctorsTasks(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	patientID := uuid.New()
	docA := uuid.New()
	docB := uuid.New()

	require.NoError(t, svc.Supersede(ctx, docA, patientID, []*model.Reminder{
		task(patientID, &docA, "old plan", day(1), model.ReminderStatusPending),
		task(patientID, &docA, "old plan", day(2), model.ReminderStatusPending),
	}))
	require.NoError(t, svc.Supersede(ctx, docB, patientID, []*model.Reminder{
		task(patientID, &docB, "other doctor's plan", day(1), model.ReminderStatusPending),
	}))

	// Doctor A resubmits; only A's tasks are replaced.
	require.NoError(t, svc.Supersede(ctx, docA, patientID, []*model.Reminder{
		task(patientID, &docA, "new plan", day(3), model.ReminderStatusPending),
	}))

	pending, err := svc.ListPending(ctx, patientID)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	actions := []string{pending[0].Action, pending[1].Action}
	assert.Contains(t, actions, "new plan")
	assert.Contains(t, actions, "other doctor's plan")
}

func TestSupersedeWithEmptySetClearsTheSchedule(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	patientID := uuid.New()
	docID := uuid.New()

	require.NoError(t, svc.Supersede(ctx, docID, patientID, []*model.Reminder{
		task(patientID, &docID, "take medication", day(1), model.ReminderStatusPending),
	}))
	require.NoError(t, svc.Supersede(ctx, docID, patientID, nil))

	pending, err := svc.ListPending(ctx, patientID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCheckInCompletesWithoutExtensionWhenCaughtUp(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	patientID := uuid.New()
	docID := uuid.New()
	only := task(patientID, &docID, "take medication", day(1), model.ReminderStatusPending)
	require.NoError(t, repo.Create(ctx, only))

	require.NoError(t, svc.CheckIn(ctx, only.ID))

	pending, err := svc.ListPending(ctx, patientID)
	require.NoError(t, err)
	assert.Empty(t, pending, "completing the last task must not extend the schedule")
}

func TestCheckInTwiceIsIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	patientID := uuid.New()
	docID := uuid.New()
	only := task(patientID, &docID, "take medication", day(1), model.ReminderStatusPending)
	require.NoError(t, repo.Create(ctx, only))

	require.NoError(t, svc.CheckIn(ctx, only.ID))
	require.NoError(t, svc.CheckIn(ctx, only.ID), "repeated check-in on a completed reminder must not error")

	got, err := repo.Get(ctx, only.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReminderStatusCompleted, got.Status)

	pending, err := svc.ListPending(ctx, patientID)
	require.NoError(t, err)
	assert.Empty(t, pending, "repeated check-in must not append extension tasks")
}

func TestCheckInExtendsWhenLatestStillPending(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	patientID := uuid.New()
	docID := uuid.New()
	first := task(patientID, &docID, "take medication", day(1), model.ReminderStatusPending)
	last := task(patientID, &docID, "take medication", day(3), model.ReminderStatusPending)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, last))

	require.NoError(t, svc.CheckIn(ctx, first.ID))

	pending, err := svc.ListPending(ctx, patientID)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	extension := pending[len(pending)-1]
	assert.Equal(t, day(4), extension.DueDate, "extension lands one day past the latest pending task")
	assert.Equal(t, "take medication", extension.Action)
	assert.Nil(t, extension.DoctorID, "extension tasks are system-owned")
}

func TestCheckInExtensionIsPatientGlobal(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	patientID := uuid.New()
	docA := uuid.New()
	docB := uuid.New()

	checkedIn := task(patientID, &docA, "physio exercises", day(1), model.ReminderStatusPending)
	require.NoError(t, repo.Create(ctx, checkedIn))
	require.NoError(t, repo.Create(ctx, task(patientID, &docB, "take antibiotics", day(9), model.ReminderStatusPending)))

	require.NoError(t, svc.CheckIn(ctx, checkedIn.ID))

	pending, err := svc.ListPending(ctx, patientID)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	// The extension keys off the other doctor's later task but carries
	// the checked-in task's action.
	extension := pending[len(pending)-1]
	assert.Equal(t, day(10), extension.DueDate)
	assert.Equal(t, "physio exercises", extension.Action)
}

func TestCheckInNoExtensionWhenLatestCompleted(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	patientID := uuid.New()
	docID := uuid.New()
	first := task(patientID, &docID, "take medication", day(1), model.ReminderStatusPending)
	last := task(patientID, &docID, "take medication", day(5), model.ReminderStatusCompleted)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, last))

	require.NoError(t, svc.CheckIn(ctx, first.ID))

	pending, err := svc.ListPending(ctx, patientID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCheckInUnknownReminder(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil)

	err := svc.CheckIn(context.Background(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestConcurrentCheckInsStaySerialized(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	patientID := uuid.New()
	docID := uuid.New()

	var ids []uuid.UUID
	for i := 1; i <= 5; i++ {
		rem := task(patientID, &docID, "take medication", day(i), model.ReminderStatusPending)
		require.NoError(t, repo.Create(ctx, rem))
		ids = append(ids, rem.ID)
	}
	// A stale pending task far in the future keeps every check-in on the
	// extension path.
	require.NoError(t, repo.Create(ctx, task(patientID, &docID, "take medication", day(30), model.ReminderStatusPending)))

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			assert.NoError(t, svc.CheckIn(ctx, id))
		}(id)
	}
	wg.Wait()

	pending, err := svc.ListPending(ctx, patientID)
	require.NoError(t, err)

	// Serialized check-ins append exactly one extension each, on strictly
	// increasing days: day(30) plus days 31..35.
	require.Len(t, pending, 6)
	for i := 1; i < len(pending); i++ {
		assert.Equal(t, pending[i-1].DueDate.AddDate(0, 0, 1), pending[i].DueDate)
	}
}
