package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hms-api/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpand(t *testing.T) {
	start := time.Date(2024, 1, 1, 15, 42, 7, 0, time.UTC)

	tests := []struct {
		name     string
		schedule string
		want     int
	}{
		{"plural days", "5 days", 5},
		{"singular day", "1 day", 1},
		{"uppercase", "3 DAYS", 3},
		{"mixed case with prefix", "for 2 Days", 2},
		{"no space", "4days", 4},
		{"no duration", "as needed", 0},
		{"weeks not supported", "2 weeks", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(model.PlanDirective{Action: "take medication", Schedule: tt.schedule}, start, 0)
			require.Len(t, got, tt.want)

			for i, r := range got {
				assert.Equal(t, "take medication", r.Action)
				assert.Equal(t, model.ReminderStatusPending, r.Status)
				assert.Equal(t, day(2024, 1, 1).AddDate(0, 0, i), r.DueDate, "due dates are contiguous from the start date")
			}
		})
	}
}

func TestExpandNormalizesStartToMidnight(t *testing.T) {
	got := Expand(model.PlanDirective{Action: "walk", Schedule: "1 day"}, time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC), 0)
	require.Len(t, got, 1)
	assert.Equal(t, day(2024, 3, 10), got[0].DueDate)
}

func TestExpandExtraDays(t *testing.T) {
	got := Expand(model.PlanDirective{Action: "stretch", Schedule: "3 days"}, day(2024, 1, 1), 2)
	require.Len(t, got, 5)
	assert.Equal(t, day(2024, 1, 5), got[4].DueDate)
}

func TestExpandPlan(t *testing.T) {
	doctorID := uuid.New()
	patientID := uuid.New()
	plan := &model.CarePlan{
		Checklist: []string{"schedule follow-up"},
		Plan: []model.PlanDirective{
			{Action: "take antibiotics", Schedule: "3 days"},
			{Action: "rest", Schedule: "whenever tired"},
			{Action: "ice the knee", Schedule: "2 days"},
		},
	}

	got := ExpandPlan(plan, doctorID, patientID, day(2024, 1, 1))

	// 3 antibiotics tasks + 2 ice tasks; the unmatched directive and the
	// checklist contribute nothing.
	require.Len(t, got, 5)
	for _, r := range got {
		assert.Equal(t, patientID, r.PatientID)
		require.NotNil(t, r.DoctorID)
		assert.Equal(t, doctorID, *r.DoctorID)
	}
}
