// Package schedule expands care-plan directives into dated reminder
// tasks.
package schedule

import (
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/pkg/clock"
)

// Directives schedule by a free-text "N day(s)" expression. Anything
// else is dropped silently: an unmatched directive yields no reminders,
// by policy rather than as a validation failure.
var scheduleRe = regexp.MustCompile(`(?i)(\d+)\s*days?`)

// Expand materializes one reminder per day for the directive's parsed
// duration, starting at startDate (normalized to midnight), all pending.
// extraDays widens the run beyond the parsed duration; every current
// call site passes 0.
func Expand(directive model.PlanDirective, startDate time.Time, extraDays int) []*model.Reminder {
	m := scheduleRe.FindStringSubmatch(directive.Schedule)
	if m == nil {
		return nil
	}

	duration, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	start := clock.Midnight(startDate)
	reminders := make([]*model.Reminder, 0, duration+extraDays)
	for i := 0; i < duration+extraDays; i++ {
		reminders = append(reminders, &model.Reminder{
			Base:    model.Base{ID: uuid.New()},
			Action:  directive.Action,
			DueDate: start.AddDate(0, 0, i),
			Status:  model.ReminderStatusPending,
		})
	}
	return reminders
}

// ExpandPlan expands every directive of a care plan for one patient and
// submitting doctor. Checklist items are informational and never
// scheduled.
func ExpandPlan(plan *model.CarePlan, doctorID, patientID uuid.UUID, startDate time.Time) []*model.Reminder {
	var reminders []*model.Reminder
	for _, directive := range plan.Plan {
		for _, task := range Expand(directive, startDate, 0) {
			task.PatientID = patientID
			docID := doctorID
			task.DoctorID = &docID
			reminders = append(reminders, task)
		}
	}
	return reminders
}
