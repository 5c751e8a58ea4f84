package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Reminder engine metrics
	RemindersScheduled    prometheus.Counter
	RemindersCompleted    prometheus.Counter
	RemindersExtended     prometheus.Counter
	ScansTotal            prometheus.Counter
	ScanDuration          prometheus.Histogram
	NotificationsEmitted  *prometheus.CounterVec
	NotificationsFailed   prometheus.Counter
	ExtractionFailures    prometheus.Counter
	ExtractionDuration    prometheus.Histogram
}

// New creates and registers all application metrics
func New(namespace string) *Metrics {
	return &Metrics{
		RemindersScheduled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_scheduled_total",
			Help:      "Total number of reminder tasks created from doctor notes",
		}),
		RemindersCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_completed_total",
			Help:      "Total number of reminder check-ins",
		}),
		RemindersExtended: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_extended_total",
			Help:      "Total number of missed-day extension tasks appended",
		}),
		ScansTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "due_date_scans_total",
			Help:      "Total number of due-date scan runs",
		}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "due_date_scan_duration_seconds",
			Help:      "Time spent scanning for due reminders",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		NotificationsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_emitted_total",
			Help:      "Total number of reminder notifications emitted",
		}, []string{"kind"}),
		NotificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_failed_total",
			Help:      "Total number of reminder notifications that failed to deliver",
		}),
		ExtractionFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_extraction_failures_total",
			Help:      "Total number of note submissions whose plan extraction failed",
		}),
		ExtractionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_extraction_duration_seconds",
			Help:      "Time spent in the plan extraction call",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
	}
}
