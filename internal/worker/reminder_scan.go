package worker

import (
	"context"
	"time"

	"github.com/jwalitptl/hms-api/internal/service/reminder"
	"github.com/jwalitptl/hms-api/pkg/clock"
	"github.com/jwalitptl/hms-api/pkg/logger"
)

// ReminderScanWorker runs the due-date scan once at start and then on a
// fixed interval until the context is canceled.
type ReminderScanWorker struct {
	scanner  *reminder.Scanner
	clock    clock.Clock
	interval time.Duration
	logger   *logger.Logger
}

func NewReminderScanWorker(scanner *reminder.Scanner, clk clock.Clock, interval time.Duration, logger *logger.Logger) *ReminderScanWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReminderScanWorker{
		scanner:  scanner,
		clock:    clk,
		interval: interval,
		logger:   logger,
	}
}

func (w *ReminderScanWorker) Start(ctx context.Context) {
	w.logger.ZL.Info().Dur("interval", w.interval).Msg("reminder scan worker started")

	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.ZL.Info().Msg("reminder scan worker shutting down")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *ReminderScanWorker) run(ctx context.Context) {
	if err := w.scanner.ScanAndNotify(ctx, w.clock.Now()); err != nil {
		w.logger.ZL.Error().Err(err).Msg("reminder scan failed")
	}
}
