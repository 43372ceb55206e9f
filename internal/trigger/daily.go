// Package trigger starts nightly runs on a daily schedule.
package trigger

import (
	"context"
	"fmt"
	"time"

	"github.com/dtroode/musehabit-server/internal/logger"
	"github.com/dtroode/musehabit-server/internal/model"
)

// Runner performs one nightly run.
type Runner interface {
	Run(ctx context.Context, now time.Time) (model.RunReport, error)
}

// ParseClock parses "HH:MM" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q, want HH:MM: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Daily calls Runner once a day at a fixed UTC time of day.
type Daily struct {
	runner Runner
	at     time.Duration
	logger *logger.Logger

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// NewDaily creates a Daily firing at the given offset from UTC midnight.
func NewDaily(runner Runner, at time.Duration, logger *logger.Logger) *Daily {
	return &Daily{
		runner: runner,
		at:     at,
		logger: logger,
		now:    time.Now,
		after:  time.After,
	}
}

// Next returns the first firing time strictly after now.
func (d *Daily) Next(now time.Time) time.Time {
	now = now.UTC()
	y, m, day := now.Date()
	next := time.Date(y, m, day, 0, 0, 0, 0, time.UTC).Add(d.at)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Run blocks until ctx is done. Run errors are logged; the schedule goes on.
func (d *Daily) Run(ctx context.Context) error {
	for {
		next := d.Next(d.now())
		wait := next.Sub(d.now())
		d.logger.Info("Daily trigger: next nightly run scheduled", "at", next, "in", wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.after(wait):
		}

		report, err := d.runner.Run(ctx, d.now())
		if err != nil {
			d.logger.Error("Daily trigger: nightly run failed", "run_id", report.RunID, "error", err)
			continue
		}
		if report.Skipped {
			d.logger.Info("Daily trigger: nightly run skipped", "reason", report.SkipReason)
		}
	}
}
