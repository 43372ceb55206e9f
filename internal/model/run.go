package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RunStatus is the persisted state of a nightly run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// RunStore keeps one marker per run date.
type RunStore interface {
	// Claim marks runDate as running under runID. It returns false when the
	// date is already completed or is running and started after
	// startedAt-staleAfter.
	Claim(ctx context.Context, runDate time.Time, runID uuid.UUID, startedAt time.Time, staleAfter time.Duration) (bool, error)
	Finish(ctx context.Context, report RunReport, status RunStatus) error
	// Get returns the counts stored for runDate. Failures are not persisted
	// here; see the archived report.
	Get(ctx context.Context, runDate time.Time) (RunReport, RunStatus, error)
}

// UserFailure describes why a single artist was not processed.
type UserFailure struct {
	UserID uuid.UUID `json:"user_id"`
	Stage  string    `json:"stage"`
	Error  string    `json:"error"`
}

// RunReport summarises one nightly run.
type RunReport struct {
	RunID      uuid.UUID `json:"run_id"`
	RunDate    time.Time `json:"run_date"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Skipped    bool   `json:"skipped"`
	SkipReason string `json:"skip_reason,omitempty"`
	Error      string `json:"error,omitempty"`

	Scanned      int `json:"scanned"`
	Evaluated    int `json:"evaluated"`
	Sent         int `json:"sent"`
	Suppressed   int `json:"suppressed"`
	NoThreshold  int `json:"no_threshold"`
	Duplicates   int `json:"duplicates"`
	Inconsistent int `json:"inconsistent"`
	Failed       int `json:"failed"`

	// Failures holds at most a bounded number of entries; Failed is exact.
	Failures []UserFailure `json:"failures,omitempty"`
}
