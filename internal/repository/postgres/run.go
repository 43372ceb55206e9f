package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/musehabit-server/internal/model"
)

var _ model.RunStore = (*RunRepository)(nil)

type RunRepository struct {
	db DB
}

func NewRunRepository(db DB) *RunRepository {
	return &RunRepository{
		db: db,
	}
}

// Claim takes the marker for runDate. A completed run, or a running one
// younger than staleAfter, keeps the marker.
func (r *RunRepository) Claim(ctx context.Context, runDate time.Time, runID uuid.UUID, startedAt time.Time, staleAfter time.Duration) (bool, error) {
	query := `INSERT INTO nightly_runs (run_date, run_id, status, started_at)
			  VALUES ($1, $2, 'running', $3)
			  ON CONFLICT (run_date) DO UPDATE
			  SET run_id = EXCLUDED.run_id, status = 'running', started_at = EXCLUDED.started_at,
			      finished_at = NULL, error = ''
			  WHERE nightly_runs.status = 'failed'
			     OR (nightly_runs.status = 'running' AND nightly_runs.started_at < $4)
			  RETURNING run_id`

	var claimed uuid.UUID
	err := r.db.QueryRow(ctx, query, runDate, runID, startedAt, startedAt.Add(-staleAfter)).Scan(&claimed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to claim nightly run: %w", err)
	}

	return claimed == runID, nil
}

func (r *RunRepository) Finish(ctx context.Context, report model.RunReport, status model.RunStatus) error {
	query := `UPDATE nightly_runs SET status = $3, finished_at = $4, scanned = $5, evaluated = $6,
			  sent = $7, suppressed = $8, no_threshold = $9, duplicates = $10, inconsistent = $11,
			  failed = $12, error = $13
			  WHERE run_date = $1 AND run_id = $2`

	tag, err := r.db.Exec(ctx, query,
		report.RunDate, report.RunID, string(status), report.FinishedAt,
		report.Scanned, report.Evaluated, report.Sent, report.Suppressed, report.NoThreshold,
		report.Duplicates, report.Inconsistent, report.Failed, report.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to finish nightly run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

func (r *RunRepository) Get(ctx context.Context, runDate time.Time) (model.RunReport, model.RunStatus, error) {
	query := `SELECT run_date, run_id, status, started_at, finished_at, scanned, evaluated, sent,
			  suppressed, no_threshold, duplicates, inconsistent, failed, error
			  FROM nightly_runs WHERE run_date = $1`

	var (
		rep      model.RunReport
		status   string
		finished *time.Time
	)
	err := r.db.QueryRow(ctx, query, runDate).Scan(
		&rep.RunDate, &rep.RunID, &status, &rep.StartedAt, &finished,
		&rep.Scanned, &rep.Evaluated, &rep.Sent, &rep.Suppressed, &rep.NoThreshold,
		&rep.Duplicates, &rep.Inconsistent, &rep.Failed, &rep.Error,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RunReport{}, "", model.ErrNotFound
		}
		return model.RunReport{}, "", fmt.Errorf("failed to get nightly run: %w", err)
	}
	if finished != nil {
		rep.FinishedAt = *finished
	}

	return rep, model.RunStatus(status), nil
}
