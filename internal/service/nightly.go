package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dtroode/musehabit-server/internal/cadence"
	"github.com/dtroode/musehabit-server/internal/logger"
	"github.com/dtroode/musehabit-server/internal/model"
	"github.com/dtroode/musehabit-server/internal/notify"
)

// Stages reported in model.UserFailure.
const (
	StageRecord   = "record"
	StageValidate = "validate"
	StageClaim    = "claim"
	StageRender   = "render"
	StageSend     = "send"
	StageCanceled = "canceled"
)

const defaultMaxReportedFailures = 100

// NightlyConfig tunes a nightly run.
type NightlyConfig struct {
	Workers    int
	PageSize   int
	StaleAfter time.Duration
	// Strict turns inconsistent cadence records into per-user failures instead
	// of evaluating their normalized form.
	Strict              bool
	MaxReportedFailures int
}

// Nightly evaluates every artist once per UTC day and sends the reminder
// email their cadence calls for.
type Nightly struct {
	users      model.UserStore
	deliveries model.DeliveryStore
	runs       model.RunStore
	sender     model.EmailSender
	renderer   *notify.Renderer
	archive    model.Storage
	cfg        NightlyConfig
	logger     *logger.Logger
	clock      func() time.Time

	mu sync.Mutex
}

// NewNightly creates the run service. archive may be nil.
func NewNightly(
	users model.UserStore,
	deliveries model.DeliveryStore,
	runs model.RunStore,
	sender model.EmailSender,
	renderer *notify.Renderer,
	archive model.Storage,
	cfg NightlyConfig,
	logger *logger.Logger,
) *Nightly {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = 500
	}
	if cfg.MaxReportedFailures < 1 {
		cfg.MaxReportedFailures = defaultMaxReportedFailures
	}

	return &Nightly{
		users:      users,
		deliveries: deliveries,
		runs:       runs,
		sender:     sender,
		renderer:   renderer,
		archive:    archive,
		cfg:        cfg,
		logger:     logger,
		clock:      time.Now,
	}
}

// RunDate returns the UTC calendar day now falls on.
func RunDate(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ArchiveKey is the object key of an archived run report.
func ArchiveKey(runDate time.Time, runID uuid.UUID) string {
	return fmt.Sprintf("runs/%s/%s.json", runDate.Format(time.DateOnly), runID)
}

// Run evaluates all artists at now. A run that overlaps another one, in this
// process or recorded for the same date, returns a report with Skipped set
// and a nil error. Per-artist problems land in the report; the error is
// reserved for failures that stopped the run.
func (n *Nightly) Run(ctx context.Context, now time.Time) (model.RunReport, error) {
	runDate := RunDate(now)
	report := model.RunReport{
		RunID:     uuid.New(),
		RunDate:   runDate,
		StartedAt: n.clock().UTC(),
	}
	log := n.logger.With("run_id", report.RunID, "run_date", runDate.Format(time.DateOnly))

	if !n.mu.TryLock() {
		report.Skipped = true
		report.SkipReason = model.ErrRunInProgress.Error()
		report.FinishedAt = n.clock().UTC()
		log.Info("Nightly: skipped, another run is active in this process")
		return report, nil
	}
	defer n.mu.Unlock()

	claimed, err := n.runs.Claim(ctx, runDate, report.RunID, report.StartedAt, n.cfg.StaleAfter)
	if err != nil {
		return report, fmt.Errorf("failed to claim run: %w", err)
	}
	if !claimed {
		report.Skipped = true
		report.SkipReason = fmt.Sprintf("run for %s already completed or in progress", runDate.Format(time.DateOnly))
		report.FinishedAt = n.clock().UTC()
		log.Info("Nightly: skipped, date already claimed")
		return report, nil
	}

	log.Info("Nightly: run started", "evaluated_at", now.UTC())

	t := &tally{report: &report, max: n.cfg.MaxReportedFailures}
	runErr := n.processAll(ctx, log, now, runDate, t)

	report.FinishedAt = n.clock().UTC()
	status := model.RunCompleted
	if runErr != nil {
		status = model.RunFailed
		report.Error = runErr.Error()
	}

	detached := context.WithoutCancel(ctx)
	if err := n.runs.Finish(detached, report, status); err != nil {
		log.Error("Nightly: failed to record run outcome", "error", err)
	}
	n.archiveReport(detached, log, report)

	log.Info("Nightly: run finished",
		"status", status,
		"scanned", report.Scanned,
		"evaluated", report.Evaluated,
		"sent", report.Sent,
		"suppressed", report.Suppressed,
		"no_threshold", report.NoThreshold,
		"duplicates", report.Duplicates,
		"inconsistent", report.Inconsistent,
		"failed", report.Failed,
		"duration", report.FinishedAt.Sub(report.StartedAt))

	return report, runErr
}

func (n *Nightly) processAll(ctx context.Context, log *logger.Logger, now, runDate time.Time, t *tally) error {
	var g errgroup.Group
	g.SetLimit(n.cfg.Workers)

	var listErr error
	after := uuid.Nil
	for {
		if err := ctx.Err(); err != nil {
			listErr = err
			break
		}

		page, err := n.users.ListPage(ctx, after, n.cfg.PageSize)
		if err != nil {
			listErr = fmt.Errorf("failed to list users after %s: %w", after, err)
			break
		}

		for _, u := range page {
			g.Go(func() error {
				n.processUser(ctx, log, u, now, runDate, t)
				return nil
			})
		}

		if len(page) < n.cfg.PageSize {
			break
		}
		after = page[len(page)-1].ID
	}

	_ = g.Wait()
	return listErr
}

func (n *Nightly) processUser(ctx context.Context, log *logger.Logger, u model.User, now, runDate time.Time, t *tally) {
	t.add(func(r *model.RunReport) { r.Scanned++ })

	if err := ctx.Err(); err != nil {
		t.fail(u.ID, StageCanceled, err)
		return
	}

	if u.JoinedAt.IsZero() {
		log.Error("Nightly: artist record has no join date", "user_id", u.ID)
		t.fail(u.ID, StageRecord, errors.New("joined date is missing"))
		return
	}

	if err := cadence.Validate(u.JoinedAt, u.LatestPostAt, now); err != nil {
		t.add(func(r *model.RunReport) { r.Inconsistent++ })
		if n.cfg.Strict {
			log.Error("Nightly: inconsistent cadence record", "user_id", u.ID, "error", err)
			t.fail(u.ID, StageValidate, err)
			return
		}
		log.Warn("Nightly: inconsistent cadence record, evaluating normalized values", "user_id", u.ID, "error", err)
	}

	res := cadence.Evaluate(u.JoinedAt, u.LatestPostAt, now)
	t.add(func(r *model.RunReport) { r.Evaluated++ })

	log.Debug("Nightly: artist evaluated",
		"user_id", u.ID,
		"can_post", res.CanPost,
		"days_until_next_post", res.DaysUntilNextPost)

	if res.CanPost && res.DaysUntilNextPost == 0 && u.Prefs.AccountabilityNotice {
		log.Info("Nightly: artist has not posted in the last cycle",
			"user_id", u.ID,
			"username", u.Username,
			"anchor", res.Anchor)
	}

	th, ok := notify.Lookup(res)
	if !ok {
		t.add(func(r *model.RunReport) { r.NoThreshold++ })
		return
	}
	if !th.Enabled(u.Prefs) {
		t.add(func(r *model.RunReport) { r.Suppressed++ })
		return
	}

	claimed, err := n.deliveries.Claim(ctx, u.ID, runDate, th.Key)
	if err != nil {
		log.Error("Nightly: failed to claim delivery", "user_id", u.ID, "threshold", th.Key, "error", err)
		t.fail(u.ID, StageClaim, err)
		return
	}
	if !claimed {
		log.Debug("Nightly: reminder already handled", "user_id", u.ID, "threshold", th.Key)
		t.add(func(r *model.RunReport) { r.Duplicates++ })
		return
	}

	email, err := n.renderer.Reminder(th, u)
	if err != nil {
		n.completeDelivery(ctx, log, u.ID, runDate, th.Key, err)
		t.fail(u.ID, StageRender, err)
		return
	}

	if err := n.sender.Send(ctx, email); err != nil {
		log.Error("Nightly: failed to send reminder", "user_id", u.ID, "threshold", th.Key, "error", err)
		n.completeDelivery(ctx, log, u.ID, runDate, th.Key, err)
		t.fail(u.ID, StageSend, err)
		return
	}

	n.completeDelivery(ctx, log, u.ID, runDate, th.Key, nil)
	t.add(func(r *model.RunReport) { r.Sent++ })
	log.Info("Nightly: reminder sent", "user_id", u.ID, "threshold", th.Key)
}

// completeDelivery records the outcome even if the run context is gone. A
// sent email stays counted as sent when this fails.
func (n *Nightly) completeDelivery(ctx context.Context, log *logger.Logger, userID uuid.UUID, runDate time.Time, key string, sendErr error) {
	status, msg := model.DeliverySent, ""
	if sendErr != nil {
		status, msg = model.DeliveryFailed, sendErr.Error()
	}

	err := n.deliveries.Complete(context.WithoutCancel(ctx), userID, runDate, key, status, msg)
	if err != nil {
		log.Error("Nightly: failed to record delivery", "user_id", userID, "threshold", key, "status", status, "error", err)
	}
}

func (n *Nightly) archiveReport(ctx context.Context, log *logger.Logger, report model.RunReport) {
	if n.archive == nil {
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		log.Error("Nightly: failed to encode run report", "error", err)
		return
	}

	key := ArchiveKey(report.RunDate, report.RunID)
	if err := n.archive.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		log.Error("Nightly: failed to archive run report", "key", key, "error", err)
	}
}

// Report returns the recorded run for runDate. When the archived report is
// available it is returned instead, since it carries the failure details.
func (n *Nightly) Report(ctx context.Context, runDate time.Time) (model.RunReport, model.RunStatus, error) {
	report, status, err := n.runs.Get(ctx, RunDate(runDate))
	if err != nil {
		return model.RunReport{}, "", err
	}
	if n.archive == nil || status == model.RunRunning {
		return report, status, nil
	}

	key := ArchiveKey(report.RunDate, report.RunID)
	exists, err := n.archive.Exists(ctx, key)
	if err != nil || !exists {
		if err != nil {
			n.logger.Warn("Nightly: archived report unavailable", "key", key, "error", err)
		}
		return report, status, nil
	}

	rc, err := n.archive.Download(ctx, key)
	if err != nil {
		n.logger.Warn("Nightly: failed to download archived report", "key", key, "error", err)
		return report, status, nil
	}
	defer rc.Close()

	var archived model.RunReport
	if err := json.NewDecoder(rc).Decode(&archived); err != nil {
		n.logger.Warn("Nightly: archived report is corrupt", "key", key, "error", err)
		return report, status, nil
	}

	return archived, status, nil
}

// tally serializes report updates from concurrent workers.
type tally struct {
	mu     sync.Mutex
	report *model.RunReport
	max    int
}

func (t *tally) add(fn func(r *model.RunReport)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.report)
}

func (t *tally) fail(userID uuid.UUID, stage string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.report.Failed++
	if len(t.report.Failures) < t.max {
		t.report.Failures = append(t.report.Failures, model.UserFailure{
			UserID: userID,
			Stage:  stage,
			Error:  err.Error(),
		})
	}
}
