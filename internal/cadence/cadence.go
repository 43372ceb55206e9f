// Package cadence decides whether an artist may publish and how many days
// remain in their current cycle.
//
// Every artist runs on a private 30-day clock. The clock is anchored at the
// artist's latest post, or at the join date if they have never posted. The
// day of the anchor is day 0 and the artist becomes eligible again on day 30.
// Eligibility does not accumulate: an artist who waits 45 days is exactly as
// eligible as one who waits 30.
//
// All functions are pure and safe for concurrent use.
package cadence

import (
	"errors"
	"time"
)

const (
	// CycleDays is the number of whole days between two posts.
	CycleDays = 30
	// Day is the length of one cadence day.
	Day = 24 * time.Hour
	// CycleLength is the duration of a full cycle.
	CycleLength = CycleDays * Day
)

var (
	ErrJoinedInFuture = errors.New("joined at is after now")
	ErrPostBeforeJoin = errors.New("latest post is before joined at")
	ErrPostInFuture   = errors.New("latest post is after now")
)

// State is the position of an artist in the cadence state machine.
type State string

const (
	// StateWaiting means the current cycle is still running.
	StateWaiting State = "waiting"
	// StateEligible means the artist may publish. Publishing moves them back
	// to StateWaiting with the anchor reset to the publish instant.
	StateEligible State = "eligible"
)

// Result is the outcome of evaluating a cadence record.
type Result struct {
	CanPost           bool
	DaysUntilNextPost int
	Anchor            time.Time
	NextEligibleAt    time.Time
	State             State
}

// Evaluate computes the cadence for the given record at now.
//
// Inputs that violate Validate are normalized first (see Normalize), so
// Evaluate never fails. Callers that must reject such records call Validate.
func Evaluate(joinedAt time.Time, latestPostAt *time.Time, now time.Time) Result {
	joinedAt, latestPostAt = Normalize(joinedAt, latestPostAt, now)

	anchor := joinedAt
	if latestPostAt != nil {
		anchor = *latestPostAt
	}

	days := CycleDays - ElapsedDays(anchor, now)
	if days < 0 {
		days = 0
	}

	res := Result{
		CanPost:           days == 0,
		DaysUntilNextPost: days,
		Anchor:            anchor,
		NextEligibleAt:    anchor.Add(CycleLength),
		State:             StateWaiting,
	}
	if res.CanPost {
		res.State = StateEligible
	}

	return res
}

// ElapsedDays returns the number of whole days between anchor and now.
// It is 0 when now is not after anchor.
func ElapsedDays(anchor, now time.Time) int {
	d := now.Sub(anchor)
	if d <= 0 {
		return 0
	}
	return int(d / Day)
}

// Validate reports whether the record satisfies joinedAt <= latestPostAt <= now.
func Validate(joinedAt time.Time, latestPostAt *time.Time, now time.Time) error {
	if joinedAt.After(now) {
		return ErrJoinedInFuture
	}
	if latestPostAt == nil {
		return nil
	}
	if latestPostAt.Before(joinedAt) {
		return ErrPostBeforeJoin
	}
	if latestPostAt.After(now) {
		return ErrPostInFuture
	}
	return nil
}

// Normalize returns the inputs Evaluate actually uses. A latest post outside
// [joinedAt, now] is dropped and a join date after now is clamped to now.
func Normalize(joinedAt time.Time, latestPostAt *time.Time, now time.Time) (time.Time, *time.Time) {
	if latestPostAt != nil && (latestPostAt.Before(joinedAt) || latestPostAt.After(now)) {
		latestPostAt = nil
	}
	if joinedAt.After(now) {
		joinedAt = now
	}
	return joinedAt, latestPostAt
}
