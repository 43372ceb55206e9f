package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUsernameTaken   = errors.New("username is taken")
	ErrEmailTaken      = errors.New("email is taken")
	ErrCannotPostYet   = errors.New("posting window is closed")
	ErrRunInProgress   = errors.New("nightly run already in progress")
)

// CadenceError is returned when an artist tries to publish before their
// next window opens. It matches ErrCannotPostYet with errors.Is.
type CadenceError struct {
	DaysUntilNextPost int
	NextEligibleAt    time.Time
}

func (e *CadenceError) Error() string {
	return fmt.Sprintf("%s: next post allowed in %d days (%s)",
		ErrCannotPostYet, e.DaysUntilNextPost, e.NextEligibleAt.Format(time.DateOnly))
}

func (e *CadenceError) Unwrap() error {
	return ErrCannotPostYet
}
