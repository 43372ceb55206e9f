package testutil

import "time"

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysAfter returns t moved forward by n whole days.
func DaysAfter(t time.Time, n int) time.Time {
	return t.Add(time.Duration(n) * 24 * time.Hour)
}

// Ptr returns a pointer to t.
func Ptr(t time.Time) *time.Time {
	return &t
}
