package models

import (
	"time"
)

// DateLayout is the ISO calendar-date layout used across the system.
const DateLayout = "2006-01-02"

// Now returns the current time in UTC
func Now() time.Time {
	return time.Now().UTC()
}

// FormatTime formats a time.Time according to RFC3339
func FormatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD) in UTC
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate formats a time as an ISO calendar date
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf truncates a time to its UTC calendar date
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Yesterday returns the UTC calendar date one day before now
func Yesterday() time.Time {
	return DateOf(Now().AddDate(0, 0, -1))
}
