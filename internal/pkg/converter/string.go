package converter

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Timestamp layouts accepted for event time, tried in order.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// NullString returns the trimmed value of a nullable text column,
// empty when the column was NULL.
func NullString(ns sql.NullString) string {
	if !ns.Valid {
		return ""
	}
	return strings.TrimSpace(ns.String)
}

// Float64 parses a trimmed numeric string.
func Float64(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Int64 parses a decimal string, accepting integral floats the way the
// source systems emit them ("52" and "52.0" are the same identifier).
func Int64(s string) (int64, bool) {
	t := strings.TrimSpace(s)
	if v, err := strconv.ParseInt(t, 10, 64); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

// ZeroOneFlag interprets the {0,1} flag encoding used by the card
// reader column.
func ZeroOneFlag(s string) (bool, bool) {
	f, ok := Float64(s)
	if !ok {
		return false, false
	}
	switch f {
	case 0:
		return false, true
	case 1:
		return true, true
	}
	return false, false
}

// Timestamp parses event time in the operational store layout with an
// RFC3339 fallback. Times are interpreted as UTC.
func Timestamp(s string) (time.Time, bool) {
	t := strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, t, time.UTC); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
