package util

import (
	"time"
)

const DayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD day in UTC. Returns (t, true) if it worked.
func ParseDay(s string) (time.Time, bool) {
	if len(s) != len(DayLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseDayDefault parses a day or returns def if empty/invalid.
func ParseDayDefault(s string, def time.Time) time.Time {
	if t, ok := ParseDay(s); ok {
		return t
	}
	return def
}

// Today truncates now to its UTC calendar day.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay formats t as YYYY-MM-DD.
func FormatDay(t time.Time) string { return t.Format(DayLayout) }
