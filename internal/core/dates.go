// Package core holds the farm domain model and the pure computations
// over it: date-range filtering, financial aggregation and the derived
// state the UI renders (growth progress, task dueness, badge tones).
package core

import (
	"fmt"
	"time"
)

// DayLayout is the wire format for record dates.
const DayLayout = "2006-01-02"

// ParseDay parses a yyyy-MM-dd record date. The empty string is an
// error; callers that treat missing dates as "no bound" check for
// emptiness before calling.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return t, nil
}

// MonthKey returns the composite yyyy-MM grouping key for a date.
// Lexicographic order on keys equals chronological order.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthLabel renders a grouping key as a short display label, e.g.
// "2024-03" becomes "Mar 2024". The key itself is returned when it
// does not parse, so a malformed key stays visible instead of blank.
func MonthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2006")
}

// StartOfMonth returns midnight UTC on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// EndOfMonth returns midnight UTC on the last day of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// DefaultReportRange is the range reports open with: the start of the
// month five months back through the end of the current month.
func DefaultReportRange(now time.Time) (start, end string) {
	s := StartOfMonth(now.AddDate(0, -5, 0))
	e := EndOfMonth(now)
	return s.Format(DayLayout), e.Format(DayLayout)
}
