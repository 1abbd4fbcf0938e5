// Package calendar provides the week-boundary and elapsed-day arithmetic
// used by usage accounting. All functions are pure.
package calendar

import "time"

const hoursPerDay = 24

// WeekStart returns the most recent Sunday at local midnight for t.
// The result is identical for any two instants within the same week,
// which lets callers compare week boundaries by exact equality.
func WeekStart(t time.Time) time.Time {
	local := t.Local()
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// SameWeek reports whether a and b fall within the same Sunday-anchored week.
func SameWeek(a, b time.Time) bool {
	return WeekStart(a).Equal(WeekStart(b))
}

// DaysSince returns the fractional number of days elapsed from start to now.
// Negative when start is in the future.
func DaysSince(start, now time.Time) float64 {
	return now.Sub(start).Hours() / hoursPerDay
}

// DaysAfter returns t shifted forward by the given number of whole days.
func DaysAfter(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}
