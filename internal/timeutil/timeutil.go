// Package timeutil provides business-day arithmetic and the temporal
// predicates used by the matching heuristics. A business day is a calendar
// day excluding Saturday and Sunday; statutory holidays are not considered.
package timeutil

import "time"

// IsBusinessDay reports whether t falls on a weekday
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// AddBusinessDays advances t by n business days, skipping weekends.
// n must be non-negative.
func AddBusinessDays(t time.Time, n int) time.Time {
	for added := 0; added < n; {
		t = t.AddDate(0, 0, 1)
		if IsBusinessDay(t) {
			added++
		}
	}
	return t
}

// SubBusinessDays moves t back by n business days, skipping weekends.
// n must be non-negative.
func SubBusinessDays(t time.Time, n int) time.Time {
	for subtracted := 0; subtracted < n; {
		t = t.AddDate(0, 0, -1)
		if IsBusinessDay(t) {
			subtracted++
		}
	}
	return t
}

// BusinessDaysBetween returns the number of business days between a and b,
// counting weekday boundaries crossed from the earlier to the later calendar
// day. Same calendar day yields 0 regardless of time of day.
func BusinessDaysBetween(a, b time.Time) int {
	from, to := truncateDay(a), truncateDay(b)
	if from.After(to) {
		from, to = to, from
	}

	days := 0
	for cur := from; cur.Before(to); {
		cur = cur.AddDate(0, 0, 1)
		if IsBusinessDay(cur) {
			days++
		}
	}
	return days
}

// WithinMinutes reports whether the absolute difference between a and b is
// at most n minutes
func WithinMinutes(a, b time.Time, n int) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= time.Duration(n)*time.Minute
}

// SameCalendarDay reports whether a and b fall on the same calendar day
func SameCalendarDay(a, b time.Time) bool {
	return truncateDay(a).Equal(truncateDay(b))
}

func truncateDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
