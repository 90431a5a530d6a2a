package readiness

import "time"

// dateOnly strips the time-of-day component. All expiry and window
// comparisons in this package are calendar-date comparisons.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dateBefore(a, b time.Time) bool {
	return dateOnly(a).Before(dateOnly(b))
}

func dateAfter(a, b time.Time) bool {
	return dateOnly(a).After(dateOnly(b))
}
