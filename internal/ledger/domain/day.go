package ledger

import "time"

// DayLayout is the ISO-8601 date-only layout used on every record
// exchanged with collaborators.
const DayLayout = "2006-01-02"

// ParseDay parses an ISO-8601 date string into a UTC day start.
// Timestamps are tolerated by taking the date part. The second return
// is false for empty or malformed input; callers skip such records for
// date-dependent calculations instead of failing.
func ParseDay(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if len(value) > len(DayLayout) {
		value = value[:len(DayLayout)]
	}
	t, err := time.Parse(DayLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// FormatDay renders a day as an ISO-8601 date string.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// TruncateToDay strips time-of-day, keeping the location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameOrBetween reports whether day falls in [from, to] with date-only
// comparison. A zero bound leaves that side open.
func SameOrBetween(day, from, to time.Time) bool {
	day = TruncateToDay(day)
	if !from.IsZero() && day.Before(TruncateToDay(from)) {
		return false
	}
	if !to.IsZero() && day.After(TruncateToDay(to)) {
		return false
	}
	return true
}
