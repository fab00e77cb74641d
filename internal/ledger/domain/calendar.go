package ledger

import "time"

// CalendarExceptionSet answers non-working-day membership for a
// vehicle. A date is non-working when it is a Sunday or an explicit
// exception. Exceptions are keyed by normalized day so membership is a
// map lookup regardless of how many a contract carries.
type CalendarExceptionSet struct {
	days map[string]struct{}
}

// NewCalendarExceptionSet builds the set from ISO-8601 date strings.
// Malformed entries are skipped; they cannot match any real date.
func NewCalendarExceptionSet(nonWorkingDays []string) CalendarExceptionSet {
	days := make(map[string]struct{}, len(nonWorkingDays))
	for _, raw := range nonWorkingDays {
		day, ok := ParseDay(raw)
		if !ok {
			continue
		}
		days[FormatDay(day)] = struct{}{}
	}
	return CalendarExceptionSet{days: days}
}

// IsNonWorking reports whether the date counts as non-working.
func (s CalendarExceptionSet) IsNonWorking(day time.Time) bool {
	day = TruncateToDay(day)
	if day.Weekday() == time.Sunday {
		return true
	}
	_, ok := s.days[FormatDay(day)]
	return ok
}

// CountWorkingDays counts working days in [start, end], both endpoints
// inclusive, date-only. Returns 0 when start is after end.
func (s CalendarExceptionSet) CountWorkingDays(start, end time.Time) int {
	start = TruncateToDay(start)
	end = TruncateToDay(end)
	if start.After(end) {
		return 0
	}
	count := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !s.IsNonWorking(day) {
			count++
		}
	}
	return count
}
