package ledger

import (
	"testing"
	"time"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, ok := ParseDay(value)
	if !ok {
		t.Fatalf("bad test date %q", value)
	}
	return parsed
}

func TestCountWorkingDaysExcludesSundays(t *testing.T) {
	set := NewCalendarExceptionSet(nil)
	// 2024-03-01 (Fri) .. 2024-03-11 (Mon): 11 calendar days, one
	// Sunday on 2024-03-03 and one on 2024-03-10.
	got := set.CountWorkingDays(day(t, "2024-03-01"), day(t, "2024-03-11"))
	if got != 9 {
		t.Fatalf("working days = %d, want 9", got)
	}
}

func TestCountWorkingDaysWithExceptions(t *testing.T) {
	set := NewCalendarExceptionSet([]string{"2024-03-05", "2024-03-06"})
	got := set.CountWorkingDays(day(t, "2024-03-04"), day(t, "2024-03-08"))
	if got != 3 {
		t.Fatalf("working days = %d, want 3", got)
	}
}

func TestCountWorkingDaysSingleDay(t *testing.T) {
	set := NewCalendarExceptionSet(nil)
	if got := set.CountWorkingDays(day(t, "2024-03-04"), day(t, "2024-03-04")); got != 1 {
		t.Fatalf("single working day = %d, want 1", got)
	}
	// 2024-03-03 is a Sunday.
	if got := set.CountWorkingDays(day(t, "2024-03-03"), day(t, "2024-03-03")); got != 0 {
		t.Fatalf("single sunday = %d, want 0", got)
	}
}

func TestCountWorkingDaysInvertedRange(t *testing.T) {
	set := NewCalendarExceptionSet(nil)
	if got := set.CountWorkingDays(day(t, "2024-03-11"), day(t, "2024-03-01")); got != 0 {
		t.Fatalf("inverted range = %d, want 0", got)
	}
}

func TestNewCalendarExceptionSetSkipsMalformed(t *testing.T) {
	set := NewCalendarExceptionSet([]string{"not-a-date", "", "2024-03-04"})
	if !set.IsNonWorking(day(t, "2024-03-04")) {
		t.Fatal("valid exception not honored")
	}
	if set.IsNonWorking(day(t, "2024-03-05")) {
		t.Fatal("unexpected non-working day")
	}
}

func TestIsNonWorkingStripsTimeOfDay(t *testing.T) {
	set := NewCalendarExceptionSet([]string{"2024-03-04"})
	at := time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC)
	if !set.IsNonWorking(at) {
		t.Fatal("time-of-day should not affect membership")
	}
}
