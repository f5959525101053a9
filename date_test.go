package caderneta

import (
	"testing"
	"time"
)

func TestDaysInMonth(t *testing.T) {
	testCases := []struct {
		name  string
		year  int
		month time.Month
		want  int
	}{
		{"January", 2025, time.January, 31},
		{"April has 30 days", 2025, time.April, 30},
		{"February non-leap", 2025, time.February, 28},
		{"February leap", 2024, time.February, 29},
		{"February century non-leap", 1900, time.February, 28},
		{"February 400-year leap", 2000, time.February, 29},
		{"December", 2025, time.December, 31},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysInMonth(tc.year, tc.month); got != tc.want {
				t.Errorf("DaysInMonth(%d, %s) = %d, want %d", tc.year, tc.month, got, tc.want)
			}
		})
	}
}

func TestDaysInMonth_InvalidMonthPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("DaysInMonth with an invalid month should panic")
		}
	}()
	DaysInMonth(2025, time.Month(13))
}

func TestClampDay(t *testing.T) {
	testCases := []struct {
		name  string
		day   int
		year  int
		month time.Month
		want  int
	}{
		{"day 31 in a 30-day month", 31, 2025, time.April, 30},
		{"day 31 in a 31-day month", 31, 2025, time.May, 31},
		{"day 29 in non-leap February", 29, 2025, time.February, 28},
		{"day 29 in leap February", 29, 2024, time.February, 29},
		{"day within range is unchanged", 5, 2025, time.February, 5},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampDay(tc.day, tc.year, tc.month); got != tc.want {
				t.Errorf("ClampDay(%d, %d, %s) = %d, want %d", tc.day, tc.year, tc.month, got, tc.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-7-1")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d != NewDate(2025, time.July, 1) {
		t.Errorf("ParseDate(2025-7-1) = %s", d)
	}
	if _, err := ParseDate("not-a-date"); err == nil {
		t.Error("ParseDate should reject garbage")
	}
}

func TestDateOrdering(t *testing.T) {
	a := MustParse("2025-01-31")
	b := MustParse("2025-02-01")
	if !a.Before(b) || b.Before(a) {
		t.Errorf("expected %s before %s", a, b)
	}
	if !b.After(a) {
		t.Errorf("expected %s after %s", b, a)
	}
}
