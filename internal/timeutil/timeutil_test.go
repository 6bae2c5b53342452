package timeutil

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsBusinessDay(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"monday", date(2026, time.August, 24), true},
		{"friday", date(2026, time.August, 28), true},
		{"saturday", date(2026, time.August, 29), false},
		{"sunday", date(2026, time.August, 30), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBusinessDay(tt.day); got != tt.want {
				t.Errorf("IsBusinessDay(%s) = %v, want %v", tt.day.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestAddBusinessDays(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		n    int
		want time.Time
	}{
		{"midweek", date(2026, time.August, 25), 2, date(2026, time.August, 27)},
		{"friday plus one skips weekend", date(2026, time.August, 28), 1, date(2026, time.August, 31)},
		{"friday plus two", date(2026, time.August, 28), 2, date(2026, time.September, 1)},
		{"zero is identity", date(2026, time.August, 28), 0, date(2026, time.August, 28)},
		{"from saturday", date(2026, time.August, 29), 1, date(2026, time.August, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AddBusinessDays(tt.from, tt.n); !got.Equal(tt.want) {
				t.Errorf("AddBusinessDays(%s, %d) = %s, want %s",
					tt.from.Format("2006-01-02"), tt.n,
					got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestSubBusinessDays(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		n    int
		want time.Time
	}{
		{"midweek", date(2026, time.August, 27), 2, date(2026, time.August, 25)},
		{"monday minus one skips weekend", date(2026, time.August, 31), 1, date(2026, time.August, 28)},
		{"zero is identity", date(2026, time.August, 31), 0, date(2026, time.August, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SubBusinessDays(tt.from, tt.n); !got.Equal(tt.want) {
				t.Errorf("SubBusinessDays(%s, %d) = %s, want %s",
					tt.from.Format("2006-01-02"), tt.n,
					got.Format("2006-01-02"), tt.want.Format("2006-01-02"))
			}
		})
	}
}

func TestBusinessDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same day", date(2026, time.August, 26), date(2026, time.August, 26), 0},
		{"same day different times",
			time.Date(2026, time.August, 26, 8, 0, 0, 0, time.UTC),
			time.Date(2026, time.August, 26, 23, 30, 0, 0, time.UTC), 0},
		{"adjacent weekdays", date(2026, time.August, 25), date(2026, time.August, 26), 1},
		{"friday to monday", date(2026, time.August, 28), date(2026, time.August, 31), 1},
		{"order independent", date(2026, time.August, 31), date(2026, time.August, 28), 1},
		{"full week", date(2026, time.August, 24), date(2026, time.August, 31), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BusinessDaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("BusinessDaysBetween(%s, %s) = %d, want %d",
					tt.a.Format("2006-01-02"), tt.b.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestWithinMinutes(t *testing.T) {
	base := time.Date(2026, time.August, 26, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a, b time.Time
		n    int
		want bool
	}{
		{"three minutes apart", base, base.Add(3 * time.Minute), 5, true},
		{"exactly at tolerance", base, base.Add(5 * time.Minute), 5, true},
		{"just past tolerance", base, base.Add(5*time.Minute + time.Second), 5, false},
		{"negative difference", base.Add(4 * time.Minute), base, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithinMinutes(tt.a, tt.b, tt.n); got != tt.want {
				t.Errorf("WithinMinutes(%v, %v, %d) = %v, want %v", tt.a, tt.b, tt.n, got, tt.want)
			}
		})
	}
}

func TestSameCalendarDay(t *testing.T) {
	morning := time.Date(2026, time.August, 26, 1, 0, 0, 0, time.UTC)
	night := time.Date(2026, time.August, 26, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2026, time.August, 27, 0, 1, 0, 0, time.UTC)

	if !SameCalendarDay(morning, night) {
		t.Error("expected same calendar day for morning and night of the same date")
	}
	if SameCalendarDay(night, nextDay) {
		t.Error("expected different calendar days across midnight")
	}
}
