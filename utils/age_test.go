package utils

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateAge(t *testing.T) {
	tests := []struct {
		name  string
		dob   time.Time
		today time.Time
		want  int
	}{
		{"birthday today", date(2008, time.October, 18), date(2026, time.October, 18), 18},
		{"day before birthday", date(2008, time.October, 19), date(2026, time.October, 18), 17},
		{"day after birthday", date(2008, time.October, 17), date(2026, time.October, 18), 18},
		{"earlier month", date(2000, time.January, 1), date(2026, time.October, 18), 26},
		{"later month", date(2000, time.December, 31), date(2026, time.October, 18), 25},
		{"time of day ignored", time.Date(2008, time.October, 18, 23, 59, 0, 0, time.UTC), time.Date(2026, time.October, 18, 0, 1, 0, 0, time.UTC), 18},
		{"born today", date(2026, time.October, 18), date(2026, time.October, 18), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateAge(tt.dob, tt.today); got != tt.want {
				t.Errorf("CalculateAge(%s, %s) = %d, want %d", tt.dob.Format(time.DateOnly), tt.today.Format(time.DateOnly), got, tt.want)
			}
		})
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)
	b := time.Date(2026, time.October, 19, 22, 30, 0, 0, time.UTC)
	c := time.Date(2026, time.October, 20, 0, 0, 0, 0, time.UTC)

	if !SameDay(a, b) {
		t.Error("expected same day")
	}
	if SameDay(b, c) {
		t.Error("expected different days")
	}
}
