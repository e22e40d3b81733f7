package utils

import "time"

// CalculateAge returns the age in whole years on the calendar date of today.
// A birthday falling on today counts as reached.
func CalculateAge(dateOfBirth, today time.Time) int {
	dob := dateOnly(dateOfBirth)
	now := dateOnly(today)

	age := now.Year() - dob.Year()
	if dob.After(now.AddDate(-age, 0, 0)) {
		age--
	}
	return age
}

// SameDay reports whether a and b fall on the same UTC calendar date.
func SameDay(a, b time.Time) bool {
	return dateOnly(a.UTC()).Equal(dateOnly(b.UTC()))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
