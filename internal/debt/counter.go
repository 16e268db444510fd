package debt

import "time"

// CountChargeableDays counts the calendar days strictly after start up to and
// including end, skipping every day that falls on the excluded weekday.
// Only the calendar date of each instant is considered.
func CountChargeableDays(start, end time.Time, excluded time.Weekday) int {
	start = dateOf(start)
	end = dateOf(end)
	if !start.Before(end) {
		return 0
	}

	days := 0
	for current := start.AddDate(0, 0, 1); !current.After(end); current = current.AddDate(0, 0, 1) {
		if current.Weekday() != excluded {
			days++
		}
	}
	return days
}

// dateOf drops the time of day and moves the date to UTC so day steps are
// never affected by DST transitions.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
