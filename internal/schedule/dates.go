package schedule

import "time"

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// StartOfWeek truncates t to the Monday midnight starting its ISO week.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	start := StartOfDay(t, loc)
	// Go counts Monday as 1 and Sunday as 0.
	offset := (int(start.Weekday()) + 6) % 7
	return start.AddDate(0, 0, -offset)
}

// SameDate reports whether a and b fall on the same calendar date when both
// are expressed in loc.
func SameDate(a, b time.Time, loc *time.Location) bool {
	return civilDays(StartOfDay(a, loc)) == civilDays(StartOfDay(b, loc))
}

// civilDays maps t's calendar date to a day count that is immune to DST
// transitions, so interval arithmetic never drifts by an hour.
func civilDays(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
