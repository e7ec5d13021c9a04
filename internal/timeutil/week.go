package timeutil

import "time"

// TruncateToDay drops the time-of-day component, keeping the location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekWindow returns the Monday 00:00:00 on or before ref (inclusive) and
// the following Monday 00:00:00 (exclusive). Sunday counts as day 7 of the
// running week, so a Sunday reference anchors to the previous Monday.
func WeekWindow(ref time.Time) (start, end time.Time) {
	isoWeekday := int(ref.Weekday())
	if isoWeekday == 0 {
		isoWeekday = 7
	}
	start = TruncateToDay(ref).AddDate(0, 0, -(isoWeekday - 1))
	end = start.AddDate(0, 0, 7)
	return start, end
}

// InWindow reports whether t falls inside [start, end).
func InWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
