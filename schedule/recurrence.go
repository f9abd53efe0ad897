package schedule

import "time"

// DateLayout is the wire format for lesson dates.
const DateLayout = "2006-01-02"

// WeekdayIndex maps a date to the 0=Monday..6=Sunday convention used by
// recurrence rules. Go's time.Weekday has Sunday=0, so shift by one week day.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ExpandDates returns every date in the closed range [start, end] whose
// weekday index is in weekdays, in ascending order. An empty weekday set or
// start after end yields an empty slice, not an error.
func ExpandDates(start, end time.Time, weekdays []int) []time.Time {
	want := make(map[int]bool, len(weekdays))
	for _, w := range weekdays {
		want[w] = true
	}

	dates := []time.Time{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if want[WeekdayIndex(d)] {
			dates = append(dates, d)
		}
	}
	return dates
}
