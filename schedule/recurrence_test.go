package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWeekdayIndex(t *testing.T) {
	// 2025-01-06 is a Monday.
	assert.Equal(t, 0, WeekdayIndex(date("2025-01-06")))
	assert.Equal(t, 2, WeekdayIndex(date("2025-01-08")))
	assert.Equal(t, 5, WeekdayIndex(date("2025-01-11")))
	assert.Equal(t, 6, WeekdayIndex(date("2025-01-12")))
}

func TestExpandDates_MonWedFri(t *testing.T) {
	dates := ExpandDates(date("2025-01-06"), date("2025-01-12"), []int{0, 2, 4})

	require.Len(t, dates, 3)
	assert.Equal(t, date("2025-01-06"), dates[0])
	assert.Equal(t, date("2025-01-08"), dates[1])
	assert.Equal(t, date("2025-01-10"), dates[2])
}

func TestExpandDates_CountMatchesWeekdaySet(t *testing.T) {
	start, end := date("2025-01-01"), date("2025-02-28")

	for _, weekdays := range [][]int{{0}, {1, 3}, {0, 1, 2, 3, 4, 5, 6}, {6}} {
		dates := ExpandDates(start, end, weekdays)

		want := 0
		set := make(map[int]bool)
		for _, w := range weekdays {
			set[w] = true
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if set[WeekdayIndex(d)] {
				want++
			}
		}
		assert.Len(t, dates, want)

		// Ascending order, every date in the rule's weekday set.
		for i, d := range dates {
			assert.True(t, set[WeekdayIndex(d)])
			if i > 0 {
				assert.True(t, dates[i-1].Before(d))
			}
		}
	}
}

func TestExpandDates_EmptyCases(t *testing.T) {
	assert.Empty(t, ExpandDates(date("2025-01-12"), date("2025-01-06"), []int{0, 1, 2}))
	assert.Empty(t, ExpandDates(date("2025-01-06"), date("2025-01-12"), nil))
}

func TestExpandDates_SingleDayRange(t *testing.T) {
	dates := ExpandDates(date("2025-01-06"), date("2025-01-06"), []int{0})
	require.Len(t, dates, 1)
	assert.Equal(t, date("2025-01-06"), dates[0])

	assert.Empty(t, ExpandDates(date("2025-01-06"), date("2025-01-06"), []int{1}))
}
