package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRate(t *testing.T) {
	// total=4: present=2, late=1, absent=1 -> (2+1)/4 = 75.0
	assert.Equal(t, 75.0, Rate(2, 1, 4))
	assert.Equal(t, 0.0, Rate(0, 0, 0))
	assert.Equal(t, 100.0, Rate(3, 0, 3))
	// 2/3 rounds to one decimal place
	assert.Equal(t, 66.7, Rate(2, 0, 3))
}

func TestRollup(t *testing.T) {
	rows := []LedgerRow{
		{StudentID: 1, StudentName: "Jiwoo", Status: AttendancePresent},
		{StudentID: 2, StudentName: "Minseo", Status: AttendanceLate},
		{StudentID: 1, StudentName: "Jiwoo", Status: AttendanceAbsent},
		{StudentID: 1, StudentName: "Jiwoo", Status: AttendanceLate},
		{StudentID: 1, StudentName: "Jiwoo", Status: AttendancePresent},
	}

	stats := Rollup(rows)
	require.Len(t, stats, 2)

	// First-encountered order: student 1 before student 2.
	s1 := stats[0]
	assert.Equal(t, 1, s1.StudentID)
	assert.Equal(t, "Jiwoo", s1.StudentName)
	assert.Equal(t, 4, s1.Total)
	assert.Equal(t, 2, s1.Present)
	assert.Equal(t, 1, s1.Late)
	assert.Equal(t, 1, s1.Absent)
	assert.Equal(t, 0, s1.Excused)
	assert.Equal(t, 75.0, s1.Rate)

	s2 := stats[1]
	assert.Equal(t, 2, s2.StudentID)
	assert.Equal(t, 1, s2.Total)
	assert.Equal(t, 1, s2.Late)
	assert.Equal(t, 100.0, s2.Rate)
}

func TestRollup_NoRowsNoEntries(t *testing.T) {
	// A student with no matching rows simply never appears.
	stats := Rollup(nil)
	assert.Empty(t, stats)

	stats = Rollup([]LedgerRow{{StudentID: 7, StudentName: "Haeun", Status: AttendanceExcused}})
	require.Len(t, stats, 1)
	assert.Equal(t, 7, stats[0].StudentID)
	assert.Equal(t, 1, stats[0].Excused)
	assert.Equal(t, 0.0, stats[0].Rate)
}
