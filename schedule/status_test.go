package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLessonStatus(t *testing.T) {
	for _, s := range []string{"scheduled", "cancelled", "completed"} {
		got, err := ParseLessonStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, LessonStatus(s), got)
	}

	_, err := ParseLessonStatus("postponed")
	assert.Error(t, err)
}

func TestParseLessonType(t *testing.T) {
	for _, s := range []string{"regular", "makeup", "special"} {
		got, err := ParseLessonType(s)
		assert.NoError(t, err)
		assert.Equal(t, LessonType(s), got)
	}

	_, err := ParseLessonType("rehearsal")
	assert.Error(t, err)
}

func TestParseAttendanceStatus(t *testing.T) {
	for _, s := range []string{"present", "late", "absent", "excused"} {
		got, err := ParseAttendanceStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, AttendanceStatus(s), got)
	}

	_, err := ParseAttendanceStatus("sick")
	assert.Error(t, err)
}
