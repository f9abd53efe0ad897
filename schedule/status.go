package schedule

import "fmt"

// LessonStatus is the lifecycle state of a lesson. Lessons start out
// scheduled; cancelled and completed are terminal.
type LessonStatus string

const (
	LessonScheduled LessonStatus = "scheduled"
	LessonCancelled LessonStatus = "cancelled"
	LessonCompleted LessonStatus = "completed"
)

func ParseLessonStatus(s string) (LessonStatus, error) {
	switch LessonStatus(s) {
	case LessonScheduled:
		return LessonScheduled, nil
	case LessonCancelled:
		return LessonCancelled, nil
	case LessonCompleted:
		return LessonCompleted, nil
	}
	return "", fmt.Errorf("invalid lesson status: %q", s)
}

// LessonType distinguishes regular lessons from makeup and special sessions.
type LessonType string

const (
	LessonRegular LessonType = "regular"
	LessonMakeup  LessonType = "makeup"
	LessonSpecial LessonType = "special"
)

func ParseLessonType(s string) (LessonType, error) {
	switch LessonType(s) {
	case LessonRegular:
		return LessonRegular, nil
	case LessonMakeup:
		return LessonMakeup, nil
	case LessonSpecial:
		return LessonSpecial, nil
	}
	return "", fmt.Errorf("invalid lesson type: %q", s)
}

// AttendanceStatus is the per-student outcome recorded for one lesson.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceExcused AttendanceStatus = "excused"
)

func ParseAttendanceStatus(s string) (AttendanceStatus, error) {
	switch AttendanceStatus(s) {
	case AttendancePresent:
		return AttendancePresent, nil
	case AttendanceLate:
		return AttendanceLate, nil
	case AttendanceAbsent:
		return AttendanceAbsent, nil
	case AttendanceExcused:
		return AttendanceExcused, nil
	}
	return "", fmt.Errorf("invalid attendance status: %q", s)
}
