package schedule

import "math"

// LedgerRow is one attendance record joined to its lesson, already filtered
// to the requested student/class/date window.
type LedgerRow struct {
	StudentID   int
	StudentName string
	Status      AttendanceStatus
}

// StudentStat is the per-student rollup over a set of ledger rows.
type StudentStat struct {
	StudentID   int     `json:"student_id"`
	StudentName string  `json:"student_name"`
	Total       int     `json:"total"`
	Present     int     `json:"present"`
	Late        int     `json:"late"`
	Absent      int     `json:"absent"`
	Excused     int     `json:"excused"`
	Rate        float64 `json:"rate"`
}

// Rollup groups ledger rows by student and computes counts and the attendance
// rate (present + late) / total * 100, rounded to one decimal place. Students
// appear in first-encountered row order; a student with no rows does not
// appear at all.
func Rollup(rows []LedgerRow) []StudentStat {
	index := make(map[int]int, len(rows))
	stats := []StudentStat{}

	for _, row := range rows {
		i, ok := index[row.StudentID]
		if !ok {
			i = len(stats)
			index[row.StudentID] = i
			stats = append(stats, StudentStat{
				StudentID:   row.StudentID,
				StudentName: row.StudentName,
			})
		}

		stats[i].Total++
		switch row.Status {
		case AttendancePresent:
			stats[i].Present++
		case AttendanceLate:
			stats[i].Late++
		case AttendanceAbsent:
			stats[i].Absent++
		case AttendanceExcused:
			stats[i].Excused++
		}
	}

	for i := range stats {
		stats[i].Rate = Rate(stats[i].Present, stats[i].Late, stats[i].Total)
	}
	return stats
}

// Rate computes the attendance rate percentage rounded to one decimal place.
// A zero total yields 0.
func Rate(present, late, total int) float64 {
	if total == 0 {
		return 0
	}
	rate := float64(present+late) / float64(total) * 100
	return math.Round(rate*10) / 10
}
