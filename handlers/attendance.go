package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"time"

	"muse_academy_backend/middleware"
	"muse_academy_backend/models"
	"muse_academy_backend/schedule"

	"github.com/gin-gonic/gin"
)

type AttendanceHandler struct {
	db  *sql.DB
	now func() time.Time
}

func NewAttendanceHandler(db *sql.DB, now func() time.Time) *AttendanceHandler {
	return &AttendanceHandler{db: db, now: now}
}

// upsertSQL writes one ledger row per (lesson, student). A re-mark overwrites
// status, note and marker in place; created_at keeps the original row's value.
const upsertSQL = `
        INSERT INTO attendances (lesson_id, student_id, status, note, marked_by, created_at)
        VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
        ON CONFLICT (lesson_id, student_id) DO UPDATE
        SET status = EXCLUDED.status,
            note = EXCLUDED.note,
            marked_by = EXCLUDED.marked_by
        RETURNING id
`

func (h *AttendanceHandler) lessonExists(lessonID int) (bool, error) {
	var exists bool
	err := h.db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM lessons WHERE id = $1
        )
    `, lessonID).Scan(&exists)
	return exists, err
}

func (h *AttendanceHandler) studentExists(studentID int) (bool, error) {
	var exists bool
	err := h.db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM users WHERE id = $1
        )
    `, studentID).Scan(&exists)
	return exists, err
}

func (h *AttendanceHandler) attendanceResponse(id int) (models.AttendanceResponse, error) {
	var (
		resp      models.AttendanceResponse
		note      sql.NullString
		createdAt time.Time
	)
	err := h.db.QueryRow(`
        SELECT a.id, a.lesson_id, a.student_id, u.name, a.status, a.note, a.marked_by, a.created_at
        FROM attendances a
        JOIN users u ON u.id = a.student_id
        WHERE a.id = $1
    `, id).Scan(&resp.ID, &resp.LessonID, &resp.StudentID, &resp.StudentName,
		&resp.Status, &note, &resp.MarkedBy, &createdAt)
	if err != nil {
		return resp, err
	}
	resp.Note = note.String
	resp.CreatedAt = createdAt.Format(time.RFC3339)
	return resp, nil
}

// BulkUpsertAttendance marks attendance for a whole lesson in one
// transaction. Each record is upserted by its (lesson, student) natural key,
// so re-taking attendance corrects rows instead of duplicating them.
func (h *AttendanceHandler) BulkUpsertAttendance(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage attendance"})
		return
	}
	markedBy := c.GetInt("userID")

	var req models.BulkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// All validation happens before any write so the batch is all-or-nothing.
	exists, err := h.lessonExists(req.LessonID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify lesson"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	for _, record := range req.Records {
		exists, err := h.studentExists(record.StudentID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify student"})
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
			return
		}
	}

	tx, err := h.db.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attendance"})
		return
	}

	ids := make([]int, 0, len(req.Records))
	for _, record := range req.Records {
		var id int
		err = tx.QueryRow(upsertSQL, req.LessonID, record.StudentID, record.Status,
			record.Note, markedBy, h.now()).Scan(&id)
		if err != nil {
			tx.Rollback()
			log.Printf("Error upserting attendance: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attendance"})
			return
		}
		ids = append(ids, id)
	}

	if err = tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attendance"})
		return
	}

	records := []models.AttendanceResponse{}
	for _, id := range ids {
		resp, err := h.attendanceResponse(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance"})
			return
		}
		records = append(records, resp)
	}
	c.JSON(http.StatusCreated, records)
}

// CreateAttendance marks a single student. It shares the bulk path's
// upsert-by-natural-key semantic, so marking the same student twice updates
// the existing row.
func (h *AttendanceHandler) CreateAttendance(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage attendance"})
		return
	}
	markedBy := c.GetInt("userID")

	var req models.CreateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exists, err := h.lessonExists(req.LessonID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify lesson"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	exists, err = h.studentExists(req.StudentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify student"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	var id int
	err = h.db.QueryRow(upsertSQL, req.LessonID, req.StudentID, req.Status,
		req.Note, markedBy, h.now()).Scan(&id)
	if err != nil {
		log.Printf("Error creating attendance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save attendance"})
		return
	}

	resp, err := h.attendanceResponse(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AttendanceHandler) GetAttendances(c *gin.Context) {
	query := `
        SELECT a.id, a.lesson_id, a.student_id, u.name, a.status, a.note, a.marked_by, a.created_at
        FROM attendances a
        JOIN users u ON u.id = a.student_id
    `
	conds := ""
	params := []interface{}{}

	if lessonID := c.Query("lesson_id"); lessonID != "" {
		params = append(params, lessonID)
		conds = " WHERE a.lesson_id = $1"
	}
	if studentID := c.Query("student_id"); studentID != "" {
		params = append(params, studentID)
		if conds == "" {
			conds = " WHERE a.student_id = $1"
		} else {
			conds += " AND a.student_id = $2"
		}
	}

	rows, err := h.db.Query(query+conds+" ORDER BY a.created_at DESC, a.id DESC", params...)
	if err != nil {
		log.Printf("Error fetching attendance records: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance records"})
		return
	}
	defer rows.Close()

	records := []models.AttendanceResponse{}
	for rows.Next() {
		var (
			resp      models.AttendanceResponse
			note      sql.NullString
			createdAt time.Time
		)
		err := rows.Scan(&resp.ID, &resp.LessonID, &resp.StudentID, &resp.StudentName,
			&resp.Status, &note, &resp.MarkedBy, &createdAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan attendance"})
			return
		}
		resp.Note = note.String
		resp.CreatedAt = createdAt.Format(time.RFC3339)
		records = append(records, resp)
	}

	c.JSON(http.StatusOK, records)
}

// GetStats joins the ledger to lessons, filters by student, class and lesson
// date, and rolls the rows up per student. Students with no matching rows do
// not appear.
func (h *AttendanceHandler) GetStats(c *gin.Context) {
	query := `
        SELECT a.student_id, u.name, a.status
        FROM attendances a
        JOIN lessons l ON l.id = a.lesson_id
        JOIN users u ON u.id = a.student_id
    `
	conds := ""
	params := []interface{}{}

	addCond := func(expr string, value interface{}) {
		params = append(params, value)
		if conds == "" {
			conds = " WHERE "
		} else {
			conds += " AND "
		}
		conds += expr
	}

	if studentID := c.Query("student_id"); studentID != "" {
		addCond("a.student_id = $"+strconv.Itoa(len(params)+1), studentID)
	}
	if classID := c.Query("class_id"); classID != "" {
		addCond("l.class_id = $"+strconv.Itoa(len(params)+1), classID)
	}
	if dateFrom := c.Query("date_from"); dateFrom != "" {
		d, err := time.Parse(schedule.DateLayout, dateFrom)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_from, expected YYYY-MM-DD"})
			return
		}
		addCond("l.date >= $"+strconv.Itoa(len(params)+1), d)
	}
	if dateTo := c.Query("date_to"); dateTo != "" {
		d, err := time.Parse(schedule.DateLayout, dateTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_to, expected YYYY-MM-DD"})
			return
		}
		addCond("l.date <= $"+strconv.Itoa(len(params)+1), d)
	}

	rows, err := h.db.Query(query+conds+" ORDER BY a.id ASC", params...)
	if err != nil {
		log.Printf("Error fetching attendance stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance stats"})
		return
	}
	defer rows.Close()

	ledger := []schedule.LedgerRow{}
	for rows.Next() {
		var row schedule.LedgerRow
		if err := rows.Scan(&row.StudentID, &row.StudentName, &row.Status); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan attendance"})
			return
		}
		ledger = append(ledger, row)
	}

	c.JSON(http.StatusOK, schedule.Rollup(ledger))
}

func (h *AttendanceHandler) DeleteAttendance(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage attendance"})
		return
	}

	attendanceID := c.Param("id")

	result, err := h.db.Exec(`DELETE FROM attendances WHERE id = $1`, attendanceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete attendance"})
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify deletion"})
		return
	}
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attendance record not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Attendance record deleted successfully"})
}
