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

type LessonHandler struct {
	db  *sql.DB
	now func() time.Time
}

func NewLessonHandler(db *sql.DB, now func() time.Time) *LessonHandler {
	return &LessonHandler{db: db, now: now}
}

func scanLesson(row interface {
	Scan(dest ...interface{}) error
}) (models.LessonResponse, error) {
	var (
		lesson    models.LessonResponse
		date      time.Time
		location  sql.NullString
		memo      sql.NullString
		createdAt time.Time
	)
	err := row.Scan(
		&lesson.ID,
		&lesson.ClassID,
		&lesson.ClassName,
		&date,
		&lesson.StartTime,
		&lesson.EndTime,
		&lesson.Status,
		&lesson.LessonType,
		&location,
		&memo,
		&createdAt,
	)
	if err != nil {
		return lesson, err
	}
	lesson.Date = date.Format(schedule.DateLayout)
	lesson.Location = location.String
	lesson.Memo = memo.String
	lesson.CreatedAt = createdAt.Format(time.RFC3339)
	return lesson, nil
}

const lessonSelect = `
        SELECT l.id, l.class_id, c.name, l.date, l.start_time, l.end_time,
               l.status, l.lesson_type, l.location, l.memo, l.created_at
        FROM lessons l
        JOIN classes c ON c.id = l.class_id
`

func (h *LessonHandler) classExists(classID int) (bool, error) {
	var exists bool
	err := h.db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM classes WHERE id = $1
        )
    `, classID).Scan(&exists)
	return exists, err
}

func (h *LessonHandler) CreateLesson(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage lessons"})
		return
	}

	var req models.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse(schedule.DateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	lessonType := schedule.LessonRegular
	if req.LessonType != "" {
		lessonType, err = schedule.ParseLessonType(req.LessonType)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	exists, err := h.classExists(req.ClassID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify class"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}

	var lessonID int
	err = h.db.QueryRow(`
        INSERT INTO lessons (class_id, date, start_time, end_time, status, lesson_type, location, memo, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''), $9)
        RETURNING id
    `, req.ClassID, date, req.StartTime, req.EndTime, string(schedule.LessonScheduled),
		string(lessonType), req.Location, req.Memo, h.now()).Scan(&lessonID)
	if err != nil {
		log.Printf("Error creating lesson: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lesson"})
		return
	}

	lesson, err := scanLesson(h.db.QueryRow(lessonSelect+` WHERE l.id = $1`, lessonID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lesson"})
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

// CreateBulkLessons expands a weekday recurrence rule over a closed date
// range into scheduled lessons. The whole expansion commits in one
// transaction; an unknown class rejects the request before any write.
func (h *LessonHandler) CreateBulkLessons(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage lessons"})
		return
	}

	var req models.BulkLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startDate, err := time.Parse(schedule.DateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected YYYY-MM-DD"})
		return
	}
	endDate, err := time.Parse(schedule.DateLayout, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, expected YYYY-MM-DD"})
		return
	}

	lessonType := schedule.LessonRegular
	if req.LessonType != "" {
		lessonType, err = schedule.ParseLessonType(req.LessonType)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	exists, err := h.classExists(req.ClassID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify class"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}

	// An inverted range or empty weekday set expands to nothing; that is a
	// valid request, not an error.
	dates := schedule.ExpandDates(startDate, endDate, req.Weekdays)

	tx, err := h.db.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lessons"})
		return
	}

	ids := make([]int, 0, len(dates))
	for _, date := range dates {
		var lessonID int
		err = tx.QueryRow(`
            INSERT INTO lessons (class_id, date, start_time, end_time, status, lesson_type, location, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
            RETURNING id
        `, req.ClassID, date, req.StartTime, req.EndTime, string(schedule.LessonScheduled),
			string(lessonType), req.Location, h.now()).Scan(&lessonID)
		if err != nil {
			tx.Rollback()
			log.Printf("Error creating bulk lessons: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lessons"})
			return
		}
		ids = append(ids, lessonID)
	}

	if err = tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lessons"})
		return
	}

	lessons := []models.LessonResponse{}
	for _, id := range ids {
		lesson, err := scanLesson(h.db.QueryRow(lessonSelect+` WHERE l.id = $1`, id))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lessons"})
			return
		}
		lessons = append(lessons, lesson)
	}
	c.JSON(http.StatusCreated, lessons)
}

func (h *LessonHandler) GetLessons(c *gin.Context) {
	query := lessonSelect
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
	if status := c.Query("status"); status != "" {
		s, err := schedule.ParseLessonStatus(status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		addCond("l.status = $"+strconv.Itoa(len(params)+1), string(s))
	}

	rows, err := h.db.Query(query+conds+" ORDER BY l.date ASC, l.start_time ASC", params...)
	if err != nil {
		log.Printf("Error fetching lessons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lessons"})
		return
	}
	defer rows.Close()

	lessons := []models.LessonResponse{}
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan lesson"})
			return
		}
		lessons = append(lessons, lesson)
	}

	c.JSON(http.StatusOK, lessons)
}

func (h *LessonHandler) GetLessonByID(c *gin.Context) {
	lesson, err := scanLesson(h.db.QueryRow(lessonSelect+` WHERE l.id = $1`, c.Param("id")))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lesson"})
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage lessons"})
		return
	}

	lessonID := c.Param("id")

	var req models.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var date *time.Time
	if req.Date != nil {
		d, err := time.Parse(schedule.DateLayout, *req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		date = &d
	}

	// Status is deliberately absent here: the lifecycle moves only through
	// the cancel and complete endpoints.
	result, err := h.db.Exec(`
        UPDATE lessons SET
            date = COALESCE($1, date),
            start_time = COALESCE($2, start_time),
            end_time = COALESCE($3, end_time),
            lesson_type = COALESCE($4, lesson_type),
            location = COALESCE($5, location),
            memo = COALESCE($6, memo)
        WHERE id = $7
    `, date, req.StartTime, req.EndTime, req.LessonType, req.Location, req.Memo, lessonID)
	if err != nil {
		log.Printf("Error updating lesson: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lesson"})
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lesson"})
		return
	}
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	lesson, err := scanLesson(h.db.QueryRow(lessonSelect+` WHERE l.id = $1`, lessonID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lesson"})
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// setStatus overwrites the lesson status unconditionally: the last lifecycle
// call wins, even on an already-terminal lesson.
func (h *LessonHandler) setStatus(c *gin.Context, status schedule.LessonStatus) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage lessons"})
		return
	}

	lessonID := c.Param("id")

	result, err := h.db.Exec(`UPDATE lessons SET status = $1 WHERE id = $2`, string(status), lessonID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lesson status"})
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lesson status"})
		return
	}
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	lesson, err := scanLesson(h.db.QueryRow(lessonSelect+` WHERE l.id = $1`, lessonID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lesson"})
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (h *LessonHandler) CancelLesson(c *gin.Context) {
	h.setStatus(c, schedule.LessonCancelled)
}

func (h *LessonHandler) CompleteLesson(c *gin.Context) {
	h.setStatus(c, schedule.LessonCompleted)
}

// DeleteLesson removes a lesson together with its attendance records and
// journals in one transaction; the store does not cascade.
func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage lessons"})
		return
	}

	lessonID := c.Param("id")

	var exists bool
	err := h.db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM lessons WHERE id = $1
        )
    `, lessonID).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify lesson"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete lesson"})
		return
	}
	if _, err = tx.Exec(`DELETE FROM attendances WHERE lesson_id = $1`, lessonID); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete attendance records"})
		return
	}
	if _, err = tx.Exec(`DELETE FROM lesson_journals WHERE lesson_id = $1`, lessonID); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete journals"})
		return
	}
	if _, err = tx.Exec(`DELETE FROM lessons WHERE id = $1`, lessonID); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete lesson"})
		return
	}
	if err = tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete lesson"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lesson deleted successfully"})
}
