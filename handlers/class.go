package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"muse_academy_backend/middleware"
	"muse_academy_backend/models"

	"github.com/gin-gonic/gin"
)

type ClassHandler struct {
	db  *sql.DB
	now func() time.Time
}

func NewClassHandler(db *sql.DB, now func() time.Time) *ClassHandler {
	return &ClassHandler{db: db, now: now}
}

func (h *ClassHandler) studentIDs(classID int) ([]int, error) {
	rows, err := h.db.Query(`
        SELECT student_id FROM class_students WHERE class_id = $1 ORDER BY student_id
    `, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (h *ClassHandler) classResponse(classID int) (models.ClassResponse, error) {
	var resp models.ClassResponse
	err := h.db.QueryRow(`
        SELECT id, name, description, teacher_id, schedule FROM classes WHERE id = $1
    `, classID).Scan(&resp.ID, &resp.Name, &resp.Description, &resp.TeacherID, &resp.Schedule)
	if err != nil {
		return resp, err
	}
	resp.StudentIDs, err = h.studentIDs(classID)
	return resp, err
}

func (h *ClassHandler) CreateClass(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage classes"})
		return
	}

	var req models.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var teacherExists bool
	err := h.db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM users WHERE id = $1
        )
    `, req.TeacherID).Scan(&teacherExists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify teacher"})
		return
	}
	if !teacherExists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Teacher not found"})
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create class"})
		return
	}

	var classID int
	err = tx.QueryRow(`
        INSERT INTO classes (name, description, teacher_id, schedule, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, req.Name, req.Description, req.TeacherID, req.Schedule, h.now()).Scan(&classID)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create class"})
		return
	}

	for _, studentID := range req.StudentIDs {
		_, err = tx.Exec(`
            INSERT INTO class_students (class_id, student_id, created_at)
            VALUES ($1, $2, $3)
            ON CONFLICT (class_id, student_id) DO NOTHING
        `, classID, studentID, h.now())
		if err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enroll students"})
			return
		}
	}

	if err = tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create class"})
		return
	}

	resp, err := h.classResponse(classID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch class"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ClassHandler) GetClasses(c *gin.Context) {
	teacherID := c.Query("teacher_id")
	studentID := c.Query("student_id")

	query := `SELECT DISTINCT c.id FROM classes c`
	params := []interface{}{}

	if studentID != "" {
		query += ` JOIN class_students cs ON cs.class_id = c.id AND cs.student_id = $1`
		params = append(params, studentID)
	}
	if teacherID != "" {
		params = append(params, teacherID)
		if len(params) == 1 {
			query += ` WHERE c.teacher_id = $1`
		} else {
			query += ` WHERE c.teacher_id = $2`
		}
	}
	query += ` ORDER BY c.id`

	rows, err := h.db.Query(query, params...)
	if err != nil {
		log.Printf("Error fetching classes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch classes"})
		return
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan class"})
			return
		}
		ids = append(ids, id)
	}

	classes := []models.ClassResponse{}
	for _, id := range ids {
		resp, err := h.classResponse(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch class"})
			return
		}
		classes = append(classes, resp)
	}

	c.JSON(http.StatusOK, classes)
}

func (h *ClassHandler) GetClassByID(c *gin.Context) {
	classID := c.Param("id")

	var id int
	err := h.db.QueryRow(`SELECT id FROM classes WHERE id = $1`, classID).Scan(&id)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch class"})
		return
	}

	resp, err := h.classResponse(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch class"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClassHandler) UpdateClass(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage classes"})
		return
	}

	classID := c.Param("id")

	var req models.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var id int
	err := h.db.QueryRow(`SELECT id FROM classes WHERE id = $1`, classID).Scan(&id)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch class"})
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update class"})
		return
	}

	_, err = tx.Exec(`
        UPDATE classes SET
            name = COALESCE($1, name),
            description = COALESCE($2, description),
            teacher_id = COALESCE($3, teacher_id),
            schedule = COALESCE($4, schedule)
        WHERE id = $5
    `, req.Name, req.Description, req.TeacherID, req.Schedule, id)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update class"})
		return
	}

	if req.StudentIDs != nil {
		if _, err = tx.Exec(`DELETE FROM class_students WHERE class_id = $1`, id); err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update roster"})
			return
		}
		for _, studentID := range req.StudentIDs {
			_, err = tx.Exec(`
                INSERT INTO class_students (class_id, student_id, created_at)
                VALUES ($1, $2, $3)
                ON CONFLICT (class_id, student_id) DO NOTHING
            `, id, studentID, h.now())
			if err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update roster"})
				return
			}
		}
	}

	if err = tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update class"})
		return
	}

	resp, err := h.classResponse(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch class"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClassHandler) DeleteClass(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage classes"})
		return
	}

	classID := c.Param("id")

	var exists bool
	err := h.db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM classes WHERE id = $1
        )
    `, classID).Scan(&exists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify class"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}

	// Roster rows go first; the store does not cascade.
	tx, err := h.db.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete class"})
		return
	}
	if _, err = tx.Exec(`DELETE FROM class_students WHERE class_id = $1`, classID); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete roster"})
		return
	}
	if _, err = tx.Exec(`DELETE FROM classes WHERE id = $1`, classID); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete class"})
		return
	}
	if err = tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete class"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Class deleted successfully"})
}

func (h *ClassHandler) AddStudent(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage rosters"})
		return
	}

	classID := c.Param("id")

	var req models.AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var id int
	err := h.db.QueryRow(`SELECT id FROM classes WHERE id = $1`, classID).Scan(&id)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch class"})
		return
	}

	var studentExists bool
	err = h.db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM users WHERE id = $1
        )
    `, req.StudentID).Scan(&studentExists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify student"})
		return
	}
	if !studentExists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	_, err = h.db.Exec(`
        INSERT INTO class_students (class_id, student_id, created_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (class_id, student_id) DO NOTHING
    `, id, req.StudentID, h.now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enroll student"})
		return
	}

	resp, err := h.classResponse(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch class"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ClassHandler) RemoveStudent(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage rosters"})
		return
	}

	classID := c.Param("id")
	studentID := c.Param("student_id")

	var id int
	err := h.db.QueryRow(`SELECT id FROM classes WHERE id = $1`, classID).Scan(&id)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch class"})
		return
	}

	_, err = h.db.Exec(`
        DELETE FROM class_students WHERE class_id = $1 AND student_id = $2
    `, id, studentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove student"})
		return
	}

	resp, err := h.classResponse(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch class"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
