package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"muse_academy_backend/ai"
	"muse_academy_backend/middleware"
	"muse_academy_backend/models"

	"github.com/gin-gonic/gin"
)

type EvaluationHandler struct {
	db       *sql.DB
	feedback *ai.FeedbackService
	now      func() time.Time
}

func NewEvaluationHandler(db *sql.DB, feedback *ai.FeedbackService, now func() time.Time) *EvaluationHandler {
	return &EvaluationHandler{db: db, feedback: feedback, now: now}
}

const evaluationSelect = `
        SELECT e.id, e.student_id, s.name, e.evaluator_id, v.name, e.class_id, c.name,
               e.period, e.acting_skill, e.expressiveness, e.teamwork, e.effort,
               e.attendance_score, e.comment, e.ai_summary, e.created_at
        FROM evaluations e
        JOIN users s ON s.id = e.student_id
        JOIN users v ON v.id = e.evaluator_id
        JOIN classes c ON c.id = e.class_id
`

func scanEvaluation(row interface {
	Scan(dest ...interface{}) error
}) (models.EvaluationResponse, error) {
	var (
		resp      models.EvaluationResponse
		comment   sql.NullString
		aiSummary sql.NullString
		createdAt time.Time
	)
	err := row.Scan(&resp.ID, &resp.StudentID, &resp.StudentName,
		&resp.EvaluatorID, &resp.EvaluatorName, &resp.ClassID, &resp.ClassName,
		&resp.Period, &resp.ActingSkill, &resp.Expressiveness, &resp.Teamwork,
		&resp.Effort, &resp.AttendanceScore, &comment, &aiSummary, &createdAt)
	if err != nil {
		return resp, err
	}
	resp.Comment = comment.String
	resp.AISummary = aiSummary.String
	resp.CreatedAt = createdAt.Format(time.RFC3339)
	return resp, nil
}

func (h *EvaluationHandler) CreateEvaluation(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage evaluations"})
		return
	}

	var req models.CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var studentExists, classExists bool
	err := h.db.QueryRow(`
        SELECT
            EXISTS (SELECT 1 FROM users WHERE id = $1),
            EXISTS (SELECT 1 FROM classes WHERE id = $2)
    `, req.StudentID, req.ClassID).Scan(&studentExists, &classExists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify references"})
		return
	}
	if !studentExists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	if !classExists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}

	var evaluationID int
	err = h.db.QueryRow(`
        INSERT INTO evaluations (student_id, evaluator_id, class_id, period, acting_skill,
                                 expressiveness, teamwork, effort, attendance_score, comment, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11)
        RETURNING id
    `, req.StudentID, c.GetInt("userID"), req.ClassID, req.Period, req.ActingSkill,
		req.Expressiveness, req.Teamwork, req.Effort, req.AttendanceScore,
		req.Comment, h.now()).Scan(&evaluationID)
	if err != nil {
		log.Printf("Error creating evaluation: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create evaluation"})
		return
	}

	eval, err := scanEvaluation(h.db.QueryRow(evaluationSelect+` WHERE e.id = $1`, evaluationID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch evaluation"})
		return
	}
	c.JSON(http.StatusCreated, eval)
}

func (h *EvaluationHandler) GetEvaluations(c *gin.Context) {
	query := evaluationSelect
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
		addCond("e.student_id = $"+strconv.Itoa(len(params)+1), studentID)
	}
	if classID := c.Query("class_id"); classID != "" {
		addCond("e.class_id = $"+strconv.Itoa(len(params)+1), classID)
	}
	if period := c.Query("period"); period != "" {
		addCond("e.period = $"+strconv.Itoa(len(params)+1), period)
	}

	rows, err := h.db.Query(query+conds+" ORDER BY e.created_at DESC, e.id DESC", params...)
	if err != nil {
		log.Printf("Error fetching evaluations: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch evaluations"})
		return
	}
	defer rows.Close()

	evals := []models.EvaluationResponse{}
	for rows.Next() {
		eval, err := scanEvaluation(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan evaluation"})
			return
		}
		evals = append(evals, eval)
	}

	c.JSON(http.StatusOK, evals)
}

func (h *EvaluationHandler) GetEvaluationByID(c *gin.Context) {
	eval, err := scanEvaluation(h.db.QueryRow(evaluationSelect+` WHERE e.id = $1`, c.Param("id")))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Evaluation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch evaluation"})
		return
	}
	c.JSON(http.StatusOK, eval)
}

func (h *EvaluationHandler) UpdateEvaluation(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage evaluations"})
		return
	}

	evaluationID := c.Param("id")

	var req models.UpdateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.db.Exec(`
        UPDATE evaluations SET
            period = COALESCE($1, period),
            acting_skill = COALESCE($2, acting_skill),
            expressiveness = COALESCE($3, expressiveness),
            teamwork = COALESCE($4, teamwork),
            effort = COALESCE($5, effort),
            attendance_score = COALESCE($6, attendance_score),
            comment = COALESCE($7, comment)
        WHERE id = $8
    `, req.Period, req.ActingSkill, req.Expressiveness, req.Teamwork,
		req.Effort, req.AttendanceScore, req.Comment, evaluationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update evaluation"})
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update evaluation"})
		return
	}
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Evaluation not found"})
		return
	}

	eval, err := scanEvaluation(h.db.QueryRow(evaluationSelect+` WHERE e.id = $1`, evaluationID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch evaluation"})
		return
	}
	c.JSON(http.StatusOK, eval)
}

// GetStudentReport collects a student's evaluations in chronological order
// and asks the AI collaborator for a growth report over them.
func (h *EvaluationHandler) GetStudentReport(c *gin.Context) {
	studentID := c.Param("student_id")

	var studentName string
	err := h.db.QueryRow(`SELECT name FROM users WHERE id = $1`, studentID).Scan(&studentName)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch student"})
		return
	}

	rows, err := h.db.Query(evaluationSelect+` WHERE e.student_id = $1 ORDER BY e.created_at ASC, e.id ASC`, studentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch evaluations"})
		return
	}
	defer rows.Close()

	evals := []models.EvaluationResponse{}
	for rows.Next() {
		eval, err := scanEvaluation(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan evaluation"})
			return
		}
		evals = append(evals, eval)
	}

	report := models.StudentReportResponse{
		StudentName: studentName,
		Evaluations: evals,
	}
	if id, err := strconv.Atoi(studentID); err == nil {
		report.StudentID = id
	}

	if len(evals) > 0 {
		type scoreRow struct {
			Period          string `json:"period"`
			Class           string `json:"class"`
			ActingSkill     int    `json:"acting_skill"`
			Expressiveness  int    `json:"expressiveness"`
			Teamwork        int    `json:"teamwork"`
			Effort          int    `json:"effort"`
			AttendanceScore int    `json:"attendance_score"`
			Comment         string `json:"comment"`
		}
		scores := make([]scoreRow, 0, len(evals))
		for _, e := range evals {
			scores = append(scores, scoreRow{
				Period:          e.Period,
				Class:           e.ClassName,
				ActingSkill:     e.ActingSkill,
				Expressiveness:  e.Expressiveness,
				Teamwork:        e.Teamwork,
				Effort:          e.Effort,
				AttendanceScore: e.AttendanceScore,
				Comment:         e.Comment,
			})
		}
		data, err := json.Marshal(scores)
		if err == nil {
			report.AIReport = h.feedback.EvaluationSummary(string(data))
		}
	}

	c.JSON(http.StatusOK, report)
}

// GenerateAISummary stores an AI summary on a single evaluation.
func (h *EvaluationHandler) GenerateAISummary(c *gin.Context) {
	evaluationID := c.Param("id")

	eval, err := scanEvaluation(h.db.QueryRow(evaluationSelect+` WHERE e.id = $1`, evaluationID))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Evaluation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch evaluation"})
		return
	}

	data, err := json.Marshal(map[string]interface{}{
		"acting_skill":     eval.ActingSkill,
		"expressiveness":   eval.Expressiveness,
		"teamwork":         eval.Teamwork,
		"effort":           eval.Effort,
		"attendance_score": eval.AttendanceScore,
		"comment":          eval.Comment,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode evaluation"})
		return
	}

	summary := h.feedback.EvaluationSummary(string(data))

	if _, err = h.db.Exec(`UPDATE evaluations SET ai_summary = $1 WHERE id = $2`, summary, evaluationID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ai_summary": summary})
}

func (h *EvaluationHandler) DeleteEvaluation(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage evaluations"})
		return
	}

	result, err := h.db.Exec(`DELETE FROM evaluations WHERE id = $1`, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete evaluation"})
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify deletion"})
		return
	}
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Evaluation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Evaluation deleted successfully"})
}
