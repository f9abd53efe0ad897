package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"time"

	"muse_academy_backend/ai"
	"muse_academy_backend/middleware"
	"muse_academy_backend/models"
	"muse_academy_backend/schedule"

	"github.com/gin-gonic/gin"
)

type JournalHandler struct {
	db       *sql.DB
	feedback *ai.FeedbackService
	now      func() time.Time
}

func NewJournalHandler(db *sql.DB, feedback *ai.FeedbackService, now func() time.Time) *JournalHandler {
	return &JournalHandler{db: db, feedback: feedback, now: now}
}

const journalSelect = `
        SELECT j.id, j.lesson_id, j.author_id, u.name, j.journal_type, j.content,
               j.objectives, j.next_plan, j.ai_feedback, l.date, j.created_at, j.updated_at
        FROM lesson_journals j
        JOIN users u ON u.id = j.author_id
        JOIN lessons l ON l.id = j.lesson_id
`

func scanJournal(row interface {
	Scan(dest ...interface{}) error
}) (models.JournalResponse, error) {
	var (
		resp       models.JournalResponse
		objectives sql.NullString
		nextPlan   sql.NullString
		aiFeedback sql.NullString
		lessonDate time.Time
		createdAt  time.Time
		updatedAt  time.Time
	)
	err := row.Scan(&resp.ID, &resp.LessonID, &resp.AuthorID, &resp.AuthorName,
		&resp.JournalType, &resp.Content, &objectives, &nextPlan, &aiFeedback,
		&lessonDate, &createdAt, &updatedAt)
	if err != nil {
		return resp, err
	}
	resp.Objectives = objectives.String
	resp.NextPlan = nextPlan.String
	resp.AIFeedback = aiFeedback.String
	resp.LessonDate = lessonDate.Format(schedule.DateLayout)
	resp.CreatedAt = createdAt.Format(time.RFC3339)
	resp.UpdatedAt = updatedAt.Format(time.RFC3339)
	return resp, nil
}

// canEditJournal allows the author, teachers and directors.
func canEditJournal(c *gin.Context, authorID int) bool {
	return c.GetInt("userID") == authorID || middleware.CallerRole(c).IsStaff()
}

func (h *JournalHandler) CreateJournal(c *gin.Context) {
	var req models.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var lessonExists bool
	err := h.db.QueryRow(`
        SELECT EXISTS (
            SELECT 1 FROM lessons WHERE id = $1
        )
    `, req.LessonID).Scan(&lessonExists)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify lesson"})
		return
	}
	if !lessonExists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	now := h.now()
	var journalID int
	err = h.db.QueryRow(`
        INSERT INTO lesson_journals (lesson_id, author_id, journal_type, content, objectives, next_plan, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $7)
        RETURNING id
    `, req.LessonID, c.GetInt("userID"), req.JournalType, req.Content,
		req.Objectives, req.NextPlan, now).Scan(&journalID)
	if err != nil {
		log.Printf("Error creating journal: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create journal"})
		return
	}

	journal, err := scanJournal(h.db.QueryRow(journalSelect+` WHERE j.id = $1`, journalID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journal"})
		return
	}
	c.JSON(http.StatusCreated, journal)
}

func (h *JournalHandler) GetJournals(c *gin.Context) {
	query := journalSelect
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

	if lessonID := c.Query("lesson_id"); lessonID != "" {
		addCond("j.lesson_id = $"+strconv.Itoa(len(params)+1), lessonID)
	}
	if authorID := c.Query("author_id"); authorID != "" {
		addCond("j.author_id = $"+strconv.Itoa(len(params)+1), authorID)
	}
	if journalType := c.Query("journal_type"); journalType != "" {
		if _, err := models.ParseJournalType(journalType); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		addCond("j.journal_type = $"+strconv.Itoa(len(params)+1), journalType)
	}

	rows, err := h.db.Query(query+conds+" ORDER BY j.created_at DESC, j.id DESC", params...)
	if err != nil {
		log.Printf("Error fetching journals: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journals"})
		return
	}
	defer rows.Close()

	journals := []models.JournalResponse{}
	for rows.Next() {
		journal, err := scanJournal(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan journal"})
			return
		}
		journals = append(journals, journal)
	}

	c.JSON(http.StatusOK, journals)
}

func (h *JournalHandler) GetJournalByID(c *gin.Context) {
	journal, err := scanJournal(h.db.QueryRow(journalSelect+` WHERE j.id = $1`, c.Param("id")))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journal"})
		return
	}
	c.JSON(http.StatusOK, journal)
}

func (h *JournalHandler) UpdateJournal(c *gin.Context) {
	journalID := c.Param("id")

	var req models.UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var authorID int
	err := h.db.QueryRow(`SELECT author_id FROM lesson_journals WHERE id = $1`, journalID).Scan(&authorID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journal"})
		return
	}

	if !canEditJournal(c, authorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author, teachers and directors can edit this journal"})
		return
	}

	_, err = h.db.Exec(`
        UPDATE lesson_journals SET
            content = COALESCE($1, content),
            objectives = COALESCE($2, objectives),
            next_plan = COALESCE($3, next_plan),
            updated_at = $4
        WHERE id = $5
    `, req.Content, req.Objectives, req.NextPlan, h.now(), journalID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update journal"})
		return
	}

	journal, err := scanJournal(h.db.QueryRow(journalSelect+` WHERE j.id = $1`, journalID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journal"})
		return
	}
	c.JSON(http.StatusOK, journal)
}

// RequestAIFeedback generates feedback for the journal and stores it on the
// row. A collaborator failure still answers 200 with the fallback text.
func (h *JournalHandler) RequestAIFeedback(c *gin.Context) {
	journalID := c.Param("id")

	var content string
	var journalType models.JournalType
	err := h.db.QueryRow(`
        SELECT content, journal_type FROM lesson_journals WHERE id = $1
    `, journalID).Scan(&content, &journalType)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journal"})
		return
	}

	feedback := h.feedback.JournalFeedback(content, string(journalType))

	_, err = h.db.Exec(`
        UPDATE lesson_journals SET ai_feedback = $1, updated_at = $2 WHERE id = $3
    `, feedback, h.now(), journalID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ai_feedback": feedback})
}

func (h *JournalHandler) DeleteJournal(c *gin.Context) {
	journalID := c.Param("id")

	var authorID int
	err := h.db.QueryRow(`SELECT author_id FROM lesson_journals WHERE id = $1`, journalID).Scan(&authorID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch journal"})
		return
	}

	if !canEditJournal(c, authorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author, teachers and directors can delete this journal"})
		return
	}

	if _, err = h.db.Exec(`DELETE FROM lesson_journals WHERE id = $1`, journalID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete journal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Journal deleted successfully"})
}
