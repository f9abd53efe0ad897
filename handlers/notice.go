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

type NoticeHandler struct {
	db  *sql.DB
	now func() time.Time
}

func NewNoticeHandler(db *sql.DB, now func() time.Time) *NoticeHandler {
	return &NoticeHandler{db: db, now: now}
}

const noticeSelect = `
        SELECT n.id, n.author_id, u.name, n.title, n.content, n.pinned, n.created_at
        FROM notices n
        JOIN users u ON u.id = n.author_id
`

func scanNotice(row interface {
	Scan(dest ...interface{}) error
}) (models.NoticeResponse, error) {
	var (
		resp      models.NoticeResponse
		createdAt time.Time
	)
	err := row.Scan(&resp.ID, &resp.AuthorID, &resp.AuthorName,
		&resp.Title, &resp.Content, &resp.Pinned, &createdAt)
	if err != nil {
		return resp, err
	}
	resp.CreatedAt = createdAt.Format(time.RFC3339)
	return resp, nil
}

func (h *NoticeHandler) CreateNotice(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage notices"})
		return
	}

	var req models.CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var noticeID int
	err := h.db.QueryRow(`
        INSERT INTO notices (author_id, title, content, pinned, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id
    `, c.GetInt("userID"), req.Title, req.Content, req.Pinned, h.now()).Scan(&noticeID)
	if err != nil {
		log.Printf("Error creating notice: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notice"})
		return
	}

	notice, err := scanNotice(h.db.QueryRow(noticeSelect+` WHERE n.id = $1`, noticeID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notice"})
		return
	}
	c.JSON(http.StatusCreated, notice)
}

func (h *NoticeHandler) GetNotices(c *gin.Context) {
	rows, err := h.db.Query(noticeSelect + " ORDER BY n.pinned DESC, n.created_at DESC, n.id DESC")
	if err != nil {
		log.Printf("Error fetching notices: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notices"})
		return
	}
	defer rows.Close()

	notices := []models.NoticeResponse{}
	for rows.Next() {
		notice, err := scanNotice(rows)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan notice"})
			return
		}
		notices = append(notices, notice)
	}

	c.JSON(http.StatusOK, notices)
}

func (h *NoticeHandler) GetNoticeByID(c *gin.Context) {
	notice, err := scanNotice(h.db.QueryRow(noticeSelect+` WHERE n.id = $1`, c.Param("id")))
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notice not found"})
		return
	}
	if err != nil {
		log.Printf("Error fetching notice: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notice"})
		return
	}
	c.JSON(http.StatusOK, notice)
}

func (h *NoticeHandler) UpdateNotice(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage notices"})
		return
	}

	noticeID := c.Param("id")

	var req models.UpdateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.db.Exec(`
        UPDATE notices SET
            title = COALESCE($1, title),
            content = COALESCE($2, content),
            pinned = COALESCE($3, pinned)
        WHERE id = $4
    `, req.Title, req.Content, req.Pinned, noticeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notice"})
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notice"})
		return
	}
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notice not found"})
		return
	}

	notice, err := scanNotice(h.db.QueryRow(noticeSelect+` WHERE n.id = $1`, noticeID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notice"})
		return
	}
	c.JSON(http.StatusOK, notice)
}

func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	if !middleware.CallerRole(c).IsStaff() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only teachers and directors can manage notices"})
		return
	}

	result, err := h.db.Exec(`DELETE FROM notices WHERE id = $1`, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notice"})
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify deletion"})
		return
	}
	if rowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notice not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notice deleted successfully"})
}
