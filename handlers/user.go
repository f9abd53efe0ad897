package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"muse_academy_backend/models"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	db *sql.DB
}

func NewUserHandler(db *sql.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetUsers lists users, optionally filtered by role.
func (h *UserHandler) GetUsers(c *gin.Context) {
	roleFilter := c.Query("role")

	query := `SELECT id, name, email, role, COALESCE(avatar, '') FROM users`
	params := []interface{}{}

	if roleFilter != "" {
		if _, err := models.ParseRole(roleFilter); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		query += " WHERE role = $1"
		params = append(params, roleFilter)
	}
	query += " ORDER BY name ASC"

	rows, err := h.db.Query(query, params...)
	if err != nil {
		log.Printf("Error fetching users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	defer rows.Close()

	users := []models.UserResponse{}
	for rows.Next() {
		var u models.UserResponse
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Avatar); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan user"})
			return
		}
		users = append(users, u)
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	userID := c.Param("id")

	var u models.UserResponse
	err := h.db.QueryRow(`
        SELECT id, name, email, role, COALESCE(avatar, '') FROM users WHERE id = $1
    `, userID).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Avatar)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, u)
}
