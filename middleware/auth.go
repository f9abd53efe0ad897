package middleware

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"muse_academy_backend/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthMiddleware validates the bearer token and loads the caller's role into
// the request context as "userID" and "userRole".
func AuthMiddleware(db *sql.DB, jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be in the format: Bearer {token}"})
			c.Abort()
			return
		}

		claims := &models.Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtSecret, nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		var roleStr string
		err = db.QueryRow(`SELECT role FROM users WHERE id = $1`, claims.UserID).Scan(&roleStr)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User no longer exists"})
			c.Abort()
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user role"})
			c.Abort()
			return
		}

		role, err := models.ParseRole(roleStr)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user role"})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userRole", role)
		c.Next()
	}
}

// CallerRole reads the role set by AuthMiddleware.
func CallerRole(c *gin.Context) models.Role {
	if v, ok := c.Get("userRole"); ok {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return models.RoleStudent
}

// TokenService handles token generation and validation.
type TokenService struct {
	DB        *sql.DB
	JWTSecret []byte
	Now       func() time.Time
}

func NewTokenService(db *sql.DB, jwtSecret []byte, now func() time.Time) *TokenService {
	return &TokenService{DB: db, JWTSecret: jwtSecret, Now: now}
}

// GenerateTokens creates a new access and refresh token pair. The refresh
// token is opaque and persisted server-side.
func (s *TokenService) GenerateTokens(userID int) (string, string, error) {
	now := s.Now()
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	accessTokenString, err := accessToken.SignedString(s.JWTSecret)
	if err != nil {
		return "", "", err
	}

	refreshToken := uuid.NewString()
	if _, err := s.DB.Exec(
		`INSERT INTO refresh_tokens (user_id, token, expires_at, created_at) VALUES ($1, $2, $3, $4)`,
		userID, refreshToken, now.Add(90*24*time.Hour), now,
	); err != nil {
		return "", "", err
	}

	return accessTokenString, refreshToken, nil
}

// ValidateRefreshToken checks if a refresh token is valid and returns the user ID.
func (s *TokenService) ValidateRefreshToken(refreshToken string) (int, error) {
	var userID int
	err := s.DB.QueryRow(
		`SELECT user_id FROM refresh_tokens WHERE token = $1 AND expires_at > $2`,
		refreshToken, s.Now(),
	).Scan(&userID)
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// InvalidateRefreshToken invalidates a refresh token.
func (s *TokenService) InvalidateRefreshToken(refreshToken string) error {
	_, err := s.DB.Exec(`DELETE FROM refresh_tokens WHERE token = $1`, refreshToken)
	return err
}

// VerifyPassword checks if a password matches the hashed version.
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// HashPassword creates a bcrypt hash of a password.
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}
