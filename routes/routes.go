package routes

import (
	"database/sql"
	"time"

	"muse_academy_backend/ai"
	"muse_academy_backend/handlers"
	"muse_academy_backend/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, db *sql.DB, jwtSecret []byte, feedback *ai.FeedbackService, now func() time.Time) {
	// Initialize handlers
	tokens := middleware.NewTokenService(db, jwtSecret, now)
	authHandler := handlers.NewAuthHandler(db, tokens, now)
	userHandler := handlers.NewUserHandler(db)
	classHandler := handlers.NewClassHandler(db, now)
	lessonHandler := handlers.NewLessonHandler(db, now)
	attendanceHandler := handlers.NewAttendanceHandler(db, now)
	journalHandler := handlers.NewJournalHandler(db, feedback, now)
	evaluationHandler := handlers.NewEvaluationHandler(db, feedback, now)
	noticeHandler := handlers.NewNoticeHandler(db, now)
	healthHandler := handlers.NewHealthHandler(db)

	// Public routes
	r.GET("/health", healthHandler.HealthCheck)
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(db, jwtSecret))
	{
		// User routes
		protected.GET("/users", userHandler.GetUsers)
		protected.GET("/users/:id", userHandler.GetUserByID)
		protected.GET("/userinfo", authHandler.GetUserInfo)

		// Class routes
		protected.POST("/classes", classHandler.CreateClass)
		protected.GET("/classes", classHandler.GetClasses)
		protected.GET("/classes/:id", classHandler.GetClassByID)
		protected.PUT("/classes/:id", classHandler.UpdateClass)
		protected.DELETE("/classes/:id", classHandler.DeleteClass)
		protected.POST("/classes/:id/students", classHandler.AddStudent)
		protected.DELETE("/classes/:id/students/:student_id", classHandler.RemoveStudent)

		// Lesson routes
		protected.POST("/lessons", lessonHandler.CreateLesson)
		protected.POST("/lessons/bulk", lessonHandler.CreateBulkLessons)
		protected.GET("/lessons", lessonHandler.GetLessons)
		protected.GET("/lessons/:id", lessonHandler.GetLessonByID)
		protected.PUT("/lessons/:id", lessonHandler.UpdateLesson)
		protected.PUT("/lessons/:id/cancel", lessonHandler.CancelLesson)
		protected.PUT("/lessons/:id/complete", lessonHandler.CompleteLesson)
		protected.DELETE("/lessons/:id", lessonHandler.DeleteLesson)

		// Attendance routes
		protected.POST("/attendances", attendanceHandler.CreateAttendance)
		protected.POST("/attendances/bulk", attendanceHandler.BulkUpsertAttendance)
		protected.GET("/attendances", attendanceHandler.GetAttendances)
		protected.GET("/attendances/stats", attendanceHandler.GetStats)
		protected.DELETE("/attendances/:id", attendanceHandler.DeleteAttendance)

		// Journal routes
		protected.POST("/journals", journalHandler.CreateJournal)
		protected.GET("/journals", journalHandler.GetJournals)
		protected.GET("/journals/:id", journalHandler.GetJournalByID)
		protected.PUT("/journals/:id", journalHandler.UpdateJournal)
		protected.POST("/journals/:id/ai-feedback", journalHandler.RequestAIFeedback)
		protected.DELETE("/journals/:id", journalHandler.DeleteJournal)

		// Evaluation routes
		protected.POST("/evaluations", evaluationHandler.CreateEvaluation)
		protected.GET("/evaluations", evaluationHandler.GetEvaluations)
		protected.GET("/evaluations/report/:student_id", evaluationHandler.GetStudentReport)
		protected.GET("/evaluations/:id", evaluationHandler.GetEvaluationByID)
		protected.PUT("/evaluations/:id", evaluationHandler.UpdateEvaluation)
		protected.POST("/evaluations/:id/ai-summary", evaluationHandler.GenerateAISummary)
		protected.DELETE("/evaluations/:id", evaluationHandler.DeleteEvaluation)

		// Notice routes
		protected.POST("/notices", noticeHandler.CreateNotice)
		protected.GET("/notices", noticeHandler.GetNotices)
		protected.GET("/notices/:id", noticeHandler.GetNoticeByID)
		protected.PUT("/notices/:id", noticeHandler.UpdateNotice)
		protected.DELETE("/notices/:id", noticeHandler.DeleteNotice)

		// Logout route
		protected.POST("/logout", authHandler.Logout)
	}
}
