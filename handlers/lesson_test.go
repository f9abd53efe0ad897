package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"muse_academy_backend/models"
	"muse_academy_backend/schedule"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLessonRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewLessonHandler(db, fixedNow)
	r.PUT("/lessons/:id/cancel", staffContext(7), h.CancelLesson)
	r.PUT("/lessons/:id/complete", staffContext(7), h.CompleteLesson)
	return r, mock
}

func expectStatusUpdate(mock sqlmock.Sqlmock, status, lessonID string, rows int64) {
	mock.ExpectExec(`UPDATE lessons SET status = \$1 WHERE id = \$2`).
		WithArgs(status, lessonID).
		WillReturnResult(sqlmock.NewResult(0, rows))
}

func expectLessonFetch(mock sqlmock.Sqlmock, lessonID, status string) {
	mock.ExpectQuery(`JOIN classes c ON c\.id = l\.class_id\s+WHERE l\.id = \$1`).
		WithArgs(lessonID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "class_id", "name", "date", "start_time", "end_time",
			"status", "lesson_type", "location", "memo", "created_at",
		}).AddRow(5, 1, "Acting Basics", fixedNow(), "10:00", "11:00",
			status, "regular", nil, nil, fixedNow()))
}

func putStatus(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPut, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Cancel and complete both overwrite the status outright: completing a
// cancelled lesson un-cancels it, the last call wins.
func TestLessonLifecycleLastCallWins(t *testing.T) {
	r, mock := newLessonRouter(t)

	expectStatusUpdate(mock, "cancelled", "5", 1)
	expectLessonFetch(mock, "5", "cancelled")

	w := putStatus(t, r, "/lessons/5/cancel")
	require.Equal(t, http.StatusOK, w.Code)

	var lesson models.LessonResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lesson))
	assert.Equal(t, schedule.LessonCancelled, lesson.Status)

	expectStatusUpdate(mock, "completed", "5", 1)
	expectLessonFetch(mock, "5", "completed")

	w = putStatus(t, r, "/lessons/5/complete")
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lesson))
	assert.Equal(t, schedule.LessonCompleted, lesson.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelLessonUnknownID(t *testing.T) {
	r, mock := newLessonRouter(t)

	expectStatusUpdate(mock, "cancelled", "99", 0)

	w := putStatus(t, r, "/lessons/99/cancel")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelLessonForbiddenForStudents(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewLessonHandler(db, fixedNow)
	r.PUT("/lessons/:id/cancel", func(c *gin.Context) {
		c.Set("userID", 3)
		c.Set("userRole", models.RoleStudent)
	}, h.CancelLesson)

	w := putStatus(t, r, "/lessons/5/cancel")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
