package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"muse_academy_backend/models"
	"muse_academy_backend/schedule"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staffContext stands in for AuthMiddleware in handler tests.
func staffContext(userID int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("userRole", models.RoleTeacher)
	}
}

func fixedNow() time.Time {
	return time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
}

func newAttendanceRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAttendanceHandler(db, fixedNow)
	r.POST("/attendances", staffContext(7), h.CreateAttendance)
	r.POST("/attendances/bulk", staffContext(7), h.BulkUpsertAttendance)
	return r, mock
}

const upsertPattern = `(?s)INSERT INTO attendances.*ON CONFLICT \(lesson_id, student_id\) DO UPDATE`

func expectLessonExists(mock sqlmock.Sqlmock, lessonID int, exists bool) {
	mock.ExpectQuery(`SELECT 1 FROM lessons WHERE id = \$1`).
		WithArgs(lessonID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func expectStudentExists(mock sqlmock.Sqlmock, studentID int, exists bool) {
	mock.ExpectQuery(`SELECT 1 FROM users WHERE id = \$1`).
		WithArgs(studentID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func expectAttendanceFetch(mock sqlmock.Sqlmock, id, lessonID, studentID int, name, status string) {
	mock.ExpectQuery(`FROM attendances a`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "lesson_id", "student_id", "name", "status", "note", "marked_by", "created_at",
		}).AddRow(id, lessonID, studentID, name, status, nil, 7, fixedNow()))
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Re-marking a student hits the same (lesson_id, student_id) row: the second
// batch sends the conflict-upsert for student 1 only, gets the original row id
// back, and student 2's earlier mark is left alone.
func TestBulkUpsertAttendanceRemarkOverwrites(t *testing.T) {
	r, mock := newAttendanceRouter(t)

	expectLessonExists(mock, 10, true)
	expectStudentExists(mock, 1, true)
	expectStudentExists(mock, 2, true)
	mock.ExpectBegin()
	mock.ExpectQuery(upsertPattern).
		WithArgs(10, 1, "present", "", 7, fixedNow()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectQuery(upsertPattern).
		WithArgs(10, 2, "late", "", 7, fixedNow()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(102))
	mock.ExpectCommit()
	expectAttendanceFetch(mock, 101, 10, 1, "Kim", "present")
	expectAttendanceFetch(mock, 102, 10, 2, "Lee", "late")

	w := postJSON(t, r, "/attendances/bulk", models.BulkAttendanceRequest{
		LessonID: 10,
		Records: []models.AttendanceRecordInput{
			{StudentID: 1, Status: "present"},
			{StudentID: 2, Status: "late"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var first []models.AttendanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.Len(t, first, 2)
	assert.Equal(t, 101, first[0].ID)
	assert.Equal(t, schedule.AttendancePresent, first[0].Status)

	// Second pass corrects student 1 to absent.
	expectLessonExists(mock, 10, true)
	expectStudentExists(mock, 1, true)
	mock.ExpectBegin()
	mock.ExpectQuery(upsertPattern).
		WithArgs(10, 1, "absent", "", 7, fixedNow()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
	mock.ExpectCommit()
	expectAttendanceFetch(mock, 101, 10, 1, "Kim", "absent")

	w = postJSON(t, r, "/attendances/bulk", models.BulkAttendanceRequest{
		LessonID: 10,
		Records:  []models.AttendanceRecordInput{{StudentID: 1, Status: "absent"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var second []models.AttendanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	require.Len(t, second, 1)
	assert.Equal(t, 101, second[0].ID)
	assert.Equal(t, schedule.AttendanceAbsent, second[0].Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsertAttendanceUnknownLesson(t *testing.T) {
	r, mock := newAttendanceRouter(t)

	expectLessonExists(mock, 99, false)

	w := postJSON(t, r, "/attendances/bulk", models.BulkAttendanceRequest{
		LessonID: 99,
		Records:  []models.AttendanceRecordInput{{StudentID: 1, Status: "present"}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// One unknown student fails the whole batch before any transaction opens.
func TestBulkUpsertAttendanceUnknownStudentWritesNothing(t *testing.T) {
	r, mock := newAttendanceRouter(t)

	expectLessonExists(mock, 10, true)
	expectStudentExists(mock, 1, true)
	expectStudentExists(mock, 99, false)

	w := postJSON(t, r, "/attendances/bulk", models.BulkAttendanceRequest{
		LessonID: 10,
		Records: []models.AttendanceRecordInput{
			{StudentID: 1, Status: "present"},
			{StudentID: 99, Status: "late"},
		},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The single-record endpoint goes through the same conflict-upsert, so a
// repeat mark lands on the existing row instead of inserting a duplicate.
func TestCreateAttendanceRepeatMarkSameRow(t *testing.T) {
	r, mock := newAttendanceRouter(t)

	for _, step := range []struct {
		status string
	}{{"late"}, {"excused"}} {
		expectLessonExists(mock, 10, true)
		expectStudentExists(mock, 1, true)
		mock.ExpectQuery(upsertPattern).
			WithArgs(10, 1, step.status, "", 7, fixedNow()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101))
		expectAttendanceFetch(mock, 101, 10, 1, "Kim", step.status)

		w := postJSON(t, r, "/attendances", models.CreateAttendanceRequest{
			LessonID:  10,
			StudentID: 1,
			Status:    step.status,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var resp models.AttendanceResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 101, resp.ID)
		assert.Equal(t, schedule.AttendanceStatus(step.status), resp.Status)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsertAttendanceForbiddenForStudents(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAttendanceHandler(db, fixedNow)
	r.POST("/attendances/bulk", func(c *gin.Context) {
		c.Set("userID", 3)
		c.Set("userRole", models.RoleStudent)
	}, h.BulkUpsertAttendance)

	w := postJSON(t, r, "/attendances/bulk", models.BulkAttendanceRequest{
		LessonID: 10,
		Records:  []models.AttendanceRecordInput{{StudentID: 1, Status: "present"}},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
