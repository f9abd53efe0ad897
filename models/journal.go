package models

import "fmt"

// JournalType distinguishes a teacher's lesson log from a student's
// retrospective.
type JournalType string

const (
	JournalTeacher JournalType = "teacher"
	JournalStudent JournalType = "student"
)

func ParseJournalType(s string) (JournalType, error) {
	switch JournalType(s) {
	case JournalTeacher:
		return JournalTeacher, nil
	case JournalStudent:
		return JournalStudent, nil
	}
	return "", fmt.Errorf("invalid journal type: %q", s)
}

type CreateJournalRequest struct {
	LessonID    int    `json:"lesson_id" binding:"required"`
	JournalType string `json:"journal_type" binding:"required,oneof=teacher student"`
	Content     string `json:"content" binding:"required"`
	Objectives  string `json:"objectives"`
	NextPlan    string `json:"next_plan"`
}

type UpdateJournalRequest struct {
	Content    *string `json:"content"`
	Objectives *string `json:"objectives"`
	NextPlan   *string `json:"next_plan"`
}

type JournalResponse struct {
	ID          int         `json:"id"`
	LessonID    int         `json:"lesson_id"`
	AuthorID    int         `json:"author_id"`
	AuthorName  string      `json:"author_name"`
	JournalType JournalType `json:"journal_type"`
	Content     string      `json:"content"`
	Objectives  string      `json:"objectives,omitempty"`
	NextPlan    string      `json:"next_plan,omitempty"`
	AIFeedback  string      `json:"ai_feedback,omitempty"`
	LessonDate  string      `json:"lesson_date"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
}
