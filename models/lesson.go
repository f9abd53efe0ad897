package models

import "muse_academy_backend/schedule"

type CreateLessonRequest struct {
	ClassID    int    `json:"class_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
	LessonType string `json:"lesson_type" binding:"omitempty,oneof=regular makeup special"`
	Location   string `json:"location"`
	Memo       string `json:"memo"`
}

// BulkLessonRequest is the recurrence rule expanded into concrete lessons:
// one per date in [start_date, end_date] whose weekday (0=Mon..6=Sun) is in
// the weekday set.
type BulkLessonRequest struct {
	ClassID    int    `json:"class_id" binding:"required"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Weekdays   []int  `json:"weekdays" binding:"dive,min=0,max=6"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
	LessonType string `json:"lesson_type" binding:"omitempty,oneof=regular makeup special"`
	Location   string `json:"location"`
}

// UpdateLessonRequest deliberately has no status field: lifecycle changes go
// through the cancel and complete endpoints only.
type UpdateLessonRequest struct {
	Date       *string `json:"date"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
	LessonType *string `json:"lesson_type" binding:"omitempty,oneof=regular makeup special"`
	Location   *string `json:"location"`
	Memo       *string `json:"memo"`
}

type LessonResponse struct {
	ID         int                   `json:"id"`
	ClassID    int                   `json:"class_id"`
	ClassName  string                `json:"class_name"`
	Date       string                `json:"date"`
	StartTime  string                `json:"start_time"`
	EndTime    string                `json:"end_time"`
	Status     schedule.LessonStatus `json:"status"`
	LessonType schedule.LessonType   `json:"lesson_type"`
	Location   string                `json:"location,omitempty"`
	Memo       string                `json:"memo,omitempty"`
	CreatedAt  string                `json:"created_at"`
}
