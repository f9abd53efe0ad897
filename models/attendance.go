package models

import "muse_academy_backend/schedule"

type CreateAttendanceRequest struct {
	LessonID  int    `json:"lesson_id" binding:"required"`
	StudentID int    `json:"student_id" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=present late absent excused"`
	Note      string `json:"note"`
}

type AttendanceRecordInput struct {
	StudentID int    `json:"student_id" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=present late absent excused"`
	Note      string `json:"note"`
}

type BulkAttendanceRequest struct {
	LessonID int                     `json:"lesson_id" binding:"required"`
	Records  []AttendanceRecordInput `json:"records" binding:"required,dive"`
}

type AttendanceResponse struct {
	ID          int                       `json:"id"`
	LessonID    int                       `json:"lesson_id"`
	StudentID   int                       `json:"student_id"`
	StudentName string                    `json:"student_name"`
	Status      schedule.AttendanceStatus `json:"status"`
	Note        string                    `json:"note,omitempty"`
	MarkedBy    int                       `json:"marked_by"`
	CreatedAt   string                    `json:"created_at"`
}
