package models

type CreateEvaluationRequest struct {
	StudentID       int    `json:"student_id" binding:"required"`
	ClassID         int    `json:"class_id" binding:"required"`
	Period          string `json:"period" binding:"required"`
	ActingSkill     int    `json:"acting_skill" binding:"required,min=1,max=5"`
	Expressiveness  int    `json:"expressiveness" binding:"required,min=1,max=5"`
	Teamwork        int    `json:"teamwork" binding:"required,min=1,max=5"`
	Effort          int    `json:"effort" binding:"required,min=1,max=5"`
	AttendanceScore int    `json:"attendance_score" binding:"required,min=1,max=5"`
	Comment         string `json:"comment"`
}

type UpdateEvaluationRequest struct {
	Period          *string `json:"period"`
	ActingSkill     *int    `json:"acting_skill" binding:"omitempty,min=1,max=5"`
	Expressiveness  *int    `json:"expressiveness" binding:"omitempty,min=1,max=5"`
	Teamwork        *int    `json:"teamwork" binding:"omitempty,min=1,max=5"`
	Effort          *int    `json:"effort" binding:"omitempty,min=1,max=5"`
	AttendanceScore *int    `json:"attendance_score" binding:"omitempty,min=1,max=5"`
	Comment         *string `json:"comment"`
}

type EvaluationResponse struct {
	ID              int    `json:"id"`
	StudentID       int    `json:"student_id"`
	StudentName     string `json:"student_name"`
	EvaluatorID     int    `json:"evaluator_id"`
	EvaluatorName   string `json:"evaluator_name"`
	ClassID         int    `json:"class_id"`
	ClassName       string `json:"class_name"`
	Period          string `json:"period"`
	ActingSkill     int    `json:"acting_skill"`
	Expressiveness  int    `json:"expressiveness"`
	Teamwork        int    `json:"teamwork"`
	Effort          int    `json:"effort"`
	AttendanceScore int    `json:"attendance_score"`
	Comment         string `json:"comment,omitempty"`
	AISummary       string `json:"ai_summary,omitempty"`
	CreatedAt       string `json:"created_at"`
}

type StudentReportResponse struct {
	StudentID   int                  `json:"student_id"`
	StudentName string               `json:"student_name"`
	Evaluations []EvaluationResponse `json:"evaluations"`
	AIReport    string               `json:"ai_report,omitempty"`
}
