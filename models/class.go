package models

type CreateClassRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	TeacherID   int    `json:"teacher_id" binding:"required"`
	Schedule    string `json:"schedule" binding:"required"`
	StudentIDs  []int  `json:"student_ids"`
}

// UpdateClassRequest lists exactly the fields a class update may touch.
// A nil StudentIDs leaves the roster alone; an empty slice clears it.
type UpdateClassRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	TeacherID   *int    `json:"teacher_id"`
	Schedule    *string `json:"schedule"`
	StudentIDs  []int   `json:"student_ids"`
}

type AddStudentRequest struct {
	StudentID int `json:"student_id" binding:"required"`
}

type ClassResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TeacherID   int    `json:"teacher_id"`
	Schedule    string `json:"schedule"`
	StudentIDs  []int  `json:"student_ids"`
}
