package models

import "fmt"

// Role is the closed set of user roles. Mutating scheduling and attendance
// operations require teacher or director.
type Role string

const (
	RoleStudent  Role = "student"
	RoleTeacher  Role = "teacher"
	RoleDirector Role = "director"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleTeacher:
		return RoleTeacher, nil
	case RoleDirector:
		return RoleDirector, nil
	}
	return "", fmt.Errorf("invalid role: %q", s)
}

// IsStaff reports whether the role may manage lessons, attendance and
// evaluations.
func (r Role) IsStaff() bool {
	switch r {
	case RoleTeacher, RoleDirector:
		return true
	case RoleStudent:
		return false
	}
	return false
}

type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	Avatar       string `json:"avatar,omitempty"`
	PasswordHash string `json:"-"`
}

type UserResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}
