package dto

import (
	"time"

	"github.com/yigit/internhub/internal/app/models"
)

// UserResponse represents basic user information
type UserResponse struct {
	ID            int64       `json:"id" example:"12"`
	Email         string      `json:"email" example:"amina@univ.dz"`
	FirstName     string      `json:"firstName" example:"Amina"`
	LastName      string      `json:"lastName" example:"Benali"`
	Role          models.Role `json:"role" example:"STUDENT"`
	Phone         string      `json:"phone,omitempty"`
	StudentNumber string      `json:"studentNumber,omitempty" example:"20231234"`
	University    string      `json:"university,omitempty"`
	Major         string      `json:"major,omitempty"`
	AcademicYear  string      `json:"academicYear,omitempty"`
	Department    string      `json:"department,omitempty"`
	IsActive      bool        `json:"isActive" example:"true"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// NewUserResponse converts a user model
func NewUserResponse(u *models.User) UserResponse {
	resp := UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		Phone:        u.Phone,
		University:   u.University,
		Major:        u.Major,
		AcademicYear: u.AcademicYear,
		Department:   u.Department,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
	if u.StudentNumber != nil {
		resp.StudentNumber = *u.StudentNumber
	}
	return resp
}

// UserSummary is the short form embedded in applications and tasks
type UserSummary struct {
	ID    int64  `json:"id" example:"3"`
	Name  string `json:"name" example:"Karim Haddad"`
	Email string `json:"email" example:"k.haddad@univ.dz"`
}

// NewUserSummary returns nil for a nil user
func NewUserSummary(u *models.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.FullName(), Email: u.Email}
}

// CreateSupervisorRequest is sent by an admin to add a supervisor
type CreateSupervisorRequest struct {
	FirstName  string `json:"firstName" binding:"required,notblank,max=100" example:"Karim"`
	LastName   string `json:"lastName" binding:"required,notblank,max=100" example:"Haddad"`
	Email      string `json:"email" binding:"required,email,max=255" example:"k.haddad@univ.dz"`
	Department string `json:"department" binding:"omitempty,max=200" example:"Computer Science"`
	Phone      string `json:"phone" binding:"omitempty,phone"`
}

// UpdateSupervisorRequest changes supervisor details; omitted fields stay as they are
type UpdateSupervisorRequest struct {
	FirstName  *string `json:"firstName" binding:"omitempty,notblank,max=100"`
	LastName   *string `json:"lastName" binding:"omitempty,notblank,max=100"`
	Email      *string `json:"email" binding:"omitempty,email,max=255"`
	Department *string `json:"department" binding:"omitempty,max=200"`
	IsActive   *bool   `json:"isActive"`
}

// SupervisorResponse adds the number of students assigned
type SupervisorResponse struct {
	UserResponse
	AssignedStudents int64 `json:"assignedStudents" example:"4"`
}

// UpdateProfileRequest edits the caller's own profile. Academic fields are
// accepted for students only.
type UpdateProfileRequest struct {
	FirstName    *string `json:"firstName" binding:"omitempty,notblank,max=100"`
	LastName     *string `json:"lastName" binding:"omitempty,notblank,max=100"`
	Phone        *string `json:"phone" binding:"omitempty,phone"`
	University   *string `json:"university" binding:"omitempty,max=200"`
	Major        *string `json:"major" binding:"omitempty,max=200"`
	AcademicYear *string `json:"academicYear" binding:"omitempty,max=20"`
}

// ChangePasswordRequest replaces the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,password"`
}
