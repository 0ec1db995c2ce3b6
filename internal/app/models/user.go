package models

import (
	"strings"
	"time"
)

// User defines the user model based on the 'users' table.
// Students carry their academic profile, supervisors their department.
type User struct {
	ID            int64     `json:"id" db:"id" gorm:"primaryKey" example:"1"`
	Email         string    `json:"email" db:"email" gorm:"uniqueIndex;not null" example:"student@univ.dz"`
	Password      string    `json:"-" db:"password" gorm:"not null"`
	FirstName     string    `json:"firstName" db:"first_name" example:"Amina"`
	LastName      string    `json:"lastName" db:"last_name" example:"Benali"`
	Role          Role      `json:"role" db:"role" gorm:"type:varchar(16);index;not null" example:"STUDENT"`
	Phone         string    `json:"phone,omitempty" db:"phone"`
	StudentNumber *string   `json:"studentNumber,omitempty" db:"student_number" gorm:"uniqueIndex" example:"20231234"`
	University    string    `json:"university,omitempty" db:"university"`
	Major         string    `json:"major,omitempty" db:"major"`
	AcademicYear  string    `json:"academicYear,omitempty" db:"academic_year"`
	Department    string    `json:"department,omitempty" db:"department" example:"Computer Science"`
	IsActive      bool      `json:"isActive" db:"is_active" gorm:"not null;default:true"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
