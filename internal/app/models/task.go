package models

import "time"

// TaskStatus is the stored lifecycle state of a task. TaskOverdue is never
// stored; it is derived when a task is read after its due date.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskOverdue    TaskStatus = "OVERDUE"
)

// TaskPriority defines how urgent a task is
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// TaskCategory groups tasks by the kind of work expected
type TaskCategory string

const (
	CategoryGeneral       TaskCategory = "general"
	CategoryResearch      TaskCategory = "research"
	CategoryDocumentation TaskCategory = "documentation"
	CategoryPresentation  TaskCategory = "presentation"
	CategoryCoding        TaskCategory = "coding"
	CategoryAnalysis      TaskCategory = "analysis"
	CategoryReport        TaskCategory = "report"
)

// Valid reports whether c is a known category.
func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryResearch, CategoryDocumentation, CategoryPresentation,
		CategoryCoding, CategoryAnalysis, CategoryReport:
		return true
	}
	return false
}

// Task is a unit of work a supervisor assigns to one student.
type Task struct {
	ID           int64        `json:"id" db:"id" gorm:"primaryKey" example:"1"`
	Title        string       `json:"title" db:"title" gorm:"not null" example:"Literature review"`
	Description  string       `json:"description" db:"description"`
	DueDate      time.Time    `json:"dueDate" db:"due_date" example:"2025-06-01T00:00:00Z"`
	Priority     TaskPriority `json:"priority" db:"priority" gorm:"type:varchar(16);not null" example:"MEDIUM"`
	Category     TaskCategory `json:"category" db:"category" gorm:"type:varchar(32);not null" example:"research"`
	Status       TaskStatus   `json:"status" db:"status" gorm:"type:varchar(16);index;not null" example:"PENDING"`
	StudentID    int64        `json:"studentId" db:"student_id" gorm:"index;not null" example:"12"`
	SupervisorID int64        `json:"supervisorId" db:"supervisor_id" gorm:"index;not null" example:"3"`
	Attachment   FileRef      `json:"attachment" db:"attachment"`
	Response     string       `json:"response,omitempty" db:"response"`
	ResponseFile FileRef      `json:"responseFile" db:"response_file"`
	Grade        string       `json:"grade,omitempty" db:"grade" example:"A-"`
	Feedback     string       `json:"feedback,omitempty" db:"feedback"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty" db:"completed_at"`
	GradedAt     *time.Time   `json:"gradedAt,omitempty" db:"graded_at"`
	Version      int64        `json:"version" db:"version" gorm:"not null;default:1" example:"1"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`
}

// HasResponse reports whether the student has submitted any response.
func (t *Task) HasResponse() bool {
	return t.Response != "" || !t.ResponseFile.IsZero()
}

// IsGraded reports whether a grade or feedback has been recorded.
func (t *Task) IsGraded() bool {
	return t.Grade != "" || t.Feedback != ""
}
