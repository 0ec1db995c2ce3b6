package dto

import (
	"mime/multipart"
	"time"

	"github.com/yigit/internhub/internal/app/models"
)

// CreateTaskRequest is the multipart form a supervisor posts to create a task
type CreateTaskRequest struct {
	StudentID   int64                 `form:"studentId" binding:"required,min=1" example:"12"`
	Title       string                `form:"title" binding:"required,notblank,max=200" example:"Literature review"`
	Description string                `form:"description" binding:"omitempty,max=5000"`
	DueDate     string                `form:"dueDate" binding:"required" example:"2025-06-01"`
	Priority    string                `form:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT" example:"MEDIUM"`
	Category    string                `form:"category" binding:"omitempty,oneof=general research documentation presentation coding analysis report" example:"research"`
	Attachment  *multipart.FileHeader `form:"attachment" swaggerignore:"true"`
}

// UpdateTaskRequest edits task details; omitted fields stay as they are
type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,notblank,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	DueDate     *string `json:"dueDate" example:"2025-06-15"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Category    *string `json:"category" binding:"omitempty,oneof=general research documentation presentation coding analysis report"`
}

// RespondTaskRequest saves a draft response
type RespondTaskRequest struct {
	Response string                `form:"response" binding:"omitempty,max=10000"`
	File     *multipart.FileHeader `form:"responseFile" swaggerignore:"true"`
}

// CompleteTaskRequest finishes a task
type CompleteTaskRequest struct {
	CompletionMessage string                `form:"completionMessage" binding:"omitempty,max=10000"`
	File              *multipart.FileHeader `form:"responseFile" swaggerignore:"true"`
}

// GradeTaskRequest grades a completed task
type GradeTaskRequest struct {
	Grade    string `json:"grade" binding:"required,oneof=A+ A A- B+ B B- C+ C C- D F" example:"A-"`
	Feedback string `json:"feedback" binding:"omitempty,max=5000"`
}

// TaskResponse shows a task with its effective status
type TaskResponse struct {
	ID           int64               `json:"id" example:"1"`
	Title        string              `json:"title" example:"Literature review"`
	Description  string              `json:"description"`
	DueDate      time.Time           `json:"dueDate"`
	Priority     models.TaskPriority `json:"priority" example:"MEDIUM"`
	Category     models.TaskCategory `json:"category" example:"research"`
	Status       models.TaskStatus   `json:"status" example:"OVERDUE"`
	StudentID    int64               `json:"studentId" example:"12"`
	SupervisorID int64               `json:"supervisorId" example:"3"`
	Student      *UserSummary        `json:"student,omitempty"`
	Attachment   *FileResponse       `json:"attachment,omitempty"`
	Response     string              `json:"response,omitempty"`
	ResponseFile *FileResponse       `json:"responseFile,omitempty"`
	Grade        string              `json:"grade,omitempty" example:"A-"`
	Feedback     string              `json:"feedback,omitempty"`
	CompletedAt  *time.Time          `json:"completedAt,omitempty"`
	GradedAt     *time.Time          `json:"gradedAt,omitempty"`
	Version      int64               `json:"version" example:"3"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// NewTaskResponse converts a task; status is the effective status computed by the caller
func NewTaskResponse(t *models.Task, status models.TaskStatus, student *models.User, url URLFunc) TaskResponse {
	return TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		DueDate:      t.DueDate,
		Priority:     t.Priority,
		Category:     t.Category,
		Status:       status,
		StudentID:    t.StudentID,
		SupervisorID: t.SupervisorID,
		Student:      NewUserSummary(student),
		Attachment:   NewFileResponse(t.Attachment, url),
		Response:     t.Response,
		ResponseFile: NewFileResponse(t.ResponseFile, url),
		Grade:        t.Grade,
		Feedback:     t.Feedback,
		CompletedAt:  t.CompletedAt,
		GradedAt:     t.GradedAt,
		Version:      t.Version,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
