package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/pkg/apperrors"
)

// TaskDraft holds the fields a supervisor provides when creating a task.
type TaskDraft struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    models.TaskPriority
	Category    models.TaskCategory
	Attachment  models.FileRef
}

// TaskChanges lists the fields a supervisor may edit; nil means unchanged.
type TaskChanges struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *models.TaskPriority
	Category    *models.TaskCategory
}

// NewTask builds a PENDING task for studentID. The student's application must
// be assigned to the acting supervisor. application is nil when the student
// has none.
func NewTask(actor Actor, studentID int64, application *models.Application, draft TaskDraft, now time.Time) (models.Task, error) {
	if err := Authorize(actor, EventCreateTask); err != nil {
		return models.Task{}, err
	}
	if application == nil || application.StudentID != studentID {
		return models.Task{}, apperrors.NewUnknownReferenceError("student", studentID)
	}
	if !application.AssignedTo(actor.ID) {
		return models.Task{}, apperrors.NewUnauthorizedError("student is not assigned to this supervisor")
	}

	if draft.Priority == "" {
		draft.Priority = models.PriorityMedium
	}
	if draft.Category == "" {
		draft.Category = models.CategoryGeneral
	}

	task := models.Task{
		Title:        strings.TrimSpace(draft.Title),
		Description:  strings.TrimSpace(draft.Description),
		DueDate:      draft.DueDate,
		Priority:     draft.Priority,
		Category:     draft.Category,
		Status:       models.TaskPending,
		StudentID:    studentID,
		SupervisorID: actor.ID,
		Attachment:   draft.Attachment,
		Version:      1,
	}
	if err := validateTaskFields(task); err != nil {
		return models.Task{}, err
	}
	if task.DueDate.IsZero() {
		return models.Task{}, apperrors.NewValidationError("dueDate", "a due date is required")
	}
	if task.DueDate.Before(now) {
		return models.Task{}, apperrors.NewValidationError("dueDate", "due date cannot be in the past")
	}
	return task, nil
}

// EditTask applies changes to a task its creator still owns. Completed tasks are frozen.
func EditTask(task models.Task, actor Actor, changes TaskChanges, now time.Time) (models.Task, error) {
	if err := Authorize(actor, EventUpdateTask); err != nil {
		return task, err
	}
	if err := requireOwner(actor, task.SupervisorID, EventUpdateTask, "supervisor who created the task"); err != nil {
		return task, err
	}
	if task.Status == models.TaskCompleted {
		return task, apperrors.NewInvalidTransitionError(string(task.Status), string(EventUpdateTask))
	}

	next := cloneTask(task)
	if changes.Title != nil {
		next.Title = strings.TrimSpace(*changes.Title)
	}
	if changes.Description != nil {
		next.Description = strings.TrimSpace(*changes.Description)
	}
	if changes.Priority != nil {
		next.Priority = *changes.Priority
	}
	if changes.Category != nil {
		next.Category = *changes.Category
	}
	if changes.DueDate != nil {
		if changes.DueDate.Before(now) {
			return task, apperrors.NewValidationError("dueDate", "due date cannot be in the past")
		}
		next.DueDate = *changes.DueDate
	}
	if err := validateTaskFields(next); err != nil {
		return task, err
	}
	return next, nil
}

// RemoveTask checks that actor may delete task.
func RemoveTask(task models.Task, actor Actor) error {
	if err := Authorize(actor, EventDeleteTask); err != nil {
		return err
	}
	return requireOwner(actor, task.SupervisorID, EventDeleteTask, "supervisor who created the task")
}

func validateTaskFields(task models.Task) error {
	if task.Title == "" {
		return apperrors.NewValidationError("title", "title is required")
	}
	if !task.Priority.Valid() {
		return apperrors.NewValidationError("priority", fmt.Sprintf("unknown priority %q", task.Priority))
	}
	if !task.Category.Valid() {
		return apperrors.NewValidationError("category", fmt.Sprintf("unknown category %q", task.Category))
	}
	return nil
}
