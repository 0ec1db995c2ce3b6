package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/pkg/apperrors"
)

// Grades is the closed set of grades a supervisor may record.
var Grades = []string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D", "F"}

// ValidGrade reports whether g belongs to Grades.
func ValidGrade(g string) bool {
	for _, allowed := range Grades {
		if g == allowed {
			return true
		}
	}
	return false
}

// TaskPayload carries the inputs task events need.
type TaskPayload struct {
	// Message is the response text for respond and the completion message for complete.
	Message string
	// File is an optional response file.
	File models.FileRef
	Grade    string
	Feedback string
	// At is the time the event happened.
	At time.Time
}

type taskStep func(task models.Task, payload TaskPayload) (models.Task, error)

var taskTransitions = map[models.TaskStatus]map[Event]taskStep{
	models.TaskPending: {
		EventStart: func(task models.Task, _ TaskPayload) (models.Task, error) {
			task.Status = models.TaskInProgress
			return task, nil
		},
		EventRespond: respond,
	},
	models.TaskInProgress: {
		EventRespond:  respond,
		EventComplete: complete,
	},
	models.TaskCompleted: {
		EventGrade: grade,
	},
}

// TransitionTask applies a student or supervisor event to task. Students may
// only act on tasks they own and supervisors only grade tasks they created.
// OVERDUE is never consulted: an overdue task can still be started and completed.
func TransitionTask(task models.Task, event Event, actor Actor, payload TaskPayload) (models.Task, error) {
	if err := Authorize(actor, event); err != nil {
		return task, err
	}

	switch event {
	case EventStart, EventRespond, EventComplete:
		if err := requireOwner(actor, task.StudentID, event, "student who owns the task"); err != nil {
			return task, err
		}
	case EventGrade:
		if err := requireOwner(actor, task.SupervisorID, event, "supervisor who created the task"); err != nil {
			return task, err
		}
	}

	step, ok := taskTransitions[task.Status][event]
	if !ok {
		return task, apperrors.NewInvalidTransitionError(string(task.Status), string(event))
	}

	next, err := step(cloneTask(task), payload)
	if err != nil {
		return task, err
	}
	if err := CheckTask(next); err != nil {
		return task, err
	}
	return next, nil
}

// CheckTask verifies that grades only exist on completed tasks and responses
// only on started ones.
func CheckTask(task models.Task) error {
	if task.IsGraded() && task.Status != models.TaskCompleted {
		return fmt.Errorf("%w: task %d graded in status %s", ErrInvariantViolated, task.ID, task.Status)
	}
	if task.HasResponse() && task.Status != models.TaskInProgress && task.Status != models.TaskCompleted {
		return fmt.Errorf("%w: task %d has a response in status %s", ErrInvariantViolated, task.ID, task.Status)
	}
	return nil
}

// EffectiveStatus is the status shown to readers: a task past its due date
// that has not been completed reads as OVERDUE.
func EffectiveStatus(task models.Task, now time.Time) models.TaskStatus {
	if task.Status != models.TaskCompleted && !task.DueDate.IsZero() && now.After(task.DueDate) {
		return models.TaskOverdue
	}
	return task.Status
}

func respond(task models.Task, payload TaskPayload) (models.Task, error) {
	message := strings.TrimSpace(payload.Message)
	if message == "" && payload.File.IsZero() {
		return task, apperrors.NewValidationError("response", "a response text or file is required")
	}
	if message != "" {
		task.Response = message
	}
	if !payload.File.IsZero() {
		task.ResponseFile = payload.File
	}
	task.Status = models.TaskInProgress
	return task, nil
}

func complete(task models.Task, payload TaskPayload) (models.Task, error) {
	message := strings.TrimSpace(payload.Message)
	if message == "" {
		return task, apperrors.NewValidationError("completionMessage", "a completion message is required")
	}
	task.Response = message
	if !payload.File.IsZero() {
		task.ResponseFile = payload.File
	}
	task.Status = models.TaskCompleted
	if !payload.At.IsZero() {
		at := payload.At
		task.CompletedAt = &at
	}
	return task, nil
}

func grade(task models.Task, payload TaskPayload) (models.Task, error) {
	g := strings.TrimSpace(payload.Grade)
	if g == "" {
		return task, apperrors.NewValidationError("grade", "a grade is required")
	}
	if !ValidGrade(g) {
		return task, apperrors.NewValidationError("grade", fmt.Sprintf("grade must be one of %s", strings.Join(Grades, ", ")))
	}
	task.Grade = g
	task.Feedback = strings.TrimSpace(payload.Feedback)
	if !payload.At.IsZero() {
		at := payload.At
		task.GradedAt = &at
	}
	return task, nil
}

func cloneTask(task models.Task) models.Task {
	if task.CompletedAt != nil {
		at := *task.CompletedAt
		task.CompletedAt = &at
	}
	if task.GradedAt != nil {
		at := *task.GradedAt
		task.GradedAt = &at
	}
	return task
}
