package workflow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/pkg/apperrors"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func taskIn(status models.TaskStatus) models.Task {
	task := models.Task{
		ID:           7,
		Title:        "Write the report",
		Status:       status,
		StudentID:    student.ID,
		SupervisorID: supervisor.ID,
		Priority:     models.PriorityHigh,
		Category:     models.CategoryReport,
		DueDate:      now.Add(48 * time.Hour),
		Version:      2,
	}
	if status == models.TaskCompleted {
		task.Response = "done"
	}
	return task
}

func TestStartPendingTask(t *testing.T) {
	next, err := TransitionTask(taskIn(models.TaskPending), EventStart, student, TaskPayload{At: now})
	require.NoError(t, err)
	assert.Equal(t, models.TaskInProgress, next.Status)
}

func TestRespondSavesDraftAndStartsTask(t *testing.T) {
	file := models.FileRef{Name: "draft.docx", Path: "responses/abc.docx"}

	next, err := TransitionTask(taskIn(models.TaskPending), EventRespond, student, TaskPayload{Message: "first draft", File: file})
	require.NoError(t, err)
	assert.Equal(t, models.TaskInProgress, next.Status)
	assert.Equal(t, "first draft", next.Response)
	assert.Equal(t, file, next.ResponseFile)

	_, err = TransitionTask(next, EventRespond, student, TaskPayload{Message: "  "})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCompleteRequiresMessage(t *testing.T) {
	task := taskIn(models.TaskInProgress)

	next, err := TransitionTask(task, EventComplete, student, TaskPayload{Message: "", At: now})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, models.TaskInProgress, next.Status)
	assert.Equal(t, task, next)
}

func TestCompleteInProgressTask(t *testing.T) {
	next, err := TransitionTask(taskIn(models.TaskInProgress), EventComplete, student, TaskPayload{Message: "finished", At: now})
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, next.Status)
	assert.Equal(t, "finished", next.Response)
	require.NotNil(t, next.CompletedAt)
	assert.Equal(t, now, *next.CompletedAt)
}

func TestCompleteByAnotherStudent(t *testing.T) {
	_, err := TransitionTask(taskIn(models.TaskInProgress), EventComplete, otherStud, TaskPayload{Message: "mine now"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestGradeByNonOwnerStudent(t *testing.T) {
	task := taskIn(models.TaskCompleted)

	next, err := TransitionTask(task, EventGrade, otherStud, TaskPayload{Grade: "A"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, task, next)
}

func TestGradeByOtherSupervisor(t *testing.T) {
	other := Actor{ID: 21, Role: models.RoleSupervisor}
	_, err := TransitionTask(taskIn(models.TaskCompleted), EventGrade, other, TaskPayload{Grade: "A"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestGradeCompletedTask(t *testing.T) {
	next, err := TransitionTask(taskIn(models.TaskCompleted), EventGrade, supervisor, TaskPayload{Grade: "B+", Feedback: "solid work", At: now})
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, next.Status)
	assert.Equal(t, "B+", next.Grade)
	assert.Equal(t, "solid work", next.Feedback)

	regraded, err := TransitionTask(next, EventGrade, supervisor, TaskPayload{Grade: "A-"})
	require.NoError(t, err)
	assert.Equal(t, "A-", regraded.Grade)
	assert.Empty(t, regraded.Feedback)
}

func TestGradeOutsideGradeSet(t *testing.T) {
	for _, g := range []string{"", "E", "a", "A++"} {
		_, err := TransitionTask(taskIn(models.TaskCompleted), EventGrade, supervisor, TaskPayload{Grade: g})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed, g)
	}
}

func TestGradeBeforeCompletionIsInvalid(t *testing.T) {
	for _, status := range []models.TaskStatus{models.TaskPending, models.TaskInProgress} {
		task := taskIn(status)
		next, err := TransitionTask(task, EventGrade, supervisor, TaskPayload{Grade: "A"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		assert.Empty(t, next.Grade)
	}
}

func TestIllegalTaskEvents(t *testing.T) {
	cases := []struct {
		status models.TaskStatus
		event  Event
	}{
		{models.TaskPending, EventComplete},
		{models.TaskInProgress, EventStart},
		{models.TaskCompleted, EventStart},
		{models.TaskCompleted, EventComplete},
		{models.TaskCompleted, EventRespond},
	}
	for _, tc := range cases {
		task := taskIn(tc.status)
		next, err := TransitionTask(task, tc.event, student, TaskPayload{Message: "x"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "%s/%s", tc.status, tc.event)
		assert.Equal(t, task, next)
	}
}

func TestOverdueIsDerivedAndDoesNotBlock(t *testing.T) {
	task := taskIn(models.TaskPending)
	task.DueDate = now.Add(-time.Hour)

	assert.Equal(t, models.TaskOverdue, EffectiveStatus(task, now))
	assert.Equal(t, models.TaskPending, task.Status)

	started, err := TransitionTask(task, EventStart, student, TaskPayload{})
	require.NoError(t, err)
	assert.Equal(t, models.TaskOverdue, EffectiveStatus(started, now))

	done, err := TransitionTask(started, EventComplete, student, TaskPayload{Message: "late but done"})
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, EffectiveStatus(done, now))
}

func TestGradeOnlyOnCompletedInvariant(t *testing.T) {
	task := taskIn(models.TaskInProgress)
	task.Grade = "A"
	assert.ErrorIs(t, CheckTask(task), ErrInvariantViolated)

	pending := taskIn(models.TaskPending)
	pending.Response = "early"
	assert.ErrorIs(t, CheckTask(pending), ErrInvariantViolated)
}

func TestNewTaskForAssignedStudent(t *testing.T) {
	app := appIn(models.ApplicationApproved)

	task, err := NewTask(supervisor, student.ID, &app, TaskDraft{Title: " Survey ", DueDate: now.Add(time.Hour)}, now)
	require.NoError(t, err)
	assert.Equal(t, "Survey", task.Title)
	assert.Equal(t, models.TaskPending, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.CategoryGeneral, task.Category)
	assert.Equal(t, supervisor.ID, task.SupervisorID)
}

func TestNewTaskOwnershipAndValidation(t *testing.T) {
	app := appIn(models.ApplicationApproved)
	draft := TaskDraft{Title: "Survey", DueDate: now.Add(time.Hour)}

	other := Actor{ID: 21, Role: models.RoleSupervisor}
	_, err := NewTask(other, student.ID, &app, draft, now)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = NewTask(admin, student.ID, &app, draft, now)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = NewTask(supervisor, 99, nil, draft, now)
	assert.ErrorIs(t, err, apperrors.ErrUnknownReference)

	pending := appIn(models.ApplicationReadyForAssignment)
	_, err = NewTask(supervisor, student.ID, &pending, draft, now)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = NewTask(supervisor, student.ID, &app, TaskDraft{Title: "Late", DueDate: now.Add(-time.Hour)}, now)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = NewTask(supervisor, student.ID, &app, TaskDraft{Title: "Odd", DueDate: now.Add(time.Hour), Priority: "SOMEDAY"}, now)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestEditAndRemoveTask(t *testing.T) {
	task := taskIn(models.TaskPending)
	title := "Renamed"
	priority := models.PriorityUrgent

	edited, err := EditTask(task, supervisor, TaskChanges{Title: &title, Priority: &priority}, now)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", edited.Title)
	assert.Equal(t, models.PriorityUrgent, edited.Priority)
	assert.Equal(t, task.Status, edited.Status)

	_, err = EditTask(taskIn(models.TaskCompleted), supervisor, TaskChanges{Title: &title}, now)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	assert.NoError(t, RemoveTask(task, supervisor))
	assert.ErrorIs(t, RemoveTask(task, Actor{ID: 21, Role: models.RoleSupervisor}), apperrors.ErrUnauthorized)
	assert.ErrorIs(t, RemoveTask(task, student), apperrors.ErrUnauthorized)
}
