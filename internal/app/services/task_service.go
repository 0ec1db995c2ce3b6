package services

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/app/repositories"
	"github.com/yigit/internhub/internal/domain/workflow"
	"github.com/yigit/internhub/internal/pkg/apperrors"
	"github.com/yigit/internhub/internal/pkg/filestorage"
)

// TaskView is a task with its derived status and student
type TaskView struct {
	Task    *models.Task
	Status  models.TaskStatus
	Student *models.User
}

// TaskService handles task authoring and the task lifecycle
type TaskService struct {
	tasks   repositories.TaskRepository
	apps    repositories.ApplicationRepository
	users   repositories.UserRepository
	files   filestorage.FileStorage
	journal *journal
	logger  zerolog.Logger
	now     func() time.Time
}

// newTaskService creates a TaskService sharing the journal of its Services
func newTaskService(
	tasks repositories.TaskRepository,
	apps repositories.ApplicationRepository,
	users repositories.UserRepository,
	files filestorage.FileStorage,
	j *journal,
	logger zerolog.Logger,
) *TaskService {
	return &TaskService{
		tasks:   tasks,
		apps:    apps,
		users:   users,
		files:   files,
		journal: j,
		logger:  logger,
		now:     time.Now,
	}
}

// Create adds a task for a student assigned to the acting supervisor
func (s *TaskService) Create(ctx context.Context, actor workflow.Actor, studentID int64, draft workflow.TaskDraft, attachment *multipart.FileHeader) (*TaskView, error) {
	if err := workflow.Authorize(actor, workflow.EventCreateTask); err != nil {
		return nil, err
	}
	app, err := s.apps.GetByStudentID(ctx, studentID)
	if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	now := s.now()
	task, err := workflow.NewTask(actor, studentID, app, draft, now)
	if err != nil {
		return nil, err
	}

	ref, err := s.files.Save(attachment, filestorage.CategoryTasks)
	if err != nil {
		return nil, err
	}
	task.Attachment = ref

	if err := s.tasks.Create(ctx, &task); err != nil {
		_ = s.files.Delete(ref.Path)
		s.logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to create task")
		return nil, err
	}

	s.logger.Info().Int64("taskID", task.ID).Int64("studentID", studentID).Int64("supervisorID", actor.ID).Msg("Task created")
	s.journal.commit(ctx, change{
		entity:     models.EntityTask,
		id:         task.ID,
		event:      workflow.EventCreateTask,
		to:         string(task.Status),
		actor:      actor,
		title:      "New task: " + task.Title,
		message:    "Your supervisor assigned a new task due " + task.DueDate.Format("2006-01-02") + ".",
		recipients: []int64{studentID},
	})
	return s.view(ctx, &task, now), nil
}

// Update edits the details of a task the supervisor created
func (s *TaskService) Update(ctx context.Context, actor workflow.Actor, id int64, changes workflow.TaskChanges, version int64) (*TaskView, error) {
	if err := workflow.Authorize(actor, workflow.EventUpdateTask); err != nil {
		return nil, err
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkVersion("task", task.ID, task.Version, version); err != nil {
		return nil, err
	}

	now := s.now()
	next, err := workflow.EditTask(*task, actor, changes, now)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Save(ctx, &next); err != nil {
		return nil, err
	}

	s.journal.commit(ctx, change{
		entity:     models.EntityTask,
		id:         next.ID,
		event:      workflow.EventUpdateTask,
		from:       string(task.Status),
		to:         string(next.Status),
		actor:      actor,
		title:      "Task updated: " + next.Title,
		message:    "Your supervisor changed the details of a task.",
		recipients: []int64{next.StudentID},
	})
	return s.view(ctx, &next, now), nil
}

// Delete removes a task the supervisor created along with its files
func (s *TaskService) Delete(ctx context.Context, actor workflow.Actor, id int64) error {
	if err := workflow.Authorize(actor, workflow.EventDeleteTask); err != nil {
		return err
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := workflow.RemoveTask(*task, actor); err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	for _, p := range []string{task.Attachment.Path, task.ResponseFile.Path} {
		if err := s.files.Delete(p); err != nil {
			s.logger.Warn().Err(err).Str("path", p).Msg("Failed to delete task file")
		}
	}
	s.journal.commit(ctx, change{
		entity:     models.EntityTask,
		id:         id,
		event:      workflow.EventDeleteTask,
		from:       string(task.Status),
		actor:      actor,
		title:      "Task removed: " + task.Title,
		message:    "Your supervisor removed a task.",
		recipients: []int64{task.StudentID},
	})
	return nil
}

// Get returns a task the actor may see
func (s *TaskService) Get(ctx context.Context, actor workflow.Actor, id int64) (*TaskView, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case actor.Role == models.RoleAdmin:
	case actor.Role == models.RoleStudent && task.StudentID == actor.ID:
	case actor.Role == models.RoleSupervisor && task.SupervisorID == actor.ID:
	default:
		return nil, apperrors.NewUnauthorizedError("task belongs to another user")
	}
	return s.view(ctx, task, s.now()), nil
}

// List returns the actor's tasks. Status filters on the effective status, so
// OVERDUE can be asked for.
func (s *TaskService) List(ctx context.Context, actor workflow.Actor, status models.TaskStatus, studentID int64) ([]*TaskView, error) {
	var filter repositories.TaskFilter
	switch actor.Role {
	case models.RoleStudent:
		filter.StudentID = actor.ID
	case models.RoleSupervisor:
		filter.SupervisorID = actor.ID
		filter.StudentID = studentID
	case models.RoleAdmin:
		filter.StudentID = studentID
	default:
		return nil, apperrors.NewUnauthorizedError("unknown role")
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Int64("actorID", actor.ID).Msg("Failed to list tasks")
		return nil, err
	}

	now := s.now()
	students := make(map[int64]*models.User)
	out := make([]*TaskView, 0, len(tasks))
	for _, t := range tasks {
		effective := workflow.EffectiveStatus(*t, now)
		if status != "" && effective != status {
			continue
		}
		u, ok := students[t.StudentID]
		if !ok {
			u, _ = s.users.GetByID(ctx, t.StudentID)
			students[t.StudentID] = u
		}
		out = append(out, &TaskView{Task: t, Status: effective, Student: u})
	}
	return out, nil
}

// Start moves a pending task to IN_PROGRESS
func (s *TaskService) Start(ctx context.Context, actor workflow.Actor, id, version int64) (*TaskView, error) {
	return s.apply(ctx, actor, id, version, workflow.EventStart, workflow.TaskPayload{})
}

// Respond saves a draft response with an optional file
func (s *TaskService) Respond(ctx context.Context, actor workflow.Actor, id, version int64, message string, file *multipart.FileHeader) (*TaskView, error) {
	return s.withFile(ctx, actor, id, version, workflow.EventRespond, message, file)
}

// Complete finishes a task with an optional message and file
func (s *TaskService) Complete(ctx context.Context, actor workflow.Actor, id, version int64, message string, file *multipart.FileHeader) (*TaskView, error) {
	return s.withFile(ctx, actor, id, version, workflow.EventComplete, message, file)
}

// Grade records a grade and feedback on a completed task
func (s *TaskService) Grade(ctx context.Context, actor workflow.Actor, id, version int64, grade, feedback string) (*TaskView, error) {
	return s.apply(ctx, actor, id, version, workflow.EventGrade, workflow.TaskPayload{Grade: grade, Feedback: feedback})
}

func (s *TaskService) withFile(ctx context.Context, actor workflow.Actor, id, version int64, event workflow.Event, message string, file *multipart.FileHeader) (*TaskView, error) {
	if err := workflow.Authorize(actor, event); err != nil {
		return nil, err
	}
	ref, err := s.files.Save(file, filestorage.CategoryResponses)
	if err != nil {
		return nil, err
	}
	view, err := s.apply(ctx, actor, id, version, event, workflow.TaskPayload{Message: message, File: ref})
	if err != nil {
		_ = s.files.Delete(ref.Path)
		return nil, err
	}
	return view, nil
}

func (s *TaskService) apply(ctx context.Context, actor workflow.Actor, id, version int64, event workflow.Event, payload workflow.TaskPayload) (*TaskView, error) {
	if err := workflow.Authorize(actor, event); err != nil {
		return nil, err
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkVersion("task", task.ID, task.Version, version); err != nil {
		return nil, err
	}

	now := s.now()
	payload.At = now
	next, err := workflow.TransitionTask(*task, event, actor, payload)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Save(ctx, &next); err != nil {
		if !errors.Is(err, apperrors.ErrVersionConflict) {
			s.logger.Error().Err(err).Int64("taskID", id).Str("event", string(event)).Msg("Failed to save task")
		}
		return nil, err
	}

	// a replaced response file is no longer referenced
	if !payload.File.IsZero() && !task.ResponseFile.IsZero() && task.ResponseFile.Path != next.ResponseFile.Path {
		_ = s.files.Delete(task.ResponseFile.Path)
	}

	s.logger.Info().
		Int64("taskID", next.ID).
		Str("event", string(event)).
		Str("from", string(task.Status)).
		Str("to", string(next.Status)).
		Int64("actorID", actor.ID).
		Msg("Task transitioned")

	s.journal.commit(ctx, taskChange(*task, next, event, actor))
	return s.view(ctx, &next, now), nil
}

func taskChange(prev, next models.Task, event workflow.Event, actor workflow.Actor) change {
	c := change{
		entity:  models.EntityTask,
		id:      next.ID,
		event:   event,
		from:    string(prev.Status),
		to:      string(next.Status),
		actor:   actor,
		history: true,
	}
	switch event {
	case workflow.EventStart:
		c.title = "Task started: " + next.Title
		c.message = "The student started working on the task."
		c.recipients = []int64{next.SupervisorID}
	case workflow.EventRespond:
		c.title = "Task response saved: " + next.Title
		c.message = "The student saved a response."
		c.recipients = []int64{next.SupervisorID}
	case workflow.EventComplete:
		c.title = "Task completed: " + next.Title
		c.message = "The task is ready to be graded."
		c.recipients = []int64{next.SupervisorID}
	case workflow.EventGrade:
		c.title = "Task graded: " + next.Title
		c.message = "Your task received the grade " + next.Grade + "."
		c.recipients = []int64{next.StudentID}
	}
	return c
}

func (s *TaskService) view(ctx context.Context, t *models.Task, now time.Time) *TaskView {
	v := &TaskView{Task: t, Status: workflow.EffectiveStatus(*t, now)}
	if u, err := s.users.GetByID(ctx, t.StudentID); err == nil {
		v.Student = u
	}
	return v
}

// AuthorizeFile allows admins, the task's student and its author to read a
// task attachment or response file.
func (s *TaskService) AuthorizeFile(ctx context.Context, actor workflow.Actor, stored string) error {
	var filter repositories.TaskFilter
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleStudent:
		filter.StudentID = actor.ID
	case models.RoleSupervisor:
		filter.SupervisorID = actor.ID
	default:
		return apperrors.NewUnauthorizedError("unknown role")
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if t.Attachment.Path == stored || t.ResponseFile.Path == stored {
			return nil
		}
	}
	return apperrors.NewUnauthorizedError("file is not visible to this user")
}
