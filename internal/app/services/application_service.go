package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"
	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/app/repositories"
	"github.com/yigit/internhub/internal/domain/workflow"
	"github.com/yigit/internhub/internal/pkg/apperrors"
	"github.com/yigit/internhub/internal/pkg/filestorage"
)

// ApplicationView is an application with its student and supervisor loaded
type ApplicationView struct {
	Application *models.Application
	Student     *models.User
	Supervisor  *models.User
}

// ApplicationService drives the application state machine
type ApplicationService struct {
	apps        repositories.ApplicationRepository
	users       repositories.UserRepository
	transitions repositories.TransitionRepository
	files       filestorage.FileStorage
	journal     *journal
	logger      zerolog.Logger
}

// newApplicationService creates an ApplicationService sharing the journal of its Services
func newApplicationService(
	apps repositories.ApplicationRepository,
	users repositories.UserRepository,
	transitions repositories.TransitionRepository,
	files filestorage.FileStorage,
	j *journal,
	logger zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		apps:        apps,
		users:       users,
		transitions: transitions,
		files:       files,
		journal:     j,
		logger:      logger,
	}
}

// Get returns an application the actor may see: admins see all, students
// their own and supervisors the ones assigned to them.
func (s *ApplicationService) Get(ctx context.Context, actor workflow.Actor, id int64) (*ApplicationView, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleStudent:
		if app.StudentID != actor.ID {
			return nil, apperrors.NewUnauthorizedError("students may only read their own application")
		}
	case models.RoleSupervisor:
		if !app.AssignedTo(actor.ID) {
			return nil, apperrors.NewUnauthorizedError("application is not assigned to this supervisor")
		}
	default:
		return nil, apperrors.NewUnauthorizedError("unknown role")
	}
	return s.view(ctx, app), nil
}

// GetByStudent returns the student's own application
func (s *ApplicationService) GetByStudent(ctx context.Context, studentID int64) (*ApplicationView, error) {
	app, err := s.apps.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, app), nil
}

// List returns a page of applications with their people
func (s *ApplicationService) List(ctx context.Context, filter repositories.ApplicationFilter) ([]*ApplicationView, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", filter.Status))
	}
	apps, total, err := s.apps.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list applications")
		return nil, 0, fmt.Errorf("failed to list applications: %w", err)
	}

	out := make([]*ApplicationView, 0, len(apps))
	for _, app := range apps {
		out = append(out, s.view(ctx, app))
	}
	return out, total, nil
}

// ListForSupervisor returns the students assigned to supervisorID
func (s *ApplicationService) ListForSupervisor(ctx context.Context, supervisorID int64) ([]*ApplicationView, error) {
	views, _, err := s.List(ctx, repositories.ApplicationFilter{
		Status:       models.ApplicationApproved,
		SupervisorID: supervisorID,
	})
	return views, err
}

// History returns the transitions applied to an application, oldest first
func (s *ApplicationService) History(ctx context.Context, id int64) ([]*models.Transition, error) {
	if _, err := s.apps.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.transitions.ListByEntity(ctx, models.EntityApplication, id)
}

// Approve moves a pending application to documents_pending
func (s *ApplicationService) Approve(ctx context.Context, actor workflow.Actor, id, version int64) (*ApplicationView, error) {
	return s.apply(ctx, actor, id, version, workflow.EventApprove, workflow.ApplicationPayload{})
}

// Reject closes a pending application
func (s *ApplicationService) Reject(ctx context.Context, actor workflow.Actor, id, version int64) (*ApplicationView, error) {
	return s.apply(ctx, actor, id, version, workflow.EventReject, workflow.ApplicationPayload{})
}

// Assign attaches a supervisor to an application ready for assignment
func (s *ApplicationService) Assign(ctx context.Context, actor workflow.Actor, id, supervisorID, version int64) (*ApplicationView, error) {
	return s.withSupervisor(ctx, actor, id, supervisorID, version, workflow.EventAssign)
}

// Reassign replaces the supervisor of an approved application
func (s *ApplicationService) Reassign(ctx context.Context, actor workflow.Actor, id, supervisorID, version int64) (*ApplicationView, error) {
	return s.withSupervisor(ctx, actor, id, supervisorID, version, workflow.EventReassign)
}

func (s *ApplicationService) withSupervisor(ctx context.Context, actor workflow.Actor, id, supervisorID, version int64, event workflow.Event) (*ApplicationView, error) {
	if err := workflow.Authorize(actor, event); err != nil {
		return nil, err
	}
	payload := workflow.ApplicationPayload{SupervisorID: supervisorID}
	sup, err := s.users.GetByID(ctx, supervisorID)
	switch {
	case err == nil && sup.IsActive:
		payload.Supervisor = sup
	case err != nil && !errors.Is(err, apperrors.ErrUserNotFound):
		return nil, err
	}
	return s.apply(ctx, actor, id, version, event, payload)
}

// SubmitDocuments stores the uploaded files and submits them for the
// student's application. Files saved for a rejected request are removed.
func (s *ApplicationService) SubmitDocuments(ctx context.Context, actor workflow.Actor, uploads map[models.DocumentKind]*multipart.FileHeader, version int64) (*ApplicationView, error) {
	if err := workflow.Authorize(actor, workflow.EventSubmitDocuments); err != nil {
		return nil, err
	}
	app, err := s.apps.GetByStudentID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationDocumentsPending {
		return nil, apperrors.NewInvalidTransitionError(string(app.Status), string(workflow.EventSubmitDocuments))
	}

	docs := make(models.Documents, len(uploads))
	var saved []string
	cleanup := func() {
		for _, p := range saved {
			_ = s.files.Delete(p)
		}
	}
	for kind, fh := range uploads {
		if !kind.Valid() {
			cleanup()
			return nil, apperrors.NewValidationError(string(kind), "unknown document kind")
		}
		ref, err := s.files.Save(fh, filestorage.CategoryDocuments)
		if err != nil {
			cleanup()
			return nil, err
		}
		if !ref.IsZero() {
			docs[kind] = ref
			saved = append(saved, ref.Path)
		}
	}

	view, err := s.apply(ctx, actor, app.ID, version, workflow.EventSubmitDocuments, workflow.ApplicationPayload{Documents: docs})
	if err != nil {
		cleanup()
		return nil, err
	}
	return view, nil
}

// apply is the single path every application event takes
func (s *ApplicationService) apply(ctx context.Context, actor workflow.Actor, id, version int64, event workflow.Event, payload workflow.ApplicationPayload) (*ApplicationView, error) {
	if err := workflow.Authorize(actor, event); err != nil {
		return nil, err
	}
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkVersion("application", app.ID, app.Version, version); err != nil {
		return nil, err
	}

	next, err := workflow.TransitionApplication(*app, event, actor, payload)
	if err != nil {
		return nil, err
	}
	if event == workflow.EventAssign && app.Status == models.ApplicationApproved {
		// repeated assign with the same supervisor changes nothing
		return s.view(ctx, app), nil
	}

	if err := s.apps.Save(ctx, &next); err != nil {
		if !errors.Is(err, apperrors.ErrVersionConflict) {
			s.logger.Error().Err(err).Int64("applicationID", id).Str("event", string(event)).Msg("Failed to save application")
		}
		return nil, err
	}

	s.logger.Info().
		Int64("applicationID", next.ID).
		Str("event", string(event)).
		Str("from", string(app.Status)).
		Str("to", string(next.Status)).
		Int64("actorID", actor.ID).
		Msg("Application transitioned")

	s.journal.commit(ctx, applicationChange(*app, next, event, actor))
	return s.view(ctx, &next), nil
}

func applicationChange(prev, next models.Application, event workflow.Event, actor workflow.Actor) change {
	c := change{
		entity:     models.EntityApplication,
		id:         next.ID,
		event:      event,
		from:       string(prev.Status),
		to:         string(next.Status),
		actor:      actor,
		history:    true,
		recipients: []int64{next.StudentID},
	}
	switch event {
	case workflow.EventApprove:
		c.title = "Application approved"
		c.message = "Your application was approved. Please upload your transcript and recommendation letter."
	case workflow.EventReject:
		c.title = "Application rejected"
		c.message = "Your internship application was not accepted."
	case workflow.EventSubmitDocuments:
		c.title = "Documents submitted"
		c.message = "A student submitted the documents required for assignment."
		c.admins = true
	case workflow.EventAssign:
		c.title = "Supervisor assigned"
		c.message = "A supervisor has been assigned to your internship."
		c.recipients = append(c.recipients, *next.SupervisorID)
	case workflow.EventReassign:
		c.title = "Supervisor changed"
		c.message = "The supervisor of this internship has changed."
		c.recipients = append(c.recipients, *prev.SupervisorID, *next.SupervisorID)
	}
	return c
}

// view loads the people around app; lookup failures leave them nil
func (s *ApplicationService) view(ctx context.Context, app *models.Application) *ApplicationView {
	v := &ApplicationView{Application: app}
	if u, err := s.users.GetByID(ctx, app.StudentID); err == nil {
		v.Student = u
	} else {
		s.logger.Warn().Err(err).Int64("studentID", app.StudentID).Msg("Application student not found")
	}
	if app.SupervisorID != nil {
		if u, err := s.users.GetByID(ctx, *app.SupervisorID); err == nil {
			v.Supervisor = u
		}
	}
	return v
}

// AuthorizeDocument allows admins, the owning student and the assigned
// supervisor to read a stored application document.
func (s *ApplicationService) AuthorizeDocument(ctx context.Context, actor workflow.Actor, stored string) error {
	var apps []*models.Application
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleStudent:
		app, err := s.apps.GetByStudentID(ctx, actor.ID)
		if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
			return err
		}
		if app != nil {
			apps = append(apps, app)
		}
	case models.RoleSupervisor:
		assigned, _, err := s.apps.List(ctx, repositories.ApplicationFilter{SupervisorID: actor.ID})
		if err != nil {
			return err
		}
		apps = assigned
	}

	for _, app := range apps {
		for _, doc := range app.Documents {
			if doc.Path == stored {
				return nil
			}
		}
	}
	return apperrors.NewUnauthorizedError("document is not visible to this user")
}
