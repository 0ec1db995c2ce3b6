package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/pkg/apperrors"
)

// ErrInvariantViolated means a computed state broke an entity invariant.
var ErrInvariantViolated = errors.New("workflow invariant violated")

// RequiredDocuments must be present before an application can leave documents_pending.
var RequiredDocuments = []models.DocumentKind{models.DocumentTranscript, models.DocumentRecommendation}

// ApplicationPayload carries the inputs some application events need.
type ApplicationPayload struct {
	// Documents uploaded with submitDocuments, merged over the stored ones.
	Documents models.Documents
	// SupervisorID requested for assign and reassign.
	SupervisorID int64
	// Supervisor resolved by the caller from SupervisorID; nil if it did not resolve.
	Supervisor *models.User
}

func (p ApplicationPayload) assignTo(app models.Application) (models.Application, error) {
	if p.Supervisor == nil {
		return app, apperrors.NewUnknownReferenceError("supervisor", p.SupervisorID)
	}
	return Assign(app, p.Supervisor)
}

type applicationStep func(app models.Application, payload ApplicationPayload) (models.Application, error)

var applicationTransitions = map[models.ApplicationStatus]map[Event]applicationStep{
	models.ApplicationPending: {
		EventApprove: func(app models.Application, _ ApplicationPayload) (models.Application, error) {
			app.Status = models.ApplicationDocumentsPending
			return app, nil
		},
		EventReject: func(app models.Application, _ ApplicationPayload) (models.Application, error) {
			app.Status = models.ApplicationRejected
			return app, nil
		},
	},
	models.ApplicationDocumentsPending: {
		EventSubmitDocuments: submitDocuments,
	},
	models.ApplicationReadyForAssignment: {
		EventAssign: func(app models.Application, payload ApplicationPayload) (models.Application, error) {
			return payload.assignTo(app)
		},
	},
	models.ApplicationApproved: {
		EventAssign:   reassertAssignment,
		EventReassign: reassign,
	},
}

// TransitionApplication validates event against the role gateway, the
// ownership rule, the state table and the event guard, in that order, and
// returns the next application. On any error the input is returned unchanged.
func TransitionApplication(app models.Application, event Event, actor Actor, payload ApplicationPayload) (models.Application, error) {
	if err := Authorize(actor, event); err != nil {
		return app, err
	}
	if event == EventSubmitDocuments {
		if err := requireOwner(actor, app.StudentID, event, "applicant"); err != nil {
			return app, err
		}
	}

	step, ok := applicationTransitions[app.Status][event]
	if !ok {
		return app, apperrors.NewInvalidTransitionError(string(app.Status), string(event))
	}

	next, err := step(cloneApplication(app), payload)
	if err != nil {
		return app, err
	}
	if err := CheckApplication(next); err != nil {
		return app, err
	}
	return next, nil
}

// CanApplyToApplication reports whether event is listed for the current status.
func CanApplyToApplication(status models.ApplicationStatus, event Event) bool {
	_, ok := applicationTransitions[status][event]
	return ok
}

// CheckApplication verifies that a supervisor is attached exactly when the
// status is in the assigned set.
func CheckApplication(app models.Application) error {
	if !app.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvariantViolated, app.Status)
	}
	if app.Status.IsAssigned() != app.HasSupervisor() {
		return fmt.Errorf("%w: supervisor must be set iff status is assigned (status %s)", ErrInvariantViolated, app.Status)
	}
	return nil
}

func submitDocuments(app models.Application, payload ApplicationPayload) (models.Application, error) {
	merged := app.Documents.Clone()
	for kind, ref := range payload.Documents {
		if !kind.Valid() {
			return app, apperrors.NewValidationError(string(kind), fmt.Sprintf("unknown document kind %q", kind))
		}
		if ref.IsZero() {
			continue
		}
		merged[kind] = ref
	}

	var missing []string
	for _, kind := range RequiredDocuments {
		if !merged.Has(kind) {
			missing = append(missing, string(kind))
		}
	}
	if len(missing) > 0 {
		return app, apperrors.NewValidationError(strings.Join(missing, ","), "required documents missing: "+strings.Join(missing, ", "))
	}

	app.Documents = merged
	app.Status = models.ApplicationReadyForAssignment
	return app, nil
}

// reassertAssignment makes a repeated assign with the same supervisor a no-op.
// A different supervisor must go through reassign.
func reassertAssignment(app models.Application, payload ApplicationPayload) (models.Application, error) {
	if payload.Supervisor != nil && app.SupervisorID != nil && *app.SupervisorID == payload.Supervisor.ID {
		return payload.assignTo(app)
	}
	if _, err := payload.assignTo(app); err != nil {
		return app, err
	}
	return app, apperrors.NewInvalidTransitionError(string(app.Status), string(EventAssign))
}

func reassign(app models.Application, payload ApplicationPayload) (models.Application, error) {
	return payload.assignTo(app)
}

func cloneApplication(app models.Application) models.Application {
	if app.Documents != nil {
		app.Documents = app.Documents.Clone()
	}
	if app.SupervisorID != nil {
		id := *app.SupervisorID
		app.SupervisorID = &id
	}
	return app
}
