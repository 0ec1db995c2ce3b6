package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/pkg/apperrors"
)

var (
	admin      = Actor{ID: 1, Role: models.RoleAdmin}
	student    = Actor{ID: 10, Role: models.RoleStudent}
	otherStud  = Actor{ID: 11, Role: models.RoleStudent}
	supervisor = Actor{ID: 20, Role: models.RoleSupervisor}
)

func supervisorUser(id int64) *models.User {
	return &models.User{ID: id, Role: models.RoleSupervisor, FirstName: "Sam", LastName: "Sup"}
}

func appIn(status models.ApplicationStatus) models.Application {
	app := models.Application{ID: 5, StudentID: student.ID, Status: status, Version: 3}
	if status.IsAssigned() {
		id := int64(20)
		app.SupervisorID = &id
	}
	return app
}

func docs(kinds ...models.DocumentKind) models.Documents {
	d := models.Documents{}
	for _, k := range kinds {
		d[k] = models.FileRef{Name: string(k) + ".pdf", Path: "documents/" + string(k) + ".pdf"}
	}
	return d
}

func TestApproveMovesPendingToDocumentsPending(t *testing.T) {
	next, err := TransitionApplication(appIn(models.ApplicationPending), EventApprove, admin, ApplicationPayload{})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationDocumentsPending, next.Status)
	assert.Nil(t, next.SupervisorID)
}

func TestRejectPendingApplication(t *testing.T) {
	app := appIn(models.ApplicationPending)

	next, err := TransitionApplication(app, EventReject, admin, ApplicationPayload{})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationRejected, next.Status)
	assert.Nil(t, next.SupervisorID)
	assert.Equal(t, models.ApplicationPending, app.Status, "input must not be mutated")
}

func TestSubmitDocumentsWithRequiredFiles(t *testing.T) {
	app := appIn(models.ApplicationDocumentsPending)
	app.Documents = docs(models.DocumentCV, models.DocumentMotivationLetter)

	next, err := TransitionApplication(app, EventSubmitDocuments, student, ApplicationPayload{
		Documents: docs(models.DocumentTranscript, models.DocumentRecommendation),
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationReadyForAssignment, next.Status)
	assert.True(t, next.Documents.Has(models.DocumentTranscript))
	assert.True(t, next.Documents.Has(models.DocumentRecommendation))
	assert.True(t, next.Documents.Has(models.DocumentCV))
	assert.False(t, app.Documents.Has(models.DocumentTranscript), "input documents must not be mutated")
}

func TestSubmitDocumentsPortfolioIsOptional(t *testing.T) {
	app := appIn(models.ApplicationDocumentsPending)

	next, err := TransitionApplication(app, EventSubmitDocuments, student, ApplicationPayload{
		Documents: docs(models.DocumentTranscript, models.DocumentRecommendation, models.DocumentPortfolio),
	})
	require.NoError(t, err)
	assert.True(t, next.Documents.Has(models.DocumentPortfolio))
}

func TestSubmitDocumentsMissingRecommendation(t *testing.T) {
	app := appIn(models.ApplicationDocumentsPending)

	next, err := TransitionApplication(app, EventSubmitDocuments, student, ApplicationPayload{
		Documents: docs(models.DocumentTranscript),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, app, next)
}

func TestSubmitDocumentsByAnotherStudent(t *testing.T) {
	app := appIn(models.ApplicationDocumentsPending)

	_, err := TransitionApplication(app, EventSubmitDocuments, otherStud, ApplicationPayload{
		Documents: docs(models.DocumentTranscript, models.DocumentRecommendation),
	})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAssignReadyApplication(t *testing.T) {
	app := appIn(models.ApplicationReadyForAssignment)
	s1 := supervisorUser(20)

	once, err := TransitionApplication(app, EventAssign, admin, ApplicationPayload{SupervisorID: 20, Supervisor: s1})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationApproved, once.Status)
	require.NotNil(t, once.SupervisorID)
	assert.Equal(t, int64(20), *once.SupervisorID)

	twice, err := TransitionApplication(once, EventAssign, admin, ApplicationPayload{SupervisorID: 20, Supervisor: s1})
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestAssignToDifferentSupervisorRequiresReassign(t *testing.T) {
	app := appIn(models.ApplicationApproved)

	_, err := TransitionApplication(app, EventAssign, admin, ApplicationPayload{SupervisorID: 21, Supervisor: supervisorUser(21)})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	next, err := TransitionApplication(app, EventReassign, admin, ApplicationPayload{SupervisorID: 21, Supervisor: supervisorUser(21)})
	require.NoError(t, err)
	assert.Equal(t, int64(21), *next.SupervisorID)
	assert.Equal(t, int64(20), *app.SupervisorID, "input must not be mutated")
}

func TestAssignUnknownSupervisor(t *testing.T) {
	app := appIn(models.ApplicationReadyForAssignment)

	next, err := TransitionApplication(app, EventAssign, admin, ApplicationPayload{SupervisorID: 99})
	assert.ErrorIs(t, err, apperrors.ErrUnknownReference)
	assert.Equal(t, app, next)

	notSupervisor := &models.User{ID: 30, Role: models.RoleStudent}
	_, err = TransitionApplication(app, EventAssign, admin, ApplicationPayload{SupervisorID: 30, Supervisor: notSupervisor})
	assert.ErrorIs(t, err, apperrors.ErrUnknownReference)
}

func TestIllegalEventsAreInvalidTransitions(t *testing.T) {
	cases := []struct {
		status models.ApplicationStatus
		event  Event
		actor  Actor
	}{
		{models.ApplicationPending, EventAssign, admin},
		{models.ApplicationPending, EventReassign, admin},
		{models.ApplicationPending, EventSubmitDocuments, student},
		{models.ApplicationDocumentsPending, EventApprove, admin},
		{models.ApplicationReadyForAssignment, EventReject, admin},
		{models.ApplicationRejected, EventApprove, admin},
		{models.ApplicationApproved, EventApprove, admin},
	}

	for _, tc := range cases {
		t.Run(string(tc.status)+"/"+string(tc.event), func(t *testing.T) {
			app := appIn(tc.status)
			next, err := TransitionApplication(app, tc.event, tc.actor, ApplicationPayload{
				SupervisorID: 20,
				Supervisor:   supervisorUser(20),
				Documents:    docs(models.DocumentTranscript, models.DocumentRecommendation),
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
			assert.Equal(t, app, next)

			var custom *apperrors.CustomError
			require.True(t, errors.As(err, &custom))
			assert.Equal(t, string(tc.status), custom.Details["state"])
			assert.Equal(t, string(tc.event), custom.Details["event"])
		})
	}
}

func TestAuthorizationPrecedesStateGuards(t *testing.T) {
	// the state table would accept approve here, the gateway must refuse first
	_, err := TransitionApplication(appIn(models.ApplicationPending), EventApprove, supervisor, ApplicationPayload{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// an illegal state plus a forbidden role still reports the role
	_, err = TransitionApplication(appIn(models.ApplicationRejected), EventApprove, student, ApplicationPayload{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestSupervisorInvariantHoldsAfterEveryTransition(t *testing.T) {
	s1 := supervisorUser(20)
	app := appIn(models.ApplicationPending)

	steps := []struct {
		event   Event
		actor   Actor
		payload ApplicationPayload
	}{
		{EventApprove, admin, ApplicationPayload{}},
		{EventSubmitDocuments, student, ApplicationPayload{Documents: docs(models.DocumentTranscript, models.DocumentRecommendation)}},
		{EventAssign, admin, ApplicationPayload{SupervisorID: 20, Supervisor: s1}},
		{EventReassign, admin, ApplicationPayload{SupervisorID: 21, Supervisor: supervisorUser(21)}},
	}

	for _, s := range steps {
		next, err := TransitionApplication(app, s.event, s.actor, s.payload)
		require.NoError(t, err, s.event)
		require.NoError(t, CheckApplication(next))
		assert.Equal(t, next.Status.IsAssigned(), next.SupervisorID != nil)
		app = next
	}
	assert.Equal(t, models.ApplicationApproved, app.Status)
}

func TestCheckApplicationRejectsDanglingSupervisor(t *testing.T) {
	app := appIn(models.ApplicationReadyForAssignment)
	id := int64(20)
	app.SupervisorID = &id
	assert.ErrorIs(t, CheckApplication(app), ErrInvariantViolated)

	assigned := appIn(models.ApplicationApproved)
	assigned.SupervisorID = nil
	assert.ErrorIs(t, CheckApplication(assigned), ErrInvariantViolated)
}
