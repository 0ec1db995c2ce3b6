package services

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/app/repositories"
	"github.com/yigit/internhub/internal/pkg/apperrors"
)

func TestApplicationHappyPath(t *testing.T) {
	e := setup(t)
	supervisor := e.user(t, "sup@uni.dz", models.RoleSupervisor)
	student, app := e.signup(t, "amina@uni.dz", "20231234")
	assert.Equal(t, models.ApplicationPending, app.Status)
	assert.True(t, app.Documents.Has(models.DocumentCV))

	view, err := e.svc.Applications.Approve(e.ctx, e.admin, app.ID, app.Version)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationDocumentsPending, view.Application.Status)
	assert.Equal(t, app.Version+1, view.Application.Version)

	view, err = e.svc.Applications.SubmitDocuments(e.ctx, actorOf(student), map[models.DocumentKind]*multipart.FileHeader{
		models.DocumentTranscript:     upload(t, "transcript.pdf", "grades"),
		models.DocumentRecommendation: upload(t, "reco.pdf", "reco"),
	}, view.Application.Version)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationReadyForAssignment, view.Application.Status)
	assert.True(t, view.Application.Documents.Has(models.DocumentCV))
	assert.True(t, view.Application.Documents.Has(models.DocumentTranscript))

	view, err = e.svc.Applications.Assign(e.ctx, e.admin, app.ID, supervisor.ID, view.Application.Version)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationApproved, view.Application.Status)
	require.NotNil(t, view.Supervisor)
	assert.Equal(t, supervisor.ID, view.Supervisor.ID)
	assert.Equal(t, student.ID, view.Student.ID)

	history, err := e.svc.Applications.History(e.ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "approve", history[0].Event)
	assert.Equal(t, "pending", history[0].FromState)
	assert.Equal(t, "documents_pending", history[0].ToState)
	assert.Equal(t, models.RoleAdmin, history[0].ActorRole)
	assert.Equal(t, "assign", history[2].Event)

	assert.Equal(t, []string{"signup", "approve", "submitDocuments", "assign"}, e.pub.events())
	last := e.pub.got[3]
	assert.ElementsMatch(t, []int64{student.ID, supervisor.ID}, last.Recipients)

	mine, err := e.svc.Applications.ListForSupervisor(e.ctx, supervisor.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, app.ID, mine[0].Application.ID)
}

func TestApproveByNonAdminIsRejected(t *testing.T) {
	e := setup(t)
	student, app := e.signup(t, "amina@uni.dz", "20231234")

	_, err := e.svc.Applications.Approve(e.ctx, actorOf(student), app.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	stored, err := e.repos.Applications.GetByID(e.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, stored.Status)
	assert.Equal(t, app.Version, stored.Version)
}

func TestApproveTwiceIsInvalidTransition(t *testing.T) {
	e := setup(t)
	_, app := e.signup(t, "amina@uni.dz", "20231234")

	_, err := e.svc.Applications.Approve(e.ctx, e.admin, app.ID, 0)
	require.NoError(t, err)
	_, err = e.svc.Applications.Approve(e.ctx, e.admin, app.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestStaleVersionIsConflict(t *testing.T) {
	e := setup(t)
	_, app := e.signup(t, "amina@uni.dz", "20231234")
	read := app.Version

	_, err := e.svc.Applications.Approve(e.ctx, e.admin, app.ID, read)
	require.NoError(t, err)

	// a second admin acting on the same read
	_, err = e.svc.Applications.Reject(e.ctx, e.admin, app.ID, read)
	assert.ErrorIs(t, err, apperrors.ErrVersionConflict)

	stored, err := e.repos.Applications.GetByID(e.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationDocumentsPending, stored.Status)
}

func TestAssignIsIdempotentForSameSupervisor(t *testing.T) {
	e := setup(t)
	sup := e.user(t, "sup@uni.dz", models.RoleSupervisor)
	other := e.user(t, "other@uni.dz", models.RoleSupervisor)
	_, app := e.assignedStudent(t, "amina@uni.dz", "20231234", sup)
	published := len(e.pub.got)

	view, err := e.svc.Applications.Assign(e.ctx, e.admin, app.ID, sup.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, app.Version, view.Application.Version)
	assert.Len(t, e.pub.got, published)

	_, err = e.svc.Applications.Assign(e.ctx, e.admin, app.ID, other.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	view, err = e.svc.Applications.Reassign(e.ctx, e.admin, app.ID, other.ID, view.Application.Version)
	require.NoError(t, err)
	assert.Equal(t, other.ID, *view.Application.SupervisorID)
	assert.ElementsMatch(t, []int64{view.Application.StudentID, sup.ID, other.ID}, e.pub.got[len(e.pub.got)-1].Recipients)
}

func TestAssignUnknownSupervisor(t *testing.T) {
	e := setup(t)
	student, app := e.readyStudent(t, "amina@uni.dz", "20231234")

	_, err := e.svc.Applications.Assign(e.ctx, e.admin, app.ID, 9999, 0)
	assert.ErrorIs(t, err, apperrors.ErrUnknownReference)

	// a student is not a supervisor
	_, err = e.svc.Applications.Assign(e.ctx, e.admin, app.ID, student.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrUnknownReference)

	stored, err := e.repos.Applications.GetByID(e.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationReadyForAssignment, stored.Status)
	assert.Nil(t, stored.SupervisorID)
}

func TestSubmitDocumentsMissingRecommendation(t *testing.T) {
	e := setup(t)
	student, app := e.signup(t, "amina@uni.dz", "20231234")
	_, err := e.svc.Applications.Approve(e.ctx, e.admin, app.ID, 0)
	require.NoError(t, err)

	_, err = e.svc.Applications.SubmitDocuments(e.ctx, actorOf(student), map[models.DocumentKind]*multipart.FileHeader{
		models.DocumentTranscript: upload(t, "transcript.pdf", "grades"),
	}, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	stored, err := e.repos.Applications.GetByID(e.ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationDocumentsPending, stored.Status)
	assert.False(t, stored.Documents.Has(models.DocumentTranscript))

	// only the signup documents remain on disk
	full, err := e.files.Resolve(stored.Documents[models.DocumentCV].Path)
	require.NoError(t, err)
	entries, err := os.ReadDir(filepath.Dir(full))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSubmitDocumentsBeforeApproval(t *testing.T) {
	e := setup(t)
	student, _ := e.signup(t, "amina@uni.dz", "20231234")

	_, err := e.svc.Applications.SubmitDocuments(e.ctx, actorOf(student), map[models.DocumentKind]*multipart.FileHeader{
		models.DocumentTranscript:     upload(t, "transcript.pdf", "grades"),
		models.DocumentRecommendation: upload(t, "reco.pdf", "reco"),
	}, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestGetRespectsOwnership(t *testing.T) {
	e := setup(t)
	sup := e.user(t, "sup@uni.dz", models.RoleSupervisor)
	student, app := e.signup(t, "amina@uni.dz", "20231234")
	other, _ := e.signup(t, "other@uni.dz", "20231235")

	_, err := e.svc.Applications.Get(e.ctx, actorOf(student), app.ID)
	assert.NoError(t, err)
	_, err = e.svc.Applications.Get(e.ctx, actorOf(other), app.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = e.svc.Applications.Get(e.ctx, actorOf(sup), app.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	_, err = e.svc.Applications.Get(e.ctx, e.admin, 4242)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestListFiltersByStatus(t *testing.T) {
	e := setup(t)
	_, a := e.signup(t, "a@uni.dz", "20230001")
	e.signup(t, "b@uni.dz", "20230002")
	_, err := e.svc.Applications.Approve(e.ctx, e.admin, a.ID, 0)
	require.NoError(t, err)

	pending, total, err := e.svc.Applications.List(e.ctx, repositories.ApplicationFilter{Status: models.ApplicationPending, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, "b@uni.dz", pending[0].Student.Email)

	_, _, err = e.svc.Applications.List(e.ctx, repositories.ApplicationFilter{Status: "archived"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestAuthorizeDocument(t *testing.T) {
	e := setup(t)
	sup := e.user(t, "sup@uni.dz", models.RoleSupervisor)
	other := e.user(t, "other@uni.dz", models.RoleSupervisor)
	student, app := e.assignedStudent(t, "amina@uni.dz", "20231234", sup)
	outsider, _ := e.signup(t, "yacine@uni.dz", "20235678")
	stored := app.Documents[models.DocumentTranscript].Path
	require.NotEmpty(t, stored)

	assert.NoError(t, e.svc.Applications.AuthorizeDocument(e.ctx, actorOf(student), stored))
	assert.NoError(t, e.svc.Applications.AuthorizeDocument(e.ctx, actorOf(sup), stored))
	assert.NoError(t, e.svc.Applications.AuthorizeDocument(e.ctx, e.admin, stored))
	assert.ErrorIs(t, e.svc.Applications.AuthorizeDocument(e.ctx, actorOf(other), stored), apperrors.ErrUnauthorized)
	assert.ErrorIs(t, e.svc.Applications.AuthorizeDocument(e.ctx, actorOf(outsider), stored), apperrors.ErrUnauthorized)
}
