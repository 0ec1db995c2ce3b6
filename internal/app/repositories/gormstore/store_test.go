package gormstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/app/repositories"
	"github.com/yigit/internhub/internal/app/repositories/gormstore"
	"github.com/yigit/internhub/internal/db"
	"github.com/yigit/internhub/internal/pkg/apperrors"
)

func setupRepos(t *testing.T) *repositories.Repositories {
	t.Helper()
	sqlite, err := db.NewMemorySQLite(t.Name())
	require.NoError(t, err)
	t.Cleanup(sqlite.Close)
	return gormstore.NewRepositories(sqlite.Gorm)
}

func createStudent(t *testing.T, repos *repositories.Repositories, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "x", FirstName: "Lina", LastName: "K", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, repos.Users.Create(context.Background(), u))
	return u
}

func TestUserUniqueness(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	createStudent(t, repos, "a@uni.dz")

	dup := &models.User{Email: "a@uni.dz", Password: "x", Role: models.RoleStudent, IsActive: true}
	assert.ErrorIs(t, repos.Users.Create(ctx, dup), apperrors.ErrEmailAlreadyExists)

	exists, err := repos.Users.EmailExists(ctx, "a@uni.dz")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repos.Users.GetByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestApplicationSaveDetectsStaleVersion(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	student := createStudent(t, repos, "s@uni.dz")

	app := &models.Application{StudentID: student.ID, Status: models.ApplicationPending}
	require.NoError(t, repos.Applications.Create(ctx, app))
	assert.Equal(t, int64(1), app.Version)

	first, err := repos.Applications.GetByID(ctx, app.ID)
	require.NoError(t, err)
	second, err := repos.Applications.GetByID(ctx, app.ID)
	require.NoError(t, err)

	first.Status = models.ApplicationDocumentsPending
	require.NoError(t, repos.Applications.Save(ctx, first))
	assert.Equal(t, int64(2), first.Version)

	second.Status = models.ApplicationRejected
	err = repos.Applications.Save(ctx, second)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrVersionConflict)

	stored, err := repos.Applications.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationDocumentsPending, stored.Status)
	assert.Equal(t, int64(2), stored.Version)
}

func TestApplicationDocumentsRoundTrip(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	student := createStudent(t, repos, "d@uni.dz")

	app := &models.Application{StudentID: student.ID, Status: models.ApplicationDocumentsPending}
	require.NoError(t, repos.Applications.Create(ctx, app))

	sup := int64(42)
	app.Documents = models.Documents{
		models.DocumentTranscript: {Name: "t.pdf", Path: "documents/t.pdf", Size: 10, MimeType: "application/pdf"},
	}
	app.Status = models.ApplicationApproved
	app.SupervisorID = &sup
	require.NoError(t, repos.Applications.Save(ctx, app))

	stored, err := repos.Applications.GetByStudentID(ctx, student.ID)
	require.NoError(t, err)
	assert.True(t, stored.Documents.Has(models.DocumentTranscript))
	assert.Equal(t, "documents/t.pdf", stored.Documents[models.DocumentTranscript].Path)
	require.NotNil(t, stored.SupervisorID)
	assert.Equal(t, sup, *stored.SupervisorID)

	n, err := repos.Applications.CountBySupervisor(ctx, sup)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	counts, err := repos.Applications.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.ApplicationApproved])
}

func TestApplicationSaveMissingRow(t *testing.T) {
	repos := setupRepos(t)
	err := repos.Applications.Save(context.Background(), &models.Application{ID: 404, Version: 1, Status: models.ApplicationPending})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestApplicationListFilters(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	for i, status := range []models.ApplicationStatus{models.ApplicationPending, models.ApplicationPending, models.ApplicationRejected} {
		s := createStudent(t, repos, string(rune('a'+i))+"@list.dz")
		app := &models.Application{StudentID: s.ID, Status: status}
		require.NoError(t, repos.Applications.Create(ctx, app))
	}

	apps, total, err := repos.Applications.List(ctx, repositories.ApplicationFilter{Status: models.ApplicationPending, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, apps, 1)

	all, total, err := repos.Applications.List(ctx, repositories.ApplicationFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)
}

func TestTaskSaveAndConflict(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	task := &models.Task{
		Title: "Read", DueDate: time.Now().Add(24 * time.Hour).UTC(), Priority: models.PriorityLow,
		Category: models.CategoryResearch, Status: models.TaskPending, StudentID: 1, SupervisorID: 2,
	}
	require.NoError(t, repos.Tasks.Create(ctx, task))

	stale := *task
	task.Status = models.TaskInProgress
	task.Response = "draft"
	task.ResponseFile = models.FileRef{Name: "d.txt", Path: "responses/d.txt"}
	require.NoError(t, repos.Tasks.Save(ctx, task))

	stale.Status = models.TaskCompleted
	assert.ErrorIs(t, repos.Tasks.Save(ctx, &stale), apperrors.ErrVersionConflict)

	stored, err := repos.Tasks.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskInProgress, stored.Status)
	assert.Equal(t, "responses/d.txt", stored.ResponseFile.Path)
	assert.True(t, stored.Attachment.IsZero())

	list, err := repos.Tasks.List(ctx, repositories.TaskFilter{StudentID: 1})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repos.Tasks.Delete(ctx, task.ID))
	_, err = repos.Tasks.GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestTransitionHistoryOrder(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()

	for _, ev := range []string{"approve", "submitDocuments"} {
		require.NoError(t, repos.Transitions.Record(ctx, &models.Transition{
			EntityType: models.EntityApplication, EntityID: 3, Event: ev, ActorID: 1, ActorRole: models.RoleAdmin,
		}))
	}
	require.NoError(t, repos.Transitions.Record(ctx, &models.Transition{EntityType: models.EntityTask, EntityID: 3, Event: "start"}))

	history, err := repos.Transitions.ListByEntity(ctx, models.EntityApplication, 3)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "approve", history[0].Event)
	assert.Equal(t, "submitDocuments", history[1].Event)
}
