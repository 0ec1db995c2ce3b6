package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/internhub/internal/app/models"
)

func TestDashboards(t *testing.T) {
	e := setup(t)
	sup := e.user(t, "sup@uni.dz", models.RoleSupervisor)
	student, _ := e.assignedStudent(t, "amina@uni.dz", "20231234", sup)
	e.signup(t, "waiting@uni.dz", "20231235")

	_, err := e.svc.Tasks.Create(e.ctx, actorOf(sup), student.ID, draft("Soon", time.Now().Add(time.Hour)), nil)
	require.NoError(t, err)
	_, err = e.svc.Tasks.Create(e.ctx, actorOf(sup), student.ID, draft("Later", time.Now().Add(72*time.Hour)), nil)
	require.NoError(t, err)
	done, err := e.svc.Tasks.Create(e.ctx, actorOf(sup), student.ID, draft("Done", time.Now().Add(72*time.Hour)), nil)
	require.NoError(t, err)
	_, err = e.svc.Tasks.Respond(e.ctx, actorOf(student), done.Task.ID, 0, "draft", nil)
	require.NoError(t, err)
	_, err = e.svc.Tasks.Complete(e.ctx, actorOf(student), done.Task.ID, 0, "finished", nil)
	require.NoError(t, err)

	e.svc.Stats.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	admin, err := e.svc.Stats.Admin(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), admin.TotalStudents)
	assert.Equal(t, int64(1), admin.StudentsByStatus["pending"])
	assert.Equal(t, int64(1), admin.StudentsByStatus["approved"])
	assert.Equal(t, int64(1), admin.Supervisors)
	assert.Equal(t, int64(1), admin.CompletedTasks)

	ss, err := e.svc.Stats.Supervisor(e.ctx, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ss.AssignedStudents)
	assert.Equal(t, int64(3), ss.TotalTasks)
	assert.Equal(t, int64(1), ss.PendingTasks)
	assert.Equal(t, int64(1), ss.OverdueTasks)
	assert.Equal(t, int64(1), ss.CompletedTasks)

	st, err := e.svc.Stats.Student(e.ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.TotalTasks)
	assert.Equal(t, int64(1), st.ActiveTasks)
	assert.Equal(t, int64(1), st.OverdueTasks)
	assert.Equal(t, int64(1), st.CompletedTasks)
}
