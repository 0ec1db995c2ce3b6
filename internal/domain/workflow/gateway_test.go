package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yigit/internhub/internal/app/models"
)

func TestGatewayTable(t *testing.T) {
	assert.ElementsMatch(t, []Event{EventApprove, EventReject, EventAssign, EventReassign}, PermittedEvents(models.RoleAdmin))
	assert.ElementsMatch(t, []Event{EventGrade, EventCreateTask, EventUpdateTask, EventDeleteTask}, PermittedEvents(models.RoleSupervisor))
	assert.ElementsMatch(t, []Event{EventSubmitDocuments, EventStart, EventRespond, EventComplete}, PermittedEvents(models.RoleStudent))
	assert.Empty(t, PermittedEvents(models.Role("GUEST")))
}

func TestSupervisorCannotStartOrComplete(t *testing.T) {
	assert.False(t, Permits(models.RoleSupervisor, EventStart))
	assert.False(t, Permits(models.RoleSupervisor, EventComplete))
	assert.False(t, Permits(models.RoleStudent, EventGrade))
	assert.False(t, Permits(models.RoleAdmin, EventGrade))
}

func TestRoleOutsideGatewayIsUnauthorizedEvenWhenStateAllows(t *testing.T) {
	task := taskIn(models.TaskPending)
	// supervisor created the task and the task is in PENDING, so only the role blocks start
	_, err := TransitionTask(task, EventStart, supervisor, TaskPayload{})
	assert.Error(t, err)
	assert.ErrorContains(t, err, "may not request")
}
