package workflow

import (
	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/pkg/apperrors"
)

// Assign attaches supervisor to app and moves it to the assigned state.
// It fails with an unknown reference when supervisor is nil or is not a
// supervisor account. Calling it again with the same supervisor yields an
// identical application.
func Assign(app models.Application, supervisor *models.User) (models.Application, error) {
	if supervisor == nil {
		return app, apperrors.NewUnknownReferenceError("supervisor", 0)
	}
	if supervisor.Role != models.RoleSupervisor {
		return app, apperrors.NewUnknownReferenceError("supervisor", supervisor.ID)
	}

	id := supervisor.ID
	app.Status = models.ApplicationApproved
	app.SupervisorID = &id
	return app, nil
}
