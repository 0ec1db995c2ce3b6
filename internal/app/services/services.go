// Package services runs the workflow engine against the repositories: load,
// check the caller's version, transition, save, record and notify.
package services

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/internhub/internal/app/repositories"
	"github.com/yigit/internhub/internal/pkg/auth"
	"github.com/yigit/internhub/internal/pkg/email"
	"github.com/yigit/internhub/internal/pkg/filestorage"
	"github.com/yigit/internhub/internal/pkg/notify"
)

// Services holds all the service instances
type Services struct {
	Auth         *AuthService
	Applications *ApplicationService
	Tasks        *TaskService
	Supervisors  *SupervisorService
	Stats        *StatsService
	Users        *UserService
}

// Deps are the collaborators shared by the services
type Deps struct {
	Repos     *repositories.Repositories
	JWT       *auth.JWTService
	Files     filestorage.FileStorage
	Publisher notify.Publisher
	Mailer    email.Sender
	Logger    zerolog.Logger
	// DevMode logs generated passwords
	DevMode bool
}

// NewServices wires every service from deps
func NewServices(d Deps) *Services {
	j := &journal{transitions: d.Repos.Transitions, publisher: d.Publisher, logger: d.Logger, now: time.Now}
	return &Services{
		Auth:         NewAuthService(d.Repos.Users, d.Repos.Applications, d.JWT, d.Files, j, d.Logger),
		Applications: newApplicationService(d.Repos.Applications, d.Repos.Users, d.Repos.Transitions, d.Files, j, d.Logger),
		Tasks:        newTaskService(d.Repos.Tasks, d.Repos.Applications, d.Repos.Users, d.Files, j, d.Logger),
		Supervisors:  NewSupervisorService(d.Repos.Users, d.Repos.Applications, d.Repos.Tasks, d.Mailer, d.DevMode, d.Logger),
		Stats:        NewStatsService(d.Repos.Applications, d.Repos.Tasks, d.Repos.Users),
		Users:        NewUserService(d.Repos.Users, d.Logger),
	}
}
