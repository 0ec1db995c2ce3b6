package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/internhub/internal/app/models"
)

// UserRepository stores accounts of every role.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	StudentNumberExists(ctx context.Context, number string) (bool, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

// ApplicationFilter narrows application listings. Zero values mean no filter.
type ApplicationFilter struct {
	Status       models.ApplicationStatus
	SupervisorID int64
	Offset       int
	Limit        int
}

// ApplicationRepository stores applications. Save is a compare-and-swap on
// Version: it fails with a version conflict when the stored version differs.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	GetByStudentID(ctx context.Context, studentID int64) (*models.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]*models.Application, int64, error)
	Save(ctx context.Context, app *models.Application) error
	CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int64, error)
	CountBySupervisor(ctx context.Context, supervisorID int64) (int64, error)
}

// TaskFilter narrows task listings. Zero values mean no filter.
type TaskFilter struct {
	StudentID    int64
	SupervisorID int64
	Status       models.TaskStatus
}

// TaskRepository stores tasks with the same compare-and-swap Save contract.
type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]*models.Task, error)
	Save(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id int64) error
	CountBySupervisor(ctx context.Context, supervisorID int64) (int64, error)
}

// TransitionRepository keeps the workflow history.
type TransitionRepository interface {
	Record(ctx context.Context, t *models.Transition) error
	ListByEntity(ctx context.Context, entity models.EntityType, id int64) ([]*models.Transition, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	Users        UserRepository
	Applications ApplicationRepository
	Tasks        TaskRepository
	Transitions  TransitionRepository
}

// NewRepositories builds the PostgreSQL repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(db),
		Applications: NewApplicationRepository(db),
		Tasks:        NewTaskRepository(db),
		Transitions:  NewTransitionRepository(db),
	}
}
