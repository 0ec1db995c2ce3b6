// Package gormstore implements the repositories on gorm, used with SQLite for
// single-node deployments and in tests.
package gormstore

import (
	"errors"
	"strings"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/app/repositories"
	"gorm.io/gorm"
)

// Models lists every table the store needs, in dependency order.
func Models() []interface{} {
	return []interface{}{&models.User{}, &models.Application{}, &models.Task{}, &models.Transition{}}
}

// AutoMigrate creates or updates the schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// NewRepositories builds gorm-backed repositories sharing db.
func NewRepositories(db *gorm.DB) *repositories.Repositories {
	return &repositories.Repositories{
		Users:        NewUserRepository(db),
		Applications: NewApplicationRepository(db),
		Tasks:        NewTaskRepository(db),
		Transitions:  NewTransitionRepository(db),
	}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
