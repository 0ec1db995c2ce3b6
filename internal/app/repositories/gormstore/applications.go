package gormstore

import (
	"context"
	"errors"
	"time"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/app/repositories"
	"github.com/yigit/internhub/internal/pkg/apperrors"
	"gorm.io/gorm"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	app.Version = 1
	if app.Documents == nil {
		app.Documents = models.Documents{}
	}
	err := r.db.WithContext(ctx).Create(app).Error
	if isUniqueViolation(err) {
		return apperrors.NewConflictError("student already has an application")
	}
	return err
}

func (r *ApplicationRepository) first(ctx context.Context, query string, arg interface{}) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).First(&app, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewResourceNotFoundError("application not found")
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ApplicationRepository) GetByStudentID(ctx context.Context, studentID int64) (*models.Application, error) {
	return r.first(ctx, "student_id = ?", studentID)
}

func (r *ApplicationRepository) List(ctx context.Context, filter repositories.ApplicationFilter) ([]*models.Application, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Application{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SupervisorID != 0 {
		query = query.Where("supervisor_id = ?", filter.SupervisorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := query.Order("created_at desc").Order("id desc")
	if filter.Limit > 0 {
		page = page.Offset(filter.Offset).Limit(filter.Limit)
	}
	var apps []*models.Application
	if err := page.Find(&apps).Error; err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// Save is an optimistic-lock update keyed on id and version.
func (r *ApplicationRepository) Save(ctx context.Context, app *models.Application) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ? AND version = ?", app.ID, app.Version).
		Updates(map[string]interface{}{
			"status":        app.Status,
			"supervisor_id": app.SupervisorID,
			"documents":     app.Documents,
			"version":       gorm.Expr("version + 1"),
			"updated_at":    now,
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, app.ID); err != nil {
			return err
		}
		return apperrors.NewVersionConflictError("application", app.ID, app.Version)
	}

	app.Version++
	app.UpdatedAt = now
	return nil
}

func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int64, error) {
	var rows []struct {
		Status models.ApplicationStatus
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.N
	}
	return counts, nil
}

func (r *ApplicationRepository) CountBySupervisor(ctx context.Context, supervisorID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).Where("supervisor_id = ?", supervisorID).Count(&n).Error
	return n, err
}
