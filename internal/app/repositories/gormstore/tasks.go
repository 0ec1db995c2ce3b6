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

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	task.Version = 1
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewResourceNotFoundError("task not found")
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context, filter repositories.TaskFilter) ([]*models.Task, error) {
	query := r.db.WithContext(ctx).Order("due_date asc").Order("id asc")
	if filter.StudentID != 0 {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.SupervisorID != 0 {
		query = query.Where("supervisor_id = ?", filter.SupervisorID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var tasks []*models.Task
	err := query.Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Save(ctx context.Context, task *models.Task) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.Task{}).
		Where("id = ? AND version = ?", task.ID, task.Version).
		Updates(map[string]interface{}{
			"title":         task.Title,
			"description":   task.Description,
			"due_date":      task.DueDate,
			"priority":      task.Priority,
			"category":      task.Category,
			"status":        task.Status,
			"attachment":    task.Attachment,
			"response":      task.Response,
			"response_file": task.ResponseFile,
			"grade":         task.Grade,
			"feedback":      task.Feedback,
			"completed_at":  task.CompletedAt,
			"graded_at":     task.GradedAt,
			"version":       gorm.Expr("version + 1"),
			"updated_at":    now,
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, task.ID); err != nil {
			return err
		}
		return apperrors.NewVersionConflictError("task", task.ID, task.Version)
	}

	task.Version++
	task.UpdatedAt = now
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NewResourceNotFoundError("task not found")
	}
	return nil
}

func (r *TaskRepository) CountBySupervisor(ctx context.Context, supervisorID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).Where("supervisor_id = ?", supervisorID).Count(&n).Error
	return n, err
}
