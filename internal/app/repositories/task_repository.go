package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/pkg/apperrors"
	"github.com/yigit/internhub/internal/pkg/logger"
)

var taskColumns = []string{
	"id", "title", "description", "due_date", "priority", "category", "status", "student_id", "supervisor_id",
	"attachment", "response", "response_file", "grade", "feedback", "completed_at", "graded_at",
	"version", "created_at", "updated_at",
}

// PgTaskRepository handles database operations for tasks
type PgTaskRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *pgxpool.Pool) *PgTaskRepository {
	return &PgTaskRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.DueDate, &t.Priority, &t.Category, &t.Status, &t.StudentID, &t.SupervisorID,
		&t.Attachment, &t.Response, &t.ResponseFile, &t.Grade, &t.Feedback, &t.CompletedAt, &t.GradedAt,
		&t.Version, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("task not found")
		}
		return nil, err
	}
	return &t, nil
}

// Create inserts a task at version 1
func (r *PgTaskRepository) Create(ctx context.Context, task *models.Task) error {
	task.Version = 1
	sql, args, err := r.sb.Insert("tasks").
		Columns("title", "description", "due_date", "priority", "category", "status", "student_id", "supervisor_id",
			"attachment", "version").
		Values(task.Title, task.Description, task.DueDate, task.Priority, task.Category, task.Status, task.StudentID,
			task.SupervisorID, task.Attachment, task.Version).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create task SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("studentID", task.StudentID).Msg("Error executing create task query")
		return fmt.Errorf("error creating task: %w", err)
	}
	return nil
}

// GetByID retrieves a task by ID
func (r *PgTaskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	sql, args, err := r.sb.Select(taskColumns...).From("tasks").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	task, err := scanTask(r.db.QueryRow(ctx, sql, args...))
	if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
		logger.Error().Err(err).Int64("taskID", id).Msg("Error retrieving task")
		return nil, fmt.Errorf("error retrieving task: %w", err)
	}
	return task, err
}

// List returns tasks matching filter ordered by due date
func (r *PgTaskRepository) List(ctx context.Context, filter TaskFilter) ([]*models.Task, error) {
	query := r.sb.Select(taskColumns...).From("tasks").OrderBy("due_date ASC", "id ASC")
	if filter.StudentID != 0 {
		query = query.Where(squirrel.Eq{"student_id": filter.StudentID})
	}
	if filter.SupervisorID != 0 {
		query = query.Where(squirrel.Eq{"supervisor_id": filter.SupervisorID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing tasks")
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Save writes every mutable field if the stored version still matches
func (r *PgTaskRepository) Save(ctx context.Context, task *models.Task) error {
	sql, args, err := r.sb.Update("tasks").
		SetMap(map[string]interface{}{
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
			"version":       squirrel.Expr("version + 1"),
			"updated_at":    squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": task.ID, "version": task.Version}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&task.Version, &task.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1)`, task.ID).Scan(&exists); err != nil {
			return fmt.Errorf("error checking task existence: %w", err)
		}
		if !exists {
			return apperrors.NewResourceNotFoundError("task not found")
		}
		return apperrors.NewVersionConflictError("task", task.ID, task.Version)
	}
	if err != nil {
		logger.Error().Err(err).Int64("taskID", task.ID).Msg("Error saving task")
		return fmt.Errorf("error saving task: %w", err)
	}
	return nil
}

// Delete removes a task
func (r *PgTaskRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error().Err(err).Int64("taskID", id).Msg("Error deleting task")
		return fmt.Errorf("error deleting task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("task not found")
	}
	return nil
}

// CountBySupervisor counts tasks authored by a supervisor
func (r *PgTaskRepository) CountBySupervisor(ctx context.Context, supervisorID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE supervisor_id = $1`, supervisorID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting supervisor tasks: %w", err)
	}
	return n, nil
}
