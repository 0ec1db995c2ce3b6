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
	"github.com/yigit/internhub/internal/pkg/dberrors"
	"github.com/yigit/internhub/internal/pkg/logger"
)

var applicationColumns = []string{
	"id", "student_id", "status", "supervisor_id", "documents", "version", "created_at", "updated_at",
}

// PgApplicationRepository handles database operations for applications
type PgApplicationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) *PgApplicationRepository {
	return &PgApplicationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	err := row.Scan(&a.ID, &a.StudentID, &a.Status, &a.SupervisorID, &a.Documents, &a.Version, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("application not found")
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts an application at version 1
func (r *PgApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	app.Version = 1
	sql, args, err := r.sb.Insert("applications").
		Columns("student_id", "status", "supervisor_id", "documents", "version").
		Values(app.StudentID, app.Status, app.SupervisorID, app.Documents, app.Version).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create application SQL")
		return err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError("student already has an application")
		}
		logger.Error().Err(err).Int64("studentID", app.StudentID).Msg("Error executing create application query")
		return fmt.Errorf("error creating application: %w", err)
	}
	return nil
}

func (r *PgApplicationRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Application, error) {
	sql, args, err := r.sb.Select(applicationColumns...).From("applications").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	app, err := scanApplication(r.db.QueryRow(ctx, sql, args...))
	if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
		logger.Error().Err(err).Msg("Error retrieving application")
		return nil, fmt.Errorf("error retrieving application: %w", err)
	}
	return app, err
}

// GetByID retrieves an application by ID
func (r *PgApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByStudentID retrieves the application owned by a student
func (r *PgApplicationRepository) GetByStudentID(ctx context.Context, studentID int64) (*models.Application, error) {
	return r.getOne(ctx, squirrel.Eq{"student_id": studentID})
}

// List returns a page of applications and the total count for the filter
func (r *PgApplicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]*models.Application, int64, error) {
	where := squirrel.And{}
	if filter.Status != "" {
		where = append(where, squirrel.Eq{"status": filter.Status})
	}
	if filter.SupervisorID != 0 {
		where = append(where, squirrel.Eq{"supervisor_id": filter.SupervisorID})
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("applications").Where(where).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting applications")
		return nil, 0, fmt.Errorf("error counting applications: %w", err)
	}

	query := r.sb.Select(applicationColumns...).From("applications").Where(where).OrderBy("created_at DESC", "id DESC")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing applications")
		return nil, 0, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, app)
	}
	return apps, total, rows.Err()
}

// Save writes status, supervisor and documents if the stored version still
// matches app.Version, then bumps the version
func (r *PgApplicationRepository) Save(ctx context.Context, app *models.Application) error {
	sql, args, err := r.sb.Update("applications").
		Set("status", app.Status).
		Set("supervisor_id", app.SupervisorID).
		Set("documents", app.Documents).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": app.ID, "version": app.Version}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return err
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&app.Version, &app.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.missOrConflict(ctx, app.ID, app.Version)
	}
	if err != nil {
		logger.Error().Err(err).Int64("applicationID", app.ID).Msg("Error saving application")
		return fmt.Errorf("error saving application: %w", err)
	}
	return nil
}

func (r *PgApplicationRepository) missOrConflict(ctx context.Context, id, version int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("error checking application existence: %w", err)
	}
	if !exists {
		return apperrors.NewResourceNotFoundError("application not found")
	}
	return apperrors.NewVersionConflictError("application", id, version)
}

// CountByStatus groups applications by status
func (r *PgApplicationRepository) CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		logger.Error().Err(err).Msg("Error counting applications by status")
		return nil, fmt.Errorf("error counting applications: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.ApplicationStatus]int64)
	for rows.Next() {
		var status models.ApplicationStatus
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// CountBySupervisor counts applications currently assigned to a supervisor
func (r *PgApplicationRepository) CountBySupervisor(ctx context.Context, supervisorID int64) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE supervisor_id = $1`, supervisorID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting supervisor applications: %w", err)
	}
	return n, nil
}
