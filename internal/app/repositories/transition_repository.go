package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/pkg/logger"
)

// PgTransitionRepository appends and reads workflow history
type PgTransitionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTransitionRepository creates a new transition repository
func NewTransitionRepository(db *pgxpool.Pool) *PgTransitionRepository {
	return &PgTransitionRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Record appends one history entry
func (r *PgTransitionRepository) Record(ctx context.Context, t *models.Transition) error {
	sql, args, err := r.sb.Insert("transitions").
		Columns("entity_type", "entity_id", "event", "from_state", "to_state", "actor_id", "actor_role").
		Values(t.EntityType, t.EntityID, t.Event, t.FromState, t.ToState, t.ActorID, t.ActorRole).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return err
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&t.ID, &t.CreatedAt); err != nil {
		logger.Error().Err(err).Str("entity", string(t.EntityType)).Int64("entityID", t.EntityID).Msg("Error recording transition")
		return fmt.Errorf("error recording transition: %w", err)
	}
	return nil
}

// ListByEntity returns the history of one entity, oldest first
func (r *PgTransitionRepository) ListByEntity(ctx context.Context, entity models.EntityType, id int64) ([]*models.Transition, error) {
	sql, args, err := r.sb.Select("id", "entity_type", "entity_id", "event", "from_state", "to_state", "actor_id", "actor_role", "created_at").
		From("transitions").
		Where(squirrel.Eq{"entity_type": entity, "entity_id": id}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing transitions: %w", err)
	}
	defer rows.Close()

	var out []*models.Transition
	for rows.Next() {
		var t models.Transition
		if err := rows.Scan(&t.ID, &t.EntityType, &t.EntityID, &t.Event, &t.FromState, &t.ToState, &t.ActorID, &t.ActorRole, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
