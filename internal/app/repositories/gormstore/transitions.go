package gormstore

import (
	"context"

	"github.com/yigit/internhub/internal/app/models"
	"gorm.io/gorm"
)

type TransitionRepository struct {
	db *gorm.DB
}

func NewTransitionRepository(db *gorm.DB) *TransitionRepository {
	return &TransitionRepository{db: db}
}

func (r *TransitionRepository) Record(ctx context.Context, t *models.Transition) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransitionRepository) ListByEntity(ctx context.Context, entity models.EntityType, id int64) ([]*models.Transition, error) {
	var out []*models.Transition
	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entity, id).
		Order("created_at asc").Order("id asc").
		Find(&out).Error
	return out, err
}
