package models

import "time"

// Transition is one entry of the workflow history.
type Transition struct {
	ID         int64      `json:"id" db:"id" gorm:"primaryKey"`
	EntityType EntityType `json:"entityType" db:"entity_type" gorm:"type:varchar(16);index:idx_transition_entity;not null" example:"application"`
	EntityID   int64      `json:"entityId" db:"entity_id" gorm:"index:idx_transition_entity;not null" example:"1"`
	Event      string     `json:"event" db:"event" gorm:"not null" example:"approve"`
	FromState  string     `json:"fromState" db:"from_state" example:"pending"`
	ToState    string     `json:"toState" db:"to_state" example:"documents_pending"`
	ActorID    int64      `json:"actorId" db:"actor_id" example:"1"`
	ActorRole  Role       `json:"actorRole" db:"actor_role" gorm:"type:varchar(16)" example:"ADMIN"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}
