package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/app/repositories"
	"github.com/yigit/internhub/internal/domain/workflow"
	"github.com/yigit/internhub/internal/pkg/apperrors"
	"github.com/yigit/internhub/internal/pkg/notify"
)

// journal records committed transitions and announces them
type journal struct {
	transitions repositories.TransitionRepository
	publisher   notify.Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

// change is a committed state change of one entity
type change struct {
	entity   models.EntityType
	id       int64
	event    workflow.Event
	from, to string
	actor    workflow.Actor
	// history is false for authoring changes that are announced but not logged
	history bool

	title, message string
	recipients     []int64
	admins         bool
}

// commit runs after a successful save; failures here are logged, never returned
func (j *journal) commit(ctx context.Context, c change) {
	at := j.now().UTC()
	if c.history {
		err := j.transitions.Record(ctx, &models.Transition{
			EntityType: c.entity,
			EntityID:   c.id,
			Event:      string(c.event),
			FromState:  c.from,
			ToState:    c.to,
			ActorID:    c.actor.ID,
			ActorRole:  c.actor.Role,
			CreatedAt:  at,
		})
		if err != nil {
			j.logger.Error().Err(err).
				Str("entity", string(c.entity)).
				Int64("id", c.id).
				Str("event", string(c.event)).
				Msg("Failed to record transition")
		}
	}

	if j.publisher == nil {
		return
	}
	j.publisher.Publish(notify.Notification{
		EntityType:   c.entity,
		EntityID:     c.id,
		Event:        string(c.event),
		OldState:     c.from,
		NewState:     c.to,
		ActorID:      c.actor.ID,
		ActorRole:    c.actor.Role,
		Title:        c.title,
		Message:      c.message,
		Recipients:   withoutActor(c.recipients, c.actor.ID),
		NotifyAdmins: c.admins,
		OccurredAt:   at,
	})
}

func withoutActor(ids []int64, actor int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != 0 && id != actor {
			out = append(out, id)
		}
	}
	return out
}

// checkVersion rejects a request made against a stale read. expected 0 skips the check.
func checkVersion(entity string, id, stored, expected int64) error {
	if expected > 0 && expected != stored {
		return apperrors.NewVersionConflictError(entity, id, expected)
	}
	return nil
}
