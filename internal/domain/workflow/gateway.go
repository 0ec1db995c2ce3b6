// Package workflow holds the state machines for applications and tasks.
// Every function here is pure: it receives the current entity by value and
// returns the next one, leaving the input untouched on failure.
package workflow

import (
	"fmt"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/pkg/apperrors"
)

// Event is a transition request issued by an actor
type Event string

const (
	EventApprove         Event = "approve"
	EventReject          Event = "reject"
	EventSubmitDocuments Event = "submitDocuments"
	EventAssign          Event = "assign"
	EventReassign        Event = "reassign"

	EventStart    Event = "start"
	EventRespond  Event = "respond"
	EventComplete Event = "complete"
	EventGrade    Event = "grade"

	EventCreateTask Event = "createTask"
	EventUpdateTask Event = "updateTask"
	EventDeleteTask Event = "deleteTask"
)

// Actor is the authenticated user requesting a transition.
type Actor struct {
	ID   int64
	Role models.Role
}

type eventSet map[Event]struct{}

func events(list ...Event) eventSet {
	set := make(eventSet, len(list))
	for _, e := range list {
		set[e] = struct{}{}
	}
	return set
}

// gateways is the static table of events each role may request.
var gateways = map[models.Role]eventSet{
	models.RoleAdmin:      events(EventApprove, EventReject, EventAssign, EventReassign),
	models.RoleSupervisor: events(EventGrade, EventCreateTask, EventUpdateTask, EventDeleteTask),
	models.RoleStudent:    events(EventSubmitDocuments, EventStart, EventRespond, EventComplete),
}

// Permits reports whether role may request event at all.
func Permits(role models.Role, event Event) bool {
	set, ok := gateways[role]
	if !ok {
		return false
	}
	_, ok = set[event]
	return ok
}

// PermittedEvents lists the events a role may request.
func PermittedEvents(role models.Role) []Event {
	var out []Event
	for e := range gateways[role] {
		out = append(out, e)
	}
	return out
}

// Authorize checks the role gateway. It runs before any state guard.
func Authorize(actor Actor, event Event) error {
	if !Permits(actor.Role, event) {
		return apperrors.NewUnauthorizedError(fmt.Sprintf("role %s may not request %s", actor.Role, event))
	}
	return nil
}

func requireOwner(actor Actor, ownerID int64, event Event, what string) error {
	if actor.ID != ownerID {
		return apperrors.NewUnauthorizedError(fmt.Sprintf("only the %s may request %s", what, event))
	}
	return nil
}
