// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// EntityChangedQueue is the durable queue every committed mutation is
// announced on.
const EntityChangedQueue = "entity.changed"

// Actions carried by EntityChangedEvent.
const (
	ActionCreated          = "created"
	ActionUpdated          = "updated"
	ActionDeleted          = "deleted"
	ActionTwittersReplaced = "twitters_replaced"
)

// EntityChangedEvent is published after a create, update, patch or delete
// of a movie, news item or twitter post has been committed.  It carries
// identifiers only; consumers that need the record read it back.
type EntityChangedEvent struct {
	Entity     string `json:"entity"` // movie | news | twitter
	Action     string `json:"action"`
	ID         uint64 `json:"id"`
	Login      string `json:"login,omitempty"` // caller, when authenticated
	OccurredAt string `json:"occurred_at"`     // RFC 3339, UTC
}

// NewEntityChangedEvent stamps an event with the current time.
func NewEntityChangedEvent(entity, action string, id uint64, login string) EntityChangedEvent {
	return EntityChangedEvent{
		Entity:     entity,
		Action:     action,
		ID:         id,
		Login:      login,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
