// Package events provides a minimal in-process publish/subscribe
// mechanism. Producers (the orchestrator, the network model, the API
// layer) emit typed events without direct knowledge of their
// consumers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is a single notification. Payload carries a producer-specific
// struct; consumers type-switch on Type to decode it.
type Event struct {
	// ID is a unique identifier for this event.
	ID uuid.UUID

	// Type names the event, e.g. "cycle.phase_changed".
	Type string

	// Payload contains the event-specific data.
	Payload any

	// CreatedAt is the timestamp when the event was created.
	CreatedAt time.Time
}

// New creates a new Event with the specified type and payload.
func New(eventType string, payload any) *Event {
	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// Handler defines an interface for components that can handle events.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent implements Handler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// Emitter defines an interface for components that can emit events.
type Emitter interface {
	// Emit publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	Emit(ctx context.Context, event *Event) error
}
