package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the session service.
const (
	// TypeRoundCompleted is emitted when a repetition round is judged in full.
	TypeRoundCompleted = "round.completed"

	// TypeDeckMastered is emitted when every card of a deck reaches the top pile.
	TypeDeckMastered = "deck.mastered"

	// TypeSessionReset is emitted when a learner discards their progress.
	TypeSessionReset = "session.reset"
)

// ProgressEvent records a milestone in a learner's session over a deck.
type ProgressEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	LearnerID uuid.UUID `json:"learner_id"`
	DeckID    uuid.UUID `json:"deck_id"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *ProgressEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewProgressEvent creates a ProgressEvent. A nil payload leaves Payload empty.
func NewProgressEvent(eventType string, learnerID, deckID uuid.UUID, payload any) (*ProgressEvent, error) {
	event := &ProgressEvent{
		ID:        uuid.New(),
		Type:      eventType,
		LearnerID: learnerID,
		DeckID:    deckID,
		CreatedAt: time.Now().UTC(),
	}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		event.Payload = raw
	}

	return event, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *ProgressEvent) error
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *ProgressEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *ProgressEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *ProgressEvent) error
}
