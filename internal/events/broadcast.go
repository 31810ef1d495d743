package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// DefaultSubscriberBuffer is the number of undelivered events a subscriber
// may hold before further events are dropped for it.
const DefaultSubscriberBuffer = 16

// Broadcaster is an EventHandler that forwards each event to the live
// subscribers of the event's learner. Delivery never blocks the emitter: a
// subscriber whose buffer is full misses the event.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]map[*subscriber]struct{}
	buffer int
	logger *slog.Logger
}

type subscriber struct {
	ch chan *ProgressEvent
}

// NewBroadcaster creates a Broadcaster. A buffer below 1 uses
// DefaultSubscriberBuffer.
func NewBroadcaster(buffer int, logger *slog.Logger) *Broadcaster {
	if buffer < 1 {
		buffer = DefaultSubscriberBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		subs:   make(map[uuid.UUID]map[*subscriber]struct{}),
		buffer: buffer,
		logger: logger.With(slog.String("component", "progress_broadcaster")),
	}
}

// Subscribe registers a subscriber for learnerID. The returned cancel func
// unregisters it and closes the channel; calling it more than once is safe.
func (b *Broadcaster) Subscribe(learnerID uuid.UUID) (<-chan *ProgressEvent, func()) {
	sub := &subscriber{ch: make(chan *ProgressEvent, b.buffer)}

	b.mu.Lock()
	if b.subs[learnerID] == nil {
		b.subs[learnerID] = make(map[*subscriber]struct{})
	}
	b.subs[learnerID][sub] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[learnerID], sub)
			if len(b.subs[learnerID]) == 0 {
				delete(b.subs, learnerID)
			}
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// SubscriberCount reports how many subscribers learnerID currently has.
func (b *Broadcaster) SubscriberCount(learnerID uuid.UUID) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[learnerID])
}

// HandleEvent implements EventHandler. It never returns an error.
func (b *Broadcaster) HandleEvent(ctx context.Context, event *ProgressEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs[event.LearnerID] {
		select {
		case sub.ch <- event:
		default:
			b.logger.WarnContext(ctx, "subscriber buffer full, dropping event",
				slog.String("event_id", event.ID.String()),
				slog.String("event_type", event.Type),
				slog.String("learner_id", event.LearnerID.String()))
		}
	}
	return nil
}
