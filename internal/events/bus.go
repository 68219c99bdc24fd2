package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// subscription is one subscriber channel and the events it wants.
type subscription struct {
	ch         chan Event
	eventType  string // "" matches every type
	entityType string // "" matches every entity
	entityID   int64
}

func (s *subscription) wants(e Event) bool {
	if s.eventType != "" && s.eventType != e.EventType() {
		return false
	}
	if s.entityType != "" && (s.entityType != e.EntityType() || s.entityID != e.EntityID()) {
		return false
	}
	return true
}

// Bus is the central event bus for pub/sub.
type Bus struct {
	mu     sync.RWMutex
	subs   []*subscription
	log    *EventLog // SQLite persistence (may be nil)
	logger *slog.Logger
	closed bool

	// transient event types are delivered but never persisted.
	transient map[string]bool
	dropped   atomic.Uint64
}

// NewBus creates a new event bus.
// The EventLog is optional - pass nil to disable persistence.
// Scan progress events are delivered to subscribers but not persisted.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		log:       log,
		logger:    logger.With("component", "events"),
		transient: map[string]bool{EventScanProgressed: true},
	}
}

// Publish persists the event (unless transient) and delivers it to every
// matching subscriber without blocking. Full subscribers miss the event.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return nil
	}
	targets := make([]*subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.wants(e) {
			targets = append(targets, s)
		}
	}

	if b.log != nil && !b.transient[e.EventType()] {
		if _, err := b.log.Append(e); err != nil {
			b.logger.Error("failed to persist event", "type", e.EventType(), "error", err)
		}
	}

	for _, s := range targets {
		select {
		case s.ch <- e:
		default:
			b.dropped.Add(1)
			b.logger.Warn("subscriber channel full, dropping event",
				"type", e.EventType(),
				"entity_type", e.EntityType(),
				"entity_id", e.EntityID())
		}
	}
	b.mu.RUnlock()

	return nil
}

// Dropped returns how many deliveries were skipped because a subscriber
// channel was full.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

func (b *Bus) subscribe(s *subscription) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(s.ch)
		return s.ch
	}
	b.subs = append(b.subs, s)
	return s.ch
}

// Subscribe returns a channel for events of a specific type.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	return b.subscribe(&subscription{ch: make(chan Event, bufferSize), eventType: eventType})
}

// SubscribeAll returns a channel for all events.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	return b.subscribe(&subscription{ch: make(chan Event, bufferSize)})
}

// SubscribeEntity returns events for a specific entity, e.g. one episode.
func (b *Bus) SubscribeEntity(entityType string, entityID int64, bufferSize int) <-chan Event {
	return b.subscribe(&subscription{
		ch:         make(chan Event, bufferSize),
		entityType: entityType,
		entityID:   entityID,
	})
}

// Unsubscribe removes a subscription channel and closes it.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.subs, func(s *subscription) bool { return s.ch == ch })
	if i < 0 {
		return
	}
	close(b.subs[i].ch)
	b.subs = slices.Delete(b.subs, i, i+1)
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, s := range b.subs {
		close(s.ch)
	}
	b.subs = nil
	return nil
}
