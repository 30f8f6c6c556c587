package eventbus

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"

	"itemlist/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventItemsArrayChanged    = domain.EventItemsArrayChanged
	EventSelectedItemsChanged = domain.EventSelectedItemsChanged
	EventOKButtonClick        = domain.EventOKButtonClick
)

// Re-export domain event types
type ItemsArrayChangedEvent = domain.ItemsArrayChangedEvent
type SelectedItemsChangedEvent = domain.SelectedItemsChangedEvent
type OKButtonClickEvent = domain.OKButtonClickEvent

// ErrUnknownEvent is returned when subscribing to a name that was never registered
var ErrUnknownEvent = errors.New("unknown event")

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	RegisterEventNames(names ...EventType)
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) (func(), error)
}

type subscription struct {
	id      uuid.UUID
	handler EventHandler
}

// Bus delivers events synchronously on the publisher's goroutine
type Bus struct {
	mu       sync.RWMutex
	names    map[EventType]bool
	handlers map[EventType][]subscription
	logger   *slog.Logger
}

var _ EventBus = (*Bus)(nil)

// New creates a new event bus with the given names already registered
func New(names ...EventType) *Bus {
	b := &Bus{
		names:    make(map[EventType]bool),
		handlers: make(map[EventType][]subscription),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	b.RegisterEventNames(names...)
	return b
}

// WithLogger sets the logger used for dispatch diagnostics
func (b *Bus) WithLogger(logger *slog.Logger) *Bus {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// RegisterEventNames declares valid event names. Registering a known name again is a no-op.
func (b *Bus) RegisterEventNames(names ...EventType) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, name := range names {
		if b.names[name] {
			continue
		}
		b.names[name] = true
		b.logger.Debug("event registered", "event", name)
	}
}

// IsRegistered reports whether name was registered
func (b *Bus) IsRegistered(name EventType) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.names[name]
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function, or ErrUnknownEvent if the name was never registered.
func (b *Bus) Subscribe(eventType EventType, handler EventHandler) (func(), error) {
	if handler == nil {
		return nil, fmt.Errorf("subscribe %s: nil handler", eventType)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.names[eventType] {
		return nil, fmt.Errorf("subscribe %s: %w", eventType, ErrUnknownEvent)
	}

	id := uuid.New()
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(eventType, id) })
	}, nil
}

// unsubscribe builds a fresh slice so snapshots taken by in-flight dispatches stay intact
func (b *Bus) unsubscribe(eventType EventType, id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.handlers[eventType]
	kept := make([]subscription, 0, len(current))
	for _, sub := range current {
		if sub.id != id {
			kept = append(kept, sub)
		}
	}
	b.handlers[eventType] = kept
}

// SubscriberCount returns the number of handlers subscribed to eventType
func (b *Bus) SubscriberCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

// Publish invokes every handler subscribed to the event's type, in subscription order,
// before returning. Handlers may publish or (un)subscribe themselves.
func (b *Bus) Publish(event DomainEvent) {
	if event == nil {
		return
	}
	eventType := event.Type()

	b.mu.RLock()
	registered := b.names[eventType]
	handlers := b.handlers[eventType]
	// Make a copy to avoid holding lock during handler execution
	handlersCopy := make([]subscription, len(handlers))
	copy(handlersCopy, handlers)
	b.mu.RUnlock()

	if !registered {
		b.logger.Debug("dropping unregistered event", "event", eventType)
		return
	}

	b.logger.Debug("publishing event", "event", eventType, "subscribers", len(handlersCopy))
	for _, sub := range handlersCopy {
		b.call(eventType, sub.handler, event)
	}
}

func (b *Bus) call(eventType EventType, h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic", "event", eventType, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	h(event)
}
