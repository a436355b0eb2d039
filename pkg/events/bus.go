package events

import (
	"sync"

	"github.com/jscyril/golang_music_quiz/api"
)

// allEventTypes lists every quiz event type for SubscribeAll
var allEventTypes = []api.EventType{
	api.EventRoundPresented,
	api.EventSnippetLoading,
	api.EventSnippetStarted,
	api.EventSnippetProgress,
	api.EventSnippetEnded,
	api.EventFallback,
	api.EventNotice,
	api.EventRefocus,
	api.EventAnswerRevealed,
	api.EventSessionEnded,
}

// EventBus handles event distribution using channels
type EventBus struct {
	subscribers map[api.EventType][]chan api.QuizEvent
	mu          sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[api.EventType][]chan api.QuizEvent),
	}
}

// Subscribe returns a channel for receiving events of the specified type
func (b *EventBus) Subscribe(eventType api.EventType) <-chan api.QuizEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan api.QuizEvent, 10)
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	return ch
}

// SubscribeAll returns a channel for receiving all event types
func (b *EventBus) SubscribeAll() <-chan api.QuizEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan api.QuizEvent, 64)
	for _, eventType := range allEventTypes {
		b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	}
	return ch
}

// Publish broadcasts an event to all subscribers of that event type.
// A subscriber whose buffer is full misses the event.
func (b *EventBus) Publish(event api.QuizEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers[event.Type] {
		select {
		case ch <- event:
		default:
			// Channel full, skip to prevent blocking the game loop
		}
	}
}

// Unsubscribe removes a subscriber channel
func (b *EventBus) Unsubscribe(ch <-chan api.QuizEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscribers {
		for i, sub := range subs {
			if sub == ch {
				b.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close closes all subscriber channels
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	closed := make(map[chan api.QuizEvent]bool)
	for _, subs := range b.subscribers {
		for _, ch := range subs {
			if !closed[ch] {
				close(ch)
				closed[ch] = true
			}
		}
	}
	b.subscribers = make(map[api.EventType][]chan api.QuizEvent)
}
