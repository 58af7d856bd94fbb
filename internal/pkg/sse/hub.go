package sse

import (
	"sync"
)

// Event is one server-sent event addressed to a topic, e.g. a payrun id.
type Event struct {
	Topic string
	Event string
	Data  interface{}
	// Final marks the last event of a stream. It is always delivered, evicting
	// the oldest buffered events of a full subscriber.
	Final bool
}

// Hub fans events out to the subscribers of each topic
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	buffer      int
}

// NewHub creates a hub whose subscriber channels hold buffer events
func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		buffer:      buffer,
	}
}

// Subscribe registers a subscriber for topic and returns its channel and cleanup function
func (h *Hub) Subscribe(topic string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)
	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[chan Event]struct{})
	}
	h.subscribers[topic][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[topic], ch)
			close(ch)
			if len(h.subscribers[topic]) == 0 {
				delete(h.subscribers, topic)
			}
		})
	}

	return ch, cleanup
}

// Publish delivers event to every subscriber of topic. Slow subscribers miss
// non-final events instead of blocking the publisher.
func (h *Hub) Publish(topic string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.Topic = topic
	for ch := range h.subscribers[topic] {
		if event.Final {
			deliver(ch, event)
			continue
		}
		select {
		case ch <- event:
		default:
		}
	}
}

// deliver sends event, dropping the oldest buffered events until it fits.
// Channels are only closed under the write lock, so ch stays open here.
func deliver(ch chan Event, event Event) {
	for {
		select {
		case ch <- event:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers for a topic
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[topic])
}
