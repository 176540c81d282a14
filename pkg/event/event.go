// Package event is the in-process dispatcher for domain notifications.
// Services fire an event after a state change commits; listeners wired at
// boot log it and feed the metrics counters.
package event

import (
	"sync"
)

// Events this service fires.
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
)

// Handler receives the payload the firing side attached to the event.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the named event.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// Fire delivers the payload to every registered handler, synchronously and
// in registration order.
func Fire(event string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}
