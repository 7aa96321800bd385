// Package event is the in-process dispatcher the order engines fire into
// after every assignment or status change. Listeners (websocket broadcast,
// email enqueue, audit log) register at boot.
package event

import (
	"sync"

	"github.com/orderdesk/backoffice/pkg/workerpool"
)

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
	pool     *workerpool.Pool
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// UsePool routes FireAsync through a bounded worker pool instead of raw
// goroutines. Call once at boot; tasks that overflow the pool are dropped,
// which is acceptable for notification fan-out.
func UsePool(p *workerpool.Pool) {
	mu.Lock()
	defer mu.Unlock()
	pool = p
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	for _, h := range snapshot(event) {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners without waiting. With a
// pool installed the fan-out is bounded; otherwise each listener gets its
// own goroutine.
func FireAsync(event string, payload interface{}) {
	mu.RLock()
	p := pool
	mu.RUnlock()

	for _, h := range snapshot(event) {
		h := h
		if p != nil {
			p.Submit(func() { h(payload) }) //nolint:errcheck
			continue
		}
		go h(payload)
	}
}

// Flush removes all listeners (useful in tests).
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}

func snapshot(event string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	return hs
}
