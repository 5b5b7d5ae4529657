// Package event is a minimal in-process pub/sub dispatcher.
//
// The inventory engine fires "sweet.purchased", "sweet.restocked" and
// "sweet.low_stock"; the websocket bridge and the low-stock queue job listen
// without the engine knowing about either.
package event

import "sync"

// Handler receives the payload passed to Fire.
type Handler func(payload interface{})

var registry = struct {
	sync.RWMutex
	m map[string][]Handler
}{m: map[string][]Handler{}}

// Listen subscribes handler to the named event. Handlers run in
// registration order.
func Listen(name string, handler Handler) {
	registry.Lock()
	registry.m[name] = append(registry.m[name], handler)
	registry.Unlock()
}

// Fire runs every handler for name synchronously on the caller's goroutine.
func Fire(name string, payload interface{}) {
	for _, h := range snapshot(name) {
		h(payload)
	}
}

// FireAsync runs each handler on its own goroutine and returns immediately.
func FireAsync(name string, payload interface{}) {
	for _, h := range snapshot(name) {
		go h(payload)
	}
}

// Flush drops every subscription. Tests call it between cases.
func Flush() {
	registry.Lock()
	registry.m = map[string][]Handler{}
	registry.Unlock()
}

// snapshot copies the handler slice so a handler that calls Listen cannot
// mutate the list mid-dispatch.
func snapshot(name string) []Handler {
	registry.RLock()
	defer registry.RUnlock()
	return append([]Handler(nil), registry.m[name]...)
}
