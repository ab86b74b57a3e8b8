package dom

import (
	"errors"
	"sync"
)

// Event is a host event delivered to listeners.
type Event struct {
	// Type is the event type, e.g. "click".
	Type string

	// Target is the node the event was dispatched on. Nil for events raised
	// on a Window.
	Target *Node

	// CurrentTarget is the node whose listeners are currently running.
	CurrentTarget *Node

	// Detail carries the payload of custom events.
	Detail any

	// Bubbles propagates the event to ancestors after the target.
	Bubbles bool

	stopped bool
}

// NewEvent creates a bubbling event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, Bubbles: true}
}

// NewCustomEvent creates a non-bubbling event carrying detail.
func NewCustomEvent(typ string, detail any) *Event {
	return &Event{Type: typ, Detail: detail}
}

// StopPropagation prevents delivery to further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Listener handles an event. A returned error is propagated to the caller of
// DispatchEvent.
type Listener func(*Event) error

// EventTarget is anything events can be dispatched on.
type EventTarget interface {
	AddEventListener(typ string, l Listener)
	DispatchEvent(e *Event) error
}

// Window is a standalone event target, the process-level channel that custom
// events travel through. Unlike Document it is safe for concurrent use.
type Window struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

// NewWindow creates an empty Window.
func NewWindow() *Window {
	return &Window{listeners: make(map[string][]Listener)}
}

// AddEventListener implements EventTarget.
func (w *Window) AddEventListener(typ string, l Listener) {
	if l == nil {
		return
	}
	w.mu.Lock()
	w.listeners[typ] = append(w.listeners[typ], l)
	w.mu.Unlock()
}

// DispatchEvent implements EventTarget. Listeners run synchronously in the
// order they were added.
func (w *Window) DispatchEvent(e *Event) error {
	w.mu.RLock()
	ls := append([]Listener(nil), w.listeners[e.Type]...)
	w.mu.RUnlock()

	var errs []error
	for _, l := range ls {
		if err := l(e); err != nil {
			errs = append(errs, err)
		}
		if e.stopped {
			break
		}
	}
	return errors.Join(errs...)
}

// ListenerCount returns the number of listeners for typ.
func (w *Window) ListenerCount(typ string) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.listeners[typ])
}
