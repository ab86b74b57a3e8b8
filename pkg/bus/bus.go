// Package bus provides the publish/subscribe channel that lets a live subtree
// trigger a fresh render of the whole tree.
//
// Handlers are keyed by event name and listener id. Subscribing again with
// the same (id, event) replaces the handler in place, so a subtree that
// re-renders never stacks duplicate subscriptions. There is no unsubscribe:
// handlers of removed subtrees stay registered until their id subscribes
// again.
//
// Dispatch raises a custom event on the bus's event target. The listener
// that fans it out to handlers is wired exactly once, on first subscription
// (or an explicit Init), so dispatching before anyone subscribed reaches
// nobody and still succeeds.
package bus

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/morphonent/morphonent/pkg/dom"
)

// EventType is the custom event type carried on the event target.
const EventType = "morphonent:event"

// Handler receives the payload of a dispatched event.
type Handler func(payload any)

// Message is the detail of the custom event raised by Dispatch.
type Message struct {
	Name    string
	Payload any
}

type listenerSet struct {
	order    []string
	handlers map[string]Handler
}

// Bus is a publish/subscribe registry. It is safe for concurrent use;
// handlers run synchronously on the dispatching goroutine.
type Bus struct {
	target dom.EventTarget
	once   sync.Once
	logger *slog.Logger

	mu        sync.RWMutex
	listeners map[string]*listenerSet
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the bus logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTarget sets the event target events travel through. By default each
// Bus owns a private dom.Window.
func WithTarget(target dom.EventTarget) Option {
	return func(b *Bus) {
		if target != nil {
			b.target = target
		}
	}
}

// New creates an isolated Bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		target:    dom.NewWindow(),
		logger:    slog.Default().With("component", "bus"),
		listeners: make(map[string]*listenerSet),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var defaultBus = sync.OnceValue(func() *Bus { return New() })

// Default returns the process-wide Bus, created on first use.
func Default() *Bus {
	return defaultBus()
}

// Init wires the fan-out listener on the event target. Only the first call
// has an effect.
func (b *Bus) Init() {
	b.once.Do(func() {
		b.target.AddEventListener(EventType, b.handle)
		b.logger.Debug("bus wired", "event_type", EventType)
	})
}

// Subscribe registers handler for event under listener id, replacing any
// handler previously registered for the same pair. It reports whether the
// pair is new.
func (b *Bus) Subscribe(id, event string, handler Handler) bool {
	if handler == nil {
		return false
	}
	b.Init()

	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.listeners[event]
	if !ok {
		set = &listenerSet{handlers: make(map[string]Handler)}
		b.listeners[event] = set
	}
	_, exists := set.handlers[id]
	if !exists {
		set.order = append(set.order, id)
	}
	set.handlers[id] = handler
	return !exists
}

// Dispatch delivers payload to every handler subscribed to event at the
// moment of the call, in registration order. It always returns true.
func (b *Bus) Dispatch(event string, payload any) bool {
	ev := dom.NewCustomEvent(EventType, Message{Name: event, Payload: payload})
	if err := b.target.DispatchEvent(ev); err != nil {
		b.logger.Error("dispatch failed", "event", event, "error", err)
	}
	return true
}

// handle fans a custom event out to a snapshot of the handlers, so handlers
// that subscribe or dispatch again do not disturb the iteration.
func (b *Bus) handle(ev *dom.Event) error {
	msg, ok := ev.Detail.(Message)
	if !ok {
		return nil
	}
	for _, h := range b.snapshot(msg.Name) {
		h(msg.Payload)
	}
	return nil
}

func (b *Bus) snapshot(event string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	set, ok := b.listeners[event]
	if !ok {
		return nil
	}
	out := make([]Handler, 0, len(set.order))
	for _, id := range set.order {
		out = append(out, set.handlers[id])
	}
	return out
}

// Listeners returns the number of handlers subscribed to event.
func (b *Bus) Listeners(event string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if set, ok := b.listeners[event]; ok {
		return len(set.order)
	}
	return 0
}

// ListenerIDs returns the listener ids subscribed to event in registration
// order.
func (b *Bus) ListenerIDs(event string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if set, ok := b.listeners[event]; ok {
		return append([]string(nil), set.order...)
	}
	return nil
}

// Events returns the event names with at least one handler, sorted.
func (b *Bus) Events() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.listeners))
	for name := range b.listeners {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Size returns the total number of (id, event) subscriptions.
func (b *Bus) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	total := 0
	for _, set := range b.listeners {
		total += len(set.order)
	}
	return total
}
