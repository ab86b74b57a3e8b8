package morph

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	merrors "github.com/morphonent/morphonent/internal/errors"
	"github.com/morphonent/morphonent/pkg/async"
	"github.com/morphonent/morphonent/pkg/bus"
	"github.com/morphonent/morphonent/pkg/component"
	"github.com/morphonent/morphonent/pkg/dom"
	"github.com/morphonent/morphonent/pkg/registry"
)

// DefaultMarker is the attribute carrying path ids in server-rendered markup.
const DefaultMarker = "data-morphonent-id"

// Engine renders components into host trees. An Engine and the documents it
// writes to must only be used from its loop's goroutine.
type Engine struct {
	loop    *async.Loop
	bus     *bus.Bus
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
	marker  string

	mu         sync.Mutex
	observed   map[*dom.Document]bool
	subscribed int
	closed     bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithBus sets the bus subscriptions register on and Dispatch raises events
// through. Defaults to bus.Default().
func WithBus(b *bus.Bus) Option {
	return func(e *Engine) {
		if b != nil {
			e.bus = b
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithTracer sets the tracer used for render and dispatch spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithMarker sets the hydration marker attribute.
func WithMarker(attr string) Option {
	return func(e *Engine) {
		if attr != "" {
			e.marker = attr
		}
	}
}

// New creates an Engine whose continuations run on loop. A nil loop uses
// async.Default().
func New(loop *async.Loop, opts ...Option) *Engine {
	if loop == nil {
		loop = async.Default()
	}
	e := &Engine{
		loop:     loop,
		bus:      bus.Default(),
		logger:   slog.Default().With("component", "morph"),
		tracer:   defaultTracer(),
		marker:   DefaultMarker,
		observed: make(map[*dom.Document]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = sync.OnceValue(func() *Engine { return New(nil) })

// Default returns the process-wide Engine, bound to async.Default() and
// bus.Default().
func Default() *Engine {
	return defaultEngine()
}

// Render renders c under root with the default engine.
func Render(root *dom.Node, c component.Component) error {
	return Default().Render(root, c)
}

// RenderOn renders c under the first element of doc matching selector with
// the default engine.
func RenderOn(doc *dom.Document, selector string, c component.Component) error {
	return Default().RenderOn(doc, selector, c)
}

// Dispatch raises a bus event on the default engine's bus.
func Dispatch(event string, payload any) bool {
	return Default().Dispatch(event, payload)
}

// Loop returns the loop continuations are scheduled on.
func (e *Engine) Loop() *async.Loop {
	return e.loop
}

// Bus returns the engine's bus.
func (e *Engine) Bus() *bus.Bus {
	return e.bus
}

// Marker returns the hydration marker attribute.
func (e *Engine) Marker() string {
	return e.marker
}

// Registry returns the registry attached to root, or nil if root was never
// rendered into.
func (e *Engine) Registry(root *dom.Node) *registry.Registry {
	return registry.Lookup(root)
}

// Render renders c under root. The first render attaches a registry to root
// and hydrates it when it carries the marker; later renders reconcile
// against what the earlier ones produced. Writes for suspended positions
// happen later, on the loop.
func (e *Engine) Render(root *dom.Node, c component.Component) error {
	return e.RenderContext(context.Background(), root, c)
}

// RenderContext is Render with a parent context for tracing.
func (e *Engine) RenderContext(ctx context.Context, root *dom.Node, c component.Component) (err error) {
	if root == nil {
		return merrors.New("E001")
	}
	_, span := e.startSpan(ctx, spanRender,
		attribute.String("morphonent.root", root.NodeName()),
	)
	start := time.Now()
	defer func() {
		e.metrics.observeRender(time.Since(start), err)
		endSpan(span, err)
	}()

	reg, created := registry.For(root)
	if created {
		e.observe(root.OwnerDocument())
		if root.HasAttribute(e.marker) {
			n := e.hydrate(reg, root)
			e.metrics.hydrated(n)
			e.logger.Debug("hydrated", "nodes", n)
		}
	}
	reg.Set(registry.Root(), root)
	registry.Stamp(root, registry.Root())

	if err = e.resolve(root, reg, root, c, registry.Root().Child(0)); err != nil {
		return merrors.FromError(err, "E004")
	}
	return nil
}

// RenderOn renders c under the first element of doc matching selector.
func (e *Engine) RenderOn(doc *dom.Document, selector string, c component.Component) error {
	target, err := doc.QuerySelector(selector)
	if err != nil {
		return merrors.New("E003").WithTarget(selector).Wrap(err)
	}
	if target == nil {
		return merrors.New("E002").WithTarget(selector)
	}
	return e.Render(target, c)
}

// Dispatch raises event with payload on the engine's bus. Subscribed
// handlers run synchronously, each rendering against its own root. It
// always returns true.
func (e *Engine) Dispatch(event string, payload any) bool {
	_, span := e.startSpan(context.Background(), spanDispatch,
		attribute.String("morphonent.event", event),
	)
	defer span.End()
	label := event
	if e.bus.Listeners(event) == 0 {
		label = otherEvent
	}
	e.metrics.dispatched(label)
	return e.bus.Dispatch(event, payload)
}

// otherEvent labels dispatches of names nobody listens to, so callers cannot
// grow the metric's label set at will.
const otherEvent = "other"

// Close withdraws the engine's subscriptions from the bus_subscriptions
// gauge. The bus itself keeps its handlers.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.metrics.subscriptions(-e.subscribed)
	e.subscribed = 0
}

func (e *Engine) trackSubscriptions(added int) {
	if added == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.subscribed += added
	e.metrics.subscriptions(added)
}

// observe feeds the document's writes into the metrics, once per document.
func (e *Engine) observe(doc *dom.Document) {
	if e.metrics == nil || doc == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.observed[doc] {
		return
	}
	e.observed[doc] = true
	doc.Observe(func(w dom.Write) { e.metrics.wrote(w.Op) })
}

// report hands an error raised outside any caller's reach to the loop.
func (e *Engine) report(err error) {
	if err != nil {
		e.loop.Report(fmt.Errorf("morph: %w", err))
	}
}
