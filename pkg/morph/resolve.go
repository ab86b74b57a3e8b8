package morph

import (
	"fmt"
	"sort"

	"github.com/morphonent/morphonent/pkg/async"
	"github.com/morphonent/morphonent/pkg/component"
	"github.com/morphonent/morphonent/pkg/dom"
	"github.com/morphonent/morphonent/pkg/registry"
)

// Suspension kinds, used as metric labels.
const (
	suspendDeferred   = "deferred"
	suspendTransition = "transition"
	suspendHandler    = "handler"
)

// resolve interprets c at position id under parent. root is the node the
// render started from; event and bus handlers render against it.
func (e *Engine) resolve(root *dom.Node, reg *registry.Registry, parent *dom.Node, c component.Component, id registry.ID) error {
	switch v := c.(type) {
	case nil:
		return nil

	case component.Text:
		return e.reconcileText(reg, parent, string(v), id)

	case component.Number:
		return e.reconcileText(reg, parent, v.String(), id)

	case component.Func:
		if v == nil {
			return nil
		}
		return e.resolve(root, reg, parent, v(), id)

	case component.List:
		// A single node that held this position gives way to the entries,
		// and surplus positions of a shorter list go before the new ones are
		// written.
		if single := reg.Get(id); single != nil && single != parent && single.ParentNode() == parent {
			e.discard(reg, single)
		}
		e.shrink(reg, parent, id, len(v))
		for i, child := range v {
			if err := e.resolve(root, reg, parent, child, id.Child(i)); err != nil {
				return err
			}
		}
		return nil

	case component.Deferred:
		e.suspend(root, reg, parent, v, id, suspendDeferred)
		return nil

	case *component.TransitionNode:
		if v == nil {
			return nil
		}
		if err := e.resolve(root, reg, parent, v.From, id); err != nil {
			return err
		}
		e.suspend(root, reg, parent, v.To, id, suspendTransition)
		return nil

	case *component.Subscription:
		if v == nil {
			return nil
		}
		e.subscribe(root, v, id)
		return e.resolve(root, reg, parent, v.Body, id)

	case *component.Element:
		if v == nil {
			return nil
		}
		if v.Render != nil {
			return e.resolve(root, reg, parent, v.Render(v.Props, v.Children), id)
		}
		return e.reconcileElement(root, reg, parent, v, id)

	default:
		e.logger.Debug("unsupported component ignored", "id", id, "type", fmt.Sprintf("%T", c))
		return nil
	}
}

// suspend schedules d's value to be resolved at id once it settles. A
// rejection is reported to the loop as unhandled.
func (e *Engine) suspend(root *dom.Node, reg *registry.Registry, parent *dom.Node, d component.Deferred, id registry.ID, kind string) {
	if d.Value == nil {
		return
	}
	e.metrics.suspended(kind)
	d.Value.Then(func(c component.Component) {
		e.report(e.resolve(root, reg, parent, c, id))
	}, func(err error) {
		e.metrics.rejected()
		e.loop.Report(&async.UnhandledRejection{Err: err})
	})
}

// subscribe records the subscription's position and registers each of its
// handlers on the bus under that position. Events are registered in name
// order so listener order does not depend on map iteration.
func (e *Engine) subscribe(root *dom.Node, sub *component.Subscription, id registry.ID) {
	sub.ID = id

	names := make([]string, 0, len(sub.Events))
	for name := range sub.Events {
		names = append(names, name)
	}
	sort.Strings(names)

	added := 0
	for _, name := range names {
		handler := sub.Events[name]
		if handler == nil {
			continue
		}
		if e.bus.Subscribe(id.String(), name, func(payload any) {
			e.report(e.Render(root, handler(payload)))
		}) {
			added++
		}
	}
	e.trackSubscriptions(added)
}

// listener converts an event prop value into a host listener. ok is false
// when the value is not a handler at all and should be written as an
// attribute instead.
func (e *Engine) listener(root *dom.Node, value any) (l dom.Listener, ok bool) {
	switch h := value.(type) {
	case component.EventHandler:
		if h == nil {
			return nil, true
		}
		return func(ev *dom.Event) error { return e.Render(root, h(ev)) }, true

	case func(*dom.Event) component.Component:
		if h == nil {
			return nil, true
		}
		return func(ev *dom.Event) error { return e.Render(root, h(ev)) }, true

	case async.Thenable[component.EventHandler]:
		if h == nil {
			return nil, true
		}
		return func(ev *dom.Event) error {
			e.metrics.suspended(suspendHandler)
			next := async.Map(e.loop, h, func(fn component.EventHandler) component.Component {
				if fn == nil {
					return nil
				}
				return fn(ev)
			})
			return e.Render(root, component.Defer(next))
		}, true
	}
	return nil, false
}
