package component

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/morphonent/morphonent/pkg/async"
)

// Prop is a single prop.
type Prop struct {
	Key   string
	Value any
}

// Props is an ordered list of props.
type Props []Prop

// Get returns the value of the last prop with key.
func (p Props) Get(key string) (any, bool) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i].Key == key {
			return p[i].Value, true
		}
	}
	return nil, false
}

// With returns a copy of p with key set to value, keeping the original
// position when key already exists.
func (p Props) With(key string, value any) Props {
	out := make(Props, len(p), len(p)+1)
	copy(out, p)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Prop{Key: key, Value: value})
}

// Keys returns the prop keys in order.
func (p Props) Keys() []string {
	keys := make([]string, len(p))
	for i, prop := range p {
		keys[i] = prop.Key
	}
	return keys
}

// Attr creates an attribute prop.
func Attr(key string, value any) Prop {
	return Prop{Key: key, Value: value}
}

// Class sets the class attribute.
func Class(value string) Prop { return Attr("class", value) }

// ID sets the id attribute.
func ID(value string) Prop { return Attr("id", value) }

// Value sets the live value property of form controls.
func Value(value any) Prop { return Attr("value", value) }

// H creates an element. It is the data constructor for the element variant.
func H(name string, props Props, children ...Component) *Element {
	return &Element{Name: name, Props: props, Children: children}
}

// HNS creates an element in a namespace.
func HNS(namespace, name string, props Props, children ...Component) *Element {
	return &Element{Name: name, Namespace: namespace, Props: props, Children: children}
}

// Fn creates an element whose tag is a function.
func Fn(render ElementFunc, props Props, children ...Component) *Element {
	return &Element{Render: render, Props: props, Children: children}
}

// Defer wraps a thenable as a suspended subtree.
func Defer(t async.Thenable[Component]) Deferred {
	return Deferred{Value: t}
}

// Transition creates a transition: from is rendered immediately and to
// replaces it at the same position once it settles.
func Transition(from Component, to async.Thenable[Component]) *TransitionNode {
	return &TransitionNode{From: from, To: Deferred{Value: to}}
}

// ListeningTo creates a subscription rendering body and listening to events.
func ListeningTo(events map[string]BusHandler, body Component) *Subscription {
	return &Subscription{Events: events, Body: body}
}

// Texts converts strings to Text children.
func Texts(values ...string) List {
	out := make(List, len(values))
	for i, v := range values {
		out[i] = Text(v)
	}
	return out
}

// IsEventProp reports whether key names an event prop.
func IsEventProp(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "on")
}

// EventName returns the host event type of an event prop ("onClick" → "click").
func EventName(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, "on"))
}

// PropString converts a non-handler prop value to its attribute text.
func PropString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case Text:
		return string(x)
	case Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return Number(x).String()
	case float32:
		return formatNumber(float64(x), 32)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
