package component

import (
	"math"
	"strconv"
	"strings"

	"github.com/morphonent/morphonent/pkg/async"
	"github.com/morphonent/morphonent/pkg/dom"
	"github.com/morphonent/morphonent/pkg/registry"
)

// Component is the declarative description the engine consumes. The set of
// variants is closed: Text, Number, *Element, Func, List, Deferred,
// *TransitionNode and *Subscription. A nil Component renders nothing.
type Component interface {
	isComponent()
}

// Text is a string primitive, rendered as a text node.
type Text string

// Number is a numeric primitive, rendered as a text node.
type Number float64

// Func is a zero-argument function component. It is invoked again on every
// render that reaches its position; nothing is memoized.
type Func func() Component

// List fans out into one child position per entry.
type List []Component

// Deferred is a suspended subtree: nothing is written for its position until
// the thenable settles.
type Deferred struct {
	Value async.Thenable[Component]
}

// ElementFunc is a function used in place of a tag name. It receives the
// element's props and children and returns the component to render instead.
type ElementFunc func(props Props, children []Component) Component

// Element is a concrete host element description, or a function-as-tag
// indirection when Render is set.
type Element struct {
	Name      string      // tag name
	Render    ElementFunc // function-as-tag; takes precedence over Name
	Namespace string      // "" for HTML, dom.NamespaceSVG, ...
	Props     Props
	Children  []Component
}

// TransitionNode renders From immediately and replaces it with the value of
// To once it settles.
type TransitionNode struct {
	From Component
	To   Deferred
}

// BusHandler handles a bus event. Its result replaces the whole tree of the
// root the subscription was rendered under.
type BusHandler func(payload any) Component

// EventHandler handles a host event on an element. Its result replaces the
// whole tree of the root the element was rendered under.
type EventHandler func(ev *dom.Event) Component

// Subscription is a component that also listens to bus events at its own
// position. ID is recorded by the engine when the subscription is resolved.
type Subscription struct {
	ID     registry.ID
	Events map[string]BusHandler
	Body   Component
}

func (Text) isComponent()            {}
func (Number) isComponent()          {}
func (Func) isComponent()            {}
func (List) isComponent()            {}
func (Deferred) isComponent()        {}
func (*Element) isComponent()        {}
func (*TransitionNode) isComponent() {}
func (*Subscription) isComponent()   {}

// String returns the text a primitive renders as, the way JavaScript prints
// numbers: shortest round-trip digits (1 → "1", 1.5 → "1.5"), exponent form
// below 1e-6 and from 1e21 on (1e21 → "1e+21"), and "0" for negative zero.
func (n Number) String() string {
	return formatNumber(float64(n), 64)
}

func formatNumber(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}
	// Go pads the exponent to two digits ("1e-07"); JavaScript does not.
	s := strconv.FormatFloat(f, 'e', -1, bitSize)
	mant, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

// String returns the text itself.
func (t Text) String() string {
	return string(t)
}
