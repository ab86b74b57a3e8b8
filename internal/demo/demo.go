// Package demo holds the sample applications served by "morphonent serve"
// and printed by "morphonent render".
//
// Each App builds the initial component tree for one engine. Event handlers
// return the next tree, so all state lives in closures.
package demo

import (
	"sort"
	"strings"
	"time"

	"github.com/morphonent/morphonent/internal/errors"
	"github.com/morphonent/morphonent/pkg/async"
	. "github.com/morphonent/morphonent/pkg/component"
	"github.com/morphonent/morphonent/pkg/dom"
	"github.com/morphonent/morphonent/pkg/morph"
)

// App builds the initial tree rendered by an engine.
type App func(e *morph.Engine) Component

// PingEvent is the bus event the ping app listens to.
const PingEvent = "ping"

// LoadDelay is how long the transition app takes to "load".
var LoadDelay = 300 * time.Millisecond

var apps = map[string]App{
	"counter":    Counter,
	"languages":  Languages,
	"ping":       Ping,
	"transition": TransitionApp,
}

// Lookup returns the app registered under name.
func Lookup(name string) (App, error) {
	app, ok := apps[strings.ToLower(name)]
	if !ok {
		return nil, errors.New("E140").
			WithTarget(name).
			WithDetail("Available apps: " + strings.Join(Names(), ", "))
	}
	return app, nil
}

// Names returns the registered app names, sorted.
func Names() []string {
	names := make([]string, 0, len(apps))
	for name := range apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Counter is a click counter.
func Counter(*morph.Engine) Component {
	return counter(0)
}

func counter(n int) Component {
	return H("div", Props{Class("counter")},
		H("button", Props{ID("decrement"), OnClick(func(*dom.Event) Component { return counter(n - 1) })}, Text("-")),
		H("span", Props{ID("count")}, Number(n)),
		H("button", Props{ID("increment"), OnClick(func(*dom.Event) Component { return counter(n + 1) })}, Text("+")),
	)
}

// Languages is a filterable list. Narrowing the filter shrinks the list in
// place.
func Languages(*morph.Engine) Component {
	return languages("")
}

var languageNames = []string{"Go", "Haskell", "JavaScript", "OCaml", "Python", "Rust", "TypeScript"}

func languages(filter string) Component {
	var items List
	for _, name := range languageNames {
		if strings.Contains(strings.ToLower(name), strings.ToLower(filter)) {
			items = append(items, H("li", nil, Text(name)))
		}
	}
	return H("section", Props{Class("languages")},
		H("input", Props{
			ID("filter"),
			Attr("placeholder", "Filter languages"),
			Value(filter),
			OnInput(func(ev *dom.Event) Component {
				if ev.Target == nil {
					return languages(filter)
				}
				return languages(ev.Target.Value())
			}),
		}),
		H("ul", nil, items),
		H("p", Props{ID("matches")}, Number(len(items)), Text(" matching")),
	)
}

type pingState struct {
	count int
	last  string
}

// Ping counts the ping events raised on the engine's bus. Its button raises
// one itself.
func Ping(e *morph.Engine) Component {
	s := &pingState{}
	var view func() Component
	view = func() Component {
		return ListeningTo(map[string]BusHandler{
			PingEvent: func(payload any) Component {
				s.count++
				s.last = PropString(payload)
				return view()
			},
		}, H("div", Props{Class("ping")},
			H("span", Props{ID("pings")}, Number(s.count)),
			H("span", Props{ID("last")}, Text(s.last)),
			H("button", Props{ID("send"), OnClick(func(*dom.Event) Component {
				e.Dispatch(PingEvent, "button")
				return view()
			})}, Text("Ping")),
		))
	}
	return view()
}

// TransitionApp swaps a loading indicator for the loaded content once a
// simulated fetch settles.
func TransitionApp(e *morph.Engine) Component {
	return idle(e)
}

func idle(e *morph.Engine) Component {
	return H("div", Props{Class("transition")},
		H("button", Props{ID("load"), OnClick(func(*dom.Event) Component {
			loaded := async.After[Component](e.Loop(), LoadDelay, H("div", Props{Class("transition")},
				H("p", Props{ID("status")}, Text("Loaded")),
				H("button", Props{ID("reset"), OnClick(func(*dom.Event) Component { return idle(e) })}, Text("Reset")),
			))
			return Transition(H("div", Props{Class("transition")},
				H("p", Props{ID("status")}, Text("Loading...")),
			), loaded)
		})}, Text("Load")),
	)
}
