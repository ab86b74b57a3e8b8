// Package component defines the declarative tree the morphonent engine
// renders.
//
// # Variants
//
// Component is a closed set of variants. Primitives (Text, Number) become
// text nodes. *Element describes a host element, or, when Render is set, a
// function used in place of a tag. Func is re-evaluated on every render.
// List fans out into positional children. Deferred suspends a subtree until
// its thenable settles. *TransitionNode shows one component now and another
// later. *Subscription listens to bus events at its own position.
//
// # Building trees
//
//	component.H("div", component.Props{component.Attr("class", "card")},
//	    component.H("h1", nil, component.Text("Title")),
//	    component.H("button", component.Props{
//	        component.OnClick(func(*dom.Event) component.Component { return next() }),
//	    }, component.Text("Next")),
//	)
//
// # Props
//
// Props keep their insertion order. Keys starting with "on" are event props;
// their values are EventHandler or async.Thenable[EventHandler]. The "value"
// key is written as a live property. Everything else is an attribute.
package component
