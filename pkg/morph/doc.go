// Package morph is the rendering engine. It turns a component.Component
// into live host nodes under a root and keeps them in step on every later
// render.
//
// # Rendering
//
// Render resolves the component against the root's registry. Every position
// in the tree has a path id ("R/0/1"); the node registered at that id is
// reused when it still fits, so re-rendering the same tree performs no
// structural writes:
//
//	doc := dom.NewDocument()
//	e := morph.New(async.NewLoop())
//	e.Render(doc.Body(), component.H("p", nil, component.Text("hello")))
//
// Text positions are rewritten only when their text changes. Element
// positions are recreated when the tag changes or the node was detached,
// and their surplus children are removed when the child list shrinks.
//
// # Asynchrony
//
// Deferred components and transitions suspend on a thenable. Their
// continuation runs on the engine's async.Loop and writes to the position
// reserved for them, whenever that is. Nothing is cancelled: when several
// values race for one position, the last to settle wins.
//
// # Events
//
// Event props ("onclick") install an inline handler that renders the
// handler's result against the same root. Subscriptions created with
// component.ListeningTo do the same for bus events raised by Dispatch.
//
// # Hydration
//
// A root that carries the hydration marker (data-morphonent-id by default)
// on first render is adopted instead of rebuilt: every marked node is
// registered under its marker, so the first render reuses the server's
// markup. See package render for the producing side.
package morph
