// Package dom provides the live, mutable host document that the morphonent
// engine reconciles against.
//
// The tree is stored as golang.org/x/net/html nodes so that server markup can
// be parsed directly into it and selectors can be evaluated with cascadia.
// Each html.Node is exposed through a stable *Node wrapper, which also carries
// the state a browser keeps outside of markup: live properties (such as an
// input's value), inline event handlers, event listeners and arbitrary
// attachments keyed by the caller.
//
// # Write accounting
//
// Every mutation made through a Document is recorded as a Write. Tests use
// the counters to assert that reconciling an unchanged tree performs no
// writes at all:
//
//	doc.ResetWrites()
//	engine.Render(root, app)
//	if doc.Writes() != 0 { ... }
//
// # Concurrency
//
// A Document is not safe for concurrent use. All access must happen on the
// goroutine that drives the owning event loop.
package dom
