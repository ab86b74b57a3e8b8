// Package server serves a morphonent app over HTTP and keeps one live
// session per browser connection.
//
// The page handler renders the app once and streams it as HTML annotated
// with path ids. The browser then opens a WebSocket to the live endpoint.
// The session renders the app again into its own host document, adopting
// the markup the page was served with, and from then on:
//
//   - "event" messages fire a host event on the node at a path id
//   - "dispatch" messages raise a bus event on the session's engine
//   - whenever the session's loop goes idle and the tree changed, the new
//     markup is pushed to the browser as an "html" message
//
// Every session owns its loop, bus, engine and document, so sessions never
// share state. Handlers run on the session's loop goroutine.
//
// # Routes
//
//	GET /           page with the pre-rendered app and the client script
//	GET /live       WebSocket endpoint
//	GET /healthz    liveness probe
//	GET /metrics    Prometheus metrics (path configurable)
package server
