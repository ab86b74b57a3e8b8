package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routeOf returns the chi route pattern matched for r, or "unmatched". It is
// only complete once the router has served r.
func routeOf(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
