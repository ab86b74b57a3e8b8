// Package middleware provides the HTTP middleware the live server mounts on
// its chi router.
//
//   - OpenTelemetry starts a server span per request
//   - Prometheus counts requests and observes their duration
//   - Logger writes one slog line per request
//
// All three label requests by their chi route pattern rather than the raw
// path, so "/live?session=..." and "/live" share a series.
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry())
//	r.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
//	r.Use(middleware.Logger(logger))
package middleware
