package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/morphonent/morphonent/pkg/morph"
)

// ServerConfig holds configuration for the HTTP server and its sessions.
type ServerConfig struct {
	// Address is the listen address, e.g. "localhost:8080".
	Address string

	// Title is the page title.
	Title string

	// ReadTimeout bounds reading a client message.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout bounds writing a server message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between WebSocket pings. Must be shorter
	// than ReadTimeout, as pongs extend the read deadline.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// MaxMessageBytes is the largest client message accepted.
	// Default: 64KB.
	MaxMessageBytes int64

	// AllowedOrigins lists the origins allowed to open a live session. Empty
	// means same-origin only.
	AllowedOrigins []string

	// Marker is the hydration marker attribute.
	Marker string

	// TextMarkers annotates text nodes in the served page so sessions can
	// adopt mixed content.
	TextMarkers bool

	// Pretty indents the served page. Pretty pages do not hydrate cleanly.
	Pretty bool

	// MetricsPath is where Prometheus metrics are served. Empty disables the
	// endpoint.
	MetricsPath string

	// MetricsNamespace prefixes every metric name.
	MetricsNamespace string
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           "localhost:8080",
		Title:             "morphonent",
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		MaxMessageBytes:   64 * 1024,
		Marker:            morph.DefaultMarker,
		TextMarkers:       true,
		MetricsPath:       "/metrics",
		MetricsNamespace:  "morphonent",
	}
}

// withDefaults fills unset fields from DefaultServerConfig.
func (c *ServerConfig) withDefaults() *ServerConfig {
	defaults := DefaultServerConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.Title == "" {
		out.Title = defaults.Title
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaults.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.HeartbeatInterval == 0 {
		out.HeartbeatInterval = defaults.HeartbeatInterval
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.MaxMessageBytes == 0 {
		out.MaxMessageBytes = defaults.MaxMessageBytes
	}
	if out.Marker == "" {
		out.Marker = defaults.Marker
	}
	if out.MetricsNamespace == "" {
		out.MetricsNamespace = defaults.MetricsNamespace
	}
	return &out
}

// checkOrigin allows same-origin requests and the configured origins.
func (c *ServerConfig) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
