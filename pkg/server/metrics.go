package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// serverMetrics holds the live-session collectors. A nil *serverMetrics
// records nothing.
type serverMetrics struct {
	activeSessions   prometheus.Gauge
	sessions         prometheus.Counter
	messagesReceived *prometheus.CounterVec
	messagesRejected *prometheus.CounterVec
	messagesSent     *prometheus.CounterVec
	bytesSent        prometheus.Counter
	pageRenders      prometheus.Counter
}

func newServerMetrics(reg prometheus.Registerer, namespace string) *serverMetrics {
	factory := promauto.With(reg)
	return &serverMetrics{
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "active_sessions",
			Help:      "Number of open live sessions.",
		}),
		sessions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "sessions_total",
			Help:      "Total number of live sessions opened.",
		}),
		messagesReceived: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "messages_received_total",
			Help:      "Total number of client messages accepted by type.",
		}, []string{"type"}),
		messagesRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "messages_rejected_total",
			Help:      "Total number of client messages rejected by error code.",
		}, []string{"code"}),
		messagesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "messages_sent_total",
			Help:      "Total number of server messages sent by type.",
		}, []string{"type"}),
		bytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "sent_bytes_total",
			Help:      "Total bytes of server messages sent.",
		}),
		pageRenders: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "page_renders_total",
			Help:      "Total number of pages served.",
		}),
	}
}

func (m *serverMetrics) sessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
	m.activeSessions.Inc()
}

func (m *serverMetrics) sessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

func (m *serverMetrics) received(typ string) {
	if m == nil {
		return
	}
	m.messagesReceived.WithLabelValues(typ).Inc()
}

func (m *serverMetrics) rejected(code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "unknown"
	}
	m.messagesRejected.WithLabelValues(code).Inc()
}

func (m *serverMetrics) sent(typ string, n int) {
	if m == nil {
		return
	}
	m.messagesSent.WithLabelValues(typ).Inc()
	m.bytesSent.Add(float64(n))
}

func (m *serverMetrics) pageServed() {
	if m == nil {
		return
	}
	m.pageRenders.Inc()
}
