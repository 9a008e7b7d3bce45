/*
Package stats provides the server's runtime counters and the optional internal
HTTP endpoint that exposes them.

This file defines the Metrics bundle registered on a private Prometheus
registry. The chat core increments these counters; the stats HTTP server
serves them on /metrics.
*/
package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters the chat core reports into.
type Metrics struct {
	// SessionsActive tracks the number of currently connected sessions.
	SessionsActive prometheus.Gauge

	// SessionsTotal counts every accepted connection.
	SessionsTotal prometheus.Counter

	// EventsTotal counts every event published into a room.
	EventsTotal prometheus.Counter

	// DroppedTotal counts events dropped because a subscriber lagged past
	// its buffer capacity.
	DroppedTotal prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates the metric bundle on a fresh private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "parley",
			Name:      "sessions_active",
			Help:      "Number of currently connected chat sessions.",
		}),
		SessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "sessions_total",
			Help:      "Total number of accepted connections.",
		}),
		EventsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "room_events_total",
			Help:      "Total number of events published into rooms.",
		}),
		DroppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "room_events_dropped_total",
			Help:      "Total number of events dropped for lagging subscribers.",
		}),
		registry: registry,
	}

	registry.MustRegister(m.SessionsActive, m.SessionsTotal, m.EventsTotal, m.DroppedTotal)

	return m
}

// Registry returns the Prometheus registry backing the metric bundle.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
