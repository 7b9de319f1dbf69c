// Package metrics registers the service's Prometheus collectors. Scraped
// via promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LiveConnections tracks currently open websocket connections,
	// authenticated and guest alike.
	LiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_live_connections",
		Help: "Number of open live connections.",
	})

	// MessagesSaved counts messages written to the store.
	MessagesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_messages_saved_total",
		Help: "Total chat messages persisted.",
	})

	// EventsEmitted counts outbound events by type, one increment per
	// receiving connection.
	EventsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_events_emitted_total",
		Help: "Total events delivered to live connections.",
	}, []string{"event"})
)
