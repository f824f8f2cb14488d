// Package observability exposes the Prometheus collectors and tracing setup
// shared across the server.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DocumentsOpen counts documents materialized since startup. Documents
	// are never evicted, so this only grows.
	DocumentsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "codoc",
		Name:      "documents_open",
		Help:      "Number of live documents in the in-memory store.",
	})

	// ActiveSessions tracks WebSocket connections currently registered with
	// the hub, labeled by share id.
	ActiveSessions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "codoc",
		Name:      "active_sessions",
		Help:      "Open WebSocket connections per document.",
	}, []string{"share_id"})

	// Operations counts document mutations by operation name and outcome
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codoc",
		Name:      "document_operations_total",
		Help:      "Document operations processed, by operation and status.",
	}, []string{"operation", "status"})

	// Broadcasts counts events fanned out to connected clients
	Broadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "codoc",
		Name:      "event_broadcasts_total",
		Help:      "Domain events broadcast over WebSocket.",
	})

	// RenderProxyRequests counts upstream render calls by outcome
	RenderProxyRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codoc",
		Name:      "render_proxy_requests_total",
		Help:      "Requests proxied to the PlantUML render server, by status.",
	}, []string{"status"})
)

// RecordOperation increments the operation counter with a success or error
// status derived from err
func RecordOperation(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	Operations.WithLabelValues(operation, status).Inc()
}
