package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GatewayMetricsCollector handles websocket gateway connection metrics.
// The gateway pushes events here as clients come and go.
type GatewayMetricsCollector struct {
	connectedClients prometheus.Gauge
	connectionsTotal prometheus.Counter
	commandsReceived prometheus.Counter
	eventsBroadcast  prometheus.Counter
	rateLimited      prometheus.Counter
}

// NewGatewayMetricsCollector creates a new gateway metrics collector
func NewGatewayMetricsCollector() *GatewayMetricsCollector {
	return &GatewayMetricsCollector{
		connectedClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "gateway_connected_clients",
				Help:      "Currently connected websocket clients",
			},
		),

		connectionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "gateway_connections_total",
				Help:      "Total accepted websocket connections",
			},
		),

		commandsReceived: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "gateway_commands_received_total",
				Help:      "Total request envelopes received from clients",
			},
		),

		eventsBroadcast: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "gateway_events_broadcast_total",
				Help:      "Total event envelopes fanned out to subscribers",
			},
		),

		rateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "gateway_rate_limited_total",
				Help:      "Requests rejected by the per-connection rate limiter",
			},
		),
	}
}

// Register registers all gateway metrics with the Prometheus registry
func (c *GatewayMetricsCollector) Register() error {
	return registerAll(
		c.connectedClients,
		c.connectionsTotal,
		c.commandsReceived,
		c.eventsBroadcast,
		c.rateLimited,
	)
}

// ClientConnected records an accepted connection
func (c *GatewayMetricsCollector) ClientConnected() {
	c.connectionsTotal.Inc()
	c.connectedClients.Inc()
}

// ClientDisconnected records a closed connection
func (c *GatewayMetricsCollector) ClientDisconnected() {
	c.connectedClients.Dec()
}

// CommandReceived records one inbound request envelope
func (c *GatewayMetricsCollector) CommandReceived() {
	c.commandsReceived.Inc()
}

// EventBroadcast records one event envelope fanned out to a subscriber
func (c *GatewayMetricsCollector) EventBroadcast() {
	c.eventsBroadcast.Inc()
}

// RateLimited records one request rejected by the rate limiter
func (c *GatewayMetricsCollector) RateLimited() {
	c.rateLimited.Inc()
}
