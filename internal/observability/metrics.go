package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	apiRequestsTotal       *prometheus.CounterVec
	apiLatencySeconds      *prometheus.HistogramVec
	apiErrorsTotal         *prometheus.CounterVec
	realtimeConnections    prometheus.Gauge
	realtimeEmitsTotal     *prometheus.CounterVec
	realtimeEmitsDropped   *prometheus.CounterVec
	chatMessagesSent       *prometheus.CounterVec
	notificationsPublished *prometheus.CounterVec
	ordersCreatedTotal     prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "api_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		realtimeConnections = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "realtime_connections_active",
			Help: "Number of websocket connections currently open.",
		})

		realtimeEmitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "realtime_emits_total",
			Help: "Total number of targeted emits attempted, by event name.",
		}, []string{"event"})

		realtimeEmitsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "realtime_emits_dropped_total",
			Help: "Emits that found no registered connection, by event name.",
		}, []string{"event"})

		chatMessagesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_messages_sent_total",
			Help: "Chat messages persisted and broadcast, by message type.",
		}, []string{"type"})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "Durable notification records created, by notification type.",
		}, []string{"type"})

		ordersCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders successfully placed.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			realtimeConnections,
			realtimeEmitsTotal,
			realtimeEmitsDropped,
			chatMessagesSent,
			notificationsPublished,
			ordersCreatedTotal,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// RealtimeConnectionsActive exposes the open websocket connection gauge.
func RealtimeConnectionsActive() prometheus.Gauge {
	RegisterMetrics()
	return realtimeConnections
}

// RealtimeEmitsTotal exposes the targeted emit counter.
func RealtimeEmitsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return realtimeEmitsTotal
}

// RealtimeEmitsDropped exposes the counter of emits with no recipient online.
func RealtimeEmitsDropped() *prometheus.CounterVec {
	RegisterMetrics()
	return realtimeEmitsDropped
}

// ChatMessagesSent exposes the chat message counter.
func ChatMessagesSent() *prometheus.CounterVec {
	RegisterMetrics()
	return chatMessagesSent
}

// NotificationsPublishedTotal exposes the notification creation counter.
func NotificationsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// OrdersCreatedTotal exposes the order creation counter.
func OrdersCreatedTotal() prometheus.Counter {
	RegisterMetrics()
	return ordersCreatedTotal
}
