package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the delivery worker metrics.
type Metrics struct {
	DeliveriesProcessed *prometheus.CounterVec
	DeliveriesFailed    *prometheus.CounterVec
	DeliveryLatency     prometheus.Histogram
	DeliveryRetries     *prometheus.CounterVec
	QueueDepth          prometheus.Gauge

	DatabaseOperations *prometheus.CounterVec
}

// NewMetrics creates and registers all worker metrics.
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		DeliveriesProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "deliveries_processed_total",
			Help:      "Total number of notifications delivered",
		}, []string{"channel"}),
		DeliveriesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "deliveries_failed_total",
			Help:      "Total number of notification deliveries that failed",
		}, []string{"channel"}),
		DeliveryLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "delivery_duration_seconds",
			Help:      "Time spent delivering a batch of notifications",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		DeliveryRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "delivery_retry_attempts_total",
			Help:      "Total number of retry attempts per channel",
		}, []string{"channel"}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queue_depth",
			Help:      "Pending notifications claimed in the last poll",
		}),
		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
	}
}
