package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics
type Metrics struct {
	// Store related metrics
	StoreOperations   *prometheus.CounterVec
	StoreLatency      *prometheus.HistogramVec
	CorruptedSkipped  prometheus.Counter
	EntitiesPersisted *prometheus.CounterVec

	// Event publishing metrics
	EventsPublished *prometheus.CounterVec
	EventsFailed    prometheus.Counter
}

// New creates all application metrics registered against the given registerer.
// Passing a fresh registry keeps tests isolated from each other.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StoreOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of file store operations",
		}, []string{"operation", "status"}),
		StoreLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Time spent in file store operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		CorruptedSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "corrupted_files_skipped_total",
			Help:      "Corrupted entity files skipped during collection scans",
		}),
		EntitiesPersisted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "entities_persisted_total",
			Help:      "Entities written, by collection",
		}, []string{"collection"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Entity change events published to the broker",
		}, []string{"type"}),
		EventsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "failed_total",
			Help:      "Entity change events that failed to publish",
		}),
	}

	reg.MustRegister(
		m.StoreOperations,
		m.StoreLatency,
		m.CorruptedSkipped,
		m.EntitiesPersisted,
		m.EventsPublished,
		m.EventsFailed,
	)

	return m
}
