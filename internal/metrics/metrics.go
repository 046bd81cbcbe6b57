// Package metrics holds the Prometheus collectors shared by the stores and the toast sinks.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clonestate"

var (
	// StoreMutations counts state changes applied by each store.
	StoreMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_mutations_total",
		Help:      "State changes applied by a store, by operation.",
	}, []string{"store", "op"})

	// PersistFailures counts writes to the backend that failed and left the
	// in-memory state ahead of the persisted one.
	PersistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "persist_failures_total",
		Help:      "Backend writes that failed, by store and operation.",
	}, []string{"store", "op"})

	// LoadFallbacks counts loads that fell back to the compiled defaults.
	LoadFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "load_fallbacks_total",
		Help:      "Store loads that used defaults instead of persisted data, by reason.",
	}, []string{"store", "reason"})

	// RecordsDropped counts persisted records rejected by validation on load.
	RecordsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_dropped_total",
		Help:      "Persisted records dropped on load because they failed validation.",
	}, []string{"store"})

	// UnreadNotifications tracks the unread count after every notification change.
	UnreadNotifications = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "unread_notifications",
		Help:      "Number of unread notifications.",
	})

	// ToastsRaised counts toasts by level.
	ToastsRaised = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "toasts_total",
		Help:      "Toasts raised, by level.",
	}, []string{"level"})

	// ToastsDropped counts toasts a sink discarded because it could not keep up.
	ToastsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "toasts_dropped_total",
		Help:      "Toasts discarded by a sink, by sink.",
	}, []string{"sink"})
)
