// Package metrics provides Prometheus collectors for property searches.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/denisok6893-rgb/property-call-search/internal/domain"
)

const namespace = "property_search"

// Outcome label values for SearchesTotal.
const (
	OutcomeMatched          = "matched"
	OutcomeNoMatch          = "no_match"
	OutcomeInventoryFailure = "inventory_failure"
)

type Metrics struct {
	// SearchesTotal counts searches. Labels: source (webhook, api), outcome.
	SearchesTotal *prometheus.CounterVec
	// SearchMatches observes how many properties a search returned.
	SearchMatches prometheus.Histogram
	// InventoryFetchDuration observes inventory fetch latency in seconds.
	InventoryFetchDuration prometheus.Histogram
	// CallSinkFailures counts failed call updates. Labels: sink.
	CallSinkFailures *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Total number of property searches by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		SearchMatches: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "matches",
				Help:      "Number of properties matched per search",
				Buckets:   []float64{0, 1, 2, 3, 5, 10, 25, 50, 100},
			},
		),
		InventoryFetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "inventory_fetch_duration_seconds",
				Help:      "Duration of inventory fetches in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		CallSinkFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "call_sink_failures_total",
				Help:      "Total number of failed call updates by sink",
			},
			[]string{"sink"},
		),
	}
	reg.MustRegister(m.SearchesTotal, m.SearchMatches, m.InventoryFetchDuration, m.CallSinkFailures)
	return m
}

// ObserveSearch records the outcome of one search.
func (m *Metrics) ObserveSearch(source string, matches int, inventoryErr error) {
	switch {
	case inventoryErr != nil:
		m.SearchesTotal.WithLabelValues(source, OutcomeInventoryFailure).Inc()
		return
	case matches == 0:
		m.SearchesTotal.WithLabelValues(source, OutcomeNoMatch).Inc()
	default:
		m.SearchesTotal.WithLabelValues(source, OutcomeMatched).Inc()
	}
	m.SearchMatches.Observe(float64(matches))
}

// Inventory is the fetch side of a property store.
type Inventory interface {
	GetAllProperties(ctx context.Context) ([]domain.Property, error)
}

// TimedInventory records fetch latency of the wrapped inventory.
type TimedInventory struct {
	inner    Inventory
	duration prometheus.Observer
}

func (m *Metrics) TimeInventory(inv Inventory) *TimedInventory {
	return &TimedInventory{inner: inv, duration: m.InventoryFetchDuration}
}

func (t *TimedInventory) GetAllProperties(ctx context.Context) ([]domain.Property, error) {
	start := time.Now()
	props, err := t.inner.GetAllProperties(ctx)
	t.duration.Observe(time.Since(start).Seconds())
	return props, err
}
