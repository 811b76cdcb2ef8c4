// Package metrics exposes search and rebuild counters in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "acm"

// Metrics owns a private registry so tests and multiple servers never
// collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	searches *prometheus.CounterVec
	matches  prometheus.Counter
	symbols  prometheus.Counter
	latency  prometheus.Histogram
	rebuilds *prometheus.CounterVec
	patterns prometheus.Gauge
	nodes    prometheus.Gauge
}

// New registers every collector, including the Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Search requests by outcome.",
		}, []string{"outcome"}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Pattern occurrences reported across all searches.",
		}),
		symbols: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scanned_symbols_total",
			Help:      "Input symbols scanned across all searches.",
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time spent scanning one text.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		rebuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rebuilds_total",
			Help:      "Automaton rebuilds by outcome.",
		}, []string{"outcome"}),
		patterns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "patterns",
			Help:      "Patterns in the current automaton.",
		}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "nodes",
			Help:      "Trie nodes in the current automaton.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.searches, m.matches, m.symbols, m.latency,
		m.rebuilds, m.patterns, m.nodes,
	)
	return m
}

// ObserveSearch records a completed search.
func (m *Metrics) ObserveSearch(symbols, matches int, elapsed time.Duration) {
	m.searches.WithLabelValues("ok").Inc()
	m.symbols.Add(float64(symbols))
	m.matches.Add(float64(matches))
	m.latency.Observe(elapsed.Seconds())
}

// SearchFailed records a rejected search.
func (m *Metrics) SearchFailed() {
	m.searches.WithLabelValues("error").Inc()
}

// ObserveRebuild records a successful rebuild and the new automaton size.
func (m *Metrics) ObserveRebuild(patterns, nodes int) {
	m.rebuilds.WithLabelValues("ok").Inc()
	m.patterns.Set(float64(patterns))
	m.nodes.Set(float64(nodes))
}

// RebuildFailed records a rebuild that left the previous automaton in place.
func (m *Metrics) RebuildFailed() {
	m.rebuilds.WithLabelValues("error").Inc()
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
