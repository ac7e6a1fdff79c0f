package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// place-resolution service.
type Metrics struct {
	ResolveRequests prometheus.Counter
	ResolveOutcomes *prometheus.CounterVec // labels: outcome={resolved,unresolved,unavailable}
	ResolveDuration prometheus.Histogram
	StrategyDepth   prometheus.Histogram // provider queries per terminated attempt

	// Search provider metrics.
	ProviderRequests *prometheus.CounterVec   // labels: kind={keyword,address}, outcome={hit,empty,error}
	ProviderDuration *prometheus.HistogramVec // labels: kind={keyword,address}
	ProviderCache    *prometheus.CounterVec   // labels: kind={keyword,address}, result={hit,miss}

	// Directions metrics.
	RouteRequests *prometheus.CounterVec // labels: mode={car,transit,walk}, outcome={ok,error}

	// Audit event metrics.
	EventsPublished    prometheus.Counter
	EventPublishErrors prometheus.Counter
	EventSinkEnabled   prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ResolveRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tripgpt",
			Name:      "resolve_requests_total",
			Help:      "Total resolution attempts started.",
		}),
		ResolveOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripgpt",
			Name:      "resolve_outcomes_total",
			Help:      "Terminal resolution outcomes.",
		}, []string{"outcome"}),
		ResolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tripgpt",
			Name:      "resolve_duration_seconds",
			Help:      "Duration of a complete resolution attempt.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StrategyDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tripgpt",
			Name:      "resolve_strategy_depth",
			Help:      "Provider queries issued before an attempt terminated.",
			Buckets:   []float64{1, 2, 3, 4, 5},
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripgpt",
			Name:      "provider_requests_total",
			Help:      "Search provider requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tripgpt",
			Name:      "provider_request_duration_seconds",
			Help:      "Search provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"kind"}),
		ProviderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripgpt",
			Name:      "provider_cache_total",
			Help:      "Provider cache lookups by kind and result.",
		}, []string{"kind", "result"}),
		RouteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tripgpt",
			Name:      "route_requests_total",
			Help:      "Directions requests by travel mode and outcome.",
		}, []string{"mode", "outcome"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tripgpt",
			Name:      "resolution_events_published_total",
			Help:      "Resolution audit events written to the sink topic.",
		}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tripgpt",
			Name:      "resolution_event_publish_errors_total",
			Help:      "Failed audit event publishes (best-effort, never fatal).",
		}),
		EventSinkEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tripgpt",
			Name:      "event_sink_enabled",
			Help:      "1 when the Kafka audit sink is configured, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.ResolveRequests,
		m.ResolveOutcomes,
		m.ResolveDuration,
		m.StrategyDepth,
		m.ProviderRequests,
		m.ProviderDuration,
		m.ProviderCache,
		m.RouteRequests,
		m.EventsPublished,
		m.EventPublishErrors,
		m.EventSinkEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ResolveRequests:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tripgpt", Name: "resolve_requests_total"}),
		ResolveOutcomes:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "tripgpt", Name: "resolve_outcomes_total"}, []string{"outcome"}),
		ResolveDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "tripgpt", Name: "resolve_duration_seconds"}),
		StrategyDepth:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "tripgpt", Name: "resolve_strategy_depth"}),
		ProviderRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "tripgpt", Name: "provider_requests_total"}, []string{"kind", "outcome"}),
		ProviderDuration:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "tripgpt", Name: "provider_request_duration_seconds"}, []string{"kind"}),
		ProviderCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "tripgpt", Name: "provider_cache_total"}, []string{"kind", "result"}),
		RouteRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "tripgpt", Name: "route_requests_total"}, []string{"mode", "outcome"}),
		EventsPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tripgpt", Name: "resolution_events_published_total"}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "tripgpt", Name: "resolution_event_publish_errors_total"}),
		EventSinkEnabled:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "tripgpt", Name: "event_sink_enabled"}),
	}
}
