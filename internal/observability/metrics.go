package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecast service.
type Metrics struct {
	ForecastsServed prometheus.Counter
	ForecastErrors  prometheus.Counter
	ServiceReady    prometheus.Gauge

	// Assembly metrics.
	MergeDuration prometheus.Histogram

	// Upstream fetch metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: source={gm,nws,spc}, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: source={gm,nws,spc}

	// Outlook cache metrics.
	OutlookRefreshes     prometheus.Counter
	OutlookRefreshErrors prometheus.Counter
	OutlookAgeSeconds    prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ForecastsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pointcast",
			Name:      "forecasts_served_total",
			Help:      "Total normalized forecasts assembled and returned.",
		}),
		ForecastErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pointcast",
			Name:      "forecast_errors_total",
			Help:      "Total forecast requests that failed before assembly.",
		}),
		ServiceReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pointcast",
			Name:      "service_ready",
			Help:      "1 when the service is ready to serve forecasts, 0 otherwise.",
		}),
		MergeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pointcast",
			Name:      "merge_duration_seconds",
			Help:      "Duration of a complete fetch-and-merge forecast assembly.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pointcast",
			Name:      "upstream_requests_total",
			Help:      "Upstream provider requests by source and outcome.",
		}, []string{"source", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pointcast",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"source"}),
		OutlookRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pointcast",
			Name:      "outlook_refreshes_total",
			Help:      "Total successful convective outlook refresh cycles.",
		}),
		OutlookRefreshErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pointcast",
			Name:      "outlook_refresh_errors_total",
			Help:      "Total failed convective outlook refresh cycles.",
		}),
		OutlookAgeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pointcast",
			Name:      "outlook_age_seconds",
			Help:      "Age of the cached convective outlook snapshot.",
		}),
	}

	prometheus.MustRegister(
		m.ForecastsServed,
		m.ForecastErrors,
		m.ServiceReady,
		m.MergeDuration,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.OutlookRefreshes,
		m.OutlookRefreshErrors,
		m.OutlookAgeSeconds,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ForecastsServed:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "pointcast", Name: "forecasts_served_total"}),
		ForecastErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "pointcast", Name: "forecast_errors_total"}),
		ServiceReady:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "pointcast", Name: "service_ready"}),
		MergeDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "pointcast", Name: "merge_duration_seconds"}),
		UpstreamRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "pointcast", Name: "upstream_requests_total"}, []string{"source", "outcome"}),
		UpstreamDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "pointcast", Name: "upstream_request_duration_seconds"}, []string{"source"}),
		OutlookRefreshes:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "pointcast", Name: "outlook_refreshes_total"}),
		OutlookRefreshErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "pointcast", Name: "outlook_refresh_errors_total"}),
		OutlookAgeSeconds:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "pointcast", Name: "outlook_age_seconds"}),
	}
}
