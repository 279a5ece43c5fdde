package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// risk-analysis service.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec // labels: outcome={ok,validation_error,provider_error}
	AssetsAnalyzed   prometheus.Counter
	RowsRejected     prometheus.Counter
	CoverageGaps     prometheus.Counter
	ModelFallbacks   prometheus.Counter
	AnalysisDuration prometheus.Histogram

	// Hazard provider metrics.
	ProviderRequestDuration *prometheus.HistogramVec // labels: op={query,size,sample_point,sample_buffered}
	DatasetCache            *prometheus.CounterVec   // labels: result={hit,miss}

	// Result publishing metrics.
	ResultsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AnalysesTotal,
		m.AssetsAnalyzed,
		m.RowsRejected,
		m.CoverageGaps,
		m.ModelFallbacks,
		m.AnalysisDuration,
		m.ProviderRequestDuration,
		m.DatasetCache,
		m.ResultsPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "analyses_total",
			Help:      "Completed analysis requests by outcome.",
		}, []string{"outcome"}),
		AssetsAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "assets_analyzed_total",
			Help:      "Total assets that produced a risk record.",
		}),
		RowsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "rows_rejected_total",
			Help:      "Total portfolio rows dropped during ingestion validation.",
		}),
		CoverageGaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "coverage_gaps_total",
			Help:      "Analyses answered with sentinel records because the hazard dataset was empty.",
		}),
		ModelFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "model_fallbacks_total",
			Help:      "Analyses that fell back to the un-model-filtered dataset.",
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_risk",
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end duration of one analysis request.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ProviderRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flood_risk",
			Name:      "provider_request_duration_seconds",
			Help:      "Hazard provider request duration by operation.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"op"}),
		DatasetCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "dataset_cache_total",
			Help:      "Dataset lookup cache results.",
		}, []string{"result"}),
		ResultsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "results_published_total",
			Help:      "Analyses published to the results topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_risk",
			Name:      "publish_errors_total",
			Help:      "Failed publishes to the results topic.",
		}),
	}
}
