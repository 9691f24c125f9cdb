package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges shared by the
// prediction API and the batch scoring pipeline.
type Metrics struct {
	// Prediction metrics.
	PredictionsTotal   *prometheus.CounterVec // labels: outcome={model,exact,error}
	PredictionErrors   *prometheus.CounterVec // labels: kind
	PredictionDuration prometheus.Histogram
	ModelLoaded        prometheus.Gauge

	// Batch scoring pipeline metrics.
	MessagesConsumed        prometheus.Counter
	MessagesProduced        prometheus.Counter
	TransformErrors         prometheus.Counter
	PipelineRunning         prometheus.Gauge
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aqi",
			Name:      "predictions_total",
			Help:      "Predictions served, by outcome (model estimate, exact breakpoint, or error).",
		}, []string{"outcome"}),
		PredictionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aqi",
			Name:      "prediction_errors_total",
			Help:      "Prediction failures by error kind.",
		}, []string{"kind"}),
		PredictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aqi",
			Name:      "prediction_duration_seconds",
			Help:      "End-to-end duration of a single prediction.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		ModelLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aqi",
			Name:      "model_loaded",
			Help:      "1 when the estimator artifact bundle is loaded.",
		}),
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aqi",
			Name:      "messages_consumed_total",
			Help:      "Total observation messages read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aqi",
			Name:      "messages_produced_total",
			Help:      "Total prediction events written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aqi",
			Name:      "transform_errors_total",
			Help:      "Total scoring failures in the batch pipeline.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aqi",
			Name:      "pipeline_running",
			Help:      "1 when the scoring pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aqi",
			Name:      "batch_size",
			Help:      "Number of observation messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aqi",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-score-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}

	prometheus.MustRegister(
		m.PredictionsTotal,
		m.PredictionErrors,
		m.PredictionDuration,
		m.ModelLoaded,
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PredictionsTotal:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "aqi", Name: "predictions_total"}, []string{"outcome"}),
		PredictionErrors:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "aqi", Name: "prediction_errors_total"}, []string{"kind"}),
		PredictionDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "aqi", Name: "prediction_duration_seconds"}),
		ModelLoaded:             prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "aqi", Name: "model_loaded"}),
		MessagesConsumed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aqi", Name: "messages_consumed_total"}),
		MessagesProduced:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aqi", Name: "messages_produced_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "aqi", Name: "transform_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "aqi", Name: "pipeline_running"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "aqi", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "aqi", Name: "batch_processing_duration_seconds"}),
	}
}
