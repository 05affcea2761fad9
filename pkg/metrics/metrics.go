package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PredictionsServed counts predictions served, labelled by outcome (ok/error)
var PredictionsServed = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hestia_predictions_total",
		Help: "Total number of predictions served",
	},
	[]string{"outcome"},
)

// InferenceLatency records latency distribution for model inference
var InferenceLatency = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "hestia_inference_latency_seconds",
		Help:    "Latency in seconds of individual model inferences",
		Buckets: prometheus.DefBuckets,
	},
)

// Drift detection metrics
var (
	DriftScore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hestia_prediction_drift_score",
			Help: "Latest standardized deviation of prediction mean from baseline",
		},
	)

	DriftDetected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hestia_prediction_drift_detected",
			Help: "1 when prediction drift exceeds the configured threshold",
		},
	)
)

// ModelLoaded reports whether a production model bundle is loaded, by version
var ModelLoaded = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "hestia_model_loaded",
		Help: "1 when the production model bundle is loaded",
	},
	[]string{"version"},
)

func init() {
	prometheus.MustRegister(PredictionsServed, InferenceLatency)
	prometheus.MustRegister(DriftScore, DriftDetected, ModelLoaded)
}
