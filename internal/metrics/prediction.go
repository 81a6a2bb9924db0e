package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prediction Prometheus metrics.
var (
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "churn",
			Name:      "predictions_total",
			Help:      "Total number of successful predictions by decision",
		},
		[]string{"decision"}, // "churn" / "stay"
	)

	PredictionErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "churn",
			Name:      "prediction_errors_total",
			Help:      "Total number of failed predictions by stage",
		},
		[]string{"stage"}, // "encode" / "classify"
	)

	PredictionProbability = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "churn",
			Name:      "prediction_probability",
			Help:      "Distribution of predicted churn probabilities",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 9),
		},
	)

	ModelInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "churn",
			Name:      "model_info",
			Help:      "Loaded model artifact (always 1)",
		},
		[]string{"name", "checksum"},
	)
)

var predMetricsRegistered bool

// RegisterPredictionMetrics registers prediction metrics. Must be called once from main.
func RegisterPredictionMetrics() {
	if predMetricsRegistered {
		return
	}
	prometheus.MustRegister(PredictionsTotal)
	prometheus.MustRegister(PredictionErrorsTotal)
	prometheus.MustRegister(PredictionProbability)
	prometheus.MustRegister(ModelInfo)
	predMetricsRegistered = true
}
