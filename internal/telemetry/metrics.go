// Package telemetry exposes Prometheus metrics for pipeline runs, draws,
// audits and the entropy pool.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "goentropy_stage_duration_seconds",
		Help:    "Duration of one pipeline stage",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	}, []string{"stage"})

	pipelineRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goentropy_pipeline_runs_total",
		Help: "Seed pipeline runs by purpose and outcome",
	}, []string{"purpose", "outcome"})

	drawRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goentropy_draw_stream_extensions_total",
		Help: "Times a draw stream was doubled after running out of seed bytes",
	})

	auditedBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "goentropy_audit_stream_bytes",
		Help:    "Size of audited byte streams",
		Buckets: prometheus.ExponentialBuckets(64, 4, 10),
	})

	anomaliesFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goentropy_audit_anomalies_total",
		Help: "Anomalies reported by audits, by kind",
	}, []string{"kind"})

	poolBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "goentropy_pool_bytes",
		Help: "Bytes currently buffered in the entropy pool",
	})
)

// ObserveStage records how long a stage took
func ObserveStage(stage string, d time.Duration) {
	stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// CountPipelineRun records a finished pipeline run
func CountPipelineRun(purpose string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	pipelineRuns.WithLabelValues(purpose, outcome).Inc()
}

// CountDrawExtension records one doubling of a draw stream
func CountDrawExtension() {
	drawRetries.Inc()
}

// ObserveAudit records an audited stream and its anomaly kinds
func ObserveAudit(size int, anomalyKinds []string) {
	auditedBytes.Observe(float64(size))
	for _, kind := range anomalyKinds {
		anomaliesFound.WithLabelValues(kind).Inc()
	}
}

// SetPoolBytes publishes the current pool fill level
func SetPoolBytes(n int) {
	poolBytes.Set(float64(n))
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
