// Package metrics exposes Prometheus metrics for evaluations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the evaluation metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	EvaluationsTotal   *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	AppIndex           *prometheus.GaugeVec
	CollectorErrors    *prometheus.CounterVec
	RecordsTotal       *prometheus.CounterVec
}

// NewRecorder creates a Recorder with Go runtime and process collectors
// registered alongside the evaluation metrics.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		EvaluationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wcx_evaluations_total",
			Help: "Total number of evaluation runs by final status",
		}, []string{"status"}),
		EvaluationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "wcx_evaluation_duration_seconds",
			Help:    "Wall time of one application evaluation",
			Buckets: prometheus.DefBuckets,
		}),
		AppIndex: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wcx_app_index",
			Help: "Latest complexity index value per application",
		}, []string{"app_id", "index"}),
		CollectorErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wcx_collector_errors_total",
			Help: "Collector failures that were treated as empty input",
		}, []string{"collector"}),
		RecordsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wcx_records_total",
			Help: "Raw records collected by kind",
		}, []string{"kind"}),
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveEvaluation records the outcome of a whole evaluation run.
func (r *Recorder) ObserveEvaluation(status string) {
	r.EvaluationsTotal.WithLabelValues(status).Inc()
}

// ObserveApp records the duration and indices of one scored application.
func (r *Recorder) ObserveApp(appID string, took time.Duration, indices map[string]float64) {
	r.EvaluationDuration.Observe(took.Seconds())
	for name, v := range indices {
		r.AppIndex.WithLabelValues(appID, name).Set(v)
	}
}

// CollectorFailed counts a collector error.
func (r *Recorder) CollectorFailed(collector string) {
	r.CollectorErrors.WithLabelValues(collector).Inc()
}

// RecordsCollected adds n records of the given kind.
func (r *Recorder) RecordsCollected(kind string, n int) {
	r.RecordsTotal.WithLabelValues(kind).Add(float64(n))
}
