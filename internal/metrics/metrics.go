// Package metrics exposes Prometheus metrics for simulation runs.
//
// Metrics:
//   - probsched_runs_total{outcome}: finished runs, labelled "success", a
//     model.ErrorKind, or "run_in_progress" for rejected starts
//   - probsched_engine_duration_seconds: wall time of engine invocations
//   - probsched_run_in_progress: 1 while a run is outstanding
package metrics

import (
	"net/http"
	"time"

	"github.com/me/probsched/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels that are not error kinds.
const (
	OutcomeSuccess       = "success"
	OutcomeRunInProgress = "run_in_progress"
)

// Collector records run metrics. A nil *Collector is valid and records nothing.
type Collector struct {
	runs           *prometheus.CounterVec
	engineDuration prometheus.Histogram
	inProgress     prometheus.Gauge
}

// NewCollector creates the metrics and registers them on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "probsched_runs_total",
			Help: "Total number of simulation runs by outcome",
		}, []string{"outcome"}),
		engineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "probsched_engine_duration_seconds",
			Help:    "Engine invocation wall time in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		inProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "probsched_run_in_progress",
			Help: "1 while a simulation run is outstanding",
		}),
	}

	reg.MustRegister(c.runs, c.engineDuration, c.inProgress)

	// Pre-create every label so dashboards see zeros before the first run.
	c.runs.WithLabelValues(OutcomeSuccess)
	c.runs.WithLabelValues(OutcomeRunInProgress)
	for _, k := range Kinds {
		c.runs.WithLabelValues(string(k))
	}
	return c
}

// Kinds lists the error kinds used as outcome labels.
var Kinds = []model.ErrorKind{
	model.KindConfiguration,
	model.KindEngineNotFound,
	model.KindTimeout,
	model.KindProcessFailedOpaque,
	model.KindProcessFailedMalformed,
	model.KindMalformedSuccessOutput,
	model.KindEngineReportedError,
	model.KindResultProcessing,
}

// RecordRun counts a finished run. err is the run's error or nil.
func (c *Collector) RecordRun(err error) {
	if c == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = string(model.KindOf(err))
		if outcome == "" {
			outcome = string(model.KindResultProcessing)
		}
	}
	c.runs.WithLabelValues(outcome).Inc()
}

// RecordRejected counts a run refused because another was outstanding.
func (c *Collector) RecordRejected() {
	if c == nil {
		return
	}
	c.runs.WithLabelValues(OutcomeRunInProgress).Inc()
}

// ObserveEngine records the wall time of one engine invocation.
func (c *Collector) ObserveEngine(d time.Duration) {
	if c == nil {
		return
	}
	c.engineDuration.Observe(d.Seconds())
}

// SetInProgress flips the in-progress gauge.
func (c *Collector) SetInProgress(running bool) {
	if c == nil {
		return
	}
	if running {
		c.inProgress.Set(1)
	} else {
		c.inProgress.Set(0)
	}
}

// Handler returns the /metrics handler for the given gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
