// Package simulation runs the invocation pipeline: configuration, command,
// engine, interpretation and decoding, strictly in sequence.
package simulation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/me/probsched/internal/cmdline"
	"github.com/me/probsched/internal/execution"
	"github.com/me/probsched/internal/metrics"
	"github.com/me/probsched/internal/result"
	"github.com/me/probsched/internal/stats"
	"github.com/me/probsched/internal/timeline"
	"github.com/me/probsched/pkg/model"
)

// ErrRunInProgress is returned when Run is called while another run is outstanding.
var ErrRunInProgress = errors.New("a simulation run is already in progress")

// Report is everything a successful run produces for display.
type Report struct {
	RunID      string                 `json:"run_id"`
	Config     model.SimulationConfig `json:"config"`
	Command    []string               `json:"command"`
	StartedAt  time.Time              `json:"started_at"`
	Duration   time.Duration          `json:"duration_ns"`
	Processes  []model.ProcessRecord  `json:"processes"`
	Stats      stats.Display          `json:"stats"`
	Timeline   string                 `json:"timeline"`
	HasTrace   bool                   `json:"has_timeline"`
	Intervals  []model.GanttInterval  `json:"intervals"`
	EngineNote string                 `json:"engine_note,omitempty"`
}

// Record is the most recent finished run, successful or not.
type Record struct {
	RunID      string
	Report     *Report
	Err        error
	FinishedAt time.Time
}

// Runner executes one simulation at a time and remembers only the latest.
type Runner struct {
	builder *cmdline.Builder
	invoker *execution.Invoker
	metrics *metrics.Collector
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
	last    *Record
}

// Option configures optional Runner dependencies.
type Option func(*Runner)

// WithMetrics records run metrics on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runner) {
		r.metrics = c
	}
}

// NewRunner creates a Runner.
func NewRunner(builder *cmdline.Builder, invoker *execution.Invoker, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		builder: builder,
		invoker: invoker,
		logger:  logger.With("component", "runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one simulation. The previous record is cleared before the run
// starts and replaced when it finishes. Failures are *model.RunError values;
// ErrRunInProgress is returned without touching the previous record.
func (r *Runner) Run(ctx context.Context, cfg model.SimulationConfig) (*Report, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		r.metrics.RecordRejected()
		return nil, ErrRunInProgress
	}
	r.running = true
	r.last = nil
	r.mu.Unlock()
	r.metrics.SetInProgress(true)

	runID := newRunID()
	logger := r.logger.With("run_id", runID, "algorithm", cfg.Algorithm)

	report, err := r.run(ctx, runID, cfg, logger)

	r.mu.Lock()
	r.running = false
	r.last = &Record{RunID: runID, Report: report, Err: err, FinishedAt: time.Now()}
	r.mu.Unlock()
	r.metrics.SetInProgress(false)
	r.metrics.RecordRun(err)

	if err != nil {
		logger.Warn("simulation failed", "kind", model.KindOf(err), "error", err)
		return nil, err
	}
	logger.Info("simulation complete",
		"processes", len(report.Processes),
		"intervals", len(report.Intervals),
		"duration", report.Duration.Round(time.Millisecond).String(),
	)
	return report, nil
}

func (r *Runner) run(ctx context.Context, runID string, cfg model.SimulationConfig, logger *slog.Logger) (*Report, error) {
	cmd, err := r.builder.Build(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("engine command built", "command", cmd)

	start := time.Now()
	outcome, err := r.invoker.Invoke(ctx, cmd)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, execution.ErrBusy) {
			return nil, ErrRunInProgress
		}
		return nil, err
	}
	r.metrics.ObserveEngine(elapsed)

	res, err := result.Interpret(outcome)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:     runID,
		Config:    cfg,
		Command:   cmd,
		StartedAt: start,
		Duration:  elapsed,
		Processes: res.Processes,
		Stats:     stats.Extract(res.Stats),
		Intervals: []model.GanttInterval{},
	}
	if res.Error != nil {
		report.EngineNote = *res.Error
	}
	if res.TimelineTrace != nil {
		report.HasTrace = true
		report.Timeline = *res.TimelineTrace
		report.Intervals = timeline.Decode(report.Timeline)
	}
	return report, nil
}

// Latest returns the most recent finished run. ok is false before the first
// run and while a run is in progress.
func (r *Runner) Latest() (rec Record, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return Record{}, false
	}
	return *r.last, true
}

// Running reports whether a run is outstanding.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Timeout returns the engine time limit.
func (r *Runner) Timeout() time.Duration {
	return r.invoker.Timeout()
}

// newRunID generates a short unique run identifier.
func newRunID() string {
	return "run_" + uuid.New().String()[:8]
}
