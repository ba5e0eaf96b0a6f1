package simulation

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/me/probsched/internal/cmdline"
	"github.com/me/probsched/internal/execution"
	"github.com/me/probsched/internal/metrics"
	"github.com/me/probsched/internal/stats"
	"github.com/me/probsched/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine is a Runtime that answers with a canned result. If gate is set,
// Run blocks until it is closed.
type fakeEngine struct {
	mu      sync.Mutex
	res     *execution.RunResult
	err     error
	gate    chan struct{}
	calls   int
	lastCmd []string
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Run(ctx context.Context, spec execution.RunSpec) (*execution.RunResult, error) {
	f.mu.Lock()
	f.calls++
	f.lastCmd = spec.Command
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.res, f.err
}

func newTestRunner(t *testing.T, engine *fakeEngine, timeout time.Duration) (*Runner, *prometheus.Registry) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	inv := execution.NewInvoker(engine, timeout, logger)
	return NewRunner(cmdline.NewBuilder("engine"), inv, logger, WithMetrics(metrics.NewCollector(reg))), reg
}

const successPayload = `{
  "success": true,
  "results": {
    "stats": {"avg_waiting_time": 3.5, "avg_turnaround_time": 7, "cpu_utilization": 83.3333, "throughput": 0.5, "deadline_misses": "x"},
    "processes_generated": [["P1", 0, 2, 1], ["P2", 1, 1, 3]],
    "timeline_string": "[P1][P1][P2][-][-][P1]"
  }
}`

func TestRunner_Success(t *testing.T) {
	engine := &fakeEngine{res: &execution.RunResult{Stdout: successPayload}}
	runner, _ := newTestRunner(t, engine, time.Second)

	cfg := model.SimulationConfig{Algorithm: model.AlgorithmRoundRobin, Input: model.InputSource{Path: "ignored.csv", Count: 2}, Quantum: 2}
	report, err := runner.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"engine", "--algo", "rr", "--gen", "2", "--quantum", "2"}, engine.lastCmd)
	assert.Equal(t, cfg, report.Config)
	assert.Len(t, report.Processes, 2)
	assert.Equal(t, stats.Display{
		AvgWaitingTime:    "3.50",
		AvgTurnaroundTime: "7.00",
		CPUUtilization:    "83.33",
		Throughput:        "0.5000",
		DeadlineMisses:    stats.NotAvailable,
	}, report.Stats)
	assert.True(t, report.HasTrace)
	assert.Equal(t, []model.GanttInterval{
		{Label: "P1", Start: 0, End: 2},
		{Label: "P2", Start: 2, End: 3},
		{Label: model.IdleLabel, Start: 3, End: 5},
		{Label: "P1", Start: 5, End: 6},
	}, report.Intervals)
	assert.Regexp(t, `^run_[0-9a-f]{8}$`, report.RunID)

	rec, ok := runner.Latest()
	require.True(t, ok)
	assert.Equal(t, report, rec.Report)
	assert.NoError(t, rec.Err)
}

func TestRunner_MissingTimeline(t *testing.T) {
	engine := &fakeEngine{res: &execution.RunResult{Stdout: `{"success":true,"results":{}}`}}
	runner, _ := newTestRunner(t, engine, time.Second)

	report, err := runner.Run(context.Background(), model.SimulationConfig{Algorithm: model.AlgorithmFCFS, Input: model.RandomGeneration(1)})
	require.NoError(t, err)
	assert.False(t, report.HasTrace)
	assert.Empty(t, report.Intervals)
	assert.Equal(t, stats.Empty(), report.Stats)
}

func TestRunner_ConfigurationErrorSpawnsNothing(t *testing.T) {
	engine := &fakeEngine{res: &execution.RunResult{Stdout: successPayload}}
	runner, reg := newTestRunner(t, engine, time.Second)

	_, err := runner.Run(context.Background(), model.SimulationConfig{Algorithm: model.AlgorithmFCFS})
	assert.Equal(t, model.KindConfiguration, model.KindOf(err))
	assert.Equal(t, 0, engine.calls)

	rec, ok := runner.Latest()
	require.True(t, ok)
	assert.Nil(t, rec.Report)
	assert.Equal(t, model.KindConfiguration, model.KindOf(rec.Err))
	assert.False(t, runner.Running())

	assert.Equal(t, 1.0, metricValue(t, reg, string(model.KindConfiguration)))
}

func TestRunner_EngineFailureReplacesPreviousResult(t *testing.T) {
	engine := &fakeEngine{res: &execution.RunResult{Stdout: successPayload}}
	runner, reg := newTestRunner(t, engine, time.Second)
	cfg := model.SimulationConfig{Algorithm: model.AlgorithmFCFS, Input: model.RandomGeneration(2)}

	_, err := runner.Run(context.Background(), cfg)
	require.NoError(t, err)

	engine.res = &execution.RunResult{ExitCode: 1, Stdout: `{"success":false,"error":"bad input"}`}
	_, err = runner.Run(context.Background(), cfg)
	var re *model.RunError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, model.KindEngineReportedError, re.Kind)
	assert.Equal(t, "bad input", re.Message)

	rec, ok := runner.Latest()
	require.True(t, ok)
	assert.Nil(t, rec.Report, "a failed run must not leave the previous report visible")

	assert.Equal(t, 1.0, metricValue(t, reg, metrics.OutcomeSuccess))
	assert.Equal(t, 1.0, metricValue(t, reg, string(model.KindEngineReportedError)))
}

func TestRunner_Timeout(t *testing.T) {
	engine := &fakeEngine{gate: make(chan struct{}), res: &execution.RunResult{Stdout: successPayload}}
	runner, _ := newTestRunner(t, engine, 50*time.Millisecond)

	_, err := runner.Run(context.Background(), model.SimulationConfig{Algorithm: model.AlgorithmSJF, Input: model.RandomGeneration(3)})
	assert.Equal(t, model.KindTimeout, model.KindOf(err))
	assert.False(t, runner.Running(), "a timed out run leaves the runner ready")
}

func TestRunner_RejectsOverlappingRuns(t *testing.T) {
	gate := make(chan struct{})
	engine := &fakeEngine{gate: gate, res: &execution.RunResult{Stdout: successPayload}}
	runner, reg := newTestRunner(t, engine, 5*time.Second)
	cfg := model.SimulationConfig{Algorithm: model.AlgorithmFCFS, Input: model.RandomGeneration(2)}

	done := make(chan error, 1)
	go func() {
		_, err := runner.Run(context.Background(), cfg)
		done <- err
	}()
	require.Eventually(t, runner.Running, 2*time.Second, 5*time.Millisecond)

	_, ok := runner.Latest()
	assert.False(t, ok, "the previous record is cleared while a run is outstanding")

	_, err := runner.Run(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrRunInProgress)
	assert.Equal(t, 1.0, metricValue(t, reg, metrics.OutcomeRunInProgress))

	close(gate)
	require.NoError(t, <-done)

	_, err = runner.Run(context.Background(), cfg)
	assert.NoError(t, err, "a new run may start once the previous one finished")
}

func TestRunner_DefaultTimeout(t *testing.T) {
	runner, _ := newTestRunner(t, &fakeEngine{}, 0)
	assert.Equal(t, execution.DefaultTimeout, runner.Timeout())
}

func metricValue(t *testing.T, reg *prometheus.Registry, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "probsched_runs_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "outcome" && lp.GetValue() == outcome {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	t.Fatalf("no probsched_runs_total sample for outcome %q", outcome)
	return 0
}
