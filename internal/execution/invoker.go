package execution

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/me/probsched/internal/cmdline"
	"github.com/me/probsched/pkg/model"
)

// DefaultTimeout is the wall-clock ceiling for one engine run.
const DefaultTimeout = 30 * time.Second

// Invoker runs one engine command at a time under a fixed timeout.
type Invoker struct {
	runtime Runtime
	timeout time.Duration
	sem     *Semaphore
	logger  *slog.Logger
}

// NewInvoker creates an Invoker on rt. A non-positive timeout means DefaultTimeout.
func NewInvoker(rt Runtime, timeout time.Duration, logger *slog.Logger) *Invoker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Invoker{
		runtime: rt,
		timeout: timeout,
		sem:     NewSemaphore(1),
		logger:  logger.With("component", "invoker", "runtime", rt.Name()),
	}
}

// Timeout returns the invocation ceiling.
func (i *Invoker) Timeout() time.Duration {
	return i.timeout
}

// Invoke runs cmd and blocks until it exits or the timeout elapses.
//
// A timeout is reported as an outcome with TimedOut set and no output. A
// missing or unstartable engine is an engine_not_found RunError. Cancelling
// ctx does not stop a running engine; only the timeout does. ErrBusy is
// returned if another Invoke is still in flight.
func (i *Invoker) Invoke(ctx context.Context, cmd []string) (model.EngineOutcome, error) {
	if len(cmd) == 0 {
		return model.EngineOutcome{}, &model.RunError{Kind: model.KindConfiguration, Message: "no engine command", Err: ErrEmptyCommand}
	}
	if !i.sem.TryAcquire() {
		return model.EngineOutcome{}, ErrBusy
	}
	defer i.sem.Release()

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), i.timeout)
	defer cancel()

	spec := RunSpec{Command: cmd}
	if f := cmdline.InputFile(cmd); f != "" {
		spec.Mounts = []string{filepath.Dir(f)}
	}

	i.logger.Debug("invoking engine", "command", cmd, "timeout", i.timeout.String())
	start := time.Now()

	res, err := i.runtime.Run(runCtx, spec)
	elapsed := time.Since(start)

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		i.logger.Warn("engine timed out", "timeout", i.timeout.String())
		return model.EngineOutcome{TimedOut: true}, nil
	}
	if err != nil {
		i.logger.Error("engine could not be started", "engine", cmd[0], "error", err)
		return model.EngineOutcome{}, &model.RunError{Kind: model.KindEngineNotFound, Message: cmd[0], Err: err}
	}

	i.logger.Info("engine finished", "exit_code", res.ExitCode, "duration", elapsed.Round(time.Millisecond).String())
	return model.EngineOutcome{
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
	}, nil
}
