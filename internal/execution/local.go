package execution

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// LocalRuntime executes commands as local processes.
type LocalRuntime struct {
	// WaitDelay bounds how long Run waits for output pipes after the process
	// is killed (default 2s).
	WaitDelay time.Duration
}

// Name returns "local".
func (r *LocalRuntime) Name() string {
	return "local"
}

// Run executes a command locally. The executable is looked up before
// anything is spawned.
func (r *LocalRuntime) Run(ctx context.Context, spec RunSpec) (*RunResult, error) {
	if len(spec.Command) == 0 {
		return nil, ErrEmptyCommand
	}

	path, err := exec.LookPath(spec.Command[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrEngineNotFound, spec.Command[0], err)
	}

	cmd := exec.CommandContext(ctx, path, spec.Command[1:]...)
	cmd.Dir = spec.WorkDir
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = 2 * time.Second
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	runErr := cmd.Run()

	// Killed by the deadline: whatever was captured is discarded.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("%w: start %s: %v", ErrEngineNotFound, path, runErr)
		}
		exitCode = exitErr.ExitCode()
	}

	return &RunResult{
		ExitCode: exitCode,
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
	}, nil
}
