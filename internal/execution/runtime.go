// Package execution runs the simulation engine as a bounded, one-shot process.
package execution

import (
	"context"
)

// Runtime abstracts the execution environment (local process, Docker, etc.).
type Runtime interface {
	// Name returns the runtime identifier used in configuration.
	Name() string

	// Run executes a command and returns the result. A non-zero exit code is
	// a result, not an error. Errors mean the command could not be started
	// or ctx ended first.
	Run(ctx context.Context, spec RunSpec) (*RunResult, error)
}

// RunSpec describes what to execute.
type RunSpec struct {
	Command []string // Command and arguments
	WorkDir string   // Working directory (local runtime only)
	Mounts  []string // Host directories the command needs to read (container runtimes)
}

// RunResult holds the result of a command execution.
type RunResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}
