// Package cmdline builds engine command lines from simulation configurations.
package cmdline

import (
	"path/filepath"
	"strconv"

	"github.com/me/probsched/pkg/model"
)

// Engine flags. The engine parses exactly these names.
const (
	FlagAlgorithm = "--algo"
	FlagFile      = "--file"
	FlagGenerate  = "--gen"
	FlagQuantum   = "--quantum"
	FlagMaxTime   = "--max"
)

// Builder constructs engine command lines.
type Builder struct {
	enginePath string
}

// NewBuilder creates a builder whose command lines start with enginePath.
func NewBuilder(enginePath string) *Builder {
	return &Builder{enginePath: enginePath}
}

// EnginePath returns the executable the builder puts in front of every command.
func (b *Builder) EnginePath() string {
	return b.enginePath
}

// Build returns the full command line, engine path first.
func (b *Builder) Build(cfg model.SimulationConfig) ([]string, error) {
	args, err := BuildArgs(cfg)
	if err != nil {
		return nil, err
	}
	return append([]string{b.enginePath}, args...), nil
}

// BuildArgs returns the engine arguments for cfg without the executable.
// It fails with a configuration RunError before anything is spawned.
func BuildArgs(cfg model.SimulationConfig) ([]string, error) {
	if !cfg.Algorithm.Valid() {
		return nil, model.NewConfigurationError("unknown algorithm %q", cfg.Algorithm)
	}

	args := buildPrefixedArgs(FlagAlgorithm, cfg.Algorithm.EngineName())

	switch cfg.Input.Resolve() {
	case model.InputGenerate:
		args = append(args, buildPrefixedArgs(FlagGenerate, strconv.Itoa(cfg.Input.Count))...)
	case model.InputFile:
		path, err := filepath.Abs(cfg.Input.Path)
		if err != nil {
			return nil, &model.RunError{Kind: model.KindConfiguration, Message: "resolve input file", Err: err}
		}
		args = append(args, buildPrefixedArgs(FlagFile, path)...)
	default:
		return nil, model.NewConfigurationError("choose a process file or a number of processes to generate")
	}

	if cfg.Algorithm.NeedsQuantum() {
		if cfg.Quantum <= 0 {
			return nil, model.NewConfigurationError("quantum must be a positive integer for %s, got %d", cfg.Algorithm, cfg.Quantum)
		}
		args = append(args, buildPrefixedArgs(FlagQuantum, strconv.Itoa(cfg.Quantum))...)
	}
	if cfg.Algorithm.NeedsMaxTime() {
		if cfg.MaxTime <= 0 {
			return nil, model.NewConfigurationError("max time must be a positive integer for %s, got %d", cfg.Algorithm, cfg.MaxTime)
		}
		args = append(args, buildPrefixedArgs(FlagMaxTime, strconv.Itoa(cfg.MaxTime))...)
	}

	return args, nil
}

// ParsePositiveInt reads a flag or form value that must be a positive integer.
// name is used in the error message.
func ParsePositiveInt(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, model.NewConfigurationError("%s must be a positive integer, got %q", name, value)
	}
	return n, nil
}

// InputFile returns the file argument from a built command line, or "" when
// the command uses generation.
func InputFile(cmd []string) string {
	for i := 0; i+1 < len(cmd); i++ {
		if cmd[i] == FlagFile {
			return cmd[i+1]
		}
	}
	return ""
}

// buildPrefixedArgs builds a flag/value pair. Engine flags always take their
// value as a separate argument.
func buildPrefixedArgs(prefix, value string) []string {
	return []string{prefix, value}
}
