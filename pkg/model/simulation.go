package model

import (
	"fmt"
	"strings"
)

// Algorithm identifies a scheduling policy implemented by the engine.
type Algorithm string

const (
	AlgorithmFCFS                  Algorithm = "fcfs"
	AlgorithmSJF                   Algorithm = "sjf"
	AlgorithmPriorityNonPreemptive Algorithm = "priority_nonpreemptive"
	AlgorithmPriorityPreemptive    Algorithm = "priority_preemptive"
	AlgorithmRoundRobin            Algorithm = "round_robin"
	AlgorithmRateMonotonic         Algorithm = "rate_monotonic"
	AlgorithmEDF                   Algorithm = "edf"
)

// Algorithms lists every supported algorithm in display order.
var Algorithms = []Algorithm{
	AlgorithmFCFS,
	AlgorithmSJF,
	AlgorithmPriorityNonPreemptive,
	AlgorithmPriorityPreemptive,
	AlgorithmRoundRobin,
	AlgorithmRateMonotonic,
	AlgorithmEDF,
}

// engineNames maps each algorithm to the name the engine expects after --algo.
var engineNames = map[Algorithm]string{
	AlgorithmFCFS:                  "fcfs",
	AlgorithmSJF:                   "sjf",
	AlgorithmPriorityNonPreemptive: "priority_np",
	AlgorithmPriorityPreemptive:    "priority_preemp",
	AlgorithmRoundRobin:            "rr",
	AlgorithmRateMonotonic:         "rm",
	AlgorithmEDF:                   "edf",
}

// String returns the string representation of the algorithm.
func (a Algorithm) String() string {
	return string(a)
}

// Valid reports whether a is one of the supported algorithms.
func (a Algorithm) Valid() bool {
	_, ok := engineNames[a]
	return ok
}

// EngineName returns the engine's wire name, or "" for an unknown algorithm.
func (a Algorithm) EngineName() string {
	return engineNames[a]
}

// NeedsQuantum is true for algorithms that take a time quantum.
func (a Algorithm) NeedsQuantum() bool {
	return a == AlgorithmRoundRobin
}

// NeedsMaxTime is true for the real-time algorithms, which simulate up to a horizon.
func (a Algorithm) NeedsMaxTime() bool {
	return a == AlgorithmRateMonotonic || a == AlgorithmEDF
}

// ParseAlgorithm accepts either the long name ("round_robin") or the engine
// name ("rr"), case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, a := range Algorithms {
		if s == string(a) || s == engineNames[a] {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown algorithm %q", s)
}

// InputKind says where the engine gets its process list from.
type InputKind string

const (
	InputNone     InputKind = ""
	InputFile     InputKind = "file"
	InputGenerate InputKind = "generate"
)

// InputSource holds the raw input choices. Both fields may be set; Resolve
// decides which one is used.
type InputSource struct {
	Path  string `json:"file,omitempty" yaml:"file,omitempty"`
	Count int    `json:"generate,omitempty" yaml:"generate,omitempty"`
}

// FileSource reads processes from the file at path.
func FileSource(path string) InputSource {
	return InputSource{Path: path}
}

// RandomGeneration asks the engine to generate count random processes.
func RandomGeneration(count int) InputSource {
	return InputSource{Count: count}
}

// Resolve applies the precedence rule: a positive generation count wins over
// any file path. InputNone means neither is usable.
func (s InputSource) Resolve() InputKind {
	switch {
	case s.Count > 0:
		return InputGenerate
	case strings.TrimSpace(s.Path) != "":
		return InputFile
	}
	return InputNone
}

// SimulationConfig is the full set of choices for one run. It is built once
// per run and passed by value.
type SimulationConfig struct {
	Algorithm Algorithm   `json:"algorithm"`
	Input     InputSource `json:"input"`
	// Quantum is only read for round_robin.
	Quantum int `json:"quantum,omitempty"`
	// MaxTime is only read for rate_monotonic and edf.
	MaxTime int `json:"max_time,omitempty"`
}
