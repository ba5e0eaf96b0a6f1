package model

import "encoding/json"

// IdleLabel is the display label for ticks where no process runs.
const IdleLabel = "CPU IDLE"

// ProcessRecord is one row of a process table, either loaded from a file or
// generated by the engine.
type ProcessRecord struct {
	ID               string `json:"id"`
	StartTime        int    `json:"start_time"`
	BurstTime        int    `json:"burst_time"`
	PriorityOrPeriod int    `json:"priority_or_period"`
}

// EngineOutcome is the raw result of one engine invocation.
type EngineOutcome struct {
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	TimedOut bool   `json:"timed_out"`
}

// Stats holds the engine's statistics undecoded, so that one missing or
// mistyped field does not affect the others.
type Stats struct {
	AvgWaitingTime    json.RawMessage `json:"avg_waiting_time,omitempty"`
	AvgTurnaroundTime json.RawMessage `json:"avg_turnaround_time,omitempty"`
	CPUUtilization    json.RawMessage `json:"cpu_utilization,omitempty"`
	Throughput        json.RawMessage `json:"throughput,omitempty"`
	DeadlineMisses    json.RawMessage `json:"deadline_misses,omitempty"`
}

// SimulationResult is the parsed engine payload.
type SimulationResult struct {
	Success       bool            `json:"success"`
	Error         *string         `json:"error,omitempty"`
	Stats         *Stats          `json:"stats,omitempty"`
	Processes     []ProcessRecord `json:"processes"`
	TimelineTrace *string         `json:"timeline,omitempty"`
}

// GanttInterval is a maximal run of ticks attributed to one label, covering
// [Start, End).
type GanttInterval struct {
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Len returns the number of ticks in the interval.
func (g GanttInterval) Len() int {
	return g.End - g.Start
}

// IsIdle reports whether the interval is CPU idle time.
func (g GanttInterval) IsIdle() bool {
	return g.Label == IdleLabel
}
