// Package timeline decodes the engine's per-tick execution trace into Gantt
// intervals.
package timeline

import (
	"regexp"
	"sort"

	"github.com/me/probsched/pkg/model"
)

// RawIdle is the engine's token for a tick with no running process.
const RawIdle = "-"

var tokenPattern = regexp.MustCompile(`\[(.*?)\]`)

// Tokens returns the bracketed tokens of trace in order, one per tick.
// Text outside brackets is ignored.
func Tokens(trace string) []string {
	matches := tokenPattern.FindAllStringSubmatch(trace, -1)
	tokens := make([]string, len(matches))
	for i, m := range matches {
		tokens[i] = m[1]
	}
	return tokens
}

// Decode groups consecutive identical tokens into intervals. Tick 0 is the
// first token; an interval covers [Start, End). The idle token is relabeled
// to model.IdleLabel. A trace without tokens yields an empty slice.
func Decode(trace string) []model.GanttInterval {
	tokens := Tokens(trace)
	intervals := []model.GanttInterval{}
	if len(tokens) == 0 {
		return intervals
	}

	current, runStart := tokens[0], 0
	for tick := 1; tick < len(tokens); tick++ {
		if tokens[tick] == current {
			continue
		}
		intervals = append(intervals, interval(current, runStart, tick))
		current, runStart = tokens[tick], tick
	}
	return append(intervals, interval(current, runStart, len(tokens)))
}

func interval(label string, start, end int) model.GanttInterval {
	if label == RawIdle {
		label = model.IdleLabel
	}
	return model.GanttInterval{Label: label, Start: start, End: end}
}

// Span returns the number of ticks the intervals cover.
func Span(intervals []model.GanttInterval) int {
	if len(intervals) == 0 {
		return 0
	}
	return intervals[len(intervals)-1].End - intervals[0].Start
}

// Labels returns the distinct labels, sorted, one per chart row.
func Labels(intervals []model.GanttInterval) []string {
	seen := make(map[string]bool)
	var labels []string
	for _, iv := range intervals {
		if !seen[iv.Label] {
			seen[iv.Label] = true
			labels = append(labels, iv.Label)
		}
	}
	sort.Strings(labels)
	return labels
}

// Busy returns the number of ticks in which some process ran.
func Busy(intervals []model.GanttInterval) int {
	n := 0
	for _, iv := range intervals {
		if !iv.IsIdle() {
			n += iv.Len()
		}
	}
	return n
}
