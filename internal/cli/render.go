package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/me/probsched/internal/proctable"
	"github.com/me/probsched/internal/simulation"
	"github.com/me/probsched/internal/timeline"
	"github.com/me/probsched/pkg/model"
)

const (
	outputText = "text"
	outputJSON = "json"

	statusComplete  = "simulation complete"
	timelineMissing = "[timeline data missing]"
	nothingToShow   = "nothing to display"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// renderReport prints a successful run. fileTable, if set, is shown when the
// engine did not report its processes.
func renderReport(w io.Writer, r *simulation.Report, fileTable *proctable.Table) {
	fmt.Fprintf(w, "Run %s: %s\n\n", r.RunID, r.Config.Algorithm)

	fmt.Fprintln(w, "Processes")
	switch {
	case len(r.Processes) > 0:
		renderProcesses(w, nil, r.Processes)
	case fileTable != nil:
		renderProcesses(w, fileTable.Header, fileTable.Processes)
	default:
		fmt.Fprintln(w, "(none reported)")
	}

	fmt.Fprintln(w, "\nStatistics")
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "Average waiting time\t%s\n", r.Stats.AvgWaitingTime)
	fmt.Fprintf(tw, "Average turnaround time\t%s\n", r.Stats.AvgTurnaroundTime)
	fmt.Fprintf(tw, "CPU utilization (%%)\t%s\n", r.Stats.CPUUtilization)
	fmt.Fprintf(tw, "Throughput\t%s\n", r.Stats.Throughput)
	fmt.Fprintf(tw, "Deadline misses\t%s\n", r.Stats.DeadlineMisses)
	tw.Flush()

	fmt.Fprintln(w, "\nTimeline")
	if r.HasTrace {
		fmt.Fprintln(w, r.Timeline)
	} else {
		fmt.Fprintln(w, timelineMissing)
	}

	fmt.Fprintln(w, "\nGantt")
	if len(r.Intervals) == 0 {
		fmt.Fprintln(w, nothingToShow)
	} else {
		renderIntervals(w, r.Intervals)
	}

	if r.EngineNote != "" {
		fmt.Fprintf(w, "\nEngine note: %s\n", r.EngineNote)
	}
	fmt.Fprintln(w)
}

func renderProcesses(w io.Writer, header []string, procs []model.ProcessRecord) {
	cols := []string{"ID", "START", "BURST", "PRIORITY/PERIOD"}
	if len(header) >= proctable.MinColumns {
		for i := range cols {
			cols[i] = strings.ToUpper(header[i])
		}
	}
	tw := newTabWriter(w)
	fmt.Fprintln(tw, strings.Join(cols, "\t"))
	for _, p := range procs {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", p.ID, p.StartTime, p.BurstTime, p.PriorityOrPeriod)
	}
	tw.Flush()
}

func renderIntervals(w io.Writer, intervals []model.GanttInterval) {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "LABEL\tSTART\tEND\tTICKS")
	for _, iv := range intervals {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", iv.Label, iv.Start, iv.End, iv.Len())
	}
	tw.Flush()

	span := timeline.Span(intervals)
	busy := timeline.Busy(intervals)
	fmt.Fprintf(w, "%d ticks, %d busy, %d idle, labels: %s\n",
		span, busy, span-busy, strings.Join(timeline.Labels(intervals), ", "))
}

// statusLine is the one-line summary of a failed run. limit is the engine
// time limit, or zero when unknown.
func statusLine(err error, limit time.Duration) string {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return "server: " + apiErr.Message
	}

	var re *model.RunError
	if !errors.As(err, &re) {
		return err.Error()
	}
	switch re.Kind {
	case model.KindConfiguration:
		return "invalid configuration: " + re.Message
	case model.KindEngineNotFound:
		return "engine not found: " + re.Message
	case model.KindTimeout:
		if limit > 0 {
			return fmt.Sprintf("simulation exceeded the %s limit", limit)
		}
		return "simulation exceeded the time limit"
	case model.KindEngineReportedError:
		return "engine error: " + re.Message
	case model.KindProcessFailedOpaque:
		return fmt.Sprintf("engine failed (exit code %d)", re.ExitCode)
	case model.KindProcessFailedMalformed:
		return fmt.Sprintf("engine failed (exit code %d) and its output is not valid JSON", re.ExitCode)
	case model.KindMalformedSuccessOutput:
		return "engine output is not valid JSON"
	case model.KindResultProcessing:
		return "could not process engine results: " + re.Message
	}
	return re.Error()
}

// printFailure writes the engine's output for the failures that carry it.
func printFailure(w io.Writer, err error) {
	var re *model.RunError
	if errors.As(err, &re) {
		switch re.Kind {
		case model.KindProcessFailedOpaque, model.KindProcessFailedMalformed, model.KindMalformedSuccessOutput:
			printStream(w, "stderr", re.Stderr)
			printStream(w, "stdout", re.Stdout)
		}
		return
	}

	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		for _, d := range apiErr.Details {
			if d.Field == "stdout" || d.Field == "stderr" {
				printStream(w, d.Field, d.Message)
			}
		}
	}
}

func printStream(w io.Writer, name, content string) {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return
	}
	fmt.Fprintf(w, "--- engine %s ---\n%s\n", name, content)
}
